package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create shift_assignments table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS shift_assignments (
			id VARCHAR(36) PRIMARY KEY,
			worker_id VARCHAR(36) NOT NULL REFERENCES users(id),
			shift_name VARCHAR(255) NOT NULL,
			start_time VARCHAR(5) NOT NULL,
			end_time VARCHAR(5) NOT NULL,
			date VARCHAR(10) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create shift_sessions table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS shift_sessions (
			id VARCHAR(36) PRIMARY KEY,
			worker_id VARCHAR(36) NOT NULL REFERENCES users(id),
			assignment_id VARCHAR(36) NOT NULL REFERENCES shift_assignments(id),
			status VARCHAR(10) NOT NULL,
			opened_at TIMESTAMP NOT NULL,
			closed_at TIMESTAMP,
			closing_note TEXT NOT NULL DEFAULT '',
			supervisor_note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// The single-open-session-per-worker invariant lives here: concurrent
	// Opens for one worker race on this index, not on application state.
	_, err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_open_session_per_worker
		ON shift_sessions (worker_id) WHERE status = 'open'
	`)
	if err != nil {
		return err
	}

	// Create balance_ledger_entries table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS balance_ledger_entries (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL REFERENCES shift_sessions(id),
			category VARCHAR(255) NOT NULL,
			opening_amount NUMERIC(20,4) NOT NULL DEFAULT 0,
			opening_evidence_url TEXT,
			closing_amount NUMERIC(20,4) NOT NULL DEFAULT 0,
			closing_evidence_url TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (session_id, category)
		)
	`)
	if err != nil {
		return err
	}

	// Create cash_categories table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cash_categories (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			high_priority BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create pending_transactions table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pending_transactions (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL REFERENCES shift_sessions(id),
			category VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			amount NUMERIC(20,4) NOT NULL,
			entered_by VARCHAR(36) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create confirmed_transactions table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS confirmed_transactions (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL REFERENCES shift_sessions(id),
			category VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			amount NUMERIC(20,4) NOT NULL,
			entered_by VARCHAR(36) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			sequence_number BIGINT NOT NULL,
			confirmed_by VARCHAR(36) NOT NULL,
			confirmed_at TIMESTAMP NOT NULL,
			UNIQUE (session_id, sequence_number)
		)
	`)
	if err != nil {
		return err
	}

	// Create audit_log_entries table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_log_entries (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL,
			assignment_id VARCHAR(36) NOT NULL,
			supervisor_id VARCHAR(36) NOT NULL,
			action VARCHAR(20) NOT NULL,
			shift_name VARCHAR(255) NOT NULL,
			assignment_date VARCHAR(10) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_sessions_worker ON shift_sessions(worker_id)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_assignment ON shift_sessions(assignment_id)",
		"CREATE INDEX IF NOT EXISTS idx_assignments_worker_date ON shift_assignments(worker_id, date)",
		"CREATE INDEX IF NOT EXISTS idx_ledger_session ON balance_ledger_entries(session_id)",
		"CREATE INDEX IF NOT EXISTS idx_pending_tx_session ON pending_transactions(session_id)",
		"CREATE INDEX IF NOT EXISTS idx_confirmed_tx_session ON confirmed_transactions(session_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_session ON audit_log_entries(session_id)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
