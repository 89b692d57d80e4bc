package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/opsdesk/shift-server/internal/models"
	"github.com/opsdesk/shift-server/internal/shift"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index when two Opens race for the same worker.
const uniqueViolation = "23505"

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Assignment operations
	CreateAssignment(ctx context.Context, assignment *models.ShiftAssignment) error
	GetAssignment(ctx context.Context, id string) (*models.ShiftAssignment, error)

	// Category operations
	CreateCategory(ctx context.Context, category *models.CashCategory) error
	GetRequiredCategories(ctx context.Context, exemptCategory string) ([]string, error)

	// Session operations
	CreateOpenSession(ctx context.Context, session *models.ShiftSession, entries []models.BalanceLedgerEntry) error
	GetSession(ctx context.Context, id string) (*models.ShiftSession, error)
	GetOpenSessionForWorker(ctx context.Context, workerID string) (*models.ShiftSession, error)
	GetSessionsForWorkerDate(ctx context.Context, workerID, date string) ([]models.SessionView, error)
	CloseSession(ctx context.Context, sessionID, note string, closedAt time.Time, entries []models.BalanceLedgerEntry) error
	HardCloseSession(ctx context.Context, sessionID, supervisorNote string, closedAt time.Time) error
	MarkSessionReopened(ctx context.Context, sessionID, supervisorNote string) error
	DeleteSessionCascade(ctx context.Context, sessionID string) error

	// Balance ledger operations
	UpsertOpeningFigure(ctx context.Context, sessionID, category string, amount *decimal.Decimal, evidenceURL *string) error
	UpsertClosingFigure(ctx context.Context, sessionID, category string, amount *decimal.Decimal, evidenceURL *string) error
	GetLedgerEntries(ctx context.Context, sessionID string) ([]models.BalanceLedgerEntry, error)
	ResetClosingAmounts(ctx context.Context, sessionID string) error

	// Transaction operations
	CreatePendingTransaction(ctx context.Context, tx *models.PendingTransaction) error
	GetPendingTransaction(ctx context.Context, id string) (*models.PendingTransaction, error)
	GetPendingTransactions(ctx context.Context, sessionID string) ([]models.PendingTransaction, error)
	DeletePendingTransaction(ctx context.Context, id string) error
	CountPendingTransactions(ctx context.Context, sessionID string) (int, error)
	ConfirmTransaction(ctx context.Context, id, confirmedBy string) (*models.ConfirmedTransaction, error)
	GetConfirmedTransactions(ctx context.Context, sessionID string) ([]models.ConfirmedTransaction, error)
	MigrateConfirmedToPending(ctx context.Context, sessionID string) error

	// Audit operations
	AppendAuditEntry(ctx context.Context, entry *models.AuditLogEntry) error
	GetAuditEntries(ctx context.Context, sessionID string) ([]models.AuditLogEntry, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.Role, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Assignment repository methods
func (r *PostgresRepository) CreateAssignment(ctx context.Context, assignment *models.ShiftAssignment) error {
	query := `
		INSERT INTO shift_assignments (id, worker_id, shift_name, start_time, end_time, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	assignment.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID, assignment.WorkerID, assignment.ShiftName,
		assignment.StartTime, assignment.EndTime, assignment.Date, assignment.CreatedAt)

	return err
}

func (r *PostgresRepository) GetAssignment(ctx context.Context, id string) (*models.ShiftAssignment, error) {
	query := `SELECT * FROM shift_assignments WHERE id = $1`

	var assignment models.ShiftAssignment
	err := r.db.GetContext(ctx, &assignment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &assignment, nil
}

// Category repository methods
func (r *PostgresRepository) CreateCategory(ctx context.Context, category *models.CashCategory) error {
	query := `
		INSERT INTO cash_categories (id, name, active, high_priority, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Active, category.HighPriority, category.CreatedAt)

	return err
}

// GetRequiredCategories computes the set fresh at gate-evaluation time: all
// active high-priority categories except the exempt one.
func (r *PostgresRepository) GetRequiredCategories(ctx context.Context, exemptCategory string) ([]string, error) {
	query := `
		SELECT name FROM cash_categories
		WHERE active = TRUE AND high_priority = TRUE AND name <> $1
		ORDER BY name
	`

	var names []string
	err := r.db.SelectContext(ctx, &names, query, exemptCategory)
	if err != nil {
		return nil, err
	}

	return names, nil
}

// Session repository methods

// CreateOpenSession inserts the session and its staged opening ledger rows in
// one transaction. The check-then-insert runs under the partial unique index
// on (worker_id) WHERE status='open', so a race between two Opens for the
// same worker surfaces as a unique violation here and degrades to a
// precondition failure carrying the surviving session's id.
func (r *PostgresRepository) CreateOpenSession(ctx context.Context, session *models.ShiftSession, entries []models.BalanceLedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	// Check first so the common case reports the conflicting session without
	// relying on error-path parsing.
	var conflictID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM shift_sessions WHERE worker_id = $1 AND status = 'open'`,
		session.WorkerID).Scan(&conflictID)
	if err == nil {
		err = &shift.PreconditionError{
			Reason:            shift.ReasonOpenSessionExists,
			ConflictSessionID: conflictID,
		}
		return err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	err = nil

	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	session.Status = models.SessionStatusOpen
	if session.OpenedAt.IsZero() {
		session.OpenedAt = now
	}
	session.CreatedAt = now
	session.UpdatedAt = now

	query := `
		INSERT INTO shift_sessions
			(id, worker_id, assignment_id, status, opened_at, closed_at, closing_note, supervisor_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, '', '', $6, $7)
	`

	_, err = tx.ExecContext(ctx, query,
		session.ID, session.WorkerID, session.AssignmentID, session.Status,
		session.OpenedAt, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		err = r.degradeOpenConflict(ctx, err, session.WorkerID)
		return err
	}

	// Persist any ledger rows staged before Open was called.
	for i := range entries {
		entries[i].SessionID = session.ID
		err = upsertOpeningFigureTx(ctx, tx, &entries[i])
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// degradeOpenConflict converts a unique-violation on the open-session index
// into the structured precondition error, so a raced Open never surfaces a
// raw storage error.
func (r *PostgresRepository) degradeOpenConflict(ctx context.Context, err error, workerID string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}

	conflict, lookupErr := r.GetOpenSessionForWorker(ctx, workerID)
	pe := &shift.PreconditionError{Reason: shift.ReasonOpenSessionExists}
	if lookupErr == nil && conflict != nil {
		pe.ConflictSessionID = conflict.ID
	}
	return pe
}

func (r *PostgresRepository) GetSession(ctx context.Context, id string) (*models.ShiftSession, error) {
	query := `SELECT * FROM shift_sessions WHERE id = $1`

	var session models.ShiftSession
	err := r.db.GetContext(ctx, &session, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Session not found
		}
		return nil, err
	}

	return &session, nil
}

func (r *PostgresRepository) GetOpenSessionForWorker(ctx context.Context, workerID string) (*models.ShiftSession, error) {
	query := `SELECT * FROM shift_sessions WHERE worker_id = $1 AND status = 'open'`

	var session models.ShiftSession
	err := r.db.GetContext(ctx, &session, query, workerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

// GetSessionsForWorkerDate is the single day-window query shared by the
// employee flow and the supervisor follow-up view.
func (r *PostgresRepository) GetSessionsForWorkerDate(ctx context.Context, workerID, date string) ([]models.SessionView, error) {
	query := `
		SELECT s.id, s.worker_id, s.assignment_id, s.status, s.opened_at, s.closed_at,
		       s.closing_note, s.supervisor_note, s.created_at, s.updated_at,
		       a.id, a.worker_id, a.shift_name, a.start_time, a.end_time, a.date, a.created_at
		FROM shift_sessions s
		JOIN shift_assignments a ON s.assignment_id = a.id
		WHERE s.worker_id = $1 AND a.date = $2
		ORDER BY s.opened_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, workerID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.SessionView
	for rows.Next() {
		var v models.SessionView
		err := rows.Scan(
			&v.Session.ID, &v.Session.WorkerID, &v.Session.AssignmentID, &v.Session.Status,
			&v.Session.OpenedAt, &v.Session.ClosedAt, &v.Session.ClosingNote,
			&v.Session.SupervisorNote, &v.Session.CreatedAt, &v.Session.UpdatedAt,
			&v.Assignment.ID, &v.Assignment.WorkerID, &v.Assignment.ShiftName,
			&v.Assignment.StartTime, &v.Assignment.EndTime, &v.Assignment.Date,
			&v.Assignment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return views, rows.Err()
}

// CloseSession upserts the closing figures and flips the session to closed in
// one transaction. The session row is locked first, and the pending count is
// re-checked under that lock: a CreatePendingTransaction racing the close
// either commits its row before the count runs here, or blocks until the
// close commits and then sees the closed status.
func (r *PostgresRepository) CloseSession(ctx context.Context, sessionID, note string, closedAt time.Time, entries []models.BalanceLedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM shift_sessions WHERE id = $1 FOR UPDATE`, sessionID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = shift.ErrSessionNotFound
		}
		return err
	}
	if status != models.SessionStatusOpen {
		err = shift.ErrSessionNotOpen
		return err
	}

	for i := range entries {
		entries[i].SessionID = sessionID
		err = upsertClosingFigureTx(ctx, tx, &entries[i])
		if err != nil {
			return err
		}
	}

	var pending int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_transactions WHERE session_id = $1`, sessionID).Scan(&pending)
	if err != nil {
		return err
	}
	if pending > 0 {
		err = &shift.PreconditionError{
			Reason:              shift.ReasonPendingTransactions,
			PendingTransactions: pending,
		}
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE shift_sessions
		 SET status = 'closed', closed_at = $2, closing_note = $3, updated_at = $4
		 WHERE id = $1 AND status = 'open'`,
		sessionID, closedAt, note, time.Now().UTC())
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) HardCloseSession(ctx context.Context, sessionID, supervisorNote string, closedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shift_sessions
		 SET status = 'closed', closed_at = $2, supervisor_note = $3, updated_at = $4
		 WHERE id = $1 AND status = 'open'`,
		sessionID, closedAt, supervisorNote, time.Now().UTC())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return shift.ErrSessionNotOpen
	}

	return nil
}

// MarkSessionReopened flips a closed session back to open and clears
// closed_at. The partial unique index still applies, so reopening while the
// worker has another open session degrades to a precondition failure.
func (r *PostgresRepository) MarkSessionReopened(ctx context.Context, sessionID, supervisorNote string) error {
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return shift.ErrSessionNotFound
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE shift_sessions
		 SET status = 'open', closed_at = NULL, supervisor_note = $2, updated_at = $3
		 WHERE id = $1 AND status = 'closed'`,
		sessionID, supervisorNote, time.Now().UTC())
	if err != nil {
		return r.degradeOpenConflict(ctx, err, session.WorkerID)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return shift.ErrSessionNotClosed
	}

	return nil
}

// DeleteSessionCascade removes the session and every dependent row. Only the
// destructive cancel-while-open path uses this.
func (r *PostgresRepository) DeleteSessionCascade(ctx context.Context, sessionID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	// Delete dependent rows first (due to foreign key constraints)
	_, err = tx.ExecContext(ctx, `DELETE FROM pending_transactions WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM confirmed_transactions WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM balance_ledger_entries WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM shift_sessions WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Balance ledger repository methods

const upsertOpeningQuery = `
	INSERT INTO balance_ledger_entries
		(id, session_id, category, opening_amount, opening_evidence_url, closing_amount, created_at, updated_at)
	VALUES ($1, $2, $3, COALESCE($4, 0), $5, 0, $6, $6)
	ON CONFLICT (session_id, category) DO UPDATE SET
		opening_amount = COALESCE($4, balance_ledger_entries.opening_amount),
		opening_evidence_url = COALESCE($5, balance_ledger_entries.opening_evidence_url),
		updated_at = $6
`

const upsertClosingQuery = `
	INSERT INTO balance_ledger_entries
		(id, session_id, category, opening_amount, closing_amount, closing_evidence_url, created_at, updated_at)
	VALUES ($1, $2, $3, 0, COALESCE($4, 0), $5, $6, $6)
	ON CONFLICT (session_id, category) DO UPDATE SET
		closing_amount = COALESCE($4, balance_ledger_entries.closing_amount),
		closing_evidence_url = COALESCE($5, balance_ledger_entries.closing_evidence_url),
		updated_at = $6
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsertFigure(ctx context.Context, e execer, query string, entry *models.BalanceLedgerEntry, amount *decimal.Decimal, evidenceURL *string) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	var amountArg interface{}
	if amount != nil {
		amountArg = *amount
	}

	_, err := e.ExecContext(ctx, query,
		entry.ID, entry.SessionID, entry.Category, amountArg, evidenceURL, time.Now().UTC())
	return err
}

func upsertOpeningFigureTx(ctx context.Context, tx *sql.Tx, entry *models.BalanceLedgerEntry) error {
	amount := entry.OpeningAmount
	return upsertFigure(ctx, tx, upsertOpeningQuery, entry, &amount, entry.OpeningEvidenceURL)
}

func upsertClosingFigureTx(ctx context.Context, tx *sql.Tx, entry *models.BalanceLedgerEntry) error {
	amount := entry.ClosingAmount
	return upsertFigure(ctx, tx, upsertClosingQuery, entry, &amount, entry.ClosingEvidenceURL)
}

// UpsertOpeningFigure writes the opening amount and/or evidence for one
// (session, category) pair. Nil arguments leave the stored value untouched,
// so an evidence attach racing a manual amount edit cannot lose either write.
func (r *PostgresRepository) UpsertOpeningFigure(ctx context.Context, sessionID, category string, amount *decimal.Decimal, evidenceURL *string) error {
	entry := &models.BalanceLedgerEntry{SessionID: sessionID, Category: category}
	return upsertFigure(ctx, r.db, upsertOpeningQuery, entry, amount, evidenceURL)
}

// UpsertClosingFigure is the closing-phase counterpart of UpsertOpeningFigure.
func (r *PostgresRepository) UpsertClosingFigure(ctx context.Context, sessionID, category string, amount *decimal.Decimal, evidenceURL *string) error {
	entry := &models.BalanceLedgerEntry{SessionID: sessionID, Category: category}
	return upsertFigure(ctx, r.db, upsertClosingQuery, entry, amount, evidenceURL)
}

func (r *PostgresRepository) GetLedgerEntries(ctx context.Context, sessionID string) ([]models.BalanceLedgerEntry, error) {
	query := `SELECT * FROM balance_ledger_entries WHERE session_id = $1 ORDER BY category`

	var entries []models.BalanceLedgerEntry
	err := r.db.SelectContext(ctx, &entries, query, sessionID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ResetClosingAmounts zeroes every closing amount for the session, leaving
// closing evidence references untouched. Reopen uses this: images are not
// re-requested, only the numeric figures become provisional again.
func (r *PostgresRepository) ResetClosingAmounts(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE balance_ledger_entries SET closing_amount = 0, updated_at = $2 WHERE session_id = $1`,
		sessionID, time.Now().UTC())
	return err
}

// Transaction repository methods

// CreatePendingTransaction inserts the row under a lock on the session row,
// so an insert racing CloseSession cannot land after the close's pending-count
// check: whichever transaction locks first, the other observes its outcome.
func (r *PostgresRepository) CreatePendingTransaction(ctx context.Context, ptx *models.PendingTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM shift_sessions WHERE id = $1 FOR UPDATE`, ptx.SessionID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = shift.ErrSessionNotFound
		}
		return err
	}
	if status != models.SessionStatusOpen {
		err = shift.ErrSessionNotOpen
		return err
	}

	if ptx.ID == "" {
		ptx.ID = uuid.New().String()
	}
	if ptx.CreatedAt.IsZero() {
		ptx.CreatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pending_transactions (id, session_id, category, description, amount, entered_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ptx.ID, ptx.SessionID, ptx.Category, ptx.Description, ptx.Amount, ptx.EnteredBy, ptx.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetPendingTransaction(ctx context.Context, id string) (*models.PendingTransaction, error) {
	query := `SELECT * FROM pending_transactions WHERE id = $1`

	var ptx models.PendingTransaction
	err := r.db.GetContext(ctx, &ptx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &ptx, nil
}

func (r *PostgresRepository) GetPendingTransactions(ctx context.Context, sessionID string) ([]models.PendingTransaction, error) {
	query := `SELECT * FROM pending_transactions WHERE session_id = $1 ORDER BY created_at ASC`

	var txs []models.PendingTransaction
	err := r.db.SelectContext(ctx, &txs, query, sessionID)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *PostgresRepository) DeletePendingTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return shift.ErrTransactionNotFound
	}

	return nil
}

func (r *PostgresRepository) CountPendingTransactions(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM pending_transactions WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ConfirmTransaction moves one pending row to the confirmed set, assigning
// the next per-session sequence number atomically.
func (r *PostgresRepository) ConfirmTransaction(ctx context.Context, id, confirmedBy string) (*models.ConfirmedTransaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var pending models.PendingTransaction
	err = tx.QueryRowContext(ctx,
		`SELECT id, session_id, category, description, amount, entered_by, created_at
		 FROM pending_transactions WHERE id = $1 FOR UPDATE`, id).
		Scan(&pending.ID, &pending.SessionID, &pending.Category, &pending.Description,
			&pending.Amount, &pending.EnteredBy, &pending.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = shift.ErrTransactionNotFound
		}
		return nil, err
	}

	// Serialize sequence assignment per session: without this lock two
	// confirms of different transactions read the same MAX and collide on
	// UNIQUE(session_id, sequence_number).
	var lockedSessionID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM shift_sessions WHERE id = $1 FOR UPDATE`,
		pending.SessionID).Scan(&lockedSessionID)
	if err != nil {
		return nil, err
	}

	var nextSeq int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sequence_number), 0) + 1 FROM confirmed_transactions WHERE session_id = $1`,
		pending.SessionID).Scan(&nextSeq)
	if err != nil {
		return nil, err
	}

	confirmed := &models.ConfirmedTransaction{
		ID:             pending.ID,
		SessionID:      pending.SessionID,
		Category:       pending.Category,
		Description:    pending.Description,
		Amount:         pending.Amount,
		EnteredBy:      pending.EnteredBy,
		CreatedAt:      pending.CreatedAt,
		SequenceNumber: nextSeq,
		ConfirmedBy:    confirmedBy,
		ConfirmedAt:    time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO confirmed_transactions
			(id, session_id, category, description, amount, entered_by, created_at, sequence_number, confirmed_by, confirmed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		confirmed.ID, confirmed.SessionID, confirmed.Category, confirmed.Description,
		confirmed.Amount, confirmed.EnteredBy, confirmed.CreatedAt,
		confirmed.SequenceNumber, confirmed.ConfirmedBy, confirmed.ConfirmedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM pending_transactions WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return confirmed, nil
}

func (r *PostgresRepository) GetConfirmedTransactions(ctx context.Context, sessionID string) ([]models.ConfirmedTransaction, error) {
	query := `SELECT * FROM confirmed_transactions WHERE session_id = $1 ORDER BY sequence_number ASC`

	var txs []models.ConfirmedTransaction
	err := r.db.SelectContext(ctx, &txs, query, sessionID)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// MigrateConfirmedToPending copies every confirmed transaction for the
// session back to the pending set, dropping only the confirmation fields,
// then deletes the confirmed rows. The copy and delete share one transaction
// so a retry after failure sees either all rows migrated or none.
func (r *PostgresRepository) MigrateConfirmedToPending(ctx context.Context, sessionID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pending_transactions (id, session_id, category, description, amount, entered_by, created_at)
		 SELECT id, session_id, category, description, amount, entered_by, created_at
		 FROM confirmed_transactions WHERE session_id = $1`,
		sessionID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM confirmed_transactions WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Audit repository methods

// AppendAuditEntry inserts one audit row. No update or delete operation is
// exposed for this table.
func (r *PostgresRepository) AppendAuditEntry(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log_entries
			(id, session_id, assignment_id, supervisor_id, action, shift_name, assignment_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.SessionID, entry.AssignmentID, entry.SupervisorID,
		entry.Action, entry.ShiftName, entry.AssignmentDate, entry.CreatedAt)

	return err
}

func (r *PostgresRepository) GetAuditEntries(ctx context.Context, sessionID string) ([]models.AuditLogEntry, error) {
	query := `SELECT * FROM audit_log_entries WHERE session_id = $1 ORDER BY created_at ASC`

	var entries []models.AuditLogEntry
	err := r.db.SelectContext(ctx, &entries, query, sessionID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
