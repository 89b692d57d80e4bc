package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Shift    ShiftConfig
	Clients  ClientConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	DBName     string
	SSLMode    string
	TestDBName string // Separate database for testing
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret string
}

// ShiftConfig holds the session lifecycle policy knobs.
type ShiftConfig struct {
	// DeadZoneCutoffMinutes ends the overnight-shift dead zone, in minutes
	// since midnight. Default 300 (05:00).
	DeadZoneCutoffMinutes int

	// AuditAdminOpen controls whether AdminOpen writes an audit entry like
	// HardClose and Reopen do. The observed behavior audits only the latter
	// two, so the default is off.
	AuditAdminOpen bool

	// ExemptCategory is the one category whose manual transactions use the
	// pending/confirmed flow instead of closing evidence.
	ExemptCategory string

	// CancelSecret gates the destructive cancel-while-open operation.
	CancelSecret string
}

// ClientConfig holds base URLs for the external collaborators.
type ClientConfig struct {
	EvidenceStoreURL string
	ExtractorURL     string
	NotifierURL      string
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvAsInt("DB_PORT", 5432),
			Username:   getEnv("DB_USERNAME", "postgres"),
			Password:   getEnv("DB_PASSWORD", "password"),
			DBName:     getEnv("DB_NAME", "shiftapp"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			TestDBName: getEnv("TEST_DB_NAME", "shiftapp_test"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "your-secret-key-here"),
		},
		Shift: ShiftConfig{
			DeadZoneCutoffMinutes: getEnvAsInt("SHIFT_DEAD_ZONE_CUTOFF_MINUTES", 300),
			AuditAdminOpen:        getEnvAsBool("SHIFT_AUDIT_ADMIN_OPEN", false),
			ExemptCategory:        getEnv("SHIFT_EXEMPT_CATEGORY", "tokens"),
			CancelSecret:          getEnv("SHIFT_CANCEL_SECRET", ""),
		},
		Clients: ClientConfig{
			EvidenceStoreURL: getEnv("EVIDENCE_STORE_URL", ""),
			ExtractorURL:     getEnv("EXTRACTOR_URL", ""),
			NotifierURL:      getEnv("NOTIFIER_URL", ""),
		},
	}
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
