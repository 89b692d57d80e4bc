package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/opsdesk/shift-server/internal/api"
	"github.com/opsdesk/shift-server/internal/client"
	"github.com/opsdesk/shift-server/internal/config"
	"github.com/opsdesk/shift-server/internal/models"
	"github.com/opsdesk/shift-server/internal/repository"
	"github.com/opsdesk/shift-server/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// TestCancelSecret is the destructive-cancel secret used by the test service.
const TestCancelSecret = "test-cancel-secret"

// TestExemptCategory is the confirmation-flow category used by the test service.
const TestExemptCategory = "tokens"

// TestContext holds all dependencies for tests
type TestContext struct {
	Router        *gin.Engine
	Repository    repository.Repository
	Service       service.Service
	JWTSecret     []byte
	DB            *sqlx.DB
	WorkerID      string
	WorkerJWT     string
	SupervisorID  string
	SupervisorJWT string
}

// SetupTestContext creates a new test context with initialized dependencies
func SetupTestContext(t *testing.T) *TestContext {
	// Load configuration from environment
	cfg := config.LoadConfig()

	// Override with test-specific config
	if cfg.Database.DBName == "shiftapp" && cfg.Database.TestDBName != "" {
		cfg.Database.DBName = cfg.Database.TestDBName
	} else if cfg.Database.TestDBName == "" {
		// Fallback to hardcoded test DB if not in environment
		cfg.Database.DBName = "shiftapp_test"
	}

	// Use a test JWT secret
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "test-secret-key"
	}

	cfg.Shift.CancelSecret = TestCancelSecret
	cfg.Shift.ExemptCategory = TestExemptCategory

	// Set up database
	db, err := config.SetupDatabase(cfg)
	assert.NoError(t, err, "Failed to set up test database")

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Create service with in-memory collaborators
	svc := service.NewDefaultService(
		repo,
		cfg.Auth.JWTSecret,
		cfg.Shift,
		NewMemEvidenceStore(),
		nil,
		client.NoopNotifier{},
		zerolog.Nop(),
	)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	cleanupTestDatabase(t, repo)

	workerID, workerJWT := createTestUser(t, repo, cfg.Auth.JWTSecret, "worker@example.com", models.RoleWorker)
	supervisorID, supervisorJWT := createTestUser(t, repo, cfg.Auth.JWTSecret, "supervisor@example.com", models.RoleSupervisor)

	return &TestContext{
		Router:        router,
		Repository:    repo,
		Service:       svc,
		JWTSecret:     []byte(cfg.Auth.JWTSecret),
		DB:            db,
		WorkerID:      workerID,
		WorkerJWT:     workerJWT,
		SupervisorID:  supervisorID,
		SupervisorJWT: supervisorJWT,
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	if t.DB != nil {
		cleanupTestDatabase(nil, t.Repository)
		t.DB.Close()
	}
}

// cleanupTestDatabase removes any existing test data
func cleanupTestDatabase(t *testing.T, repo repository.Repository) {
	pgRepo, ok := repo.(*repository.PostgresRepository)
	if !ok {
		return
	}
	db := pgRepo.GetDB()

	// Delete in dependency order
	tables := []string{
		"audit_log_entries",
		"pending_transactions",
		"confirmed_transactions",
		"balance_ledger_entries",
		"shift_sessions",
		"shift_assignments",
		"cash_categories",
		"users",
	}
	for _, table := range tables {
		_, err := db.Exec("DELETE FROM " + table)
		if t != nil && err != nil {
			t.Logf("Warning: Failed to clean %s: %v", table, err)
		}
	}
}

// Helper functions
func createTestUser(t *testing.T, repo repository.Repository, jwtSecret, email, role string) (string, string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      "Test " + role,
		Password:  string(hashedPassword),
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	// Generate JWT token with the provided secret key
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(jwtSecret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return user.ID, tokenString
}

// CreateAssignment seeds one shift assignment. An all-day window keeps the
// time-window guard out of the way unless a test wants it.
func CreateAssignment(t *testing.T, repo repository.Repository, workerID, shiftName, startTime, endTime string) *models.ShiftAssignment {
	assignment := &models.ShiftAssignment{
		WorkerID:  workerID,
		ShiftName: shiftName,
		StartTime: startTime,
		EndTime:   endTime,
		Date:      time.Now().Format("2006-01-02"),
	}

	err := repo.CreateAssignment(context.Background(), assignment)
	assert.NoError(t, err, "Failed to create test assignment")

	return assignment
}

// CreateAllDayAssignment is the common case: open-able right now.
func CreateAllDayAssignment(t *testing.T, repo repository.Repository, workerID, shiftName string) *models.ShiftAssignment {
	return CreateAssignment(t, repo, workerID, shiftName, "00:00", "23:59")
}

// SeedCategories creates active high-priority categories with the given names.
func SeedCategories(t *testing.T, repo repository.Repository, names ...string) {
	for _, name := range names {
		err := repo.CreateCategory(context.Background(), &models.CashCategory{
			Name:         name,
			Active:       true,
			HighPriority: true,
		})
		assert.NoError(t, err, "Failed to create test category")
	}
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// MemEvidenceStore keeps uploaded blobs in memory for tests.
type MemEvidenceStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	n     int
}

func NewMemEvidenceStore() *MemEvidenceStore {
	return &MemEvidenceStore{blobs: make(map[string][]byte)}
}

func (s *MemEvidenceStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	url := fmt.Sprintf("mem://evidence/%d", s.n)
	s.blobs[url] = data
	return url, nil
}

func (s *MemEvidenceStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, url)
	return nil
}
