package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/opsdesk/shift-server/internal/api/testutils"
	"github.com/opsdesk/shift-server/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func openSessionWithEntry(t *testing.T, testCtx *testutils.TestContext, assignmentID string) string {
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/sessions/open",
		models.OpenSessionRequest{
			AssignmentID: assignmentID,
			Entries: []models.LedgerEntryInput{
				{Category: "counter-a", Amount: decimal.NewFromInt(100), EvidenceURL: strPtr("https://img/open-a.jpg")},
			},
		},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusCreated, w.Code)

	var sessionResp models.SessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &sessionResp))
	return sessionResp.Session.ID
}

func getLedgerEntry(t *testing.T, testCtx *testutils.TestContext, sessionID, category string) models.BalanceLedgerEntry {
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/sessions/%s/ledger", sessionID),
		nil,
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var ledgerResp models.LedgerResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &ledgerResp))
	for _, e := range ledgerResp.Entries {
		if e.Category == category {
			return e
		}
	}
	t.Fatalf("no ledger entry for category %s", category)
	return models.BalanceLedgerEntry{}
}

// TestLedgerPartialUpdates drives amount-only and evidence-only writes against
// the same entry and checks neither ever clobbers the other field.
func TestLedgerPartialUpdates(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.SeedCategories(t, testCtx.Repository, "counter-a")
	assignment := testutils.CreateAllDayAssignment(t, testCtx.Repository, testCtx.WorkerID, "Day Shift")
	sessionID := openSessionWithEntry(t, testCtx, assignment.ID)

	// Amount-only opening update keeps the staged evidence
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/sessions/%s/ledger/counter-a", sessionID),
		models.UpsertLedgerRequest{Phase: "opening", Amount: decPtr(decimal.NewFromInt(120))},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	entry := getLedgerEntry(t, testCtx, sessionID, "counter-a")
	assert.True(t, entry.OpeningAmount.Equal(decimal.NewFromInt(120)))
	assert.NotNil(t, entry.OpeningEvidenceURL)
	assert.Equal(t, "https://img/open-a.jpg", *entry.OpeningEvidenceURL)

	// Evidence-only opening update keeps the corrected amount
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/sessions/%s/ledger/counter-a", sessionID),
		models.UpsertLedgerRequest{Phase: "opening", EvidenceURL: strPtr("https://img/open-a-retake.jpg")},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	entry = getLedgerEntry(t, testCtx, sessionID, "counter-a")
	assert.True(t, entry.OpeningAmount.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, "https://img/open-a-retake.jpg", *entry.OpeningEvidenceURL)

	// Closing writes land in their own columns and leave opening alone
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/sessions/%s/ledger/counter-a", sessionID),
		models.UpsertLedgerRequest{Phase: "closing", Amount: decPtr(decimal.NewFromInt(95))},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/sessions/%s/ledger/counter-a", sessionID),
		models.UpsertLedgerRequest{Phase: "closing", EvidenceURL: strPtr("https://img/close-a.jpg")},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	entry = getLedgerEntry(t, testCtx, sessionID, "counter-a")
	assert.True(t, entry.ClosingAmount.Equal(decimal.NewFromInt(95)))
	assert.NotNil(t, entry.ClosingEvidenceURL)
	assert.Equal(t, "https://img/close-a.jpg", *entry.ClosingEvidenceURL)
	assert.True(t, entry.OpeningAmount.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, "https://img/open-a-retake.jpg", *entry.OpeningEvidenceURL)
}

func TestLedgerReadinessPerPhase(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.SeedCategories(t, testCtx.Repository, "counter-a")
	assignment := testutils.CreateAllDayAssignment(t, testCtx.Repository, testCtx.WorkerID, "Day Shift")
	sessionID := openSessionWithEntry(t, testCtx, assignment.ID)

	// Opening evidence is complete, closing is not
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/sessions/%s/readiness?phase=opening", sessionID),
		nil,
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var readiness models.ReadinessResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &readiness))
	assert.True(t, readiness.Ready)
	assert.Empty(t, readiness.MissingCategories)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/sessions/%s/readiness?phase=closing", sessionID),
		nil,
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &readiness))
	assert.False(t, readiness.Ready)
	assert.Equal(t, []string{"counter-a"}, readiness.MissingCategories)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/sessions/%s/readiness?phase=later", sessionID),
		nil,
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLedgerAccessControl(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.SeedCategories(t, testCtx.Repository, "counter-a")
	assignment := testutils.CreateAllDayAssignment(t, testCtx.Repository, testCtx.WorkerID, "Day Shift")
	sessionID := openSessionWithEntry(t, testCtx, assignment.ID)

	// Only the session owner may write its figures
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		fmt.Sprintf("/api/sessions/%s/ledger/counter-a", sessionID),
		models.UpsertLedgerRequest{Phase: "opening", Amount: decPtr(decimal.NewFromInt(1))},
		testutils.AuthHeaders(testCtx.SupervisorJWT),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Readiness is owner-scoped too: other users cannot probe a session
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/sessions/%s/readiness?phase=closing", sessionID),
		nil,
		testutils.AuthHeaders(testCtx.SupervisorJWT),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		fmt.Sprintf("/api/sessions/%s/ledger", uuid.New().String()),
		nil,
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttachEvidenceUpload(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "counter-a.jpg")
	assert.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-jpeg"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/evidence?category=counter-a", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testCtx.WorkerJWT)

	w := httptest.NewRecorder()
	testCtx.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.EvidenceUploadResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.URL)
	// No extractor is wired in tests, so no amount comes back
	assert.Nil(t, resp.Amount)
	assert.False(t, resp.CategoryMismatch)

	// Category is mandatory: the URL must be attributable to a ledger slot
	req, _ = http.NewRequest(http.MethodPost, "/api/evidence", bytes.NewBufferString(""))
	req.Header.Set("Authorization", "Bearer "+testCtx.WorkerJWT)
	w = httptest.NewRecorder()
	testCtx.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
