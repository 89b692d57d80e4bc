package api_test

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/opsdesk/shift-server/internal/api/testutils"
	"github.com/opsdesk/shift-server/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestConcurrentOpens drives simultaneous Open calls for one worker and
// checks that the storage layer lets exactly one through.
func TestConcurrentOpens(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.SeedCategories(t, testCtx.Repository, "counter-a")

	const numGoroutines = 10

	// One assignment per goroutine: the invariant is per worker, not per
	// assignment, so distinct assignments must still collapse to one open.
	assignments := make([]*models.ShiftAssignment, numGoroutines)
	for i := range assignments {
		assignments[i] = testutils.CreateAllDayAssignment(t, testCtx.Repository, testCtx.WorkerID, "Race Shift")
	}

	type result struct {
		code     int
		body     []byte
		conflict string
	}

	resultsChan := make(chan result, numGoroutines)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			w := testutils.PerformRequest(
				testCtx.Router,
				http.MethodPost,
				"/api/sessions/open",
				models.OpenSessionRequest{
					AssignmentID: assignments[i].ID,
					Entries: []models.LedgerEntryInput{
						{Category: "counter-a", Amount: decimal.NewFromInt(100), EvidenceURL: strPtr("https://img/a.jpg")},
					},
				},
				testutils.AuthHeaders(testCtx.WorkerJWT),
			)

			var errResp models.ErrorResponse
			_ = json.Unmarshal(w.Body.Bytes(), &errResp)
			resultsChan <- result{code: w.Code, body: w.Body.Bytes(), conflict: errResp.ConflictSessionID}
		}(i)
	}

	close(start)
	wg.Wait()
	close(resultsChan)

	var results []result
	for r := range resultsChan {
		results = append(results, r)
	}

	var created, rejected int
	var winnerID string
	for _, r := range results {
		switch r.code {
		case http.StatusCreated:
			created++
			var sessionResp models.SessionResponse
			assert.NoError(t, json.Unmarshal(r.body, &sessionResp))
			winnerID = sessionResp.Session.ID
		case http.StatusConflict:
			rejected++
		default:
			t.Errorf("unexpected status %d: %s", r.code, r.body)
		}
	}

	assert.Equal(t, 1, created, "exactly one Open should win")
	assert.Equal(t, numGoroutines-1, rejected)

	// Losers were told who won, never handed a raw storage error
	for _, r := range results {
		if r.code == http.StatusConflict {
			assert.Equal(t, winnerID, r.conflict)
		}
	}

	// The invariant holds in the database itself
	var openCount int
	err := testCtx.DB.Get(&openCount,
		"SELECT COUNT(*) FROM shift_sessions WHERE worker_id = $1 AND status = 'open'",
		testCtx.WorkerID)
	assert.NoError(t, err)
	assert.Equal(t, 1, openCount)
}
