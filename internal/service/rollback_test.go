package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opsdesk/shift-server/internal/client"
	"github.com/opsdesk/shift-server/internal/config"
	"github.com/opsdesk/shift-server/internal/models"
	"github.com/opsdesk/shift-server/internal/repository"
	"github.com/opsdesk/shift-server/internal/shift"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// faultRepo wraps the repository with failure switches for the rollback
// steps, recording every state-changing call.
type faultRepo struct {
	repository.Repository

	session *models.ShiftSession

	failMigrate bool
	failReset   bool

	migrateCalls int
	resetCalls   int
	reopened     bool
	auditWrites  int
}

func (f *faultRepo) GetSession(ctx context.Context, id string) (*models.ShiftSession, error) {
	return f.session, nil
}

func (f *faultRepo) GetAssignment(ctx context.Context, id string) (*models.ShiftAssignment, error) {
	return &models.ShiftAssignment{ID: id, ShiftName: "Day Shift", Date: "2025-03-10"}, nil
}

func (f *faultRepo) MigrateConfirmedToPending(ctx context.Context, sessionID string) error {
	f.migrateCalls++
	if f.failMigrate {
		return errors.New("connection reset by peer")
	}
	return nil
}

func (f *faultRepo) ResetClosingAmounts(ctx context.Context, sessionID string) error {
	f.resetCalls++
	if f.failReset {
		return errors.New("connection reset by peer")
	}
	return nil
}

func (f *faultRepo) MarkSessionReopened(ctx context.Context, sessionID, supervisorNote string) error {
	f.reopened = true
	f.session.Status = models.SessionStatusOpen
	f.session.ClosedAt = nil
	return nil
}

func (f *faultRepo) AppendAuditEntry(ctx context.Context, entry *models.AuditLogEntry) error {
	f.auditWrites++
	return nil
}

func closedTestSession() *models.ShiftSession {
	closedAt := time.Now().UTC()
	return &models.ShiftSession{
		ID:           "sess-1",
		WorkerID:     "worker-1",
		AssignmentID: "assign-1",
		Status:       models.SessionStatusClosed,
		ClosedAt:     &closedAt,
	}
}

func newFaultService(repo *faultRepo) Service {
	return NewDefaultService(repo, "test-secret", config.ShiftConfig{}, nil, nil, client.NoopNotifier{}, zerolog.Nop())
}

func TestReopenMigrateFailureLeavesSessionClosed(t *testing.T) {
	repo := &faultRepo{session: closedTestSession(), failMigrate: true}
	svc := newFaultService(repo)

	_, err := svc.Reopen(context.Background(), "sup-1", "sess-1", "note")

	assert.ErrorIs(t, err, shift.ErrRollbackIncomplete)
	assert.Equal(t, models.SessionStatusClosed, repo.session.Status)
	assert.False(t, repo.reopened)
	assert.Zero(t, repo.resetCalls, "later steps must not run after a failed one")
	assert.Zero(t, repo.auditWrites)
}

func TestReopenResetFailureLeavesSessionClosed(t *testing.T) {
	repo := &faultRepo{session: closedTestSession(), failReset: true}
	svc := newFaultService(repo)

	_, err := svc.Reopen(context.Background(), "sup-1", "sess-1", "note")

	assert.ErrorIs(t, err, shift.ErrRollbackIncomplete)
	assert.Equal(t, models.SessionStatusClosed, repo.session.Status)
	assert.False(t, repo.reopened)
	assert.Equal(t, 1, repo.migrateCalls, "prior step effects stay in place")
	assert.Zero(t, repo.auditWrites)
}

func TestReopenRetryAfterRollbackFailure(t *testing.T) {
	repo := &faultRepo{session: closedTestSession(), failMigrate: true}
	svc := newFaultService(repo)

	_, err := svc.Reopen(context.Background(), "sup-1", "sess-1", "first try")
	assert.ErrorIs(t, err, shift.ErrRollbackIncomplete)

	// The session stayed closed, so a plain retry picks up where it failed.
	repo.failMigrate = false
	session, err := svc.Reopen(context.Background(), "sup-1", "sess-1", "second try")

	assert.NoError(t, err)
	assert.Equal(t, models.SessionStatusOpen, session.Status)
	assert.Nil(t, session.ClosedAt)
	assert.True(t, repo.reopened)
	assert.Equal(t, 2, repo.migrateCalls)
	assert.Equal(t, 1, repo.resetCalls)
	assert.Equal(t, 1, repo.auditWrites)
}
