package service

import (
	"context"
	"fmt"

	"github.com/opsdesk/shift-server/internal/repository"
	"github.com/opsdesk/shift-server/internal/shift"
	"github.com/rs/zerolog"
)

// rollbackCoordinator undoes a close's side effects ahead of a reopen. Each
// step is individually transactional and idempotent, so a failure partway
// leaves prior steps' effects in place and the whole Reopen can simply be
// retried. Closing evidence references are never touched: after a reopen
// only the numeric figures and the confirmation state are in doubt.
type rollbackCoordinator struct {
	repo   repository.Repository
	logger zerolog.Logger
}

func newRollbackCoordinator(repo repository.Repository, logger zerolog.Logger) *rollbackCoordinator {
	return &rollbackCoordinator{repo: repo, logger: logger}
}

// undoClose runs the compensating steps for one closed session. On any
// failure the session has not been flipped yet, so it stays closed and the
// caller reports ErrRollbackIncomplete for a retry.
func (r *rollbackCoordinator) undoClose(ctx context.Context, sessionID string) error {
	// Step 1: confirmed transactions go back to pending, minus the
	// confirmation-only sequence field. A retry with zero confirmed rows is
	// a no-op.
	if err := r.repo.MigrateConfirmedToPending(ctx, sessionID); err != nil {
		r.logger.Error().Err(err).Str("session", sessionID).
			Msg("rollback halted migrating confirmed transactions")
		return fmt.Errorf("%w: migrating confirmed transactions: %v", shift.ErrRollbackIncomplete, err)
	}

	// Step 2: closing amounts become provisional again; evidence stays.
	if err := r.repo.ResetClosingAmounts(ctx, sessionID); err != nil {
		r.logger.Error().Err(err).Str("session", sessionID).
			Msg("rollback halted resetting closing amounts")
		return fmt.Errorf("%w: resetting closing amounts: %v", shift.ErrRollbackIncomplete, err)
	}

	return nil
}
