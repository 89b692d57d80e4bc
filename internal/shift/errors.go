package shift

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	// ErrSessionNotFound is returned when a referenced session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAssignmentNotFound is returned when a referenced assignment doesn't exist.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrNotAssignmentOwner is returned when a worker opens an assignment
	// scheduled for someone else.
	ErrNotAssignmentOwner = errors.New("assignment belongs to a different worker")

	// ErrSessionNotOpen is returned by operations that require an open session.
	ErrSessionNotOpen = errors.New("session is not open")

	// ErrSessionNotClosed is returned by Reopen when the session isn't closed.
	ErrSessionNotClosed = errors.New("session is not closed")

	// ErrNotSessionOwner is returned when a worker acts on another worker's session.
	ErrNotSessionOwner = errors.New("session belongs to a different worker")

	// ErrInvalidCancelSecret is returned when the destructive cancel secret
	// doesn't match.
	ErrInvalidCancelSecret = errors.New("invalid cancel secret")

	// ErrTransactionNotFound is returned when a pending transaction doesn't exist.
	ErrTransactionNotFound = errors.New("pending transaction not found")

	// ErrNotExemptCategory is returned when a manual transaction targets a
	// category that settles by evidence instead of confirmation.
	ErrNotExemptCategory = errors.New("category does not take manual transactions")

	// ErrRollbackIncomplete is returned when a reopen's compensating steps
	// fail partway. The session stays closed; the supervisor retries Reopen.
	ErrRollbackIncomplete = errors.New("reopen rollback incomplete, session remains closed")
)

// PreconditionReason names which guard rejected a transition.
type PreconditionReason string

const (
	ReasonTimeWindow          PreconditionReason = "time_window"
	ReasonMissingEvidence     PreconditionReason = "missing_evidence"
	ReasonPendingTransactions PreconditionReason = "pending_transactions"
	ReasonOpenSessionExists   PreconditionReason = "open_session_exists"
)

// PreconditionError reports a rejected transition with enough structure for
// the caller to react without guessing: the missing categories, the pending
// transaction count, or the session that holds the single-open slot.
type PreconditionError struct {
	Reason              PreconditionReason
	MissingCategories   []string
	PendingTransactions int
	ConflictSessionID   string
}

func (e *PreconditionError) Error() string {
	switch e.Reason {
	case ReasonTimeWindow:
		return "shift time window does not allow opening now"
	case ReasonMissingEvidence:
		return fmt.Sprintf("evidence missing for %d categories", len(e.MissingCategories))
	case ReasonPendingTransactions:
		return fmt.Sprintf("%d pending transactions must be confirmed or deleted", e.PendingTransactions)
	case ReasonOpenSessionExists:
		return fmt.Sprintf("worker already has open session %s", e.ConflictSessionID)
	}
	return "precondition failed"
}

// AsPrecondition unwraps err into a PreconditionError if one is present.
func AsPrecondition(err error) (*PreconditionError, bool) {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
