package client

import (
	"context"

	"github.com/shopspring/decimal"
)

// EvidenceStore persists uploaded evidence images and returns stable,
// directly-displayable references. Deletion is best-effort: a failed delete
// must never block a ledger update.
type EvidenceStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// ExtractionResult is the numeric-extraction service's verdict on one image.
// Amount is nil when no value could be read; CategoryMismatch signals the
// image belongs to a different category than the caller expected. Neither
// outcome gates a state transition - the gate cares only about evidence
// presence.
type ExtractionResult struct {
	Amount           *decimal.Decimal `json:"amount"`
	CategoryMismatch bool             `json:"categoryMismatch"`
	MismatchReason   string           `json:"mismatchReason,omitempty"`
}

// NumericExtractor reads a reported amount out of an evidence image.
type NumericExtractor interface {
	Extract(ctx context.Context, imageURL, categoryHint string) (ExtractionResult, error)
}

// Notifier dispatches fire-and-forget lifecycle events after a transition has
// committed. Implementations log failures and never return them to the
// transition path.
type Notifier interface {
	Notify(ctx context.Context, eventKind, sessionID string)
}

// Notification event kinds
const (
	EventSessionOpened = "session_opened"
	EventSessionClosed = "session_closed"
)
