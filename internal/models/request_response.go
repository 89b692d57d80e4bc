package models

import "github.com/shopspring/decimal"

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=worker supervisor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LedgerEntryInput is one staged category figure, for either phase. The
// evidence URL is optional: an entry may carry an amount before its photo
// upload succeeded, or evidence before extraction produced an amount.
type LedgerEntryInput struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	EvidenceURL *string         `json:"evidenceUrl"`
}

type OpenSessionRequest struct {
	AssignmentID string             `json:"assignmentId" binding:"required"`
	Entries      []LedgerEntryInput `json:"entries"`
}

type CloseSessionRequest struct {
	Note    string             `json:"note"`
	Entries []LedgerEntryInput `json:"entries"`
}

type CancelSessionRequest struct {
	Secret string `json:"secret" binding:"required"`
}

type UpsertLedgerRequest struct {
	Phase       string           `json:"phase" binding:"required,oneof=opening closing"`
	Amount      *decimal.Decimal `json:"amount"`
	EvidenceURL *string          `json:"evidenceUrl"`
}

type CreateTransactionRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

type AdminOpenRequest struct {
	WorkerID     string `json:"workerId" binding:"required"`
	AssignmentID string `json:"assignmentId" binding:"required"`
}

type SupervisorNoteRequest struct {
	Note string `json:"note"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type SessionResponse struct {
	Status  string       `json:"status"`
	Session ShiftSession `json:"session"`
}

type DayViewResponse struct {
	Status   string        `json:"status"`
	Date     string        `json:"date"`
	Sessions []SessionView `json:"sessions"`
}

// SessionView joins a session with its assignment for the day view.
type SessionView struct {
	Session    ShiftSession    `json:"session"`
	Assignment ShiftAssignment `json:"assignment"`
}

type ReadinessResponse struct {
	Status              string   `json:"status"`
	Phase               string   `json:"phase"`
	Ready               bool     `json:"ready"`
	MissingCategories   []string `json:"missingCategories"`
	PendingTransactions int      `json:"pendingTransactions"`
}

type LedgerResponse struct {
	Status  string               `json:"status"`
	Entries []BalanceLedgerEntry `json:"entries"`
}

type EvidenceUploadResponse struct {
	Status           string           `json:"status"`
	URL              string           `json:"url"`
	Amount           *decimal.Decimal `json:"amount"`
	CategoryMismatch bool             `json:"categoryMismatch"`
	MismatchReason   string           `json:"mismatchReason,omitempty"`
}

type TransactionResponse struct {
	Status      string              `json:"status"`
	Transaction *PendingTransaction `json:"transaction,omitempty"`
}

type ConfirmTransactionResponse struct {
	Status      string               `json:"status"`
	Transaction ConfirmedTransaction `json:"transaction"`
}

type AuditTrailResponse struct {
	Status  string          `json:"status"`
	Entries []AuditLogEntry `json:"entries"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`

	// Precondition detail, present only on gate and conflict failures so the
	// caller can react without guessing.
	MissingCategories   []string `json:"missingCategories,omitempty"`
	PendingTransactions int      `json:"pendingTransactions,omitempty"`
	ConflictSessionID   string   `json:"conflictSessionId,omitempty"`
}
