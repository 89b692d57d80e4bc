package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session status values
const (
	SessionStatusOpen   = "open"
	SessionStatusClosed = "closed"
)

// User roles
const (
	RoleWorker     = "worker"
	RoleSupervisor = "supervisor"
)

// Audit actions
const (
	AuditActionReopen    = "reopen"
	AuditActionHardClose = "hard_close"
	AuditActionAdminOpen = "admin_open"
)

// User represents a worker or supervisor account
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	Role      string    `db:"role" json:"role"`  // "worker" or "supervisor"
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// ShiftAssignment schedules a worker to a named shift template on a calendar
// date. Start and end times are local wall-clock "HH:MM" with no date part.
type ShiftAssignment struct {
	ID        string    `db:"id" json:"id"`
	WorkerID  string    `db:"worker_id" json:"workerId"`
	ShiftName string    `db:"shift_name" json:"shiftName"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	Date      string    `db:"date" json:"date"` // "YYYY-MM-DD"
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ShiftSession is the lifecycle record of one worker's working period.
// At most one session with status=open may exist per worker, across all
// assignments and dates; the storage layer enforces this with a partial
// unique index.
type ShiftSession struct {
	ID             string     `db:"id" json:"id"`
	WorkerID       string     `db:"worker_id" json:"workerId"`
	AssignmentID   string     `db:"assignment_id" json:"assignmentId"`
	Status         string     `db:"status" json:"status"`
	OpenedAt       time.Time  `db:"opened_at" json:"openedAt"`
	ClosedAt       *time.Time `db:"closed_at" json:"closedAt"`
	ClosingNote    string     `db:"closing_note" json:"closingNote"`
	SupervisorNote string     `db:"supervisor_note" json:"supervisorNote"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// BalanceLedgerEntry holds the opening and closing figures for one category
// within one session. Exactly one row exists per (session, category); writes
// use upsert semantics.
type BalanceLedgerEntry struct {
	ID                 string          `db:"id" json:"id"`
	SessionID          string          `db:"session_id" json:"sessionId"`
	Category           string          `db:"category" json:"category"`
	OpeningAmount      decimal.Decimal `db:"opening_amount" json:"openingAmount"`
	OpeningEvidenceURL *string         `db:"opening_evidence_url" json:"openingEvidenceUrl"`
	ClosingAmount      decimal.Decimal `db:"closing_amount" json:"closingAmount"`
	ClosingEvidenceURL *string         `db:"closing_evidence_url" json:"closingEvidenceUrl"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// CashCategory is a balance classification ("brand" in the source domain).
// The required-category set for the verification gate is all active
// high-priority categories except the configured exempt one.
type CashCategory struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Active       bool      `db:"active" json:"active"`
	HighPriority bool      `db:"high_priority" json:"highPriority"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// PendingTransaction is a manually entered exempt-category transaction that
// has not yet been confirmed. A session cannot close while any exist.
type PendingTransaction struct {
	ID          string          `db:"id" json:"id"`
	SessionID   string          `db:"session_id" json:"sessionId"`
	Category    string          `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	EnteredBy   string          `db:"entered_by" json:"enteredBy"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// ConfirmedTransaction is a confirmed exempt-category transaction. The
// sequence number is assigned at confirmation time and is the only field
// not carried back when a reopen migrates the row to pending.
type ConfirmedTransaction struct {
	ID             string          `db:"id" json:"id"`
	SessionID      string          `db:"session_id" json:"sessionId"`
	Category       string          `db:"category" json:"category"`
	Description    string          `db:"description" json:"description"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	EnteredBy      string          `db:"entered_by" json:"enteredBy"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	SequenceNumber int64           `db:"sequence_number" json:"sequenceNumber"`
	ConfirmedBy    string          `db:"confirmed_by" json:"confirmedBy"`
	ConfirmedAt    time.Time       `db:"confirmed_at" json:"confirmedAt"`
}

// AuditLogEntry is an immutable record of a supervisor-initiated transition.
type AuditLogEntry struct {
	ID             string    `db:"id" json:"id"`
	SessionID      string    `db:"session_id" json:"sessionId"`
	AssignmentID   string    `db:"assignment_id" json:"assignmentId"`
	SupervisorID   string    `db:"supervisor_id" json:"supervisorId"`
	Action         string    `db:"action" json:"action"`
	ShiftName      string    `db:"shift_name" json:"shiftName"`
	AssignmentDate string    `db:"assignment_date" json:"assignmentDate"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
