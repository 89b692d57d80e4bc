package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/opsdesk/shift-server/internal/client"
	"github.com/opsdesk/shift-server/internal/config"
	"github.com/opsdesk/shift-server/internal/models"
	"github.com/opsdesk/shift-server/internal/repository"
	"github.com/opsdesk/shift-server/internal/shift"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Day view
	SessionsForDate(ctx context.Context, workerID, date string) ([]models.SessionView, error)

	// Employee lifecycle
	OpenSession(ctx context.Context, workerID string, req models.OpenSessionRequest) (*models.ShiftSession, error)
	CloseSession(ctx context.Context, workerID, sessionID string, req models.CloseSessionRequest) (*models.ShiftSession, error)
	CancelSession(ctx context.Context, workerID, sessionID, secret string) error
	Readiness(ctx context.Context, workerID, sessionID string, phase shift.Phase) (*models.ReadinessResponse, error)
	LedgerEntries(ctx context.Context, workerID, sessionID string) ([]models.BalanceLedgerEntry, error)
	UpsertLedgerFigure(ctx context.Context, workerID, sessionID, category string, req models.UpsertLedgerRequest) error
	AttachEvidence(ctx context.Context, category string, image []byte, contentType string) (*models.EvidenceUploadResponse, error)

	// Exempt-category transactions
	CreatePendingTransaction(ctx context.Context, workerID, sessionID string, req models.CreateTransactionRequest) (*models.PendingTransaction, error)
	ConfirmTransaction(ctx context.Context, workerID, txID string) (*models.ConfirmedTransaction, error)
	DeletePendingTransaction(ctx context.Context, workerID, txID string) error

	// Supervisor lifecycle
	AdminOpen(ctx context.Context, supervisorID string, req models.AdminOpenRequest) (*models.ShiftSession, error)
	HardClose(ctx context.Context, supervisorID, sessionID, note string) (*models.ShiftSession, error)
	Reopen(ctx context.Context, supervisorID, sessionID, note string) (*models.ShiftSession, error)
	AuditTrail(ctx context.Context, sessionID string) ([]models.AuditLogEntry, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	shiftCfg      config.ShiftConfig
	evidence      client.EvidenceStore
	extractor     client.NumericExtractor
	notifier      client.Notifier
	rollback      *rollbackCoordinator
	logger        zerolog.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(
	repo repository.Repository,
	jwtSecret string,
	shiftCfg config.ShiftConfig,
	evidence client.EvidenceStore,
	extractor client.NumericExtractor,
	notifier client.Notifier,
	logger zerolog.Logger,
) Service {
	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
		shiftCfg:      shiftCfg,
		evidence:      evidence,
		extractor:     extractor,
		notifier:      notifier,
		rollback:      newRollbackCoordinator(repo, logger),
		logger:        logger,
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, errors.New("user with this email already exists")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// Create the user
	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashedPassword),
		Role:     req.Role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &models.AuthResponse{
		Status: "success",
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	// Get the user
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, errors.New("invalid email or password")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	// Generate JWT token
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Role:      user.Role,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Day view

// SessionsForDate is the one day-window query both the employee screen and
// the supervisor follow-up view go through.
func (s *DefaultService) SessionsForDate(ctx context.Context, workerID, date string) ([]models.SessionView, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	views, err := s.repo.GetSessionsForWorkerDate(ctx, workerID, date)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}

	return views, nil
}

// Employee lifecycle

// OpenSession runs the employee open flow: time window, then verification
// gate over the staged opening entries, then the transactional create that
// enforces the single-open-session invariant at the storage layer.
func (s *DefaultService) OpenSession(ctx context.Context, workerID string, req models.OpenSessionRequest) (*models.ShiftSession, error) {
	assignment, err := s.repo.GetAssignment(ctx, req.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("error getting assignment: %w", err)
	}
	if assignment == nil {
		return nil, shift.ErrAssignmentNotFound
	}
	if assignment.WorkerID != workerID {
		return nil, shift.ErrNotAssignmentOwner
	}

	allowed, err := shift.OpenAllowed(assignment.StartTime, assignment.EndTime, time.Now(), s.shiftCfg.DeadZoneCutoffMinutes)
	if err != nil {
		return nil, fmt.Errorf("error evaluating time window: %w", err)
	}
	if !allowed {
		return nil, &shift.PreconditionError{Reason: shift.ReasonTimeWindow}
	}

	required, err := s.repo.GetRequiredCategories(ctx, s.shiftCfg.ExemptCategory)
	if err != nil {
		return nil, fmt.Errorf("error loading required categories: %w", err)
	}

	staged := make([]shift.EntryEvidence, 0, len(req.Entries))
	for _, e := range req.Entries {
		staged = append(staged, shift.EntryEvidence{
			Category: e.Category,
			Opening:  shift.EvidenceFrom(e.EvidenceURL),
		})
	}

	gate := shift.Evaluate(shift.PhaseOpening, required, staged, 0)
	if !gate.Ready {
		return nil, &shift.PreconditionError{
			Reason:            shift.ReasonMissingEvidence,
			MissingCategories: gate.Missing,
		}
	}

	session := &models.ShiftSession{
		WorkerID:     workerID,
		AssignmentID: assignment.ID,
	}

	entries := make([]models.BalanceLedgerEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, models.BalanceLedgerEntry{
			Category:           e.Category,
			OpeningAmount:      e.Amount,
			OpeningEvidenceURL: e.EvidenceURL,
		})
	}

	if err := s.repo.CreateOpenSession(ctx, session, entries); err != nil {
		if _, ok := shift.AsPrecondition(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	// Side effects run only after the transition is durable.
	s.notifier.Notify(ctx, client.EventSessionOpened, session.ID)

	return session, nil
}

// CloseSession runs the employee close flow: verification gate over the
// stored ledger merged with the submitted closing figures, plus the
// pending-transaction check, then the transactional close.
func (s *DefaultService) CloseSession(ctx context.Context, workerID, sessionID string, req models.CloseSessionRequest) (*models.ShiftSession, error) {
	session, err := s.ownedSession(ctx, workerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusOpen {
		return nil, shift.ErrSessionNotOpen
	}

	required, err := s.repo.GetRequiredCategories(ctx, s.shiftCfg.ExemptCategory)
	if err != nil {
		return nil, fmt.Errorf("error loading required categories: %w", err)
	}

	stored, err := s.repo.GetLedgerEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading ledger entries: %w", err)
	}

	pending, err := s.repo.CountPendingTransactions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error counting pending transactions: %w", err)
	}

	gate := shift.Evaluate(shift.PhaseClosing, required, mergeClosingEvidence(stored, req.Entries), pending)
	if !gate.Ready {
		pe := &shift.PreconditionError{
			Reason:              shift.ReasonMissingEvidence,
			MissingCategories:   gate.Missing,
			PendingTransactions: gate.PendingTransactions,
		}
		if len(gate.Missing) == 0 {
			pe.Reason = shift.ReasonPendingTransactions
		}
		return nil, pe
	}

	closedAt := time.Now().UTC()
	entries := make([]models.BalanceLedgerEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, models.BalanceLedgerEntry{
			Category:           e.Category,
			ClosingAmount:      e.Amount,
			ClosingEvidenceURL: e.EvidenceURL,
		})
	}

	if err := s.repo.CloseSession(ctx, sessionID, req.Note, closedAt, entries); err != nil {
		return nil, err
	}

	session.Status = models.SessionStatusClosed
	session.ClosedAt = &closedAt
	session.ClosingNote = req.Note

	s.notifier.Notify(ctx, client.EventSessionClosed, session.ID)

	return session, nil
}

// mergeClosingEvidence builds the gate's view of the session: stored ledger
// rows overlaid with the closing figures submitted in the same call.
func mergeClosingEvidence(stored []models.BalanceLedgerEntry, submitted []models.LedgerEntryInput) []shift.EntryEvidence {
	byCategory := make(map[string]shift.EntryEvidence, len(stored))
	order := make([]string, 0, len(stored))

	for _, entry := range stored {
		byCategory[entry.Category] = shift.EntryEvidence{
			Category: entry.Category,
			Opening:  shift.EvidenceFrom(entry.OpeningEvidenceURL),
			Closing:  shift.EvidenceFrom(entry.ClosingEvidenceURL),
		}
		order = append(order, entry.Category)
	}

	for _, in := range submitted {
		existing, ok := byCategory[in.Category]
		if !ok {
			order = append(order, in.Category)
			existing = shift.EntryEvidence{Category: in.Category}
		}
		if ev := shift.EvidenceFrom(in.EvidenceURL); ev.Present() {
			existing.Closing = ev
		}
		byCategory[in.Category] = existing
	}

	merged := make([]shift.EntryEvidence, 0, len(order))
	for _, category := range order {
		merged = append(merged, byCategory[category])
	}
	return merged
}

// CancelSession destroys an open session that should never have existed,
// along with its ledger rows and transactions. Gated by the shared cancel
// secret; deliberately outside the audited Reopen/HardClose vocabulary.
func (s *DefaultService) CancelSession(ctx context.Context, workerID, sessionID, secret string) error {
	if s.shiftCfg.CancelSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.shiftCfg.CancelSecret)) != 1 {
		return shift.ErrInvalidCancelSecret
	}

	session, err := s.ownedSession(ctx, workerID, sessionID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionStatusOpen {
		return shift.ErrSessionNotOpen
	}

	entries, err := s.repo.GetLedgerEntries(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error loading ledger entries: %w", err)
	}

	if err := s.repo.DeleteSessionCascade(ctx, sessionID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	// Best-effort image cleanup after the rows are gone.
	for _, entry := range entries {
		for _, url := range []*string{entry.OpeningEvidenceURL, entry.ClosingEvidenceURL} {
			if url != nil && *url != "" {
				s.evidence.Delete(ctx, *url)
			}
		}
	}

	return nil
}

// Readiness is the gate dry-run backing the UI's checklist.
func (s *DefaultService) Readiness(ctx context.Context, workerID, sessionID string, phase shift.Phase) (*models.ReadinessResponse, error) {
	if _, err := s.ownedSession(ctx, workerID, sessionID); err != nil {
		return nil, err
	}

	required, err := s.repo.GetRequiredCategories(ctx, s.shiftCfg.ExemptCategory)
	if err != nil {
		return nil, fmt.Errorf("error loading required categories: %w", err)
	}

	stored, err := s.repo.GetLedgerEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading ledger entries: %w", err)
	}

	pending := 0
	if phase == shift.PhaseClosing {
		pending, err = s.repo.CountPendingTransactions(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("error counting pending transactions: %w", err)
		}
	}

	gate := shift.Evaluate(phase, required, mergeClosingEvidence(stored, nil), pending)

	missing := gate.Missing
	if missing == nil {
		missing = []string{}
	}

	return &models.ReadinessResponse{
		Status:              "success",
		Phase:               string(phase),
		Ready:               gate.Ready,
		MissingCategories:   missing,
		PendingTransactions: gate.PendingTransactions,
	}, nil
}

func (s *DefaultService) LedgerEntries(ctx context.Context, workerID, sessionID string) ([]models.BalanceLedgerEntry, error) {
	if _, err := s.ownedSession(ctx, workerID, sessionID); err != nil {
		return nil, err
	}

	entries, err := s.repo.GetLedgerEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading ledger entries: %w", err)
	}

	return entries, nil
}

// UpsertLedgerFigure edits one (session, category) figure while the session
// is open. Nil amount or evidence leaves the stored value alone.
func (s *DefaultService) UpsertLedgerFigure(ctx context.Context, workerID, sessionID, category string, req models.UpsertLedgerRequest) error {
	session, err := s.ownedSession(ctx, workerID, sessionID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionStatusOpen {
		return shift.ErrSessionNotOpen
	}

	switch shift.Phase(req.Phase) {
	case shift.PhaseOpening:
		err = s.repo.UpsertOpeningFigure(ctx, sessionID, category, req.Amount, req.EvidenceURL)
	case shift.PhaseClosing:
		err = s.repo.UpsertClosingFigure(ctx, sessionID, category, req.Amount, req.EvidenceURL)
	default:
		return fmt.Errorf("unknown phase %q", req.Phase)
	}
	if err != nil {
		return fmt.Errorf("error upserting ledger figure: %w", err)
	}

	return nil
}

// AttachEvidence uploads an image and runs extraction over it. Extraction is
// advisory: a failure or a no-value result degrades to a response with no
// amount, never an error, because the gate depends only on the reference.
func (s *DefaultService) AttachEvidence(ctx context.Context, category string, image []byte, contentType string) (*models.EvidenceUploadResponse, error) {
	url, err := s.evidence.Put(ctx, image, contentType)
	if err != nil {
		return nil, fmt.Errorf("error storing evidence: %w", err)
	}

	resp := &models.EvidenceUploadResponse{
		Status: "success",
		URL:    url,
	}

	if s.extractor == nil {
		return resp, nil
	}

	result, err := s.extractor.Extract(ctx, url, category)
	if err != nil {
		s.logger.Warn().Err(err).Str("category", category).Msg("numeric extraction failed, amount left unset")
		return resp, nil
	}

	resp.Amount = result.Amount
	resp.CategoryMismatch = result.CategoryMismatch
	resp.MismatchReason = result.MismatchReason
	return resp, nil
}

// Exempt-category transactions

func (s *DefaultService) CreatePendingTransaction(ctx context.Context, workerID, sessionID string, req models.CreateTransactionRequest) (*models.PendingTransaction, error) {
	if req.Category != s.shiftCfg.ExemptCategory {
		return nil, shift.ErrNotExemptCategory
	}

	session, err := s.ownedSession(ctx, workerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusOpen {
		return nil, shift.ErrSessionNotOpen
	}

	ptx := &models.PendingTransaction{
		SessionID:   sessionID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		EnteredBy:   workerID,
	}

	if err := s.repo.CreatePendingTransaction(ctx, ptx); err != nil {
		return nil, fmt.Errorf("error creating pending transaction: %w", err)
	}

	return ptx, nil
}

func (s *DefaultService) ConfirmTransaction(ctx context.Context, workerID, txID string) (*models.ConfirmedTransaction, error) {
	ptx, err := s.repo.GetPendingTransaction(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("error getting pending transaction: %w", err)
	}
	if ptx == nil {
		return nil, shift.ErrTransactionNotFound
	}

	if _, err := s.ownedSession(ctx, workerID, ptx.SessionID); err != nil {
		return nil, err
	}

	confirmed, err := s.repo.ConfirmTransaction(ctx, txID, workerID)
	if err != nil {
		return nil, err
	}

	return confirmed, nil
}

func (s *DefaultService) DeletePendingTransaction(ctx context.Context, workerID, txID string) error {
	ptx, err := s.repo.GetPendingTransaction(ctx, txID)
	if err != nil {
		return fmt.Errorf("error getting pending transaction: %w", err)
	}
	if ptx == nil {
		return shift.ErrTransactionNotFound
	}

	if _, err := s.ownedSession(ctx, workerID, ptx.SessionID); err != nil {
		return err
	}

	return s.repo.DeletePendingTransaction(ctx, txID)
}

// Supervisor lifecycle

// AdminOpen opens a session for the assignment's worker with only the
// single-open check applied. The time window and the verification gate are
// deliberately skipped: the supervisor assumes responsibility.
func (s *DefaultService) AdminOpen(ctx context.Context, supervisorID string, req models.AdminOpenRequest) (*models.ShiftSession, error) {
	assignment, err := s.repo.GetAssignment(ctx, req.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("error getting assignment: %w", err)
	}
	if assignment == nil {
		return nil, shift.ErrAssignmentNotFound
	}
	if assignment.WorkerID != req.WorkerID {
		return nil, shift.ErrNotAssignmentOwner
	}

	session := &models.ShiftSession{
		WorkerID:     req.WorkerID,
		AssignmentID: assignment.ID,
	}

	if err := s.repo.CreateOpenSession(ctx, session, nil); err != nil {
		if _, ok := shift.AsPrecondition(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	if s.shiftCfg.AuditAdminOpen {
		s.writeAudit(ctx, models.AuditActionAdminOpen, supervisorID, session, assignment)
	}

	s.notifier.Notify(ctx, client.EventSessionOpened, session.ID)

	return session, nil
}

// HardClose forces an open session closed with no gate. Always audited.
func (s *DefaultService) HardClose(ctx context.Context, supervisorID, sessionID, note string) (*models.ShiftSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session == nil {
		return nil, shift.ErrSessionNotFound
	}

	closedAt := time.Now().UTC()
	if err := s.repo.HardCloseSession(ctx, sessionID, note, closedAt); err != nil {
		return nil, err
	}

	session.Status = models.SessionStatusClosed
	session.ClosedAt = &closedAt
	session.SupervisorNote = note

	// The transition is durable at this point; the audit write follows and
	// its failure is logged, never rolled back into.
	s.auditSession(ctx, models.AuditActionHardClose, supervisorID, session)

	return session, nil
}

// Reopen undoes a close. The rollback coordinator runs first; only when
// every compensating step has applied does the status flip back to open.
// A partial rollback leaves the session closed and reports a retryable error.
func (s *DefaultService) Reopen(ctx context.Context, supervisorID, sessionID, note string) (*models.ShiftSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session == nil {
		return nil, shift.ErrSessionNotFound
	}
	if session.Status != models.SessionStatusClosed {
		return nil, shift.ErrSessionNotClosed
	}

	if err := s.rollback.undoClose(ctx, sessionID); err != nil {
		return nil, err
	}

	if err := s.repo.MarkSessionReopened(ctx, sessionID, note); err != nil {
		if _, ok := shift.AsPrecondition(err); ok {
			return nil, err
		}
		return nil, err
	}

	session.Status = models.SessionStatusOpen
	session.ClosedAt = nil
	session.SupervisorNote = note

	s.auditSession(ctx, models.AuditActionReopen, supervisorID, session)

	return session, nil
}

func (s *DefaultService) AuditTrail(ctx context.Context, sessionID string) ([]models.AuditLogEntry, error) {
	entries, err := s.repo.GetAuditEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading audit entries: %w", err)
	}

	return entries, nil
}

// Helper methods

// ownedSession loads a session and checks the caller owns it.
func (s *DefaultService) ownedSession(ctx context.Context, workerID, sessionID string) (*models.ShiftSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session == nil {
		return nil, shift.ErrSessionNotFound
	}
	if session.WorkerID != workerID {
		return nil, shift.ErrNotSessionOwner
	}

	return session, nil
}

// auditSession resolves the assignment and appends an audit entry.
func (s *DefaultService) auditSession(ctx context.Context, action, supervisorID string, session *models.ShiftSession) {
	assignment, err := s.repo.GetAssignment(ctx, session.AssignmentID)
	if err != nil || assignment == nil {
		s.logger.Error().Err(err).Str("session", session.ID).Str("action", action).
			Msg("audit write skipped, assignment lookup failed")
		return
	}
	s.writeAudit(ctx, action, supervisorID, session, assignment)
}

func (s *DefaultService) writeAudit(ctx context.Context, action, supervisorID string, session *models.ShiftSession, assignment *models.ShiftAssignment) {
	entry := &models.AuditLogEntry{
		SessionID:      session.ID,
		AssignmentID:   assignment.ID,
		SupervisorID:   supervisorID,
		Action:         action,
		ShiftName:      assignment.ShiftName,
		AssignmentDate: assignment.Date,
	}

	if err := s.repo.AppendAuditEntry(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("session", session.ID).Str("action", action).
			Msg("audit write failed after durable transition")
	}
}

func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub":  user.ID, // subject
		"role": user.Role,
		"exp":  expirationTime.Unix(),
		"iat":  time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
