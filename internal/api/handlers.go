package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opsdesk/shift-server/internal/models"
	"github.com/opsdesk/shift-server/internal/service"
	"github.com/opsdesk/shift-server/internal/shift"
)

// Handler holds the API handlers and their dependencies
type Handler struct {
	service service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{service: svc}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public routes
	api.POST("/auth/signup", h.SignUp)
	api.POST("/auth/login", h.Login)

	// Authenticated routes
	auth := api.Group("")
	auth.Use(AuthMiddleware())
	{
		auth.GET("/workers/me/sessions", h.DayView)
		auth.POST("/evidence", h.AttachEvidence)

		auth.POST("/sessions/open", h.OpenSession)
		auth.POST("/sessions/:id/close", h.CloseSession)
		auth.POST("/sessions/:id/cancel", h.CancelSession)
		auth.GET("/sessions/:id/readiness", h.Readiness)
		auth.GET("/sessions/:id/ledger", h.LedgerEntries)
		auth.PUT("/sessions/:id/ledger/:category", h.UpsertLedgerFigure)

		auth.POST("/sessions/:id/transactions", h.CreateTransaction)
		auth.POST("/transactions/:id/confirm", h.ConfirmTransaction)
		auth.DELETE("/transactions/:id", h.DeleteTransaction)

		// Supervisor routes
		sup := auth.Group("/supervisor")
		sup.Use(SupervisorOnly())
		{
			sup.POST("/sessions/open", h.AdminOpen)
			sup.POST("/sessions/:id/hard-close", h.HardClose)
			sup.POST("/sessions/:id/reopen", h.Reopen)
			sup.GET("/sessions/:id/audit", h.AuditTrail)
		}
	}
}

// Authentication handlers

func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resp, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Status:  "error",
				Code:    "CONFLICT",
				Message: err.Error(),
			})
			return
		}
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "UNAUTHORIZED",
			Message: "Invalid email or password",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Day view

func (h *Handler) DayView(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	views, err := h.service.SessionsForDate(c.Request.Context(), callerID(c), date)
	if err != nil {
		if strings.Contains(err.Error(), "invalid date") {
			respondBadRequest(c, err)
			return
		}
		respondInternal(c, err)
		return
	}

	if views == nil {
		views = []models.SessionView{}
	}

	c.JSON(http.StatusOK, models.DayViewResponse{
		Status:   "success",
		Date:     date,
		Sessions: views,
	})
}

// Session lifecycle handlers

func (h *Handler) OpenSession(c *gin.Context) {
	var req models.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, err := h.service.OpenSession(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SessionResponse{Status: "success", Session: *session})
}

func (h *Handler) CloseSession(c *gin.Context) {
	var req models.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, err := h.service.CloseSession(c.Request.Context(), callerID(c), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{Status: "success", Session: *session})
}

func (h *Handler) CancelSession(c *gin.Context) {
	var req models.CancelSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.service.CancelSession(c.Request.Context(), callerID(c), c.Param("id"), req.Secret); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) Readiness(c *gin.Context) {
	phase := shift.Phase(c.DefaultQuery("phase", string(shift.PhaseClosing)))
	if phase != shift.PhaseOpening && phase != shift.PhaseClosing {
		respondBadRequest(c, errors.New("phase must be opening or closing"))
		return
	}

	resp, err := h.service.Readiness(c.Request.Context(), callerID(c), c.Param("id"), phase)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) LedgerEntries(c *gin.Context) {
	entries, err := h.service.LedgerEntries(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if entries == nil {
		entries = []models.BalanceLedgerEntry{}
	}

	c.JSON(http.StatusOK, models.LedgerResponse{Status: "success", Entries: entries})
}

func (h *Handler) UpsertLedgerFigure(c *gin.Context) {
	var req models.UpsertLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	err := h.service.UpsertLedgerFigure(c.Request.Context(), callerID(c), c.Param("id"), c.Param("category"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) AttachEvidence(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		respondBadRequest(c, errors.New("category query parameter is required"))
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondBadRequest(c, errors.New("image file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondInternal(c, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := h.service.AttachEvidence(c.Request.Context(), category, data, contentType)
	if err != nil {
		respondInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Transaction handlers

func (h *Handler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ptx, err := h.service.CreatePendingTransaction(c.Request.Context(), callerID(c), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.TransactionResponse{Status: "success", Transaction: ptx})
}

func (h *Handler) ConfirmTransaction(c *gin.Context) {
	confirmed, err := h.service.ConfirmTransaction(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ConfirmTransactionResponse{Status: "success", Transaction: *confirmed})
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	if err := h.service.DeletePendingTransaction(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Supervisor handlers

func (h *Handler) AdminOpen(c *gin.Context) {
	var req models.AdminOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, err := h.service.AdminOpen(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SessionResponse{Status: "success", Session: *session})
}

func (h *Handler) HardClose(c *gin.Context) {
	var req models.SupervisorNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, err := h.service.HardClose(c.Request.Context(), callerID(c), c.Param("id"), req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{Status: "success", Session: *session})
}

func (h *Handler) Reopen(c *gin.Context) {
	var req models.SupervisorNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, err := h.service.Reopen(c.Request.Context(), callerID(c), c.Param("id"), req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{Status: "success", Session: *session})
}

func (h *Handler) AuditTrail(c *gin.Context) {
	entries, err := h.service.AuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if entries == nil {
		entries = []models.AuditLogEntry{}
	}

	c.JSON(http.StatusOK, models.AuditTrailResponse{Status: "success", Entries: entries})
}

// Response helpers

func callerID(c *gin.Context) string {
	id, _ := c.Get("userId")
	s, _ := id.(string)
	return s
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "BAD_REQUEST",
		Message: err.Error(),
	})
}

func respondInternal(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Status:  "error",
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
	})
}

// respondServiceError maps domain errors onto the HTTP surface. Precondition
// failures keep their structure so the UI can redirect to the conflicting
// session or list the missing categories instead of erroring blindly.
func respondServiceError(c *gin.Context, err error) {
	if pe, ok := shift.AsPrecondition(err); ok {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:              "error",
			Code:                "PRECONDITION_FAILED",
			Message:             pe.Error(),
			MissingCategories:   pe.MissingCategories,
			PendingTransactions: pe.PendingTransactions,
			ConflictSessionID:   pe.ConflictSessionID,
		})
		return
	}

	switch {
	case errors.Is(err, shift.ErrSessionNotFound),
		errors.Is(err, shift.ErrAssignmentNotFound),
		errors.Is(err, shift.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, shift.ErrNotSessionOwner),
		errors.Is(err, shift.ErrNotAssignmentOwner),
		errors.Is(err, shift.ErrInvalidCancelSecret):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Status:  "error",
			Code:    "FORBIDDEN",
			Message: err.Error(),
		})
	case errors.Is(err, shift.ErrSessionNotOpen),
		errors.Is(err, shift.ErrSessionNotClosed),
		errors.Is(err, shift.ErrNotExemptCategory):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "CONFLICT",
			Message: err.Error(),
		})
	case errors.Is(err, shift.ErrRollbackIncomplete):
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "ROLLBACK_INCOMPLETE",
			Message: err.Error(),
		})
	default:
		respondInternal(c, err)
	}
}
