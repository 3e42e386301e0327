package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler drives the session state machine over HTTP.
type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconService: rs}
}

// registerReconciliationRoutes registers routes related to reconciliation sessions.
func registerReconciliationRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(rs)

	sessions := rg.Group("/reconciliations")
	{
		sessions.POST("", h.startSession)
		sessions.GET("/:id", h.getSession)
		sessions.GET("/:id/difference", h.getDifference)
		sessions.POST("/:id/toggle", h.toggleSelect)
		sessions.POST("/:id/finish", h.finishSession)
		sessions.POST("/:id/cancel", h.cancelSession)
	}
	rg.GET("/accounts/:id/reconciliations", h.listSessions)
}

func (h *reconciliationHandler) startSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, actor, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.StartReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session, err := h.reconService.Start(c.Request.Context(), companyID, req, actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToReconciliationSessionResponse(session))
}

func (h *reconciliationHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	session, err := h.reconService.GetSession(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session))
}

func (h *reconciliationHandler) getDifference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}
	sessionID := c.Param("id")

	diff, err := h.reconService.Difference(c.Request.Context(), companyID, sessionID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DifferenceResponse{SessionID: sessionID, Difference: diff})
}

func (h *reconciliationHandler) toggleSelect(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, actor, ok := companyScope(c)
	if !ok {
		return
	}

	var req dto.ToggleSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ToggleSelect", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session, err := h.reconService.ToggleSelect(c.Request.Context(), companyID, c.Param("id"), req.TransactionID, actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session))
}

func (h *reconciliationHandler) finishSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, actor, ok := companyScope(c)
	if !ok {
		return
	}

	session, err := h.reconService.Finish(c.Request.Context(), companyID, c.Param("id"), actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session))
}

func (h *reconciliationHandler) cancelSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, actor, ok := companyScope(c)
	if !ok {
		return
	}

	session, err := h.reconService.Cancel(c.Request.Context(), companyID, c.Param("id"), actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponse(session))
}

func (h *reconciliationHandler) listSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, _, ok := companyScope(c)
	if !ok {
		return
	}

	sessions, err := h.reconService.ListSessions(c.Request.Context(), companyID, c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationSessionResponses(sessions))
}
