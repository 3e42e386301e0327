package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto HTTP statuses in one place so
// every handler agrees: validation 400, not-found 404, state conflicts 409,
// invariant violations 422, storage faults 503.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrState):
		logger.Warn("State conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvariant):
		logger.Warn("Invariant violation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStorage):
		logger.Error("Storage failure", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage temporarily unavailable"})
	default:
		logger.Error("Unhandled error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// companyScope pulls the company and actor out of the request context; a
// missing company aborts with 400.
func companyScope(c *gin.Context) (companyID string, actor string, ok bool) {
	companyID, ok = middleware.GetCompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company scope missing"})
		return "", "", false
	}
	return companyID, middleware.GetActorFromContext(c), true
}
