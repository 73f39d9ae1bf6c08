package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/expenso-labs/receipt_workflow_app/internal/apperrors"
)

// respondServiceError maps service-layer errors onto HTTP statuses. Compliance
// gate failures carry their issue messages so clients can show what to fix.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var validationFailed *apperrors.ValidationFailedError
	switch {
	case errors.As(err, &validationFailed):
		logger.Warn("Compliance validation failed", slog.Int("issue_count", len(validationFailed.Messages)))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "compliance validation failed",
			"issues": validationFailed.Messages,
		})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrAlreadyLinked),
		errors.Is(err, apperrors.ErrNotLinked),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// paginationParams reads limit and nextToken query parameters.
func paginationParams(c *gin.Context) (int, *string) {
	limit := 20
	if raw, ok := c.GetQuery("limit"); ok {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	var nextToken *string
	if token, ok := c.GetQuery("nextToken"); ok && token != "" {
		nextToken = &token
	}
	return limit, nextToken
}
