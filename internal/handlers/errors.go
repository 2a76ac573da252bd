package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/currensee/currency_converter_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP responses. Provider failures are
// surfaced with a distinct cause so callers can tell an unreachable upstream
// from an unexpected response shape.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		logger.Error("Upstream provider unreachable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the rate provider"})
	case errors.Is(err, apperrors.ErrUpstreamStatus):
		logger.Error("Upstream provider rejected the request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "The rate provider rejected the request"})
	case errors.Is(err, apperrors.ErrSchemaMismatch):
		logger.Error("Upstream provider returned unexpected shape", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "The rate provider returned an unexpected response"})
	case errors.Is(err, apperrors.ErrInterrupted):
		logger.Warn("Request interrupted", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The request was interrupted"})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
