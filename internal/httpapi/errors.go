package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/godilite/reputation-server/internal/repository/models"
	"github.com/godilite/reputation-server/internal/service"
)

func contextWithTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

// handleError maps pipeline and storage sentinels to HTTP status codes in
// one place. Unknown errors become a 500 without leaking internals.
func (h *Handlers) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateFeedback):
		h.logger.Info("duplicate submission rejected", zap.String("op", op))
		c.JSON(http.StatusConflict, gin.H{"error": "feedback already submitted for this driver today"})

	case errors.Is(err, service.ErrQueueFull):
		h.logger.Warn("queue at capacity", zap.String("op", op))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "feedback queue is full, retry later"})

	case errors.Is(err, service.ErrDriverNotFound), errors.Is(err, models.ErrNotFound):
		h.logger.Info("driver not found", zap.String("op", op))
		c.JSON(http.StatusNotFound, gin.H{"error": "driver not found"})

	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})

	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("request timeout", zap.String("op", op))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})

	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
