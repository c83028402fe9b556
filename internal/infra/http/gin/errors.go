package ginserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/shared/apperr"
)

var errInvalidBody = apperr.Validation("invalid request body")

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInvalidRange, apperr.KindPastDate:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindPaymentDeclined:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error", "code"}. Errors without a kind are
// logged and reported as a generic 500.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind != "" {
		c.JSON(statusFor(kind), gin.H{"error": apperr.Message(err), "code": string(kind)})
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		logger.WarnContext(c.Request.Context(), "request timed out", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out", "code": "timeout"})
		return
	}
	logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
}
