package obs

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type Middleware struct {
	Logger  *slog.Logger
	Metrics *Metrics
}

func (m Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), requestIDKey{}, id)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

// LoggerMiddleware logs one line per request and feeds the HTTP metrics.
func (m Middleware) LoggerMiddleware() gin.HandlerFunc {
	log := m.Logger
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if m.Metrics != nil {
			m.Metrics.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(status), elapsed)
		}
		if log == nil {
			return
		}
		attrs := []any{"method", c.Request.Method, "path", route, "status", status, "duration", elapsed, "request_id", c.GetString("request_id")}
		switch {
		case status >= 500:
			log.ErrorContext(c.Request.Context(), "http", attrs...)
		case status >= 400:
			log.WarnContext(c.Request.Context(), "http", attrs...)
		default:
			log.InfoContext(c.Request.Context(), "http", attrs...)
		}
	}
}

type requestIDKey struct{}

func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
