package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"staybook/internal/domain/shared/apperr"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, " WARN ": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONLoggerOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "prod", "info").Info("hello", "booking_id", "b1")
	if !strings.Contains(buf.String(), `"booking_id":"b1"`) {
		t.Fatalf("expected JSON output, got %s", buf.String())
	}
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := NewMetrics()
	mw := Middleware{Metrics: metrics}
	r := gin.New()
	r.Use(mw.RequestID(), mw.LoggerMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "req-1" || w.Header().Get("X-Request-ID") != "req-1" {
		t.Fatalf("request id not propagated: %q", w.Body.String())
	}

	metrics.ObserveMessage("command", "booking.create", time.Millisecond, apperr.Conflict("taken"))
	metrics.ObserveMessage("command", "booking.create", time.Millisecond, errors.New("boom"))

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	for _, want := range []string{
		`staybook_http_requests_total{method="GET",path="/ping",status="200"} 1`,
		`staybook_bus_messages_total{bus="command",key="booking.create",outcome="conflict"} 1`,
		`staybook_bus_messages_total{bus="command",key="booking.create",outcome="error"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %s", want)
		}
	}
}

func TestReadyz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := HealthHandlers{Checks: map[string]Check{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("down") },
	}}
	r := gin.New()
	r.GET("/readyz", h.Readyz)
	r.GET("/livez", h.Livez)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "redis") {
		t.Fatalf("expected 503 naming redis, got %d %s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("livez: %d", w.Code)
	}
}

func TestInitTracingWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), nil, "", "staybook", "test")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
