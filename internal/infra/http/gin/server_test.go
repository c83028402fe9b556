package ginserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/shared/apperr"
	domainuser "staybook/internal/domain/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWriteErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.Validation("bad"), http.StatusBadRequest, "validation"},
		{apperr.InvalidRange("range"), http.StatusBadRequest, "invalid_range"},
		{apperr.PastDate("past"), http.StatusBadRequest, "past_date"},
		{fmt.Errorf("wrapped: %w", apperr.NotFound("gone")), http.StatusNotFound, "not_found"},
		{apperr.Conflict("taken"), http.StatusConflict, "conflict"},
		{apperr.Forbidden("no"), http.StatusForbidden, "forbidden"},
		{apperr.Unauthorized("who"), http.StatusUnauthorized, "unauthorized"},
		{apperr.New(apperr.KindPaymentDeclined, "declined"), http.StatusPaymentRequired, "payment_declined"},
		{errors.New("mongo exploded"), http.StatusInternalServerError, "internal"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		writeError(c, quietLogger, tc.err)
		if rec.Code != tc.status || !strings.Contains(rec.Body.String(), `"code":"`+tc.code+`"`) {
			t.Fatalf("%v: got %d %s", tc.err, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, quietLogger, errors.New("secret dsn mongodb://user:pass@db"))
	if strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("internal error details must not leak: %s", rec.Body.String())
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-07-01", "2024-07-01T00:00:00Z", "2024-07-01T02:00:00+02:00"} {
		got, err := parseDate("checkInDate", raw)
		if err != nil || !got.Equal(want) {
			t.Fatalf("%q: got %v, %v", raw, got, err)
		}
	}
	if got, err := parseDate("checkInDate", " "); err != nil || !got.IsZero() {
		t.Fatalf("blank date should be zero, got %v %v", got, err)
	}
	if _, err := parseDate("checkInDate", "07/01/2024"); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(_ context.Context, token string) (domainuser.Principal, error) {
	if token == "good" {
		return domainuser.Principal{ID: "u1", Role: domainuser.RoleHost}, nil
	}
	return domainuser.Principal{}, apperr.Unauthorized("not authorized, token failed")
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware{Service: stubAuthenticator{}, Logger: quietLogger}.Handle)
	router.GET("/whoami", func(c *gin.Context) {
		p := currentPrincipal(c)
		c.String(http.StatusOK, string(p.ID)+"/"+string(p.Role))
	})

	cases := []struct {
		header string
		status int
		body   string
	}{
		{"", http.StatusOK, "/"},
		{"Bearer good", http.StatusOK, "u1/host"},
		{"bearer good", http.StatusOK, "u1/host"},
		{"Basic good", http.StatusOK, "/"},
		{"Bearer bad", http.StatusUnauthorized, `"code":"unauthorized"`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.status || !strings.Contains(rec.Body.String(), tc.body) {
			t.Fatalf("%q: got %d %s", tc.header, rec.Code, rec.Body.String())
		}
	}
}

func TestRequestTimeoutBoundsContext(t *testing.T) {
	router := gin.New()
	router.Use(requestTimeout(time.Minute))
	router.GET("/", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("request context should carry a deadline, got %d", rec.Code)
	}
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware{Service: stubAuthenticator{}, Logger: quietLogger}.Handle)
	router.POST("/private", requireAuth, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/private", strings.NewReader("{")))
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "no token") {
		t.Fatalf("anonymous: got %d %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/private", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("authenticated: got %d", rec.Code)
	}
}
