package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/auth"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLogging_RequestIDAndUser(t *testing.T) {
	logs := captureLogs(t)

	codec, err := auth.NewTokenCodec([]byte("secret"), time.Hour)
	require.NoError(t, err)
	token, err := codec.Issue(auth.Identity{Email: "a@x.com", UserID: "alice"})
	require.NoError(t, err)
	mw := NewAuthMiddleware(auth.NewGate(codec, "token", "/feed"))

	var seenID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Logging(mw.RequireAuth(http.HandlerFunc(UnauthorizedJSON))(next))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(requestIDHeader, "req-123")
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
	assert.Equal(t, "req-123", seenID)
	assert.Contains(t, logs.String(), `"user_id":"alice"`)
	assert.Contains(t, logs.String(), `"status":204`)
}

func TestLogging_GeneratesRequestIDAndLogsErrorCode(t *testing.T) {
	logs := captureLogs(t)

	handler := Logging(http.HandlerFunc(UnauthorizedJSON))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))

	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), `"error_code":"UNAUTHENTICATED"`)
}

func TestRecovery(t *testing.T) {
	_ = captureLogs(t)
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	Recovery(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")

	rec = httptest.NewRecorder()
	Recovery(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "INTERNAL_ERROR")
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestPageTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	rec := httptest.NewRecorder()
	PageTimeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, timeoutText, rec.Body.String())
}
