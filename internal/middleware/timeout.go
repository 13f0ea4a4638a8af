package middleware

import (
	"net/http"
	"time"
)

const (
	timeoutJSON = `{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"request timed out"}}`
	timeoutText = "Request timed out"
)

// Timeout wraps API routes; the timeout body is a JSON error envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return timeoutWith(timeout, timeoutJSON)
}

// PageTimeout wraps HTML routes with a plain-text timeout body.
func PageTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return timeoutWith(timeout, timeoutText)
}

func timeoutWith(timeout time.Duration, message string) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
