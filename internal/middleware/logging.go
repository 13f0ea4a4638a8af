package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"

	requestInfoContextKey contextKey = "request_info"
)

// requestInfo travels down the chain so inner middleware can report back to
// the access log, e.g. which user the request was authenticated as.
type requestInfo struct {
	id     string
	userID string
}

// errorBody is a minimal struct used to extract error details from JSON responses.
type errorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		info := &requestInfo{id: requestID}
		started := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), requestInfoContextKey, info)))

		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(started).Milliseconds(),
			"client_ip", r.RemoteAddr,
		}
		if info.userID != "" {
			attrs = append(attrs, "user_id", info.userID)
		}
		if location := wrapped.Header().Get("Location"); location != "" && wrapped.status >= 300 && wrapped.status < 400 {
			attrs = append(attrs, "location", location)
		}

		// For JSON error responses, attach the error code and message.
		if wrapped.status >= 400 && wrapped.body.Len() > 0 {
			var parsed errorBody
			if err := json.Unmarshal(wrapped.body.Bytes(), &parsed); err == nil && parsed.Error != nil {
				attrs = append(attrs, "error_code", parsed.Error.Code)
				attrs = append(attrs, "error_message", parsed.Error.Message)
				if parsed.Error.Details != "" {
					attrs = append(attrs, "error_details", parsed.Error.Details)
				}
			}
		}

		switch {
		case wrapped.status >= 500:
			slog.Error("request", attrs...)
		case wrapped.status >= 400:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	})
}

// RequestIDFromContext returns the id Logging assigned to the request, if any.
func RequestIDFromContext(ctx context.Context) string {
	if info, ok := ctx.Value(requestInfoContextKey).(*requestInfo); ok {
		return info.id
	}
	return ""
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.wroteHeader {
		return
	}
	rw.status = statusCode
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	// Capture the body only for error responses so we can log error details.
	if rw.status >= 400 {
		rw.body.Write(b)
	}
	return rw.ResponseWriter.Write(b)
}

// Hijack keeps websocket upgrades working behind the logger.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rw.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}
