package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			slog.Error("panic recovered",
				"error", fmt.Sprintf("%v", recovered),
				"request_id", RequestIDFromContext(r.Context()),
				"stack", string(debug.Stack()),
			)

			if !strings.HasPrefix(r.URL.Path, "/api/") {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error")
		}()

		next.ServeHTTP(w, r)
	})
}
