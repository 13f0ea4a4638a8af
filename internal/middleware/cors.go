package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows credentialed requests only from explicitly configured origins;
// with no origins configured any origin may call, without cookies.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowCredentials := len(origins) > 0
	if !allowCredentials {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		MaxAge:           3600,
		AllowCredentials: allowCredentials,
	})

	return handler.Handler
}
