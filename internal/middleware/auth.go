package middleware

import (
	"context"
	"net/http"

	"postboard/internal/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

type AuthMiddleware struct {
	gate *auth.Gate
}

func NewAuthMiddleware(gate *auth.Gate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// RequireAuth lets the request through with the verified identity attached to
// its context. Denied requests are handed to onDeny and never reach next.
func (m *AuthMiddleware) RequireAuth(onDeny http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := m.gate.Authenticate(r)
			if !decision.Allowed() {
				onDeny.ServeHTTP(w, r)
				return
			}

			if info, ok := r.Context().Value(requestInfoContextKey).(*requestInfo); ok {
				info.userID = decision.Identity.UserID
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), decision.Identity)))
		})
	}
}

// GuestOnly redirects callers that already hold a valid session away from
// the login and registration pages.
func (m *AuthMiddleware) GuestOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := m.gate.RejectIfAuthenticated(r)
		if decision.Outcome == auth.Redirect {
			http.Redirect(w, r, decision.Location, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(auth.Identity)
	return identity, ok
}

// UnauthorizedJSON is the deny handler for API routes.
func UnauthorizedJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
}
