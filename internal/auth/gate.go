package auth

import "net/http"

const DefaultCookieName = "token"

// CookieJar is the read side of a request's cookies. *http.Request satisfies it.
type CookieJar interface {
	Cookie(name string) (*http.Cookie, error)
}

type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// Gate decides, from the session cookie alone, whether a request carries a
// valid identity. It never touches storage.
type Gate struct {
	verifier   TokenVerifier
	cookieName string
	landing    string
}

func NewGate(verifier TokenVerifier, cookieName string, landing string) *Gate {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if landing == "" {
		landing = "/"
	}

	return &Gate{verifier: verifier, cookieName: cookieName, landing: landing}
}

func (g *Gate) CookieName() string {
	return g.cookieName
}

// Authenticate returns Proceed with the decoded identity, or Deny. A missing
// cookie and an empty cookie value are the same case and never reach the
// verifier.
func (g *Gate) Authenticate(jar CookieJar) Decision {
	token := g.token(jar)
	if token == "" {
		return Decision{Outcome: Deny}
	}

	identity, err := g.verifier.Verify(token)
	if err != nil {
		return Decision{Outcome: Deny}
	}

	return Decision{Outcome: Proceed, Identity: identity}
}

// RejectIfAuthenticated guards public-only pages: a caller already holding a
// valid token is redirected to the landing page.
func (g *Gate) RejectIfAuthenticated(jar CookieJar) Decision {
	decision := g.Authenticate(jar)
	if decision.Outcome == Proceed {
		return Decision{Outcome: Redirect, Identity: decision.Identity, Location: g.landing}
	}

	return Decision{Outcome: Proceed}
}

func (g *Gate) token(jar CookieJar) string {
	if jar == nil {
		return ""
	}

	cookie, err := jar.Cookie(g.cookieName)
	if err != nil || cookie == nil {
		return ""
	}

	return cookie.Value
}
