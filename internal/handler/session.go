package handler

import (
	"net/http"
	"time"
)

// SessionCookies writes and clears the cookie that carries the session token.
type SessionCookies struct {
	name   string
	secure bool
	ttl    time.Duration
}

func NewSessionCookies(name string, secure bool, ttl time.Duration) *SessionCookies {
	return &SessionCookies{name: name, secure: secure, ttl: ttl}
}

func (c *SessionCookies) Set(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	// A zero TTL issues non-expiring tokens; the cookie then lives for the
	// browser session.
	if c.ttl > 0 {
		cookie.MaxAge = int(c.ttl / time.Second)
		cookie.Expires = time.Now().Add(c.ttl).UTC()
	}

	http.SetCookie(w, cookie)
}

func (c *SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
