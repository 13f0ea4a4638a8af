package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	Email    string `json:"email"`
	UserID   string `json:"userid"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens. The secret is bound at
// construction; rotating it invalidates every token issued before.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec returns a codec signing with secret. A ttl of zero issues
// tokens without an expiry.
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl < 0 {
		return nil, fmt.Errorf("session ttl must not be negative: %s", ttl)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenCodec{secret: key, ttl: ttl, now: time.Now}, nil
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

func (c *TokenCodec) Issue(identity Identity) (string, error) {
	if !identity.complete() {
		return "", ErrIncompleteIdentity
	}

	now := c.now().UTC()
	claims := sessionClaims{
		Email:    identity.Email,
		UserID:   identity.UserID,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Verify recomputes the signature over the embedded claims and returns them
// only if signature, structure and expiry all check out. Any failure is
// reported as ErrInvalidToken.
func (c *TokenCodec) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	identity := Identity{
		Email:    claims.Email,
		UserID:   claims.UserID,
		Username: claims.Username,
	}
	if !identity.complete() {
		return Identity{}, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}

	return identity, nil
}
