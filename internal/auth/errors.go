package auth

import "errors"

var (
	ErrMissingSecret      = errors.New("session secret is not configured")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrIncompleteIdentity = errors.New("identity requires email and user id")

	ErrMalformedHash   = errors.New("malformed credential record")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	ErrInvalidHashCost = errors.New("invalid bcrypt cost")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)
