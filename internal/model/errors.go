package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Post related errors
	ErrPostNotFound = errors.New("post not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
