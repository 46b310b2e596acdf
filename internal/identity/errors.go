package identity

import "errors"

// Service errors mapped to HTTP responses by the handler.
var (
	ErrUserNotFound    = errors.New("User not found")
	ErrEmailExists     = errors.New("Email already exists")
	ErrInvalidPassword = errors.New("Invalid password")
	ErrInvalidToken    = errors.New("Invalid token")
)
