// Package common defines shared constants and sentinel errors used across
// client and server layers of mycolog. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateRecord signals a violated (user_id, local_id) uniqueness
	// constraint. Exactly one remote row may exist per local record.
	ErrDuplicateRecord = errors.New("duplicate record")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserExists signals a registration attempt for a taken username.
	ErrUserExists = errors.New("user already exists")
)
