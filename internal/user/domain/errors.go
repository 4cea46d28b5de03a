// Package domain defines the user entity, its value objects and domain errors.
package domain

import (
	"github.com/allisson/users/internal/errors"
)

// User-specific error definitions.
var (
	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidUserID indicates the identifier is not valid for the storage backend.
	ErrInvalidUserID = errors.Wrap(errors.ErrInvalidInput, "invalid user id")
)

// ValidationError is returned when a value object rejects its input.
// The message is shown to API clients verbatim.
type ValidationError struct {
	Message string
}

// Error returns the human readable message.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap classifies validation failures as invalid input.
func (e *ValidationError) Unwrap() error {
	return errors.ErrInvalidInput
}
