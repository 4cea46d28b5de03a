// Package errors holds the error vocabulary of the users service: sentinel
// errors that classify low-level failures, and ApplicationError, the typed
// code/title/status failure rendered by the user controllers.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict marks a write rejected by a uniqueness constraint.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput marks data rejected before it reaches storage.
	ErrInvalidInput = errors.New("invalid input")
)

// Wrap annotates err with message, keeping it matchable with Is and As.
// A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
