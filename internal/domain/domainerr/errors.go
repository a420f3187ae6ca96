// Package domainerr defines the error kinds every deal desk operation reports.
// Callers match them with errors.Is; the transport layer maps them to status codes.
package domainerr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or out-of-range caller input. Nothing was written.
	ErrValidation = errors.New("validation failed")
	// ErrPreconditionFailed marks valid input applied to an object in the wrong state.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrConflict marks a lost race on a conditional write. Re-fetch and retry.
	ErrConflict = errors.New("conflict")
	// ErrConfiguration marks missing or invalid administrator configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a reference to a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an actor lacking the capability an operation needs.
	ErrForbidden = errors.New("forbidden")
)

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Validationf returns an ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error { return wrap(ErrValidation, format, args...) }

// Preconditionf returns an ErrPreconditionFailed with a formatted detail message.
func Preconditionf(format string, args ...any) error {
	return wrap(ErrPreconditionFailed, format, args...)
}

// Conflictf returns an ErrConflict with a formatted detail message.
func Conflictf(format string, args ...any) error { return wrap(ErrConflict, format, args...) }

// Configurationf returns an ErrConfiguration with a formatted detail message.
func Configurationf(format string, args ...any) error {
	return wrap(ErrConfiguration, format, args...)
}

// NotFoundf returns an ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error { return wrap(ErrNotFound, format, args...) }

// Forbiddenf returns an ErrForbidden with a formatted detail message.
func Forbiddenf(format string, args ...any) error { return wrap(ErrForbidden, format, args...) }

// Kind returns the sentinel err wraps, or nil for errors outside the taxonomy.
func Kind(err error) error {
	for _, kind := range []error{
		ErrValidation, ErrPreconditionFailed, ErrConflict,
		ErrConfiguration, ErrNotFound, ErrForbidden,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
