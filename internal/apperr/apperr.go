// Package apperr defines the error kinds surfaced by ledger operations.
//
// Every error returned across a package boundary either wraps one of the
// sentinels below with %w or is an internal failure. Callers classify with
// errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced group, participant, expense,
	// settlement or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor lacks the role the operation requires.
	ErrForbidden = errors.New("forbidden")

	// ErrBadRequest means the input is invalid.
	ErrBadRequest = errors.New("bad request")

	// ErrConflict means a concurrent update was detected on the store.
	ErrConflict = errors.New("conflict")
)

// NotFound returns an error wrapping ErrNotFound.
func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

// Forbidden returns an error wrapping ErrForbidden.
func Forbidden(format string, args ...any) error {
	return wrap(ErrForbidden, format, args...)
}

// BadRequest returns an error wrapping ErrBadRequest.
func BadRequest(format string, args ...any) error {
	return wrap(ErrBadRequest, format, args...)
}

// Conflict returns an error wrapping ErrConflict.
func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Kind reports which sentinel err wraps, or nil for internal errors.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrBadRequest, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
