// Package apperr defines the error taxonomy the workflows speak. Handlers
// map kinds to HTTP statuses; services wrap collaborator failures into the
// nearest kind instead of leaking collaborator detail.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Match with errors.Is.
var (
	ErrForbidden   = errors.New("forbidden")
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("invalid input")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("upstream unavailable")
	ErrInternal    = errors.New("internal error")
)

// Forbidden wraps msg as a Forbidden error.
func Forbidden(msg string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, msg)
}

// NotFound wraps msg as a NotFound error.
func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// Validation wraps msg as a Validation error.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Internal wraps an underlying failure as an Internal error.
func Internal(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrInternal, msg)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}

// Unavailable wraps a transport-level failure talking to a collaborator.
func Unavailable(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, msg, err)
}
