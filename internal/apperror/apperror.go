// Package apperror defines the error kinds shared by every layer.
//
// Repositories and services return *AppError values wrapping one of the
// sentinels below. Only the HTTP layer decides which status code a kind maps to.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)

// Kind is the machine-readable error type sent to clients.
type Kind string

const (
	KindValidation Kind = "validation_error"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal_error"
)

// AppError carries a client-safe message alongside its sentinel kind.
type AppError struct {
	Err     error
	Message string
	Field   string // set for validation failures
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Err }

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// Conflict reports a uniqueness violation on one of the resource's columns.
func Conflict(resource, detail string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict: %s", resource, detail),
	}
}

// KindOf classifies err. Anything that is not an *AppError, or wraps an
// unknown sentinel, is KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return KindInternal
	}
	switch {
	case errors.Is(appErr, ErrValidation):
		return KindValidation
	case errors.Is(appErr, ErrNotFound):
		return KindNotFound
	case errors.Is(appErr, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// Message returns the client-safe text for err, or fallback when err carries
// none.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && KindOf(appErr) != KindInternal {
		return appErr.Message
	}
	return fallback
}
