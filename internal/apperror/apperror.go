// Package apperror defines the error taxonomy shared by services and
// handlers.  Services return *AppError values wrapping one of the sentinel
// errors below; handlers translate them into HTTP status codes (404 for
// ErrNotFound, 400 for ErrValidation, 409 for ErrConflict).  Anything else
// is an infrastructure failure and maps to 500.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// AppError carries a sentinel for classification plus a human-readable
// message that names the specific violated constraint or missing entity.
type AppError struct {
	Err     error  // sentinel error for errors.Is checks
	Message string // human-readable message surfaced to the client
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that an entity with the given id does not exist.
func NotFound(entity string, id uint64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %d not found", entity, id),
	}
}

// Validation reports malformed input or a missing foreign key.
func Validation(message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message}
}

// Validationf is Validation with fmt-style formatting.
func Validationf(format string, args ...any) *AppError {
	return &AppError{Err: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports state that forbids the operation, such as deleting a
// genre that still has movies or reusing a unique name.
func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}
