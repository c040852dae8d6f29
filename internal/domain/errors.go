package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing todo and a todo owned by someone
	// else; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	ErrDuplicateUsername   = errors.New("that username has already been taken, please choose a new one")
	ErrPasswordMismatch    = errors.New("passwords did not match")
	ErrInvalidCredentials  = errors.New("incorrect username or password")
	ErrCompletionInvariant = errors.New("completed flag and completion date must be set together")
	ErrMissingOwner        = errors.New("todo must have an owner")
)

// ValidationError reports user input that was rejected as a whole. Field is
// empty when the failure is not tied to a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
