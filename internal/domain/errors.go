package domain

import (
	"errors"
	"fmt"
)

// Core error taxonomy. Handlers map these onto HTTP status codes.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// Conflict errors
var (
	ErrInventoryFull   = errors.New("character inventory is full")
	ErrTokenExists     = errors.New("character already has a token")
	ErrReorderMismatch = errors.New("reorder list does not match current inventory")
	ErrEmailExists     = errors.New("email already registered")
)

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError wraps ErrInvalidInput with the specific field violations so
// callers get a machine-readable list.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrInvalidInput.Error()
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Violations[0].Field, e.Violations[0].Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func NewValidationError(violations ...FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}
