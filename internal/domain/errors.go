package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when a row does not exist or is inactive.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected write payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
