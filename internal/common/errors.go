package common

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks an out-of-domain argument. Calculations reject such
// arguments before doing any work.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the offending field. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// InvalidInput builds a ValidationError for field.
func InvalidInput(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is, or wraps, a validation failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
