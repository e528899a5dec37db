// Package services holds types shared by the domain services, chiefly the
// validation error the HTTP layer maps to a 400 response.
package services

import (
	"errors"
	"fmt"
)

// ValidationError reports that an operation was rejected because its input
// failed a business rule. It is distinct from storage.ErrNotFound and from
// storage failures so callers cannot confuse "invalid" with "absent".
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Rejectf builds a ValidationError from a format string.
func Rejectf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
