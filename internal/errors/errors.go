package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound        = newSentinel(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists   = newSentinel(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation      = newSentinel(ErrCodeValidation, "validation error")
	ErrDatabase        = newSentinel(ErrCodeDatabase, "database error")
	ErrSystem          = newSentinel(ErrCodeSystemError, "system error")
	ErrSequenceTimeout = newSentinel(ErrCodeSequenceTimeout, "sequence lock not acquired within timeout")
)

const (
	ErrCodeNotFound        = "not_found"
	ErrCodeAlreadyExists   = "already_exists"
	ErrCodeValidation      = "validation_error"
	ErrCodeDatabase        = "database_error"
	ErrCodeSystemError     = "system_error"
	ErrCodeSequenceTimeout = "sequence_timeout"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func newSentinel(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsDatabase checks if an error is a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsSequenceTimeout checks if an error is a sequence lock timeout. Callers
// must treat these as fatal to the current operation and retry the whole
// operation later; the generator never hands out a value after one.
func IsSequenceTimeout(err error) bool {
	return errors.Is(err, ErrSequenceTimeout)
}
