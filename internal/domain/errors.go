package domain

import (
	"fmt"
)

// -----------------------------
// ValidationError
// -----------------------------

type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		Message: message,
	}
}

func NewValidationErrorWithCause(message string, cause error) *ValidationError {
	return &ValidationError{
		Message: message,
		Cause:   cause,
	}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// -----------------------------
// FetchError
// -----------------------------

// FetchError indicates a failed attempt to retrieve the feature-toggle
// document from the remote service.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func NewFetchError(endpoint string, statusCode int, err error) *FetchError {
	return &FetchError{Endpoint: endpoint, StatusCode: statusCode, Err: err}
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch from %s failed with status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetch from %s failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func IsFetchError(err error) bool {
	_, ok := err.(*FetchError)
	return ok
}
