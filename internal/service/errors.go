package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. Maps to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrGenerationUnavailable indicates the passage generation collaborator
	// failed and no test could be created. Maps to HTTP 502 Bad Gateway.
	ErrGenerationUnavailable = errors.New("passage generation unavailable")
)

// SessionServiceError is a custom error type for session service failures.
type SessionServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for SessionServiceError.
func (e *SessionServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("session service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SessionServiceError) Unwrap() error {
	return e.Err
}

// NewSessionServiceError creates a new SessionServiceError.
func NewSessionServiceError(operation, message string, err error) *SessionServiceError {
	return &SessionServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
