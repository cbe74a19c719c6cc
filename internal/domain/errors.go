package domain

import "errors"

// Common errors used throughout the application.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")

	// ErrUnavailable marks a transient external-service fault (connection
	// refused, timeout, non-2xx). Callers degrade to empty results instead
	// of propagating it.
	ErrUnavailable = errors.New("service unavailable")
)

// APIError represents an error response from the API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
