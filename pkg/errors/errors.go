// Package errors defines unified error types for the conversation engine's
// collaborator boundaries. Provider and store failures are mapped to these
// standard types; core classification and extraction never produce errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// EngineError represents a standardized failure at an engine boundary.
// It carries enough information for error handling, logging, and the HTTP
// response the caller eventually renders.
type EngineError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Provider   string `json:"provider,omitempty"`
	Retryable  bool   `json:"-"`
	Cause      error  `json:"-"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s (provider=%s, code=%d)", e.Type, e.Message, e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("[%s] %s (code=%d)", e.Type, e.Message, e.StatusCode)
}

// Unwrap returns the wrapped cause, if any.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// HTTPStatusCode returns the appropriate HTTP status code for the error.
func (e *EngineError) HTTPStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// WithCause attaches the underlying error and returns the receiver.
func (e *EngineError) WithCause(err error) *EngineError {
	e.Cause = err
	return e
}

// Common error types as constants for consistency.
const (
	TypeInvalidRequest     = "invalid_request_error"
	TypeSessionNotFound    = "session_not_found"
	TypeRateLimit          = "rate_limit_error"
	TypeTimeout            = "timeout_error"
	TypeProvider           = "provider_error"
	TypeServiceUnavailable = "service_unavailable_error"
	TypeInternalError      = "internal_error"
)

// NewInvalidRequestError creates an invalid request error (400).
func NewInvalidRequestError(message string) *EngineError {
	return &EngineError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Type:       TypeInvalidRequest,
		Retryable:  false,
	}
}

// NewSessionNotFoundError creates a not found error (404) for a session id.
func NewSessionNotFoundError(sessionID string) *EngineError {
	return &EngineError{
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("session %q not found", sessionID),
		Type:       TypeSessionNotFound,
		Retryable:  false,
	}
}

// NewRateLimitError creates a rate limit error (429) for a data provider.
func NewRateLimitError(provider, message string) *EngineError {
	return &EngineError{
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
		Type:       TypeRateLimit,
		Provider:   provider,
		Retryable:  true,
	}
}

// NewTimeoutError creates a timeout error (408) for a data provider.
func NewTimeoutError(provider, message string) *EngineError {
	return &EngineError{
		StatusCode: http.StatusRequestTimeout,
		Message:    message,
		Type:       TypeTimeout,
		Provider:   provider,
		Retryable:  true,
	}
}

// NewProviderError creates an upstream provider error (502).
func NewProviderError(provider, message string) *EngineError {
	return &EngineError{
		StatusCode: http.StatusBadGateway,
		Message:    message,
		Type:       TypeProvider,
		Provider:   provider,
		Retryable:  true,
	}
}

// NewServiceUnavailableError creates a service unavailable error (503).
func NewServiceUnavailableError(provider, message string) *EngineError {
	return &EngineError{
		StatusCode: http.StatusServiceUnavailable,
		Message:    message,
		Type:       TypeServiceUnavailable,
		Provider:   provider,
		Retryable:  true,
	}
}

// NewInternalError creates an internal error (500).
func NewInternalError(message string) *EngineError {
	return &EngineError{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
		Type:       TypeInternalError,
		Retryable:  false,
	}
}

// IsRetryable reports whether err is an EngineError marked retryable.
func IsRetryable(err error) bool {
	var ee *EngineError
	if stderrors.As(err, &ee) {
		return ee.Retryable
	}
	return false
}

// IsNotFound reports whether err is a session-not-found error.
func IsNotFound(err error) bool {
	var ee *EngineError
	if stderrors.As(err, &ee) {
		return ee.Type == TypeSessionNotFound
	}
	return false
}
