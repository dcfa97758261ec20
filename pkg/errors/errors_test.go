package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestEngineError(t *testing.T) {
	t.Run("error message format", func(t *testing.T) {
		err := NewRateLimitError("weather", "quota exhausted")
		msg := err.Error()

		if msg == "" {
			t.Error("error message should not be empty")
		}

		// Should contain key information
		contains := []string{"rate_limit_error", "weather", "429"}
		for _, s := range contains {
			if !strings.Contains(msg, s) {
				t.Errorf("error message should contain %q, got %q", s, msg)
			}
		}
	})

	t.Run("HTTP status codes", func(t *testing.T) {
		tests := []struct {
			name     string
			err      *EngineError
			wantCode int
		}{
			{"invalid request", NewInvalidRequestError("msg"), 400},
			{"session not found", NewSessionNotFoundError("abc"), 404},
			{"rate limit", NewRateLimitError("p", "msg"), 429},
			{"timeout", NewTimeoutError("p", "msg"), 408},
			{"provider", NewProviderError("p", "msg"), 502},
			{"unavailable", NewServiceUnavailableError("p", "msg"), 503},
			{"internal", NewInternalError("msg"), 500},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.err.HTTPStatusCode(); got != tt.wantCode {
					t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.wantCode)
				}
			})
		}
	})

	t.Run("zero status defaults to 500", func(t *testing.T) {
		err := &EngineError{Type: TypeInternalError, Message: "boom"}
		if got := err.HTTPStatusCode(); got != http.StatusInternalServerError {
			t.Errorf("HTTPStatusCode() = %d, want 500", got)
		}
	})

	t.Run("retryable flag", func(t *testing.T) {
		retryable := []*EngineError{
			NewRateLimitError("p", "msg"),
			NewTimeoutError("p", "msg"),
			NewProviderError("p", "msg"),
			NewServiceUnavailableError("p", "msg"),
		}
		for _, err := range retryable {
			if !IsRetryable(err) {
				t.Errorf("%s should be retryable", err.Type)
			}
		}

		notRetryable := []*EngineError{
			NewInvalidRequestError("msg"),
			NewSessionNotFoundError("abc"),
			NewInternalError("msg"),
		}
		for _, err := range notRetryable {
			if IsRetryable(err) {
				t.Errorf("%s should not be retryable", err.Type)
			}
		}
	})
}

func TestEngineError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewProviderError("weather", "fetch failed").WithCause(cause)

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the attached cause")
	}
	if !IsRetryable(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsRetryable should see through wrapping")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NewSessionNotFoundError("abc")) {
		t.Error("expected session-not-found to be detected")
	}
	if IsNotFound(NewInternalError("boom")) {
		t.Error("internal error is not a not-found")
	}
	if IsNotFound(fmt.Errorf("plain")) {
		t.Error("plain error is not a not-found")
	}
}
