package providers

import (
	"fmt"
	"time"
)

// ProviderError represents a non-success HTTP response from a provider.
type ProviderError struct {
	// Provider is the name of the gateway that received the error.
	Provider string

	// StatusCode is the HTTP status code (0 if not applicable).
	StatusCode int

	// Message is the response body or error detail.
	Message string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the status code warrants another attempt.
// Server errors and rate limiting are transient; other client errors are not.
func (e *ProviderError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// TimeoutError represents a single attempt exceeding the configured timeout.
type TimeoutError struct {
	// Provider is the name of the gateway where the timeout occurred.
	Provider string

	// Timeout is the configured per-attempt timeout.
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q request timeout after %s", e.Provider, e.Timeout)
}

// ParseError represents a malformed provider response.
type ParseError struct {
	// Provider is the name of the gateway that received the response.
	Provider string

	// Cause is the underlying parse error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ConfigError represents an invalid gateway configuration.
type ConfigError struct {
	// Provider is the name of the misconfigured gateway.
	Provider string

	// Field is the configuration field that is invalid.
	Field string

	// Message describes the configuration error.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
