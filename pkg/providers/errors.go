package providers

import (
	"fmt"
	"time"
)

// TimeoutError indicates the provider did not answer within the configured
// per-provider timeout. The HTTP layer maps it to 504 provider_timeout.
type TimeoutError struct {
	// Provider is the provider id.
	Provider string

	// Timeout is the deadline that was exceeded.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %s: request timed out after %s", e.Provider, e.Timeout)
}

// UnreachableError indicates the provider endpoint could not be reached at
// the transport level (DNS failure, connection refused, TLS failure).
// The HTTP layer maps it to 504 provider_unreachable.
type UnreachableError struct {
	// Provider is the provider id.
	Provider string

	// Err is the underlying transport error.
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("provider %s: endpoint unreachable: %v", e.Provider, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// BadResponseError indicates the provider answered but with an error status
// or a body that could not be parsed. The HTTP layer maps it to 502
// provider_bad_response.
type BadResponseError struct {
	// Provider is the provider id.
	Provider string

	// StatusCode is the HTTP status returned by the provider, or zero when
	// the failure was a parse error on a 2xx response.
	StatusCode int

	// Message describes the failure, including a snippet of the provider
	// body when available.
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (e *BadResponseError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s: bad response (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s: bad response: %s", e.Provider, e.Message)
}

func (e *BadResponseError) Unwrap() error {
	return e.Err
}

// ModelNotFoundError indicates the requested model does not exist on the
// provider. The request is never retried with a different model; the HTTP
// layer maps it to 502 model_not_found.
type ModelNotFoundError struct {
	// Provider is the provider id.
	Provider string

	// Model is the model that was requested.
	Model string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("provider %s: model %q not found", e.Provider, e.Model)
}

// ConfigError indicates invalid provider configuration detected at startup.
// It is fatal: the process exits non-zero before binding the listener.
type ConfigError struct {
	// Provider is the provider id, or the raw configured value when the id
	// itself is the problem.
	Provider string

	// Field is the offending configuration field.
	Field string

	// Message describes the problem.
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %s: invalid config field %q: %s", e.Provider, e.Field, e.Message)
}
