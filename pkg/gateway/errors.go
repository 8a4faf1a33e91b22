package gateway

import (
	"errors"
	"net/http"

	"campus-ai/agent-gateway/pkg/providers"
)

// Machine-readable error codes. These are part of the API contract:
// clients branch on the code, humans read the message.
const (
	// CodeInvalidRequest is a client-side validation failure (400).
	CodeInvalidRequest = "invalid_request"

	// CodeProviderTimeout means the provider exceeded its timeout (504).
	CodeProviderTimeout = "provider_timeout"

	// CodeProviderUnreachable means the provider endpoint could not be
	// reached (504).
	CodeProviderUnreachable = "provider_unreachable"

	// CodeProviderBadResponse means the provider answered with garbage or
	// an error status (502).
	CodeProviderBadResponse = "provider_bad_response"

	// CodeModelNotFound means the configured model does not exist on the
	// provider (502).
	CodeModelNotFound = "model_not_found"

	// CodeInternalError is an unexpected gateway failure (500).
	CodeInternalError = "internal_error"
)

// ErrorResponse is the wire envelope for every error.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail separates the stable code from the human explanation.
type ErrorDetail struct {
	// Code is the machine-readable error code.
	Code string `json:"code"`

	// Message is the human-readable explanation, echoing the violated
	// constraint for validation failures.
	Message string `json:"message"`

	// Param names the offending request field, when one exists.
	Param string `json:"param,omitempty"`
}

// NewErrorResponse builds the envelope.
func NewErrorResponse(code, message, param string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Param: param}}
}

// HTTPStatusForCode maps an error code to its response status.
func HTTPStatusForCode(code string) int {
	switch code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeProviderTimeout, CodeProviderUnreachable:
		return http.StatusGatewayTimeout
	case CodeProviderBadResponse, CodeModelNotFound:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MapProviderError translates a typed provider error into an error code and
// client-safe message. Unknown errors map to internal_error; the detailed
// cause stays in logs and telemetry, not the response body.
func MapProviderError(err error) (code, message string) {
	var timeoutErr *providers.TimeoutError
	if errors.As(err, &timeoutErr) {
		return CodeProviderTimeout, "The provider did not respond within the configured timeout."
	}

	var unreachableErr *providers.UnreachableError
	if errors.As(err, &unreachableErr) {
		return CodeProviderUnreachable, "The provider endpoint could not be reached."
	}

	var notFoundErr *providers.ModelNotFoundError
	if errors.As(err, &notFoundErr) {
		return CodeModelNotFound, "The configured model is not available on the provider."
	}

	var badRespErr *providers.BadResponseError
	if errors.As(err, &badRespErr) {
		return CodeProviderBadResponse, "The provider returned an invalid response."
	}

	return CodeInternalError, "An internal error occurred. Please try again later."
}
