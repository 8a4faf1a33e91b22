package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// maxRequestBodySize bounds request bodies to keep a hostile client from
// exhausting memory.
const maxRequestBodySize = 1 << 20 // 1 MiB

// RequestError is a validation failure with enough detail for the 400
// envelope.
type RequestError struct {
	Code    string
	Message string
	Param   string
}

func (e *RequestError) Error() string {
	return e.Message
}

// ParseChatRequest reads and validates the /chat and /process body.
func ParseChatRequest(r *http.Request) (*ChatRequest, *RequestError) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize+1))
	if err != nil {
		return nil, &RequestError{
			Code:    CodeInvalidRequest,
			Message: "Failed to read request body.",
		}
	}
	if len(body) > maxRequestBodySize {
		return nil, &RequestError{
			Code:    CodeInvalidRequest,
			Message: "Request body exceeds the 1 MiB limit.",
		}
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &RequestError{
			Code:    CodeInvalidRequest,
			Message: "Request body is not valid JSON.",
		}
	}

	if strings.TrimSpace(req.Message) == "" {
		return nil, &RequestError{
			Code:    CodeInvalidRequest,
			Message: "Field \"message\" is required and must be non-empty after trimming whitespace.",
			Param:   "message",
		}
	}

	return &req, nil
}
