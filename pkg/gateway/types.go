package gateway

import "time"

// ChatRequest is the body accepted by POST /chat and POST /process.
type ChatRequest struct {
	// Message is the user prompt. Required; must be non-empty after
	// trimming whitespace.
	Message string `json:"message"`

	// Context is an optional opaque key/value map forwarded verbatim to
	// the provider.
	Context map[string]string `json:"context,omitempty"`
}

// ChatResponse is the success body for /chat and /process.
type ChatResponse struct {
	// Text is the generated response.
	Text string `json:"text"`

	// ProviderID identifies which provider served the request.
	ProviderID string `json:"providerId"`

	// TokensUsed is the provider-reported token count; zero when the
	// provider reports none.
	TokensUsed int `json:"tokensUsed"`

	// LatencyMs is the end-to-end processing time in milliseconds.
	LatencyMs int64 `json:"latencyMs"`

	// Success is true on every 200 response.
	Success bool `json:"success"`

	// QuestionType is the detected category (osu, technical, general).
	QuestionType string `json:"questionType"`

	// Timestamp is when the response was assembled.
	Timestamp time.Time `json:"timestamp"`
}

// ServiceInfo is the GET / body describing the running service.
type ServiceInfo struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Provider  string            `json:"provider"`
	Endpoints map[string]string `json:"endpoints"`
}
