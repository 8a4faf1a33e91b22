package providers

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Provider ids accepted in configuration.
const (
	ProviderMock    = "mock"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
	ProviderOllama  = "ollama"
)

// GenerateRequest is a single-shot, non-streaming generation request.
type GenerateRequest struct {
	// Message is the user prompt. The gateway validates it is non-empty
	// before dispatch; adapters may assume it is.
	Message string

	// Context carries optional key/value pairs forwarded verbatim from the
	// caller. Adapters render it into the prompt; it is never interpreted.
	Context map[string]string

	// SystemPrompt steers the model for the detected question type.
	// Empty means the adapter sends no system message.
	SystemPrompt string

	// Model overrides the adapter's configured default model when set.
	// Used for question-type model selection; an override that names an
	// unknown model surfaces as ModelNotFoundError, never a substitution.
	Model string
}

// GenerateResponse is the adapter's answer to a GenerateRequest.
type GenerateResponse struct {
	// Text is the generated completion.
	Text string

	// TokensUsed is the provider-reported token count for the exchange.
	// Zero when the provider reports no usage; never estimated.
	TokensUsed int

	// Model is the model that actually served the request.
	Model string
}

// Config holds the static settings for one provider adapter.
// It is populated once at startup and read-only afterwards.
type Config struct {
	// ID selects the adapter: mock, openai, bedrock, or ollama.
	ID string `yaml:"id"`

	// BaseURL is the provider endpoint (openai, ollama).
	BaseURL string `yaml:"base_url"`

	// Model is the default model name.
	Model string `yaml:"model"`

	// CodeModel, when set, is used instead of Model for technical
	// questions (ollama).
	CodeModel string `yaml:"code_model"`

	// APIKey authenticates against the provider (openai).
	APIKey string `yaml:"api_key"`

	// Region is the AWS region (bedrock).
	Region string `yaml:"region"`

	// Timeout bounds a single generation call.
	Timeout time.Duration `yaml:"timeout"`

	// MaxTokens caps the completion length. Zero uses the adapter default.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is the sampling temperature.
	Temperature float64 `yaml:"temperature"`
}

// RenderPrompt combines the user message with the optional context map into
// the prompt text sent to text-completion style providers. Context keys are
// emitted in sorted order so the rendering is deterministic.
func RenderPrompt(message string, context map[string]string) string {
	if len(context) == 0 {
		return message
	}

	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Context:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, context[k])
	}
	b.WriteString("\n")
	b.WriteString(message)
	return b.String()
}
