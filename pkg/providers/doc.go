// Package providers defines the provider abstraction used by the gateway to
// generate responses from a single configured LLM backend.
//
// Exactly one provider is active per process, selected at startup by its id
// (mock, openai, bedrock, ollama). There is no cross-provider fallback: if
// the active provider fails, the error is surfaced to the caller with a
// typed error that the HTTP layer maps to a stable error code.
//
// Subpackages implement the concrete adapters:
//
//   - mock: deterministic local responses, no network (default for dev/test)
//   - openai: OpenAI chat completions API
//   - bedrock: AWS Bedrock runtime (Anthropic messages body)
//   - ollama: local Ollama /api/generate
//
// The HTTP-backed adapters share HTTPProvider, which owns connection
// pooling, per-request deadlines, and the classification of transport and
// status failures into the typed errors in errors.go.
package providers
