package providers

import "context"

// Provider is the single capability the gateway needs from an LLM backend:
// turn a prompt (plus optional context) into text and a token count.
//
// Implementations must be safe for concurrent use. Generate honors the
// context deadline; callers set it from the per-provider timeout. Errors
// returned by Generate are the typed errors in errors.go so the HTTP layer
// can map them to stable error codes.
type Provider interface {
	// Generate performs one non-streaming completion.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// HealthCheck is a lightweight reachability probe. It must be cheap
	// (no full generation) because it runs on a schedule.
	HealthCheck(ctx context.Context) error

	// Name returns the provider id.
	Name() string

	// Close releases any held connections.
	Close() error
}
