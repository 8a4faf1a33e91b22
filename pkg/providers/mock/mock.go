// Package mock implements a deterministic local provider used for
// development and tests. It performs no network I/O and never fails.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"campus-ai/agent-gateway/pkg/providers"
)

// modelName is the model reported in responses.
const modelName = "mock-v1"

// Provider generates canned responses derived only from the request, so the
// same input always produces the same output and token count.
type Provider struct{}

// NewProvider creates the mock provider. The config is accepted for
// interface symmetry with the other adapters but carries nothing required.
func NewProvider(_ providers.Config) *Provider {
	return &Provider{}
}

// Generate returns a deterministic response echoing the message, plus the
// context map rendered in sorted key order when present.
func (p *Provider) Generate(_ context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Mock AI response: processing %q", req.Message)

	if len(req.Context) > 0 {
		keys := make([]string, 0, len(req.Context))
		for k := range req.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" with context {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", k, req.Context[k])
		}
		b.WriteString("}")
	}

	text := b.String()
	return &providers.GenerateResponse{
		Text:       text,
		TokensUsed: len(strings.Fields(req.Message)) + len(strings.Fields(text)),
		Model:      modelName,
	}, nil
}

// HealthCheck always succeeds; there is nothing remote to probe.
func (p *Provider) HealthCheck(_ context.Context) error {
	return nil
}

// Name returns the provider id.
func (p *Provider) Name() string {
	return providers.ProviderMock
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
