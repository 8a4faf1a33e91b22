// Package providerfactory constructs the single active provider from
// configuration. An unknown provider id is a startup error; the caller is
// expected to exit non-zero rather than fall back to another provider.
package providerfactory

import (
	"context"
	"fmt"
	"time"

	"campus-ai/agent-gateway/pkg/providers"
	"campus-ai/agent-gateway/pkg/providers/bedrock"
	"campus-ai/agent-gateway/pkg/providers/mock"
	"campus-ai/agent-gateway/pkg/providers/ollama"
	"campus-ai/agent-gateway/pkg/providers/openai"
)

// Default per-provider timeouts. Local inference needs far more headroom
// than hosted APIs.
const (
	DefaultRemoteTimeout = 30 * time.Second
	DefaultOllamaTimeout = 90 * time.Second
)

// NewProvider builds the adapter for config.ID. The returned provider is
// ready for concurrent use; callers own Close.
func NewProvider(ctx context.Context, config providers.Config) (providers.Provider, error) {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout(config.ID)
	}

	switch config.ID {
	case providers.ProviderMock:
		return mock.NewProvider(config), nil

	case providers.ProviderOpenAI:
		return openai.NewProvider(config)

	case providers.ProviderBedrock:
		return bedrock.NewProvider(ctx, config)

	case providers.ProviderOllama:
		return ollama.NewProvider(config)

	default:
		return nil, &providers.ConfigError{
			Provider: config.ID,
			Field:    "id",
			Message: fmt.Sprintf("unknown provider id (valid: %s, %s, %s, %s)",
				providers.ProviderMock, providers.ProviderOpenAI,
				providers.ProviderBedrock, providers.ProviderOllama),
		}
	}
}

func defaultTimeout(id string) time.Duration {
	if id == providers.ProviderOllama {
		return DefaultOllamaTimeout
	}
	return DefaultRemoteTimeout
}
