package providerfactory

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-ai/agent-gateway/pkg/providers"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   providers.Config
		wantName string
		wantErr  bool
	}{
		{
			name:     "mock",
			config:   providers.Config{ID: "mock"},
			wantName: "mock",
		},
		{
			name:     "ollama",
			config:   providers.Config{ID: "ollama", BaseURL: "http://localhost:11434", Model: "phi"},
			wantName: "ollama",
		},
		{
			name:     "openai",
			config:   providers.Config{ID: "openai", APIKey: "sk-test", Model: "gpt-4o-mini"},
			wantName: "openai",
		},
		{
			name:    "openai missing key",
			config:  providers.Config{ID: "openai", Model: "gpt-4o-mini"},
			wantErr: true,
		},
		{
			name:    "unknown id",
			config:  providers.Config{ID: "claude-desktop"},
			wantErr: true,
		},
		{
			name:    "empty id",
			config:  providers.Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.config)
			if tt.wantErr {
				var cfgErr *providers.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("NewProvider() error = %v, want ConfigError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			defer func() { _ = p.Close() }()

			if got := p.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestDefaultTimeouts(t *testing.T) {
	tests := []struct {
		id   string
		want time.Duration
	}{
		{id: providers.ProviderOllama, want: DefaultOllamaTimeout},
		{id: providers.ProviderOpenAI, want: DefaultRemoteTimeout},
		{id: providers.ProviderMock, want: DefaultRemoteTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := defaultTimeout(tt.id); got != tt.want {
				t.Errorf("defaultTimeout(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
