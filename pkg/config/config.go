// Package config loads and validates gateway configuration from an
// optional YAML file plus environment overrides. Configuration is resolved
// once at startup and read-only afterwards; changing it requires a restart.
package config

import (
	"fmt"
	"time"

	"campus-ai/agent-gateway/pkg/gateway/middleware"
	"campus-ai/agent-gateway/pkg/providerfactory"
	"campus-ai/agent-gateway/pkg/providers"
	"campus-ai/agent-gateway/pkg/telemetry/health"
	"campus-ai/agent-gateway/pkg/telemetry/logging"
	"campus-ai/agent-gateway/pkg/telemetry/metrics"
	"campus-ai/agent-gateway/pkg/telemetry/sink"
)

// Config is the root configuration.
type Config struct {
	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Provider selects and configures the single active LLM provider.
	Provider providers.Config `yaml:"provider"`

	// Telemetry configures the HEC event sink.
	Telemetry sink.Config `yaml:"telemetry"`

	// Logging configures operational logs.
	Logging logging.Config `yaml:"logging"`

	// Metrics configures Prometheus naming.
	Metrics metrics.Config `yaml:"metrics"`

	// Health configures the readiness prober.
	Health health.Config `yaml:"health"`

	// CORS configures cross-origin access.
	CORS middleware.CORSConfig `yaml:"cors"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address. Default 0.0.0.0.
	Host string `yaml:"host"`

	// Port is the listen port. Default 8080.
	Port int `yaml:"port"`

	// ReadTimeout bounds reading a request. Default 30s.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing a response. Default 120s to cover slow
	// local inference.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout bounds keep-alive connections. Default 120s.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful drain on SIGTERM. Default 30s.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns the host:port bind address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ApplyDefaults fills unset fields across all sections.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	if c.Provider.ID == "" {
		c.Provider.ID = providers.ProviderMock
	}
	if c.Provider.ID == providers.ProviderOllama {
		if c.Provider.BaseURL == "" {
			c.Provider.BaseURL = "http://localhost:11434"
		}
		if c.Provider.Model == "" {
			c.Provider.Model = "phi"
		}
		if c.Provider.CodeModel == "" {
			c.Provider.CodeModel = "deepseek-coder"
		}
	}
	if c.Provider.Temperature == 0 {
		c.Provider.Temperature = 0.7
	}
	if c.Provider.Timeout <= 0 {
		if c.Provider.ID == providers.ProviderOllama {
			c.Provider.Timeout = providerfactory.DefaultOllamaTimeout
		} else {
			c.Provider.Timeout = providerfactory.DefaultRemoteTimeout
		}
	}

	c.Telemetry.ApplyDefaults()
	c.Health.ApplyDefaults()

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS = middleware.DefaultCORSConfig()
	}
}

// Validate rejects configurations the gateway cannot start with. Called
// after defaults and env overrides; failure is fatal before the listener
// binds.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port)
	}

	switch c.Provider.ID {
	case providers.ProviderMock, providers.ProviderOpenAI, providers.ProviderBedrock, providers.ProviderOllama:
	default:
		return fmt.Errorf("provider.id %q unknown (valid: %s, %s, %s, %s)",
			c.Provider.ID, providers.ProviderMock, providers.ProviderOpenAI,
			providers.ProviderBedrock, providers.ProviderOllama)
	}

	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider.timeout must not be negative")
	}

	if c.Telemetry.URL == "" && c.Telemetry.Token != "" {
		return fmt.Errorf("telemetry.token set without telemetry.url")
	}

	return nil
}
