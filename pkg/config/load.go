package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"campus-ai/agent-gateway/pkg/providers"
)

// LoadConfig resolves configuration in precedence order: YAML file (when a
// path is given), then environment overrides, then defaults for what
// remains, then validation.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides maps the deployment environment onto the config. The
// variable names match what the deployment tooling already exports
// (LLM_PROVIDER, OLLAMA_URL, SPLUNK_HEC_URL, ...); GATEWAY_* variables
// cover the remaining structural settings.
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Provider.ID, "LLM_PROVIDER")
	setInt(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Host, "GATEWAY_SERVER_HOST")
	setDuration(&cfg.Server.ShutdownTimeout, "GATEWAY_SERVER_SHUTDOWN_TIMEOUT")

	// Provider-specific variables apply regardless of the selected id;
	// only the active provider's fields are ever read.
	switch strings.ToLower(cfg.Provider.ID) {
	case providers.ProviderOllama, "":
		setString(&cfg.Provider.BaseURL, "OLLAMA_URL")
		setString(&cfg.Provider.Model, "OLLAMA_MODEL")
		setString(&cfg.Provider.CodeModel, "OLLAMA_CODE_MODEL")
	case providers.ProviderOpenAI:
		setString(&cfg.Provider.BaseURL, "OPENAI_URL")
		setString(&cfg.Provider.APIKey, "OPENAI_API_KEY")
		setString(&cfg.Provider.Model, "OPENAI_MODEL")
	case providers.ProviderBedrock:
		setString(&cfg.Provider.Region, "AWS_REGION")
		setString(&cfg.Provider.Model, "BEDROCK_MODEL")
	}
	setDuration(&cfg.Provider.Timeout, "GATEWAY_PROVIDER_TIMEOUT")

	setString(&cfg.Telemetry.URL, "SPLUNK_HEC_URL")
	setString(&cfg.Telemetry.Token, "SPLUNK_HEC_TOKEN")
	setString(&cfg.Telemetry.Index, "SPLUNK_INDEX")
	setString(&cfg.Telemetry.Source, "SPLUNK_SOURCE")
	setString(&cfg.Telemetry.SourceType, "SPLUNK_SOURCETYPE")
	setBool(&cfg.Telemetry.InsecureSkipVerify, "SPLUNK_INSECURE_SKIP_VERIFY")
	setInt(&cfg.Telemetry.QueueCapacity, "GATEWAY_TELEMETRY_QUEUE_CAPACITY")
	setDuration(&cfg.Telemetry.BacklogGrace, "GATEWAY_TELEMETRY_BACKLOG_GRACE")

	setString(&cfg.Logging.Level, "GATEWAY_LOG_LEVEL")
	setString(&cfg.Logging.Format, "GATEWAY_LOG_FORMAT")

	setString(&cfg.Health.Schedule, "GATEWAY_HEALTH_SCHEDULE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
