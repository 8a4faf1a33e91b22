// Package logging configures structured logging for the gateway on top of
// log/slog. Operational logs are separate from the per-request telemetry
// stream shipped by pkg/telemetry/sink.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level: debug, info, warn, error. Default info.
	Level string `yaml:"level"`

	// Format selects the handler: json (default) or text.
	Format string `yaml:"format"`

	// AddSource includes file:line in records. Default false.
	AddSource bool `yaml:"add_source"`

	// Writer is the output destination. Defaults to stdout.
	Writer io.Writer `yaml:"-"`
}

// Setup builds a logger from the config and installs it as slog's default.
func Setup(config Config) *slog.Logger {
	writer := config.Writer
	if writer == nil {
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "text") {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel converts a level name to a slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
