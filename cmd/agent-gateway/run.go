package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"campus-ai/agent-gateway/pkg/cli"
	"campus-ai/agent-gateway/pkg/config"
	"campus-ai/agent-gateway/pkg/gateway"
	"campus-ai/agent-gateway/pkg/providerfactory"
	"campus-ai/agent-gateway/pkg/server"
	"campus-ai/agent-gateway/pkg/telemetry/health"
	"campus-ai/agent-gateway/pkg/telemetry/logging"
	"campus-ai/agent-gateway/pkg/telemetry/metrics"
	"campus-ai/agent-gateway/pkg/telemetry/sink"
)

// sinkCloseTimeout bounds the final telemetry flush on shutdown.
const sinkCloseTimeout = 5 * time.Second

var runFlags struct {
	port     int
	provider string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway server",
	Long: `Start the gateway server with the specified configuration.

The server listens on the configured address and dispatches chat requests
to the single configured LLM provider.

Examples:
  # Start with defaults (mock provider)
  agent-gateway run

  # Start with a config file
  agent-gateway run --config /etc/agent-gateway/gateway.yaml

  # Override provider and port
  agent-gateway run --provider ollama --port 9000

  # Validate config without starting
  agent-gateway run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runFlags.port, "port", "p", 0, "override listen port")
	runCmd.Flags().StringVar(&runFlags.provider, "provider", "", "override provider id (mock, openai, bedrock, ollama)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	// Flag overrides win over file and environment.
	if runFlags.port != 0 {
		cfg.Server.Port = runFlags.port
	}
	if runFlags.provider != "" {
		cfg.Provider.ID = runFlags.provider
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger := logging.Setup(cfg.Logging)

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		fmt.Printf("  provider: %s\n", cfg.Provider.ID)
		fmt.Printf("  address:  %s\n", cfg.Server.Address())
		fmt.Printf("  hec:      %s\n", telemetryTarget(cfg))
		return nil
	}

	logger.Info("starting agent-gateway",
		"version", Version,
		"provider", cfg.Provider.ID,
		"address", cfg.Server.Address(),
		"telemetry_enabled", cfg.Telemetry.URL != "",
	)

	// Telemetry sink starts first so every component after it can emit.
	telemetrySink := sink.New(cfg.Telemetry, logger)
	telemetrySink.Start()

	collector := metrics.NewCollector(cfg.Metrics)
	collector.RegisterDroppedTelemetry(func() float64 {
		return float64(telemetrySink.Dropped())
	})

	provider, err := providerfactory.NewProvider(cmd.Context(), cfg.Provider)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer provider.Close()

	tracker := health.NewTracker(provider, telemetrySink, cfg.Health, logger)
	if err := tracker.Start(); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer tracker.Stop()

	handler := gateway.NewHandler(provider, cfg.Provider, telemetrySink, collector, Version)
	srv := server.New(cfg, handler, tracker, collector, logger)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return cli.NewCommandError("run", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), sinkCloseTimeout)
	defer flushCancel()
	if err := telemetrySink.Close(flushCtx); err != nil {
		logger.Warn("telemetry flush incomplete", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

func telemetryTarget(cfg *config.Config) string {
	if cfg.Telemetry.URL == "" {
		return "disabled"
	}
	return cfg.Telemetry.URL
}
