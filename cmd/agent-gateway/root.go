package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "agent-gateway",
	Short: "HTTP gateway for a single LLM provider",
	Long: `Agent-gateway is an HTTP gateway that accepts chat requests and
dispatches them to one configured LLM provider.

It provides:
  - A uniform /chat and /process API over mock, OpenAI, Bedrock, and Ollama
  - Question-type classification with per-type system prompts
  - Asynchronous per-request telemetry to a Splunk HEC endpoint
  - Prometheus metrics plus liveness and readiness endpoints`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
