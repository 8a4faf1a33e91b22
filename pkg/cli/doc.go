/*
Package cli provides command-line helpers for the agent-gateway binary.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	sig := <-cli.WaitForShutdown()
	// drain the server, flush telemetry, exit

Errors:

ConfigError and CommandError wrap startup failures so the command layer
can report them uniformly before exiting non-zero.
*/
package cli
