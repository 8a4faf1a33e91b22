// Agent-gateway is an HTTP gateway in front of a single LLM provider.
//
// It accepts chat requests, classifies them, dispatches them to the
// configured provider (mock, openai, bedrock, or ollama), and ships one
// telemetry event per request to a Splunk HEC endpoint, without ever
// blocking the request path on telemetry.
//
// Usage:
//
//	# Start with defaults (mock provider on :8080)
//	agent-gateway run
//
//	# Start against a local Ollama
//	LLM_PROVIDER=ollama agent-gateway run
//
//	# Start with a configuration file
//	agent-gateway run --config /etc/agent-gateway/gateway.yaml
//
//	# Validate configuration without starting
//	agent-gateway run --dry-run
//
//	# Show version information
//	agent-gateway version
package main

func main() {
	Execute()
}
