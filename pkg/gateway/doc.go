// Package gateway implements the HTTP surface of the agent gateway: request
// parsing and validation, question classification, dispatch to the active
// provider, the stable error envelope, and per-request telemetry emission.
//
// The request pipeline for /chat and /process is:
//
//	validate -> classify -> provider.Generate -> respond -> record metrics
//	-> enqueue exactly one telemetry event
//
// Provider failures are never retried against a different provider or
// model; the typed provider error is mapped to a machine-readable code
// (provider_timeout, provider_unreachable, provider_bad_response,
// model_not_found) and the matching 502/504 status.
package gateway
