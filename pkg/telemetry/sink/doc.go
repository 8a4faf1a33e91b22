// Package sink ships per-request telemetry events to a Splunk-HEC-style
// collector without ever applying backpressure to request handlers.
//
// Events flow through a bounded in-memory queue. Enqueue never blocks: when
// the queue is full the oldest event is discarded and counted, so under a
// collector outage the gateway keeps serving and retains the most recent
// events. A single background worker drains the queue in batches and POSTs
// them to the collector; failed batches re-enter the front of the same
// queue and the worker backs off exponentially (1s base, 30s cap,
// unbounded retries). The worker is the only goroutine that touches the
// HTTP client.
//
// The sink is an explicit dependency wired through constructors, not a
// global logging side effect, so tests can assert on exactly which events a
// request produced.
package sink
