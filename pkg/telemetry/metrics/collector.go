// Package metrics exposes the gateway's Prometheus metrics through a pull
// endpoint backed by a private registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcome label values for RequestsTotal.
const (
	OutcomeSuccess             = "success"
	OutcomeInvalidRequest      = "invalid_request"
	OutcomeProviderTimeout     = "provider_timeout"
	OutcomeProviderUnreachable = "provider_unreachable"
	OutcomeProviderBadResponse = "provider_bad_response"
	OutcomeModelNotFound       = "model_not_found"
	OutcomeInternalError       = "internal_error"
)

// latencyBucketsMS covers LLM response times from fast mock answers up to
// slow local inference (two minutes).
var latencyBucketsMS = []float64{
	5, 10, 25, 50, 100, 250, 500,
	1000, 2500, 5000, 10000, 30000, 60000, 120000,
}

// Config controls metric naming.
type Config struct {
	// Namespace prefixes every metric name. Default "ai_agent".
	Namespace string `yaml:"namespace"`
}

// Collector owns the registry and all gateway metric families.
type Collector struct {
	registry  *prometheus.Registry
	namespace string

	// RequestsTotal counts completed requests by provider and outcome.
	RequestsTotal *prometheus.CounterVec

	// RequestLatencyMS observes end-to-end request latency in milliseconds
	// by provider.
	RequestLatencyMS *prometheus.HistogramVec

	// ActiveRequests tracks requests currently in flight.
	ActiveRequests prometheus.Gauge

	// ChatTotal counts chat requests by detected question type.
	ChatTotal *prometheus.CounterVec
}

// NewCollector creates the collector and registers all families on a fresh
// registry, so tests never collide on the global default.
func NewCollector(config Config) *Collector {
	namespace := config.Namespace
	if namespace == "" {
		namespace = "ai_agent"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Completed gateway requests by provider and outcome.",
		}, []string{"provider", "outcome"}),

		RequestLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_latency_ms",
			Help:      "End-to-end request latency in milliseconds.",
			Buckets:   latencyBucketsMS,
		}, []string{"provider"}),

		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_requests",
			Help:      "Requests currently being processed.",
		}),

		ChatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_total",
			Help:      "Chat requests by detected question type.",
		}, []string{"question_type"}),
	}

	c.registry.MustRegister(
		c.RequestsTotal,
		c.RequestLatencyMS,
		c.ActiveRequests,
		c.ChatTotal,
	)

	c.namespace = namespace
	return c
}

// RegisterDroppedTelemetry exposes <namespace>_telemetry_dropped_total as a
// counter read from the sink's own drop count, keeping the queue the single
// source of truth.
func (c *Collector) RegisterDroppedTelemetry(dropped func() float64) {
	c.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      "telemetry_dropped_total",
		Help:      "Telemetry events discarded because the queue was full.",
	}, dropped))
}

// ObserveRequest records one completed request.
func (c *Collector) ObserveRequest(provider, outcome string, latency time.Duration) {
	c.RequestsTotal.WithLabelValues(provider, outcome).Inc()
	c.RequestLatencyMS.WithLabelValues(provider).Observe(float64(latency.Milliseconds()))
}

// Registry returns the underlying registry for the exposition handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
