// Package health tracks gateway readiness: a background prober checks the
// active provider on a schedule, and the HTTP endpoints serve the cached
// result so readiness checks stay O(1).
package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"campus-ai/agent-gateway/pkg/providers"
)

// BacklogChecker reports whether the telemetry queue is healthy.
// Implemented by sink.Sink.
type BacklogChecker interface {
	BacklogOK() bool
}

// State is the readiness snapshot served by /readiness.
type State struct {
	// ProviderReachable is the result of the most recent probe. False at
	// startup until the first probe succeeds.
	ProviderReachable bool `json:"provider_reachable"`

	// SinkBacklogOK mirrors the telemetry queue's backlog health.
	SinkBacklogOK bool `json:"sink_backlog_ok"`

	// LastProbe is when the provider was last probed; zero before the
	// first probe completes.
	LastProbe time.Time `json:"last_probe,omitempty"`

	// LastError is the most recent probe failure, empty when reachable.
	LastError string `json:"last_error,omitempty"`
}

// Ready reports whether the gateway should receive traffic.
func (s State) Ready() bool {
	return s.ProviderReachable && s.SinkBacklogOK
}

// Config controls the prober.
type Config struct {
	// Schedule is a cron expression or descriptor for probe cadence.
	// Default "@every 15s".
	Schedule string `yaml:"schedule"`

	// ProbeTimeout bounds a single probe. Default 5s.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Schedule == "" {
		c.Schedule = "@every 15s"
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
}

// Tracker runs the probe schedule and caches the provider's reachability.
type Tracker struct {
	provider providers.Provider
	backlog  BacklogChecker
	config   Config
	cron     *cron.Cron
	logger   *slog.Logger

	mu        sync.RWMutex
	reachable bool
	lastProbe time.Time
	lastError string
}

// NewTracker creates a tracker. The gateway starts NotReady: reachable is
// false until the first successful probe.
func NewTracker(provider providers.Provider, backlog BacklogChecker, config Config, logger *slog.Logger) *Tracker {
	config.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{
		provider: provider,
		backlog:  backlog,
		config:   config,
		cron:     cron.New(),
		logger:   logger.With("component", "health.tracker"),
	}
}

// Start validates the schedule, runs an immediate probe in the background,
// and begins the periodic schedule.
func (t *Tracker) Start() error {
	if _, err := cron.ParseStandard(t.config.Schedule); err != nil {
		return fmt.Errorf("invalid probe schedule %q: %w", t.config.Schedule, err)
	}

	if _, err := t.cron.AddFunc(t.config.Schedule, t.probe); err != nil {
		return fmt.Errorf("failed to schedule probe: %w", err)
	}

	go t.probe()
	t.cron.Start()

	t.logger.Info("readiness prober started",
		"schedule", t.config.Schedule,
		"probe_timeout", t.config.ProbeTimeout.String(),
	)
	return nil
}

// Stop halts the schedule and waits for a running probe to finish.
func (t *Tracker) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.logger.Info("readiness prober stopped")
}

// Snapshot returns the current readiness state. The provider result is the
// cached probe outcome; the backlog check is an O(1) read from the sink.
func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return State{
		ProviderReachable: t.reachable,
		SinkBacklogOK:     t.backlog.BacklogOK(),
		LastProbe:         t.lastProbe,
		LastError:         t.lastError,
	}
}

// probe performs one provider health check and records the outcome.
func (t *Tracker) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), t.config.ProbeTimeout)
	defer cancel()

	err := t.provider.HealthCheck(ctx)

	t.mu.Lock()
	wasReachable := t.reachable
	t.reachable = err == nil
	t.lastProbe = time.Now()
	if err != nil {
		t.lastError = err.Error()
	} else {
		t.lastError = ""
	}
	nowReachable := t.reachable
	t.mu.Unlock()

	if nowReachable && !wasReachable {
		t.logger.Info("provider became reachable", "provider", t.provider.Name())
	} else if !nowReachable && wasReachable {
		t.logger.Warn("provider became unreachable",
			"provider", t.provider.Name(),
			"error", err,
		)
	}
}
