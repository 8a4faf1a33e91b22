package sink

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// hecPath is the collector's event ingestion path.
const hecPath = "/services/collector/event/1.0"

// Config controls the sink. Zero values take the defaults below.
type Config struct {
	// URL is the collector base URL. Empty disables shipping entirely:
	// events are counted and discarded on enqueue and the backlog always
	// reports OK.
	URL string `yaml:"url"`

	// Token is the HEC token sent as "Authorization: Splunk <token>".
	Token string `yaml:"token"`

	// Index, Source, SourceType, and Host are stamped on every envelope.
	Index      string `yaml:"index"`
	Source     string `yaml:"source"`
	SourceType string `yaml:"sourcetype"`
	Host       string `yaml:"host"`

	// QueueCapacity bounds the in-memory queue. Default 1000.
	QueueCapacity int `yaml:"queue_capacity"`

	// BatchSize caps events per POST. Default 100.
	BatchSize int `yaml:"batch_size"`

	// FlushInterval is how often the worker drains when idle. Default 1s.
	FlushInterval time.Duration `yaml:"flush_interval"`

	// RequestTimeout bounds a single POST. Default 10s.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// BackoffBase and BackoffMax shape the retry delay after a failed
	// POST. Defaults 1s and 30s; retries are unbounded.
	BackoffBase time.Duration `yaml:"backoff_base"`
	BackoffMax  time.Duration `yaml:"backoff_max"`

	// BacklogGrace is how long the queue may sit continuously at capacity
	// before BacklogOK turns false. Default 30s.
	BacklogGrace time.Duration `yaml:"backlog_grace"`

	// ShutdownFlushTimeout bounds the best-effort flush in Close.
	// Default 5s.
	ShutdownFlushTimeout time.Duration `yaml:"shutdown_flush_timeout"`

	// InsecureSkipVerify disables TLS certificate verification toward the
	// collector. Dev environments only; startup logs a warning when set.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 1000
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = time.Second
	}
	if c.BackoffMax <= 0 {
		c.BackoffMax = 30 * time.Second
	}
	if c.BacklogGrace <= 0 {
		c.BacklogGrace = 30 * time.Second
	}
	if c.ShutdownFlushTimeout <= 0 {
		c.ShutdownFlushTimeout = 5 * time.Second
	}
}

// Sink is the telemetry shipper. Producers call Enqueue; one worker
// goroutine owns the HTTP client and drains the queue.
type Sink struct {
	config Config
	client *http.Client
	queue  *queue
	logger *slog.Logger

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	closed   atomic.Bool
}

// New creates a sink. Call Start to begin draining.
func New(config Config, logger *slog.Logger) *Sink {
	config.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "telemetry.sink")

	transport := &http.Transport{
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}
	if config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		logger.Warn("TLS verification disabled for telemetry collector; do not run this in production")
	}

	return &Sink{
		config: config,
		client: &http.Client{Transport: transport, Timeout: config.RequestTimeout},
		queue:  newQueue(config.QueueCapacity),
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Enabled reports whether a collector URL is configured.
func (s *Sink) Enabled() bool {
	return s.config.URL != ""
}

// Start launches the drain worker. No-op when disabled.
func (s *Sink) Start() {
	if !s.Enabled() {
		close(s.done)
		return
	}
	go s.run()
}

// Enqueue adds an event for delivery. It never blocks: when the queue is
// full the oldest event is discarded and counted. On a disabled sink every
// event is counted and discarded. Safe for concurrent use.
func (s *Sink) Enqueue(e Event) {
	if s.closed.Load() {
		return
	}
	if !s.Enabled() {
		s.queue.discard()
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	s.queue.push(e)

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Dropped returns how many events have been discarded since startup.
func (s *Sink) Dropped() uint64 {
	return s.queue.droppedTotal()
}

// QueueDepth returns the current queue length.
func (s *Sink) QueueDepth() int {
	return s.queue.len()
}

// BacklogOK reports whether the queue has not been pinned at capacity past
// the grace period. Feeds the readiness endpoint; O(1).
func (s *Sink) BacklogOK() bool {
	if !s.Enabled() {
		return true
	}
	return s.queue.backlogOK(s.config.BacklogGrace, time.Now())
}

// Close stops intake and flushes remaining events best-effort, bounded by
// both ctx and the configured shutdown flush timeout. Events still queued
// when the bound expires are dropped.
func (s *Sink) Close(ctx context.Context) error {
	s.closed.Store(true)
	s.stopOnce.Do(func() { close(s.stop) })

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the drain worker loop. It is the only goroutine that performs
// collector POSTs.
func (s *Sink) run() {
	defer close(s.done)

	backoff := s.config.BackoffBase
	timer := time.NewTimer(s.config.FlushInterval)
	defer timer.Stop()

	for {
		select {
		case <-s.stop:
			s.finalFlush()
			return
		case <-s.wake:
		case <-timer.C:
		}

		for {
			batch := s.queue.popBatch(s.config.BatchSize)
			if len(batch) == 0 {
				break
			}

			if err := s.post(batch); err != nil {
				dropped := s.queue.pushFront(batch)
				s.logger.Warn("telemetry delivery failed, backing off",
					"error", err,
					"batch_size", len(batch),
					"requeue_dropped", dropped,
					"backoff", backoff.String(),
					"queue_depth", s.queue.len(),
				)

				select {
				case <-s.stop:
					s.finalFlush()
					return
				case <-time.After(backoff):
				}

				backoff *= 2
				if backoff > s.config.BackoffMax {
					backoff = s.config.BackoffMax
				}
				continue
			}

			backoff = s.config.BackoffBase
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.config.FlushInterval)
	}
}

// finalFlush delivers what it can within the shutdown bound, then gives up.
// One failed POST ends the flush; shutdown is not the time to retry.
func (s *Sink) finalFlush() {
	deadline := time.Now().Add(s.config.ShutdownFlushTimeout)

	for time.Now().Before(deadline) {
		batch := s.queue.popBatch(s.config.BatchSize)
		if len(batch) == 0 {
			return
		}
		if err := s.post(batch); err != nil {
			s.logger.Warn("dropping telemetry on shutdown",
				"error", err,
				"remaining", s.queue.len()+len(batch),
			)
			return
		}
	}

	if remaining := s.queue.len(); remaining > 0 {
		s.logger.Warn("shutdown flush timed out", "remaining", remaining)
	}
}

// post sends one batch to the collector.
func (s *Sink) post(batch []Event) error {
	payload, err := encodeBatch(batch, s.config)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.URL+hecPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.Token != "" {
		req.Header.Set("Authorization", "Splunk "+s.config.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post events: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned status %d", resp.StatusCode)
	}
	return nil
}
