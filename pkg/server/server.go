// Package server assembles the HTTP surface and owns the listener
// lifecycle, including graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"campus-ai/agent-gateway/pkg/config"
	"campus-ai/agent-gateway/pkg/gateway"
	"campus-ai/agent-gateway/pkg/gateway/middleware"
	"campus-ai/agent-gateway/pkg/telemetry/health"
	"campus-ai/agent-gateway/pkg/telemetry/metrics"
)

// Server wraps http.Server with the gateway's routes and middleware chain.
type Server struct {
	config       config.ServerConfig
	httpServer   *http.Server
	handler      http.Handler
	logger       *slog.Logger
	shutdownOnce sync.Once
}

// New builds the server. Routes:
//
//	GET  /          service info
//	POST /chat      generation
//	POST /process   generation with verbatim context forwarding
//	GET  /health    liveness (always 200)
//	GET  /readiness readiness (200/503 from the tracker snapshot)
//	GET  /metrics   Prometheus exposition
func New(cfg *config.Config, h *gateway.Handler, tracker *health.Tracker, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.LivenessHandler())
	mux.HandleFunc("GET /readiness", health.ReadinessHandler(tracker))
	mux.HandleFunc("POST /chat", h.Chat)
	mux.HandleFunc("POST /process", h.Process)
	mux.Handle("GET /metrics", collector.Handler())
	mux.HandleFunc("GET /{$}", h.Info)

	// Recovery sits outermost so panics anywhere in the chain still
	// produce a well-formed 500.
	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORS)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return &Server{
		config:  cfg.Server,
		handler: handler,
		logger:  logger.With("component", "server"),
		httpServer: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Handler exposes the assembled handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.logger.Info("listening", "address", s.config.Address())

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within ctx. Safe to call more than
// once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.Info("shutting down, draining in-flight requests")
		err = s.httpServer.Shutdown(ctx)
	})
	return err
}
