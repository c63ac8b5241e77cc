// Package server exposes a tracked run over HTTP: JSON snapshots on
// /status, Prometheus text on /metrics, liveness on /healthz.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/psantana5/etatrack/internal/logging"
	"github.com/psantana5/etatrack/internal/metrics"
	"github.com/psantana5/etatrack/pkg/progress"
)

// Config assembles a Server.
type Config struct {
	Addr    string
	Tracker *progress.Tracker
	RunID   string
	Log     *logging.Logger

	// Registry overrides the Prometheus default registry. Tests use
	// it to keep collectors isolated.
	Registry *prometheus.Registry

	// Middleware runs after the stats middleware; the tracing layer
	// plugs in here.
	Middleware []mux.MiddlewareFunc
}

// Server is the HTTP face of a run.
type Server struct {
	http *http.Server
	log  *logging.Logger
}

// New builds the router and the underlying http.Server.
func New(cfg Config) *Server {
	registerer := prometheus.Registerer(prometheus.DefaultRegisterer)
	gatherer := prometheus.Gatherer(prometheus.DefaultGatherer)
	if cfg.Registry != nil {
		registerer = cfg.Registry
		gatherer = cfg.Registry
	}

	r := mux.NewRouter()

	stats := NewHTTPStats(registerer)
	r.Use(stats.Middleware)
	for _, mw := range cfg.Middleware {
		r.Use(mw)
	}

	r.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/status", handleStatus(cfg.Tracker, cfg.RunID)).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.NewExporter(cfg.Tracker, cfg.RunID, gatherer)).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{http: srv, log: cfg.Log}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("status server listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve status endpoint: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
