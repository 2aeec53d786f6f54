// Package server exposes the analysis pipeline over a JSON HTTP API.
// State lives in the session store; every data route resolves the caller's
// session from a cookie before touching a run.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chainsight-io/chainsight/pkg/logging"
	"github.com/chainsight-io/chainsight/pkg/metrics"
	"github.com/chainsight-io/chainsight/pkg/session"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
}

// DefaultConfig returns production-ready server settings.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		MaxUploadBytes:  32 << 20,
	}
}

// Server is the HTTP front end over a session store.
type Server struct {
	cfg      Config
	sessions *session.Manager
	log      logging.Logger
	httpSrv  *http.Server
}

// New wires the server with its routes.
func New(cfg Config, sessions *session.Manager, log logging.Logger) *Server {
	if log == nil {
		log = logging.Default()
	}
	s := &Server{cfg: cfg, sessions: sessions, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	mux.HandleFunc("POST /api/v1/analyze", s.withSession(s.handleAnalyze))
	mux.HandleFunc("GET /api/v1/suppliers", s.withRun(s.handleSuppliers))
	mux.HandleFunc("GET /api/v1/suppliers/{id}", s.withRun(s.handleSupplier))
	mux.HandleFunc("GET /api/v1/risk/hidden", s.withRun(s.handleHidden))
	mux.HandleFunc("GET /api/v1/risk/increases", s.withRun(s.handleIncreases))
	mux.HandleFunc("GET /api/v1/spofs", s.withRun(s.handleSPOFs))
	mux.HandleFunc("GET /api/v1/ranking", s.withRun(s.handleRanking))
	mux.HandleFunc("GET /api/v1/pareto", s.withRun(s.handlePareto))
	mux.HandleFunc("GET /api/v1/recommendations", s.withRun(s.handleRecommendations))
	mux.HandleFunc("GET /api/v1/regional", s.withRun(s.handleRegional))
	mux.HandleFunc("GET /api/v1/summary", s.withRun(s.handleSummary))
	mux.HandleFunc("POST /api/v1/simulate", s.withRun(s.handleSimulate))
	mux.HandleFunc("GET /api/v1/export", s.withRun(s.handleExport))

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.instrument(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Run serves until ctx is cancelled, then drains connections within the
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", logging.Field{Key: "addr", Value: s.cfg.Addr})
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
