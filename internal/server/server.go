package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"pagelens/internal/ports"
	"pagelens/internal/usecase"
)

// Analyzer is the slice of the pipeline the server needs.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (*usecase.Result, error)
}

// Server exposes the analysis pipeline and the stored history as a JSON
// HTTP API.
type Server struct {
	analyzer Analyzer
	store    ports.RecordStore
	logger   *slog.Logger
	http     *http.Server
}

// New wires the API around an analyzer and a record store.
func New(addr string, analyzer Analyzer, store ports.RecordStore, logger *slog.Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		store:    store,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyses", s.handleAnalyze)
	mux.HandleFunc("GET /api/analyses", s.handleList)
	mux.HandleFunc("GET /api/analyses/{id}", s.handleGet)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table; used by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down http server")
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
