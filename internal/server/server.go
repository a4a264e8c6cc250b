// Package server owns the HTTP listener lifecycle: serve until a
// shutdown signal arrives, then drain in-flight requests within a
// bounded window.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// Server wraps http.Server with signal-driven graceful shutdown.
type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// New builds a Server listening on the given port.
func New(handler http.Handler, port int, readTimeout, writeTimeout, shutdownTimeout time.Duration, logger *slog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Run blocks until the listener fails or SIGINT/SIGTERM arrives. On a
// signal it stops accepting connections and drains the in-flight ones;
// requests still running when the shutdown timeout expires are cut off.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listener failed: %w", err)
	case <-ctx.Done():
	}
	stop()

	s.logger.Info("shutdown signal received", "drain_timeout", s.shutdownTimeout)

	drainCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.http.SetKeepAlivesEnabled(false)
	if err := s.http.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain connections: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Addr returns the address the server binds to.
func (s *Server) Addr() string {
	return s.http.Addr
}
