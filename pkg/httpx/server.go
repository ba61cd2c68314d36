// Package httpx wraps the stdlib HTTP server with sane timeouts, graceful
// shutdown, and small JSON response helpers shared by the service binaries.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Server is an http.Server with fixed production timeouts and a
// Start/Stop lifecycle.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a server listening on addr serving handler.
// A nil logger falls back to slog.Default().
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully, waiting up to timeout for in-flight
// requests before forcing connections closed.
func (s *Server) Stop(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		s.server.Close()
		return err
	}
	return nil
}
