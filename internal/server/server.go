// Package server owns the http.Server lifecycle: listen, serve until the
// context is cancelled, then drain in-flight summaries.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/matiasleandrokruk/coffee-api/internal/infra/logging"
)

// Config holds HTTP server configuration.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the server defaults. WriteTimeout must outlast the
// worst-case summarize call: probe + MaxRetries generate attempts + delays.
func DefaultConfig() Config {
	return Config{
		Addr:            "0.0.0.0:5000",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    5 * time.Minute,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// WriteTimeoutFor returns a WriteTimeout that covers maxAttempts generate
// calls of requestTimeout each plus the probe and inter-attempt delays.
func WriteTimeoutFor(probeTimeout, requestTimeout, retryDelay time.Duration, maxAttempts int) time.Duration {
	worst := probeTimeout + time.Duration(maxAttempts)*requestTimeout + time.Duration(max(maxAttempts-1, 0))*retryDelay
	return worst + 15*time.Second
}

// Server wraps the HTTP server.
type Server struct {
	config Config
	http   *http.Server
	log    *slog.Logger
}

// New creates a server for handler. log may be nil.
func New(handler http.Handler, config Config, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	httpServer := &http.Server{
		Addr:         config.Addr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}
	return &Server{config: config, http: httpServer, log: log}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("server listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully within
// ShutdownTimeout. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "Starting HTTP server", "addr", ln.Addr().String())
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server", "timeout", s.config.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	<-errCh
	s.log.Info("Server shutdown complete")
	return nil
}
