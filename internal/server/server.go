// Package server exposes the negotiation engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rcliao/buyer-agent/internal/session"
)

// Config configures a Server.
type Config struct {
	Addr      string
	StaticDir string // served at "/" when set
	RateRPS   int    // per-IP requests per second; 0 disables limiting
	RateBurst int
}

// Server routes HTTP requests to the session manager.
type Server struct {
	cfg     Config
	manager *session.Manager
	logger  *slog.Logger
	limiter *rateLimiter
}

// New returns a Server. A nil logger means slog.Default().
func New(cfg Config, manager *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, manager: manager, logger: logger}
	if cfg.RateRPS > 0 {
		s.limiter = newRateLimiter(cfg.RateRPS, cfg.RateBurst)
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/negotiate", s.handleNegotiate)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	h = withCORS(h)
	h = withRecover(s.logger, h)
	h = withLogging(s.logger, h)
	return withRequestID(h)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.cleanup(ctx, time.Minute, 3*time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
