// Package server exposes the dashboard views and gateway data as a JSON API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"options-dashboard/internal/dashboard"
	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/models"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// MarketData is the gateway surface the API serves directly.
type MarketData interface {
	dashboard.MarketData
	FetchIntraday(ctx context.Context, ticker, interval, period string) ([]models.Candle, error)
	ProviderName() string
}

// Config configures the HTTP server.
type Config struct {
	Addr          string
	Compression   bool
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	DefaultTicker string
	Palette       string
	Scale         string
}

// Server wraps the HTTP server with lifecycle management.
type Server struct {
	data       MarketData
	svc        *dashboard.Service
	cfg        Config
	logger     zerolog.Logger
	handler    http.Handler
	httpServer *http.Server
}

// New creates a Server. Routes are built once here.
func New(data MarketData, svc *dashboard.Service, cfg Config, logger zerolog.Logger) *Server {
	s := &Server{
		data:   data,
		svc:    svc,
		cfg:    cfg,
		logger: logger.With().Str("component", "server").Logger(),
	}
	s.handler = s.router()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info().
		Str("addr", l.Addr().String()).
		Str("provider", s.data.ProviderName()).
		Msg("HTTP server listening")

	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return apperrors.Wrap(err, "http server failed")
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Stopping HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.Wrap(err, "http server shutdown failed")
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return apperrors.Wrapf(err, "listening on %s", s.cfg.Addr)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(l)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
