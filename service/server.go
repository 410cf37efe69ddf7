// Package service runs the reference data source and its database
// maintenance commands.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"postbrowser/app/middleware"
	"postbrowser/app/routes"
	"postbrowser/app/store"
	"postbrowser/config"
)

// limiterSweepInterval is how often idle per-client limiters are dropped.
const limiterSweepInterval = time.Minute

// Server serves the resource routes over HTTP.
type Server struct {
	cfg     config.ServerConfig
	logger  *slog.Logger
	limiter *middleware.RateLimiter
	http    *http.Server
}

// NewServer builds a server over stores. Rate limiting is enabled when
// cfg.RateLimit is positive.
func NewServer(cfg config.ServerConfig, stores store.Stores, logger *slog.Logger) *Server {
	s := &Server{cfg: cfg, logger: logger}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           routes.SetupRoutes(stores, routes.Options{Logger: logger, RateLimiter: s.limiter}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe listens on the configured address and serves until ctx
// is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.limiter != nil {
		go s.limiter.Run(ctx, limiterSweepInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("data source listening", "addr", ln.Addr().String())
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Run opens the database, seeds it when asked and it is empty, and serves
// until ctx is done.
func Run(ctx context.Context, cfg config.ServerConfig, seed bool, logger *slog.Logger) error {
	db, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	stores := store.NewBadgerStores(db)
	if seed {
		fixture, err := store.DefaultFixture()
		if err != nil {
			return err
		}
		switch err := store.Seed(stores, fixture); {
		case errors.Is(err, store.ErrAlreadySeeded):
			logger.Debug("database already seeded")
		case err != nil:
			return err
		default:
			logger.Info("seeded database", "users", len(fixture.Users))
		}
	}

	return NewServer(cfg, stores, logger).ListenAndServe(ctx)
}
