// Package app wires the HandicApp gateway runtime: config, logging, the
// backend client stack, session endpoints, guarded dashboard routes, and
// metrics.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"handicapp/cmd/internal/api"
	"handicapp/cmd/internal/auth/backend"
	"handicapp/cmd/internal/auth/session"
	"handicapp/cmd/internal/auth/token"
	"handicapp/cmd/internal/guard"
	"handicapp/cmd/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// App is the gateway runtime. It owns the HTTP server and the client-side
// session stack it fronts.
type App struct {
	cfg Config
	log Logger

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	backend  *backend.Client
	tokens   *token.Store
	coord    *session.Coordinator
	sessions *session.Manager
	guard    *guard.Guard
	api      *api.Client

	sessionHTTP *SessionHandler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	beCfg := backend.DefaultConfig(cfg.BackendBaseURL)
	beCfg.Timeout = cfg.BackendTimeout
	// EnvInt never yields a negative, so the conversion is loss-free.
	beCfg.MaxRetries = uint(cfg.MaxRetries)
	beCfg.RetryInitialInterval = cfg.RetryInterval
	be, err := backend.New(beCfg, log)
	if err != nil {
		return nil, err
	}

	var storage token.Storage
	if cfg.StateFile != "" {
		fs, err := token.NewFileStore(cfg.StateFile)
		if err != nil {
			return nil, err
		}
		storage = fs
	}

	tokens := token.NewStore(storage, cfg.TokenBuffer, log)
	coord := session.NewCoordinator(log, be, tokens, m)
	tokens.SetRefresher(coord)

	sessions := session.NewManager(log, be, tokens, m)
	sessions.Follow(coord)

	apiClient := api.New(log, be, tokens, backend.NewInterceptor(log, coord))

	return &App{
		cfg:         cfg,
		log:         log,
		registry:    registry,
		metrics:     m,
		backend:     be,
		tokens:      tokens,
		coord:       coord,
		sessions:    sessions,
		guard:       guard.New(log, be, m),
		api:         apiClient,
		sessionHTTP: NewSessionHandler(log, cfg, sessions, tokens),
	}, nil
}

// API exposes the authenticated resource client for embedding callers.
func (a *App) API() *api.Client { return a.api }

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	// Restore any persisted session before serving; a dead backend must not
	// keep the gateway from starting.
	initCtx, cancelInit := context.WithTimeout(ctx, nonZeroDuration(a.cfg.BackendTimeout, 10*time.Second))
	st := a.sessions.Initialize(initCtx)
	cancelInit()
	a.log.Info("session.initialized", "authenticated", st.Authenticated)

	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.backend, a.guard, a.sessionHTTP, a.registry)

	handler := WithRequestID(WithRequestLogging(mux, a.log, a.metrics))

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "backend", a.cfg.BackendBaseURL)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
