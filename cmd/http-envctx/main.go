// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Command http-envctx serves the request echo over net/http with sessions,
// Prometheus metrics and a readiness gate.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"

	"github.com/cruxstack/envctx/internal/app"
	"github.com/cruxstack/envctx/internal/config"
	"github.com/cruxstack/envctx/internal/configwait"
	"github.com/cruxstack/envctx/internal/metrics"
	"github.com/cruxstack/envctx/internal/session"
	"github.com/cruxstack/envctx/internal/shared"
)

func main() {
	_ = godotenv.Load(".env")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = clog.WithLogger(ctx, clog.New(shared.NewSlogHandler()))
	log := clog.FromContext(ctx)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Errorf("failed to load configuration: %v", err)
		os.Exit(1)
	}
	ctx = clog.WithLogger(ctx, clog.New(shared.NewSlogHandlerFor(cfg.LogFormat)))
	log = clog.FromContext(ctx)

	rec := metrics.New()
	gate := configwait.NewReadyGate(newMux(rec, nil), []string{"/healthz", "/metrics"})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: shared.DefaultReadHeaderTimeout,
		Handler:           http.MaxBytesHandler(gate, shared.DefaultMaxBodySize),
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	log.Infof("starting HTTP server on %s (opening session store...)", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	closers := make(chan func() error, 1)
	go func() {
		sessions, closeFn, err := app.OpenSessions(ctx, cfg, configwait.NewConfigFromEnv())
		if err != nil {
			log.Errorf("failed to open session store after retries: %v", err)
			os.Exit(1)
		}
		closers <- closeFn

		gate.SetHandler(newMux(rec, newApp(cfg, sessions, rec)))
		gate.SetReady()
		log.Infof("session store ready, serving requests")

		// store settings are fixed for the life of the process; a reload
		// picks up base path, cookie and ttl changes only
		reloader := configwait.NewReloader(ctx, gate, func(ctx context.Context) (http.Handler, error) {
			next, err := config.LoadFromEnv()
			if err != nil {
				return nil, err
			}
			if next.StoreConfig() != cfg.StoreConfig() || next.Session.Disabled != cfg.Session.Disabled {
				clog.FromContext(ctx).Warnf("[config] session store changes need a restart")
			}
			return newMux(rec, newApp(next, sessions.With(next.ManagerOptions()...), rec)), nil
		})
		reloader.Start()
	}()

	<-ctx.Done()
	log.Infof("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shared.DefaultShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown error: %v", err)
	}
	select {
	case closeStore := <-closers:
		if err := closeStore(); err != nil {
			log.Errorf("failed to close session store: %v", err)
		}
	default:
	}
}

func newApp(cfg *config.Config, sessions *session.Manager, rec *metrics.Recorder) *app.App {
	return app.New(app.Config{
		Sessions: sessions,
		Metrics:  rec,
		BasePath: cfg.BasePath,
	})
}

// newMux routes health and metrics, and everything else to a when set.
func newMux(rec *metrics.Recorder, a *app.App) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			clog.FromContext(r.Context()).Errorf("failed to write health response: %v", err)
		}
	})
	mux.Handle("/metrics", rec.Handler())
	if a != nil {
		mux.Handle("/", a)
	}
	return mux
}
