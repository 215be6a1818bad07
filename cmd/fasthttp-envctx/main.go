// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Command fasthttp-envctx serves the request echo over fasthttp.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/cruxstack/envctx/internal/app"
	"github.com/cruxstack/envctx/internal/config"
	"github.com/cruxstack/envctx/internal/configwait"
	"github.com/cruxstack/envctx/internal/metrics"
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

	sessions, closeStore, err := app.OpenSessions(ctx, cfg, configwait.NewConfigFromEnv())
	if err != nil {
		log.Errorf("failed to open session store after retries: %v", err)
		os.Exit(1)
	}

	rec := metrics.New()
	a := app.New(app.Config{
		Sessions: sessions,
		Metrics:  rec,
		BasePath: cfg.BasePath,
	})

	echo := a.FastHTTPHandler(context.WithoutCancel(ctx))
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(rec.Handler())
	handler := func(rc *fasthttp.RequestCtx) {
		switch string(rc.Path()) {
		case "/healthz":
			rc.SetStatusCode(fasthttp.StatusOK)
			rc.SetBodyString("ok")
		case "/metrics":
			metricsHandler(rc)
		default:
			echo(rc)
		}
	}

	srv := &fasthttp.Server{
		Handler:            handler,
		Name:               "envctx",
		ReadTimeout:        shared.DefaultReadHeaderTimeout,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: shared.DefaultMaxBodySize,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Addr())
	}()
	log.Infof("starting fasthttp server on %s", cfg.Addr())

	select {
	case err := <-errCh:
		log.Errorf("server error: %v", err)
	case <-ctx.Done():
		log.Infof("shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Errorf("server shutdown error: %v", err)
		}
	}

	if err := closeStore(); err != nil {
		log.Errorf("failed to close session store: %v", err)
	}
}
