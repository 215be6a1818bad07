// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Command cgi-envctx answers one CGI call: it reads the request from the
// process environment and stdin and writes the CGI response to stdout.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"

	"github.com/cruxstack/envctx/internal/app"
	"github.com/cruxstack/envctx/internal/config"
	"github.com/cruxstack/envctx/internal/configwait"
	"github.com/cruxstack/envctx/internal/environ"
	"github.com/cruxstack/envctx/internal/shared"
)

func main() {
	_ = godotenv.Load(".env")

	ctx := clog.WithLogger(context.Background(), clog.New(shared.NewSlogHandler()))
	log := clog.FromContext(ctx)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Errorf("failed to load configuration: %v", err)
		writeError(ctx, err)
		os.Exit(1)
	}
	ctx = clog.WithLogger(ctx, clog.New(shared.NewSlogHandlerFor(cfg.LogFormat)))

	// a CGI process serves a single call, so a locked store is not waited on
	sessions, closeStore, err := app.OpenSessions(ctx, cfg, configwait.Config{MaxRetries: 1})
	if err != nil {
		log.Errorf("failed to open session store: %v", err)
		writeError(ctx, err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			clog.FromContext(ctx).Errorf("failed to close session store: %v", err)
		}
	}()

	a := app.New(app.Config{Sessions: sessions, BasePath: cfg.BasePath})
	resp := a.HandleRequest(ctx, environ.FromCGI(os.Environ(), os.Stdin))
	if err := shared.WriteCGI(os.Stdout, resp); err != nil {
		clog.FromContext(ctx).Errorf("failed to write response: %v", err)
	}
}

func writeError(ctx context.Context, err error) {
	resp := app.ErrorResponse(http.StatusInternalServerError, "service misconfigured")
	if werr := shared.WriteCGI(os.Stdout, resp); werr != nil {
		clog.FromContext(ctx).Errorf("failed to write error response for %v: %v", err, werr)
	}
}
