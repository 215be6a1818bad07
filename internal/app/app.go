// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package app answers calls by building their request context and rendering
// it back to the client. It is runtime-agnostic: every host command feeds it
// an environ.Host and writes the shared.Response it gets back.
package app

import (
	"strings"

	"github.com/cruxstack/envctx/internal/metrics"
	"github.com/cruxstack/envctx/internal/session"
)

// Config provides configuration for the App.
type Config struct {
	// Sessions resumes and starts sessions. Calls run without a session when
	// it is nil.
	Sessions *session.Manager

	// Metrics records built contexts and session outcomes. Optional.
	Metrics *metrics.Recorder

	// BasePath limits the App to request targets below it. Calls outside it
	// are answered 404 before any context is built.
	BasePath string
}

// App handles calls in a runtime-agnostic way.
type App struct {
	sessions *session.Manager
	metrics  *metrics.Recorder
	basePath string
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	// Normalize base path: ensure no trailing slash
	basePath := strings.TrimSuffix(cfg.BasePath, "/")

	return &App{
		sessions: cfg.Sessions,
		metrics:  cfg.Metrics,
		basePath: basePath,
	}
}

// inBasePath reports whether target, a raw request target, lies below the
// configured base path.
func (a *App) inBasePath(target string) bool {
	if a.basePath == "" {
		return true
	}
	path, _, _ := strings.Cut(target, "?")
	rest, ok := strings.CutPrefix(path, a.basePath)
	return ok && (rest == "" || rest[0] == '/')
}
