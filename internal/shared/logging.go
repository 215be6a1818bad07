// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package shared

import (
	"log/slog"
	"os"
	"strings"
)

// Log format constants.
const (
	// LogFormatJSON outputs logs in JSON format (default).
	LogFormatJSON = "json"

	// LogFormatText outputs logs in human-readable text format.
	LogFormatText = "text"
)

// Environment variable names for logging configuration.
const (
	EnvLogFormat = "LOG_FORMAT"
	EnvLogLevel  = "LOG_LEVEL"
)

// NewSlogHandler creates a new slog.Handler based on the LOG_FORMAT and
// LOG_LEVEL environment variables. Defaults to JSON at info level.
//
// Logs go to stderr so that CGI responses on stdout stay clean.
func NewSlogHandler() slog.Handler {
	return NewSlogHandlerFor(GetEnvDefault(EnvLogFormat, LogFormatJSON))
}

// NewSlogHandlerFor creates a slog.Handler for an explicit format.
func NewSlogHandlerFor(format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv(EnvLogLevel))}

	switch strings.ToLower(format) {
	case LogFormatText:
		return slog.NewTextHandler(os.Stderr, opts)
	default:
		return slog.NewJSONHandler(os.Stderr, opts)
	}
}

func parseLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return level
}
