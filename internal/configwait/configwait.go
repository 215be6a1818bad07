// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package configwait keeps a server answering while the resources it depends
// on come up. Wait retries a start-up step; ReadyGate holds back traffic until
// that step has succeeded.
package configwait

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/chainguard-dev/clog"
)

// Environment variable names for wait configuration.
const (
	EnvMaxRetries    = "STORE_WAIT_MAX_RETRIES"
	EnvRetryInterval = "STORE_WAIT_RETRY_INTERVAL"
)

// Default configuration values.
const (
	DefaultMaxRetries    = 15
	DefaultRetryInterval = 2 * time.Second
)

// Config configures the wait behavior.
type Config struct {
	// MaxRetries is the maximum number of attempts.
	MaxRetries int

	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration
}

// NewConfigFromEnv creates a Config from STORE_WAIT_* variables, keeping the
// defaults for unset or invalid values.
func NewConfigFromEnv() Config {
	cfg := Config{
		MaxRetries:    DefaultMaxRetries,
		RetryInterval: DefaultRetryInterval,
	}
	if n, err := strconv.Atoi(os.Getenv(EnvMaxRetries)); err == nil && n > 0 {
		cfg.MaxRetries = n
	}
	if d, err := time.ParseDuration(os.Getenv(EnvRetryInterval)); err == nil && d > 0 {
		cfg.RetryInterval = d
	}
	return cfg
}

// StepFunc is one attempt at a start-up step. It returns nil on success.
type StepFunc func(ctx context.Context) error

// Wait runs step until it succeeds, ctx ends or the attempts run out. It
// returns the last error of step, or ctx.Err() when cancelled.
func Wait(ctx context.Context, cfg Config, step StepFunc) error {
	log := clog.FromContext(ctx)

	attempts := max(cfg.MaxRetries, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = step(ctx)
		if lastErr == nil {
			if attempt > 1 {
				log.Infof("[configwait] ready after %d attempts", attempt)
			}
			return nil
		}

		log.Warnf("[configwait] attempt %d/%d failed: %v", attempt, attempts, lastErr)
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(cfg.RetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
