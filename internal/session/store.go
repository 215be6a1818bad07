// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package session keeps session identifiers alive across calls. A call resumes
// the session named by its cookie, or starts a new one that is announced to the
// client through a staged Set-Cookie header.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cruxstack/envctx/internal/shared"
)

// ErrNotFound is returned by a Store when a session does not exist or expired.
var ErrNotFound = errors.New("session not found")

// Store mode constants.
const (
	StoreModeMemory = "memory"
	StoreModeFiles  = "files"
	StoreModePebble = "pebble"
)

// Record is the persisted state of one session.
type Record struct {
	ID      string            `json:"id"`
	Created time.Time         `json:"created"`
	Expires time.Time         `json:"expires"`
	Data    map[string]string `json:"data,omitempty"`
}

// Expired reports whether the record is past its expiry at now.
func (r *Record) Expired(now time.Time) bool {
	return !r.Expires.IsZero() && !now.Before(r.Expires)
}

// Store persists session records.
type Store interface {
	Load(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

// StoreConfig selects and configures a Store backend.
type StoreConfig struct {
	// Mode is one of "memory" (default), "files" or "pebble".
	Mode string

	// Dir is the directory used by the files and pebble backends.
	Dir string

	// CacheSize bounds the memory backend.
	CacheSize int

	// TTL is how long a session stays valid.
	TTL time.Duration
}

// NewStore creates the Store named by cfg.Mode.
//
// The returned close function releases backend resources and is never nil.
func NewStore(cfg StoreConfig) (Store, func() error, error) {
	noop := func() error { return nil }
	if cfg.TTL <= 0 {
		cfg.TTL = shared.DefaultSessionTTL
	}

	switch cfg.Mode {
	case "", StoreModeMemory:
		size := cfg.CacheSize
		if size <= 0 {
			size = shared.DefaultSessionCacheSize
		}
		return NewMemoryStore(size, cfg.TTL), noop, nil

	case StoreModeFiles:
		if cfg.Dir == "" {
			return nil, noop, fmt.Errorf("session dir is required when using %s store mode", StoreModeFiles)
		}
		return NewFileStore(cfg.Dir), noop, nil

	case StoreModePebble:
		if cfg.Dir == "" {
			return nil, noop, fmt.Errorf("session dir is required when using %s store mode", StoreModePebble)
		}
		s, err := OpenPebbleStore(cfg.Dir)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown session store mode: %s (expected '%s', '%s', or '%s')",
			cfg.Mode, StoreModeMemory, StoreModeFiles, StoreModePebble)
	}
}
