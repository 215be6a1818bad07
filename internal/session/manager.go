// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/cruxstack/envctx/internal/environ"
	"github.com/cruxstack/envctx/internal/shared"
)

// idBytes is the entropy of a session id; ids are hex encoded.
const idBytes = 16

// Manager resumes and starts sessions against a Store.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName sets the cookie carrying the session id.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithTTL sets how long new sessions stay valid.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewManager creates a Manager backed by store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		cookieName: shared.DefaultSessionCookie,
		ttl:        shared.DefaultSessionTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// With returns a copy of m over the same store with opts applied. A nil
// Manager stays nil.
func (m *Manager) With(opts ...Option) *Manager {
	if m == nil {
		return nil
	}
	c := *m
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// CookieName returns the cookie carrying the session id.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Begin returns the session handle for one call on host. The id named by the
// call's cookie is kept only when the store still knows it.
func (m *Manager) Begin(ctx context.Context, host environ.Host) *Handle {
	h := &Handle{m: m, host: host}

	id := m.cookieValue(host)
	if id == "" {
		return h
	}
	if !ValidID(id) {
		clog.FromContext(ctx).Debugf("[session] ignoring malformed session id")
		return h
	}

	if _, err := m.store.Load(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			clog.FromContext(ctx).Warnf("[session] failed to load session: %v", err)
		}
		return h
	}
	h.id = id
	return h
}

func (m *Manager) cookieValue(host environ.Host) string {
	line, ok := host.Server()[environ.VarCookie]
	if !ok {
		if native, has := host.NativeHeaders(); has {
			line = environ.Header(native).Get("Cookie")
		}
	}
	if line == "" {
		return ""
	}

	cookies, err := http.ParseCookie(line)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == m.cookieName {
			return c.Value
		}
	}
	return ""
}

// Handle is the session view of one call.
type Handle struct {
	m       *Manager
	host    environ.Host
	id      string
	started bool
}

// ID returns the current session id, or "" when the call has none.
func (h *Handle) ID() string {
	return h.id
}

// Started reports whether Start created a new session during this call.
func (h *Handle) Started() bool {
	return h.started
}

// Start creates a new session, saves it and stages the Set-Cookie header
// that hands its id to the client.
func (h *Handle) Start(ctx context.Context) error {
	id, err := newID()
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}

	now := h.m.now()
	rec := &Record{
		ID:      id,
		Created: now,
		Expires: now.Add(h.m.ttl),
	}
	if err := h.m.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	cookie := &http.Cookie{
		Name:     h.m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	}
	h.host.StageHeader("Set-Cookie: " + cookie.String())

	h.id = id
	h.started = true
	clog.FromContext(ctx).Debugf("[session] started new session")
	return nil
}

// ValidID reports whether id has the shape of a generated session id.
func ValidID(id string) bool {
	if len(id) != idBytes*2 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
