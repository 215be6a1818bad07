// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package httpctx

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cruxstack/envctx/internal/environ"
)

// Scope owns the Context of one call. It starts uninitialized and becomes
// active on the first Instance call; it never goes back.
type Scope struct {
	host    environ.Host
	session Session
	onBuild []func(context.Context, *Context)

	once   sync.Once
	inst   *Context
	active atomic.Bool
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithSession sets the session continuity hook.
func WithSession(s Session) ScopeOption {
	return func(sc *Scope) {
		sc.session = s
	}
}

// OnBuild registers a callback run once, right after the Context is built.
func OnBuild(fn func(context.Context, *Context)) ScopeOption {
	return func(sc *Scope) {
		sc.onBuild = append(sc.onBuild, fn)
	}
}

// NewScope creates the scope of one call on host.
func NewScope(host environ.Host, opts ...ScopeOption) *Scope {
	s := &Scope{host: host}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Instance returns the call's Context, building it on first use.
func (s *Scope) Instance(ctx context.Context) *Context {
	s.once.Do(func() {
		s.inst = New(ctx, s.host, s.session)
		for _, fn := range s.onBuild {
			fn(ctx, s.inst)
		}
		s.active.Store(true)
	})
	return s.inst
}

// Active reports whether the Context has been built.
func (s *Scope) Active() bool {
	return s.active.Load()
}

type scopeKey struct{}

// WithScope returns a copy of ctx carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the scope carried by ctx, or nil.
func ScopeFrom(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeKey{}).(*Scope)
	return s
}

// Instance returns the Context of the call carried by ctx, building it on
// first use. It returns nil when ctx carries no scope.
func Instance(ctx context.Context) *Context {
	s := ScopeFrom(ctx)
	if s == nil {
		return nil
	}
	return s.Instance(ctx)
}
