// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package httpctx builds the canonical Request and the mutable Response
// scaffold of one call from its host environment.
//
// A call owns exactly one Context. It is built lazily by the first
// Scope.Instance and shared by every later access in the same call. The scope
// travels in the call's context.Context instead of living in a global.
package httpctx

import (
	"context"

	"github.com/chainguard-dev/clog"

	"github.com/cruxstack/envctx/internal/environ"
)

// Session is the session continuity hook consulted before the request is read.
type Session interface {
	// ID returns the session id assigned to the call, or "".
	ID() string

	// Start assigns a new session to the call.
	Start(ctx context.Context) error
}

// Context holds the one Request and the one Response of a call.
type Context struct {
	request   *Request
	response  *Response
	sessionID string
}

// New builds a Context from host.
//
// When sess has no id, a session is started first; a failure there is logged
// and the build goes on. The host is then read in a fixed order (method, URI,
// protocol, headers, body) and the response scaffold captures the headers the
// host has staged by that point, including a fresh session cookie.
func New(ctx context.Context, host environ.Host, sess Session) *Context {
	log := clog.FromContext(ctx)

	c := &Context{}
	if sess != nil {
		if sess.ID() == "" {
			if err := sess.Start(ctx); err != nil {
				log.Warnf("[httpctx] failed to start session: %v", err)
			}
		}
		c.sessionID = sess.ID()
	}

	r := environ.NewReader(host)
	req := &Request{}
	req.method = r.Method()
	req.uri = r.URI()
	req.protocol = r.Protocol()
	req.headers = r.Headers()
	req.body = r.Body()
	c.request = req

	c.response = newResponse(host.StagedHeaders())

	log.Debugf("[httpctx] built context: %s", req.Line())
	return c
}

// Request returns the call's request.
func (c *Context) Request() *Request {
	return c.request
}

// Response returns the call's response scaffold. Callers edit it in place.
func (c *Context) Response() *Response {
	return c.response
}

// SessionID returns the session id the call ended up with, or "".
func (c *Context) SessionID() string {
	return c.sessionID
}
