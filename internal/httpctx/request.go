// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package httpctx

import (
	"net/url"

	"github.com/cruxstack/envctx/internal/environ"
)

// Request is the canonical request of one call. It is immutable: accessors
// hand out copies.
type Request struct {
	method   string
	uri      string
	protocol string
	headers  environ.Header
	body     environ.Body
}

// Method returns the effective method, uppercased and override-resolved.
func (r *Request) Method() string { return r.method }

// URI returns the absolute request URI.
func (r *Request) URI() string { return r.uri }

// Protocol returns the protocol string, e.g. "HTTP/1.1".
func (r *Request) Protocol() string { return r.protocol }

// Headers returns a copy of the request headers.
func (r *Request) Headers() environ.Header { return r.headers.Clone() }

// Header returns one header value, looked up case-insensitively.
func (r *Request) Header(name string) string { return r.headers.Get(name) }

// Body returns the request payload, either environ.FormBody or environ.RawBody.
func (r *Request) Body() environ.Body {
	switch b := r.body.(type) {
	case environ.FormBody:
		return b.Clone()
	case environ.RawBody:
		return b.Clone()
	default:
		return environ.RawBody{Data: []byte{}}
	}
}

// Line returns the request line, "METHOD URI PROTOCOL".
func (r *Request) Line() string {
	return r.method + " " + r.uri + " " + r.protocol
}

// URL parses the request URI. Hosts may hand over targets that do not parse;
// those are returned as the error.
func (r *Request) URL() (*url.URL, error) {
	return url.Parse(r.uri)
}
