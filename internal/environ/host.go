// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package environ extracts raw transport facts from the environment a call
// arrives through and normalizes them into method, URI, protocol, headers and body.
//
// A Host is anything that can answer with CGI-style variables. The adapters in
// this package build one from a CGI process, a net/http request, an API Gateway v2
// event or a fasthttp request context.
package environ

import (
	"io"
	"net/url"
)

// CGI-style variable names read from Host.Server.
const (
	VarRequestMethod         = "REQUEST_METHOD"
	VarServerProtocol        = "SERVER_PROTOCOL"
	VarRequestURI            = "REQUEST_URI"
	VarQueryString           = "QUERY_STRING"
	VarHTTPHost              = "HTTP_HOST"
	VarServerPort            = "SERVER_PORT"
	VarHTTPS                 = "HTTPS"
	VarRemoteAddr            = "REMOTE_ADDR"
	VarRemotePort            = "REMOTE_PORT"
	VarContentType           = "CONTENT_TYPE"
	VarContentLength         = "CONTENT_LENGTH"
	VarContentMD5            = "CONTENT_MD5"
	VarMethodOverride        = "HTTP_X_HTTP_METHOD_OVERRIDE"
	VarIfNoneMatch           = "HTTP_IF_NONE_MATCH"
	VarCookie                = "HTTP_COOKIE"
	VarRedirectAuthorization = "REDIRECT_HTTP_AUTHORIZATION"
	VarAuthUser              = "AUTH_USER"
	VarAuthPassword          = "AUTH_PW"
	VarAuthDigest            = "AUTH_DIGEST"
)

// headerVarPrefix marks variables that carry a request header.
const headerVarPrefix = "HTTP_"

// Host is the execution environment of one incoming call.
type Host interface {
	// Server returns the CGI-style variables of the call.
	Server() map[string]string

	// NativeHeaders returns the request headers as the host itself knows them.
	// The boolean is false when the host has no such facility.
	NativeHeaders() (map[string]string, bool)

	// Params returns the ambient request-parameter collection. Callers may
	// merge into it; the merge is visible to later readers of the same host.
	Params() url.Values

	// Input returns the raw request payload stream, or nil.
	Input() io.Reader

	// StagedHeaders returns header lines ("Name: value") already staged for
	// the response.
	StagedHeaders() []string

	// StageHeader stages one more response header line.
	StageHeader(line string)
}

// Env is the standard Host implementation.
type Env struct {
	// Vars holds the CGI-style variables.
	Vars map[string]string

	// Headers holds natively available request headers. Nil means the host
	// has no native header facility and headers are rebuilt from Vars.
	Headers map[string]string

	// Form is the ambient request-parameter collection.
	Form url.Values

	// Stdin is the raw request payload.
	Stdin io.Reader

	// Staged holds response header lines emitted before the context is built.
	Staged []string
}

var _ Host = (*Env)(nil)

// Server implements Host.
func (e *Env) Server() map[string]string {
	if e.Vars == nil {
		e.Vars = make(map[string]string)
	}
	return e.Vars
}

// NativeHeaders implements Host.
func (e *Env) NativeHeaders() (map[string]string, bool) {
	return e.Headers, e.Headers != nil
}

// Params implements Host.
func (e *Env) Params() url.Values {
	if e.Form == nil {
		e.Form = make(url.Values)
	}
	return e.Form
}

// Input implements Host.
func (e *Env) Input() io.Reader {
	return e.Stdin
}

// StagedHeaders implements Host.
func (e *Env) StagedHeaders() []string {
	return append([]string(nil), e.Staged...)
}

// StageHeader implements Host.
func (e *Env) StageHeader(line string) {
	e.Staged = append(e.Staged, line)
}
