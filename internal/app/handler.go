// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package app

import (
	"context"
	"encoding/base64"
	"net/http"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chainguard-dev/clog"
	"github.com/valyala/fasthttp"

	"github.com/cruxstack/envctx/internal/echo"
	"github.com/cruxstack/envctx/internal/environ"
	"github.com/cruxstack/envctx/internal/httpctx"
	"github.com/cruxstack/envctx/internal/session"
	"github.com/cruxstack/envctx/internal/shared"
)

// HandleRequest is the single entry point for processing all calls.
//
// The call's session is resumed or started before its context is built, so a
// fresh session cookie is part of the response scaffold. The context lives in
// a scope carried by ctx for the rest of the call.
func (a *App) HandleRequest(ctx context.Context, host environ.Host) shared.Response {
	if !a.inBasePath(host.Server()[environ.VarRequestURI]) {
		return ErrorResponse(http.StatusNotFound, "not found")
	}

	var opts []httpctx.ScopeOption
	var handle *session.Handle
	if a.sessions != nil {
		handle = a.sessions.Begin(ctx, host)
		opts = append(opts, httpctx.WithSession(handle))
	}
	opts = append(opts, httpctx.OnBuild(func(ctx context.Context, c *httpctx.Context) {
		if a.metrics == nil {
			return
		}
		a.metrics.ObserveContext(c)
		if handle != nil {
			a.metrics.ObserveSession(handle.Started(), c.SessionID())
		}
	}))

	ctx = httpctx.WithScope(ctx, httpctx.NewScope(host, opts...))
	c := httpctx.Instance(ctx)

	log := clog.FromContext(ctx).With(
		"method", c.Request().Method(),
		"uri", c.Request().URI(),
	)
	log.Infof("request handled")

	return echo.Render(c)
}

// ServeHTTP implements http.Handler interface, allowing the App to be used
// directly as an HTTP handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := a.HandleRequest(r.Context(), environ.FromHTTP(r))
	if err := shared.WriteHTTP(w, resp); err != nil {
		clog.FromContext(r.Context()).Errorf("failed to write response body: %v", err)
	}
}

// FastHTTPHandler returns a fasthttp handler that logs through ctx.
func (a *App) FastHTTPHandler(ctx context.Context) fasthttp.RequestHandler {
	return func(rc *fasthttp.RequestCtx) {
		resp := a.HandleRequest(ctx, environ.FromFastHTTP(rc))
		shared.WriteFastHTTP(rc, resp)
	}
}

// HandleLambda answers an API Gateway v2 HTTP event.
func (a *App) HandleLambda(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp := a.HandleRequest(ctx, environ.FromLambda(req))
	return LambdaResponse(resp), nil
}

// LambdaResponse converts resp into an API Gateway v2 response. Bodies that
// are not valid UTF-8 are sent base64 encoded.
func LambdaResponse(resp shared.Response) events.APIGatewayV2HTTPResponse {
	out := events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
	}
	if utf8.Valid(resp.Body) {
		out.Body = string(resp.Body)
	} else {
		out.Body = base64.StdEncoding.EncodeToString(resp.Body)
		out.IsBase64Encoded = true
	}
	return out
}

// ErrorResponse creates an error response with the given status code and
// message as plain text.
func ErrorResponse(statusCode int, message string) shared.Response {
	return shared.Response{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "text/plain; charset=utf-8",
		},
		Body: []byte(message),
	}
}
