// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Command lambda-envctx serves the request echo behind API Gateway v2.
//
// By default events are translated directly. With LAMBDA_MODE=proxy they go
// through the net/http handler via httpadapter instead.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"

	"github.com/cruxstack/envctx/internal/app"
	"github.com/cruxstack/envctx/internal/config"
	"github.com/cruxstack/envctx/internal/configwait"
	"github.com/cruxstack/envctx/internal/shared"
	"github.com/cruxstack/envctx/internal/ssmresolver"
)

// Lambda modes.
const (
	EnvLambdaMode   = "LAMBDA_MODE"
	LambdaModeProxy = "proxy"
)

var (
	// logger is attached to every invocation context
	logger *clog.Logger

	// appInstance answers invocations (nil when init failed)
	appInstance *app.App

	// proxy wraps appInstance for LAMBDA_MODE=proxy
	proxy *httpadapter.HandlerAdapterV2
)

func init() {
	_ = godotenv.Load(".env")

	logger = clog.New(shared.NewSlogHandler())
	ctx := clog.WithLogger(context.Background(), logger)
	log := clog.FromContext(ctx)

	// Resolve SSM parameters passed as ARNs
	if err := ssmresolver.ResolveEnv(ctx, ssmresolver.DefaultRetry, config.EnvKeys...); err != nil {
		log.Errorf("failed to resolve SSM parameters: %v", err)
		return
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Errorf("failed to load configuration: %v", err)
		return
	}
	logger = clog.New(shared.NewSlogHandlerFor(cfg.LogFormat))
	ctx = clog.WithLogger(ctx, logger)

	// the store stays open for the life of the execution environment
	sessions, _, err := app.OpenSessions(ctx, cfg, configwait.Config{MaxRetries: 3, RetryInterval: ssmresolver.DefaultRetry.RetryInterval})
	if err != nil {
		log.Errorf("failed to open session store: %v", err)
		return
	}

	appInstance = app.New(app.Config{Sessions: sessions, BasePath: cfg.BasePath})
	if os.Getenv(EnvLambdaMode) == LambdaModeProxy {
		proxy = httpadapter.NewV2(appInstance)
		log.Infof("[config] lambda proxy mode enabled")
	}
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	ctx = clog.WithLogger(ctx, logger)

	if appInstance == nil {
		return app.LambdaResponse(app.ErrorResponse(http.StatusServiceUnavailable, "service not configured")), nil
	}
	if req.RawPath == "/healthz" {
		return app.LambdaResponse(shared.Response{StatusCode: http.StatusOK, Body: []byte("ok")}), nil
	}
	if proxy != nil {
		return proxy.ProxyWithContext(ctx, req)
	}
	return appInstance.HandleLambda(ctx, req)
}

func main() {
	lambda.Start(handler)
}
