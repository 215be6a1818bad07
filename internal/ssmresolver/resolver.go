// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package ssmresolver swaps environment values that name an SSM Parameter
// Store ARN for the parameter's decrypted value.
package ssmresolver

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/chainguard-dev/clog"

	"github.com/cruxstack/envctx/internal/configwait"
)

// maxBatch is the largest number of names one GetParameters call accepts.
const maxBatch = 10

// DefaultRetry fits the Lambda init phase, which times out after ~10s.
var DefaultRetry = configwait.Config{
	MaxRetries:    5,
	RetryInterval: time.Second,
}

// Format: arn:aws:ssm:<region>:<account>:parameter/<path>
var arnPattern = regexp.MustCompile(`^arn:aws:ssm:[^:]+:[^:]+:parameter/(.+)$`)

// Client is the part of the SSM API the resolver calls.
type Client interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// Resolver resolves parameter ARNs through a Client.
type Resolver struct {
	client Client
}

// New creates a Resolver with the default AWS configuration.
func New(ctx context.Context) (*Resolver, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Resolver{client: ssm.NewFromConfig(cfg)}, nil
}

// NewWithClient creates a Resolver with a custom client.
func NewWithClient(client Client) *Resolver {
	return &Resolver{client: client}
}

// IsARN reports whether value is an SSM parameter ARN.
func IsARN(value string) bool {
	return arnPattern.MatchString(value)
}

// ParameterName returns the parameter path named by arn, with a leading slash.
func ParameterName(arn string) (string, bool) {
	m := arnPattern.FindStringSubmatch(arn)
	if len(m) != 2 {
		return "", false
	}
	name := m[1]
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return name, true
}

// Resolve returns values with every ARN replaced by its parameter value.
// Other values are copied unchanged. A parameter SSM does not know is an
// error.
func (r *Resolver) Resolve(ctx context.Context, values map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	byName := make(map[string][]string)
	var names []string

	for k, v := range values {
		name, ok := ParameterName(v)
		if !ok {
			out[k] = v
			continue
		}
		if _, seen := byName[name]; !seen {
			names = append(names, name)
		}
		byName[name] = append(byName[name], k)
	}

	for start := 0; start < len(names); start += maxBatch {
		batch := names[start:min(start+maxBatch, len(names))]
		resp, err := r.client.GetParameters(ctx, &ssm.GetParametersInput{
			Names:          batch,
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get SSM parameters: %w", err)
		}
		if len(resp.InvalidParameters) > 0 {
			return nil, fmt.Errorf("unknown SSM parameters: %s", strings.Join(resp.InvalidParameters, ", "))
		}
		for _, p := range resp.Parameters {
			name, value := aws.ToString(p.Name), aws.ToString(p.Value)
			for _, k := range byName[name] {
				out[k] = value
			}
			delete(byName, name)
		}
	}

	for name := range byName {
		return nil, fmt.Errorf("SSM parameter %s has no value", name)
	}
	return out, nil
}

// ResolveEnv resolves the named environment variables in place, retrying
// per retry. Nothing talks to AWS unless one of them holds an ARN.
func ResolveEnv(ctx context.Context, retry configwait.Config, keys ...string) error {
	values := make(map[string]string)
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok && IsARN(v) {
			values[k] = v
		}
	}
	if len(values) == 0 {
		return nil
	}

	return configwait.Wait(ctx, retry, func(ctx context.Context) error {
		r, err := New(ctx)
		if err != nil {
			return err
		}
		return r.setEnv(ctx, values)
	})
}

func (r *Resolver) setEnv(ctx context.Context, values map[string]string) error {
	resolved, err := r.Resolve(ctx, values)
	if err != nil {
		return err
	}
	for k, v := range resolved {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	clog.FromContext(ctx).Infof("[ssmresolver] resolved %d variables from SSM", len(resolved))
	return nil
}
