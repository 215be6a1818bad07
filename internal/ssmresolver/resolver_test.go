// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package ssmresolver

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/chainguard-dev/clog/slogtest"
	"github.com/google/go-cmp/cmp"

	"github.com/cruxstack/envctx/internal/configwait"
)

type fakeClient struct {
	params map[string]string
	err    error
	calls  [][]string
}

func (f *fakeClient) GetParameters(_ context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.calls = append(f.calls, in.Names)
	if f.err != nil {
		return nil, f.err
	}
	out := &ssm.GetParametersOutput{}
	for _, n := range in.Names {
		v, ok := f.params[n]
		if !ok {
			out.InvalidParameters = append(out.InvalidParameters, n)
			continue
		}
		out.Parameters = append(out.Parameters, types.Parameter{Name: aws.String(n), Value: aws.String(v)})
	}
	return out, nil
}

func TestParameterName(t *testing.T) {
	tests := []struct {
		arn    string
		want   string
		wantOK bool
	}{
		{arn: "arn:aws:ssm:us-east-1:123456789012:parameter/envctx/SESSION_DIR", want: "/envctx/SESSION_DIR", wantOK: true},
		{arn: "arn:aws:ssm:us-east-1:123456789012:parameter//already/rooted", want: "/already/rooted", wantOK: true},
		{arn: "arn:aws:s3:::bucket/key"},
		{arn: "/var/lib/envctx"},
		{arn: ""},
	}

	for _, tt := range tests {
		t.Run(tt.arn, func(t *testing.T) {
			got, ok := ParameterName(tt.arn)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParameterName() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
			if IsARN(tt.arn) != tt.wantOK {
				t.Errorf("IsARN() = %v, want %v", !tt.wantOK, tt.wantOK)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	const arnA = "arn:aws:ssm:eu-west-1:1:parameter/a"
	client := &fakeClient{params: map[string]string{"/a": "alpha"}}
	r := NewWithClient(client)

	got, err := r.Resolve(slogtest.Context(t), map[string]string{
		"ONE":   arnA,
		"TWO":   arnA,
		"PLAIN": "value",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := map[string]string{"ONE": "alpha", "TWO": "alpha", "PLAIN": "value"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"/a"}}, client.calls); diff != "" {
		t.Errorf("GetParameters calls mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Batches(t *testing.T) {
	client := &fakeClient{params: map[string]string{}}
	values := map[string]string{}
	for i := 0; i < 12; i++ {
		name := "/p" + string(rune('a'+i))
		client.params[name] = name
		values[name] = "arn:aws:ssm:eu-west-1:1:parameter" + name
	}

	got, err := NewWithClient(client).Resolve(slogtest.Context(t), values)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(client.calls) != 2 || len(client.calls[0]) != maxBatch || len(client.calls[1]) != 2 {
		t.Errorf("calls = %v, want batches of %d and 2", client.calls, maxBatch)
	}
	for k, v := range got {
		if k != v {
			t.Errorf("Resolve()[%s] = %q", k, v)
		}
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
	}{
		{name: "unknown parameter", client: &fakeClient{params: map[string]string{}}},
		{name: "api failure", client: &fakeClient{err: errors.New("throttled")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithClient(tt.client).Resolve(slogtest.Context(t), map[string]string{
				"X": "arn:aws:ssm:eu-west-1:1:parameter/missing",
			})
			if err == nil {
				t.Error("Resolve() error = nil, want error")
			}
		})
	}
}

func TestResolveEnv_NoARNs(t *testing.T) {
	t.Setenv("SESSION_DIR", "/tmp/sessions")

	// no ARN values means no AWS configuration is loaded at all
	err := ResolveEnv(slogtest.Context(t), configwait.Config{MaxRetries: 1}, "SESSION_DIR", "UNSET_KEY")
	if err != nil {
		t.Fatalf("ResolveEnv() error = %v", err)
	}
	if got := os.Getenv("SESSION_DIR"); got != "/tmp/sessions" {
		t.Errorf("SESSION_DIR = %q", got)
	}
}

func TestSetEnv(t *testing.T) {
	t.Setenv("SESSION_COOKIE", "arn:aws:ssm:eu-west-1:1:parameter/cookie")
	r := NewWithClient(&fakeClient{params: map[string]string{"/cookie": "SID"}})

	err := r.setEnv(slogtest.Context(t), map[string]string{
		"SESSION_COOKIE": os.Getenv("SESSION_COOKIE"),
	})
	if err != nil {
		t.Fatalf("setEnv() error = %v", err)
	}
	if got := os.Getenv("SESSION_COOKIE"); got != "SID" {
		t.Errorf("SESSION_COOKIE = %q, want SID", got)
	}
}
