// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package shared

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/valyala/fasthttp"
)

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("ENVCTX_TEST_SET", "value")
	t.Setenv("ENVCTX_TEST_EMPTY", "")

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "set", key: "ENVCTX_TEST_SET", want: "value"},
		{name: "empty", key: "ENVCTX_TEST_EMPTY", want: "fallback"},
		{name: "unset", key: "ENVCTX_TEST_UNSET", want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetEnvDefault(tt.key, "fallback"); got != tt.want {
				t.Errorf("GetEnvDefault(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes"} {
		t.Setenv("ENVCTX_TEST_BOOL", v)
		if !GetEnvBool("ENVCTX_TEST_BOOL") {
			t.Errorf("GetEnvBool() = false for %q, want true", v)
		}
	}
	for _, v := range []string{"", "0", "no", "off"} {
		t.Setenv("ENVCTX_TEST_BOOL", v)
		if GetEnvBool("ENVCTX_TEST_BOOL") {
			t.Errorf("GetEnvBool() = true for %q, want false", v)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWriteHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteHTTP(rec, Response{
		StatusCode: http.StatusTeapot,
		Headers:    map[string]string{"X-Test": "1"},
		Body:       []byte("short and stout"),
	})
	if err != nil {
		t.Fatalf("WriteHTTP() error = %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if got := rec.Header().Get("X-Test"); got != "1" {
		t.Errorf("X-Test = %q, want %q", got, "1")
	}
	if got := rec.Body.String(); got != "short and stout" {
		t.Errorf("Body = %q, want %q", got, "short and stout")
	}
}

func TestWriteFastHTTP(t *testing.T) {
	var rc fasthttp.RequestCtx
	WriteFastHTTP(&rc, Response{
		StatusCode: http.StatusCreated,
		Headers:    map[string]string{"X-Test": "1"},
		Body:       []byte("made"),
	})

	if got := rc.Response.StatusCode(); got != http.StatusCreated {
		t.Errorf("Status = %d, want %d", got, http.StatusCreated)
	}
	if got := string(rc.Response.Header.Peek("X-Test")); got != "1" {
		t.Errorf("X-Test = %q, want %q", got, "1")
	}
	if got := string(rc.Response.Body()); got != "made" {
		t.Errorf("Body = %q, want %q", got, "made")
	}
}

func TestWriteCGI(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCGI(&buf, Response{
		StatusCode: http.StatusNotFound,
		Headers:    map[string]string{"X-B": "2", "Content-Type": "text/plain"},
		Body:       []byte("missing"),
	})
	if err != nil {
		t.Fatalf("WriteCGI() error = %v", err)
	}

	want := "Status: 404 Not Found\r\nContent-Type: text/plain\r\nX-B: 2\r\n\r\nmissing"
	if got := buf.String(); got != want {
		t.Errorf("WriteCGI() = %q, want %q", got, want)
	}
}
