// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package httpctx

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cruxstack/envctx/internal/environ"
)

func TestParseStaged(t *testing.T) {
	got := parseStaged([]string{
		"Content-Type: text/html; charset=UTF-8",
		"X-Time: 12:30:00",
		"no colon here",
		"X-Dup: one",
		"x-dup: two",
		"X-Empty:",
	})
	want := environ.Header{
		"Content-Type": "text/html; charset=UTF-8",
		"X-Time":       "12:30:00",
		"X-Dup":        "two",
		"X-Empty":      "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseStaged() mismatch (-want +got):\n%s", diff)
	}
}

func TestResponse_Status(t *testing.T) {
	r := newResponse(nil)
	if got := r.StatusCode(); got != http.StatusOK {
		t.Errorf("StatusCode() = %d, want 200", got)
	}
	if len(r.Headers) != 0 {
		t.Errorf("Headers = %v, want empty", r.Headers)
	}

	r.SetStatus(http.StatusCreated)
	if r.StatusLine != "HTTP/1.1 201 Created" {
		t.Errorf("StatusLine = %q", r.StatusLine)
	}

	r.StatusLine = "HTTP/2 418 I'm a teapot"
	if got := r.StatusCode(); got != http.StatusTeapot {
		t.Errorf("StatusCode() = %d, want 418", got)
	}
	r.SetStatus(599)
	if r.StatusLine != "HTTP/2 599" {
		t.Errorf("StatusLine = %q, want unknown code without text", r.StatusLine)
	}

	r.StatusLine = "garbage"
	if got := r.StatusCode(); got != 0 {
		t.Errorf("StatusCode() = %d, want 0", got)
	}
}
