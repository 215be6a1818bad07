// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHeader_CaseInsensitive(t *testing.T) {
	h := Header{"content-type": "text/plain"}

	if got := h.Get("Content-Type"); got != "text/plain" {
		t.Errorf("Get() = %q, want %q", got, "text/plain")
	}
	if !h.Has("CONTENT-TYPE") {
		t.Error("Has() = false, want true")
	}

	h.Set("Content-Type", "application/json")
	if diff := cmp.Diff(Header{"content-type": "application/json"}, h); diff != "" {
		t.Errorf("Set() mismatch (-want +got):\n%s", diff)
	}

	h.Del("CONTENT-type")
	if len(h) != 0 {
		t.Errorf("Del() left %v", h)
	}
}

func TestHeader_Names(t *testing.T) {
	h := Header{"b": "2", "A": "1", "c": "3"}
	if diff := cmp.Diff([]string{"A", "b", "c"}, h.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderCase(t *testing.T) {
	tests := map[string]string{
		"X_FORWARDED_FOR":          "X-Forwarded-For",
		"USER_AGENT":               "User-Agent",
		"HOST":                     "Host",
		"X_HTTP_METHOD_OVERRIDE":   "X-Http-Method-Override",
		"CONTENT_MD5":              "Content-Md5",
		"DOUBLE__UNDERSCORE":       "Double--Underscore",
		"already_lower_case_value": "Already-Lower-Case-Value",
	}
	for in, want := range tests {
		if got := headerCase(in); got != want {
			t.Errorf("headerCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHeaderVar(t *testing.T) {
	tests := map[string]string{
		"X-Forwarded-For": "HTTP_X_FORWARDED_FOR",
		"content-type":    "HTTP_CONTENT_TYPE",
		"Host":            "HTTP_HOST",
	}
	for in, want := range tests {
		if got := headerVar(in); got != want {
			t.Errorf("headerVar(%q) = %q, want %q", in, got, want)
		}
	}
}
