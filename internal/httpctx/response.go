// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package httpctx

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cruxstack/envctx/internal/environ"
)

// DefaultStatusLine is the status line every response scaffold starts with.
const DefaultStatusLine = "HTTP/1.1 200 OK"

// Response is the mutable response scaffold of one call. Downstream code
// edits it in place.
type Response struct {
	// StatusLine is the full status line, e.g. "HTTP/1.1 200 OK".
	StatusLine string

	// Headers holds the response headers, starting with those the host had
	// already staged when the context was built.
	Headers environ.Header
}

func newResponse(staged []string) *Response {
	return &Response{
		StatusLine: DefaultStatusLine,
		Headers:    parseStaged(staged),
	}
}

// parseStaged turns "Name: value" lines into headers. The name is kept as
// given and the value trimmed. Later lines replace earlier ones; lines without
// a colon are skipped.
func parseStaged(lines []string) environ.Header {
	h := make(environ.Header, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		h.Set(name, strings.TrimSpace(value))
	}
	return h
}

// StatusCode returns the numeric status of the status line, or 0 when the
// line does not carry one.
func (r *Response) StatusCode() int {
	fields := strings.Fields(r.StatusLine)
	if len(fields) < 2 {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

// SetStatus rewrites the status line for code, keeping the protocol.
func (r *Response) SetStatus(code int) {
	proto := "HTTP/1.1"
	if fields := strings.Fields(r.StatusLine); len(fields) > 0 {
		proto = fields[0]
	}
	r.StatusLine = strings.TrimSpace(fmt.Sprintf("%s %d %s", proto, code, http.StatusText(code)))
}
