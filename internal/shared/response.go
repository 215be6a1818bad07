// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package shared provides common types and utilities shared across internal packages.
package shared

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/valyala/fasthttp"
)

// Response represents a runtime-agnostic HTTP response.
// Each host command translates it back into its own wire representation.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Headers contains response headers.
	Headers map[string]string

	// Body contains the raw response body.
	Body []byte
}

// WriteHTTP writes the response to a net/http ResponseWriter.
func WriteHTTP(w http.ResponseWriter, resp Response) error {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body == nil {
		return nil
	}
	_, err := w.Write(resp.Body)
	return err
}

// WriteFastHTTP writes the response to a fasthttp request context.
func WriteFastHTTP(rc *fasthttp.RequestCtx, resp Response) {
	for k, v := range resp.Headers {
		rc.Response.Header.Set(k, v)
	}
	rc.SetStatusCode(resp.StatusCode)
	rc.SetBody(resp.Body)
}

// WriteCGI writes the response in CGI form: a Status line, the headers in
// name order, a blank line and the body.
func WriteCGI(w io.Writer, resp Response) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %d %s\r\n", resp.StatusCode, http.StatusText(resp.StatusCode))

	names := make([]string, 0, len(resp.Headers))
	for k := range resp.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(&b, "%s: %s\r\n", k, resp.Headers[k])
	}
	b.WriteString("\r\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if len(resp.Body) == 0 {
		return nil
	}
	_, err := w.Write(resp.Body)
	return err
}
