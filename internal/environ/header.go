// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package environ

import (
	"sort"
	"strings"
)

// Header names the reader synthesizes or inspects.
const (
	HeaderAuthorization  = "Authorization"
	HeaderETag           = "ETag"
	HeaderIfNoneMatch    = "If-None-Match"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderMethodOverride = "X-HTTP-Method-Override"
	HeaderContentType    = "Content-Type"
	HeaderContentLength  = "Content-Length"
	HeaderContentMD5     = "Content-MD5"
)

// Header maps header names to values. Names keep the casing they were first
// stored with, but every lookup is case-insensitive and a name is stored once.
type Header map[string]string

// key returns the stored spelling of name.
func (h Header) key(name string) (string, bool) {
	if _, ok := h[name]; ok {
		return name, true
	}
	for k := range h {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

// Lookup returns the value stored under name and whether it exists.
func (h Header) Lookup(name string) (string, bool) {
	k, ok := h.key(name)
	if !ok {
		return "", false
	}
	return h[k], true
}

// Get returns the value stored under name, or "".
func (h Header) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Has reports whether name is present.
func (h Header) Has(name string) bool {
	_, ok := h.key(name)
	return ok
}

// Set stores value under name. An existing entry that differs only in case
// is overwritten in place and keeps its spelling.
func (h Header) Set(name, value string) {
	if k, ok := h.key(name); ok {
		name = k
	}
	h[name] = value
}

// Del removes name.
func (h Header) Del(name string) {
	if k, ok := h.key(name); ok {
		delete(h, k)
	}
}

// Clone returns a copy of h.
func (h Header) Clone() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Names returns the stored header names in sorted order.
func (h Header) Names() []string {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// headerCase turns an UPPER_SNAKE variable suffix into Header-Case,
// e.g. X_FORWARDED_FOR becomes X-Forwarded-For.
func headerCase(name string) string {
	words := strings.Split(strings.ToLower(name), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, "-")
}

// headerVar turns a header name into its CGI variable, e.g. X-Forwarded-For
// becomes HTTP_X_FORWARDED_FOR.
func headerVar(name string) string {
	return headerVarPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
