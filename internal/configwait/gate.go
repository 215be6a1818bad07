// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package configwait

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/chainguard-dev/clog"
)

// ReadyGate is an HTTP handler that answers 503 Service Unavailable until it
// is marked ready. Allowed paths, such as health and metrics endpoints, pass
// through at all times.
type ReadyGate struct {
	allowedPaths []string
	ready        atomic.Bool
	handler      atomic.Pointer[http.Handler]
}

// NewReadyGate creates a gate in front of inner. inner may be nil and set
// later with SetHandler. An allowed path matches itself and everything below
// it; "/" matches only the root.
func NewReadyGate(inner http.Handler, allowedPaths []string) *ReadyGate {
	rg := &ReadyGate{allowedPaths: allowedPaths}
	if inner != nil {
		rg.SetHandler(inner)
	}
	return rg
}

// SetReady lets all requests through.
func (rg *ReadyGate) SetReady() {
	rg.ready.Store(true)
}

// IsReady reports whether the gate is open.
func (rg *ReadyGate) IsReady() bool {
	return rg.ready.Load()
}

// SetHandler swaps the handler requests are passed to.
func (rg *ReadyGate) SetHandler(h http.Handler) {
	rg.handler.Store(&h)
}

// ServeHTTP implements http.Handler.
func (rg *ReadyGate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !rg.ready.Load() && !rg.isAllowedPath(r.URL.Path) {
		rg.serveUnavailable(w, r, "service not ready, session store opening")
		return
	}

	h := rg.handler.Load()
	if h == nil || *h == nil {
		rg.serveUnavailable(w, r, "service starting up")
		return
	}
	(*h).ServeHTTP(w, r)
}

func (rg *ReadyGate) isAllowedPath(path string) bool {
	for _, allowed := range rg.allowedPaths {
		if allowed == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if rest, ok := strings.CutPrefix(path, allowed); ok && (rest == "" || rest[0] == '/') {
			return true
		}
	}
	return false
}

func (rg *ReadyGate) serveUnavailable(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "5")
	w.WriteHeader(http.StatusServiceUnavailable)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "service_unavailable",
		"message": message,
	}); err != nil {
		clog.FromContext(r.Context()).Errorf("[configwait] failed to write unavailable response: %v", err)
	}
}
