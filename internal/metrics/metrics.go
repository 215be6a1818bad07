// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

// Package metrics counts built contexts and started sessions for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cruxstack/envctx/internal/httpctx"
)

const namespace = "envctx"

// methodOther labels every method outside the standard set, so client-chosen
// overrides cannot grow the series count.
const methodOther = "other"

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodConnect: true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

func methodLabel(method string) string {
	if knownMethods[method] {
		return method
	}
	return methodOther
}

// Recorder owns a registry and the collectors registered on it.
type Recorder struct {
	registry        *prometheus.Registry
	contexts        *prometheus.CounterVec
	sessionsStarted prometheus.Counter
	sessionErrors   prometheus.Counter
}

// New creates a Recorder with its own registry, including the Go runtime and
// process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		contexts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_built_total",
			Help:      "Number of request contexts built, by effective method and body kind. Non-standard methods count as other.",
		}, []string{"method", "body"}),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Number of new sessions started.",
		}),
		sessionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_store_errors_total",
			Help:      "Number of calls that needed a session but could not get one.",
		}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.contexts,
		r.sessionsStarted,
		r.sessionErrors,
	)
	return r
}

// ObserveContext counts one built context.
func (r *Recorder) ObserveContext(c *httpctx.Context) {
	req := c.Request()
	r.contexts.WithLabelValues(methodLabel(req.Method()), req.Body().Kind()).Inc()
}

// ObserveSession counts the session outcome of one call. started reports a
// new session; an empty id after the build means the store failed.
func (r *Recorder) ObserveSession(started bool, id string) {
	switch {
	case started:
		r.sessionsStarted.Inc()
	case id == "":
		r.sessionErrors.Inc()
	}
}

// Registry returns the registry backing the Recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
