// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the API.

All collectors live on an explicit [Registry] built by the composition root,
so tests can create isolated registries instead of sharing process globals.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/vidtube/internal/platform/middleware"
)

// # Auth Events

const (
	EventRegister        = "register"
	EventLoginSuccess    = "login_success"
	EventLoginFailure    = "login_failure"
	EventLogout          = "logout"
	EventRefreshSuccess  = "refresh_success"
	EventRefreshFailure  = "refresh_failure"
	EventPasswordChanged = "password_changed"
	EventPasswordReset   = "password_reset"
)

// Registry owns every collector exported by the process.
type Registry struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authEvents      *prometheus.CounterVec
}

// NewRegistry creates a registry with HTTP, auth and runtime collectors.
func NewRegistry() *Registry {
	registry := prometheus.NewRegistry()

	metrics := &Registry{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtube_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vidtube_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtube_auth_events_total",
			Help: "Authentication lifecycle events by outcome",
		}, []string{"event"}),
	}

	registry.MustRegister(
		metrics.requestsTotal,
		metrics.requestDuration,
		metrics.authEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return metrics
}

// AuthEvent increments the counter for one auth lifecycle event.
func (metrics *Registry) AuthEvent(event string) {
	metrics.authEvents.WithLabelValues(event).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (metrics *Registry) Gatherer() prometheus.Gatherer {
	return metrics.registry
}

// Middleware records request counts and latency labelled by route pattern.
//
// The pattern is read after the router has matched, so "/c/{username}" is one
// series regardless of how many channels exist.
func (metrics *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := middleware.NewStatusRecorder(writer)

		next.ServeHTTP(recorder, request)

		path := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		labels := prometheus.Labels{
			"method": request.Method,
			"path":   path,
			"status": strconv.Itoa(recorder.Status),
		}
		metrics.requestsTotal.With(labels).Inc()
		metrics.requestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}
