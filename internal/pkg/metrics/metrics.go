// Package metrics exposes Prometheus instrumentation for the console.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TransitionsTotal counts status transition requests by target status
	// and outcome (accepted, rejected, backend_failed).
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_status_transitions_total",
			Help: "Investment status transition requests by target and outcome.",
		},
		[]string{"target", "outcome"},
	)

	// ScopeLoadsTotal counts working-set reloads by scope kind
	// (platform, owner, sub_marketer).
	ScopeLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_scope_loads_total",
			Help: "Investment scope loads by scope kind.",
		},
		[]string{"scope_kind"},
	)

	// HTTPRequestDuration tracks console API request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_http_request_duration_seconds",
			Help:    "Console API request duration by method, route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// GatewayRequestDuration tracks backend REST call latency.
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_gateway_request_duration_seconds",
			Help:    "Backend gateway request duration by operation and outcome.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)
)

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
