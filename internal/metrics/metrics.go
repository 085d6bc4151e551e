package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamCallsTotal tracks calls per provider and method
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rnsdash_upstream_calls_total",
			Help: "Total number of upstream provider calls",
		},
		[]string{"provider", "method"},
	)

	// UpstreamErrorsTotal tracks failed calls per provider
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rnsdash_upstream_errors_total",
			Help: "Total number of failed upstream provider calls",
		},
		[]string{"provider", "error_type"},
	)

	// UpstreamLatency tracks upstream call latency
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rnsdash_upstream_latency_seconds",
			Help:    "Upstream call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "method"},
	)

	// FallbacksTotal counts switches to a secondary strategy
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rnsdash_fallbacks_total",
			Help: "Total number of times a fallback strategy was tried",
		},
		[]string{"operation", "strategy"},
	)

	// EnrichmentGapsTotal counts per-item metadata lookups that failed
	EnrichmentGapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rnsdash_enrichment_gaps_total",
			Help: "Total number of per-item metadata lookups that returned nothing",
		},
		[]string{"kind"},
	)

	// HTTPRequestsTotal tracks served API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rnsdash_http_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"route", "status"},
	)
)
