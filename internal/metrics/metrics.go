// Package metrics provides Prometheus metrics for gondolin.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gondolin",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gondolin",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// RecordsTotal tracks the number of records currently in the store.
	RecordsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gondolin",
			Name:      "records_total",
			Help:      "Total number of credential records stored",
		},
	)

	// StoreSyncsTotal counts store persists by outcome.
	StoreSyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gondolin",
			Name:      "store_syncs_total",
			Help:      "Total number of store sync operations",
		},
		[]string{"outcome"}, // "ok" or "error"
	)
)
