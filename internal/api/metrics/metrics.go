// Package metrics defines and registers all custom Prometheus metrics for the
// shipping cost engine. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load time; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipping"

// ── Calculation metrics ───────────────────────────────────────────────────────

// CalculationsTotal counts single-vendor calculation attempts.
// Label:
//   - result: "success", "config_not_found", "out_of_service_area",
//     "exceeds_max_distance", "provider_error", "validation_error",
//     "persistence_error"
var CalculationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calculations_total",
		Help:      "Total number of shipping cost calculations, by result.",
	},
	[]string{"result"},
)

// CalculationDuration measures end-to-end duration of a single-vendor
// calculation, including any external provider call.
// Label:
//   - result: "success" or "error"
var CalculationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "calculation_duration_seconds",
		Help:      "Duration of a shipping cost calculation from entry to persistence.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)

// ── Distance cache / provider metrics ─────────────────────────────────────────

// DistanceCacheTotal counts distance cache lookups.
// Label:
//   - result: "hit" (recent distance reused) or "miss" (provider called)
var DistanceCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "distance_cache_total",
		Help:      "Total number of distance cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ProviderRequestsTotal counts external distance provider round trips.
// Label:
//   - status: provider-reported status ("OK", "ZERO_RESULTS", ...) or "transport_error"
var ProviderRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "distance_provider_requests_total",
		Help:      "Total number of external distance provider requests, by status.",
	},
	[]string{"status"},
)

// ── Multi-vendor metrics ──────────────────────────────────────────────────────

// EstimateBatchSize observes how many vendors each multi-vendor estimate
// fans out to.
var EstimateBatchSize = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "estimate_batch_size",
		Help:      "Number of vendors per multi-vendor estimate request.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
	},
)
