// Package metrics declares the console's Prometheus metrics. HTTP request
// metrics come from echoprometheus; everything here is domain specific.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kosalla_console"

// GuardDecisionsTotal counts route guard outcomes.
// Label decision: bypass, public, login_redirect, stale_session,
// backend_error, forbidden, allowed.
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Route guard decisions by outcome.",
	},
	[]string{"decision"},
)

// LoginsTotal counts login attempts.
// Label result: success, rejected, throttled, invalid, error.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	},
	[]string{"result"},
)

// BackendRequestDuration measures round trips to the Kosalla backend.
// status is "0" when no response arrived.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of backend API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// AuditQueueDepth is the number of access events waiting per worker.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Access events pending in each audit worker queue.",
	},
	[]string{"worker_id"},
)

// ObserveBackend matches backend.ObserveFunc.
func ObserveBackend(method, route string, status int, elapsed time.Duration) {
	BackendRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// SetAuditDepth matches queue.DepthFunc.
func SetAuditDepth(worker string, depth int) {
	AuditQueueDepth.WithLabelValues(worker).Set(float64(depth))
}
