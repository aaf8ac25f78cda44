// Package metrics defines all custom Prometheus metrics for the
// SmartFDX auth gateway. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smartfdx"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "throttled", "upstream_error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// LoginDuration measures the end-to-end latency of a login attempt,
// including the credential-store round trip.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login handling from request to response.",
		Buckets:   prometheus.DefBuckets,
	},
)

// SessionsActive tracks currently open sessions. Incremented at open,
// decremented at close and when the sweeper finds a session lapsed.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of currently open sessions.",
	},
)

// GuardDecisionsTotal counts session-guard outcomes on protected routes.
// Label:
//   - outcome: "allow", "redirect", "deny"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of session guard checks, labelled by outcome.",
	},
	[]string{"outcome"},
)

// RouteLookupsTotal counts workspace-route resolutions.
// Label:
//   - result: "hit", "fallback"
var RouteLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_lookups_total",
		Help:      "Total number of workspace route resolutions, labelled by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks pending audit records per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit records pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditErrorsTotal counts audit records that failed to persist.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of login-attempt audit records that failed to persist.",
	},
)
