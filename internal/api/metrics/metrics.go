// Package metrics defines and registers all custom Prometheus metrics for the
// voting wizard. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voting"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of booth login attempts, by result.",
	},
	[]string{"result"},
)

// ── Wizard metrics ────────────────────────────────────────────────────────────

// StepsCompletedTotal counts wizard steps that wrote their result.
// Label:
//   - step: the wizard step (e.g. "face_scan")
var StepsCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "steps_completed_total",
		Help:      "Total number of wizard steps completed, by step.",
	},
	[]string{"step"},
)

// VerificationFailuresTotal counts rejected wizard operations.
// Label:
//   - reason: short failure name (e.g. "invalid_otp", "missing_prerequisite")
var VerificationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_failures_total",
		Help:      "Total number of wizard operations rejected, by reason.",
	},
	[]string{"reason"},
)

// VotesCastTotal counts recorded (unconfirmed) votes.
// Label:
//   - candidate_id: ballot id of the chosen candidate
var VotesCastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of votes cast, by candidate.",
	},
	[]string{"candidate_id"},
)

var VotesConfirmedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_confirmed_total",
		Help:      "Total number of votes confirmed on the simulated ledger.",
	},
)

// MockLatency measures how long each simulated backend call took.
// Label:
//   - operation: e.g. "verify_otp", "face_scan"
var MockLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mock_latency_seconds",
		Help:      "Duration of simulated verification calls.",
		Buckets:   []float64{.1, .25, .5, 1, 1.5, 2, 3, 5},
	},
	[]string{"operation"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by persistence outcome.
// Label:
//   - result: "stored", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events handled, by result.",
	},
	[]string{"result"},
)
