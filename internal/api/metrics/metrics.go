// Package metrics defines and registers all custom Prometheus metrics for
// the charter booking API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "charter"

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts newly created bookings.
// Label:
//   - kind: "cargo" or "passenger"
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created, by booking kind.",
	},
	[]string{"kind"},
)

// StatusTransitionsTotal counts successfully applied status transitions.
// Labels:
//   - kind: "cargo" or "passenger"
//   - status: the new status (e.g. "In Transit")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of status transitions applied, by kind and new status.",
	},
	[]string{"kind", "status"},
)

// TransitionErrorsTotal counts rejected mutations.
// Label:
//   - reason: short failure class (e.g. "invalid_transition", "conflict", "not_found")
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of rejected booking mutations, by reason.",
	},
	[]string{"reason"},
)

// CheckpointsSkippedTotal counts route-ledger appends that were skipped
// because the resulting location was incomplete.
var CheckpointsSkippedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkpoints_skipped_total",
		Help:      "Total number of route checkpoints skipped due to incomplete location data.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsSentTotal counts status e-mails handed to the SMTP sender.
// Labels:
//   - kind: "cargo" or "passenger"
//   - status: the booking status the e-mail announced
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of status notifications sent, by kind and status.",
	},
	[]string{"kind", "status"},
)

// NotificationErrorsTotal counts notification deliveries that failed.
// Label:
//   - reason: "render", "send", or "dedup"
var NotificationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_errors_total",
		Help:      "Total number of failed notification deliveries, by reason.",
	},
	[]string{"reason"},
)

// NotificationDedupTotal counts at-most-once decisions.
// Label:
//   - result: "hit" (already sent, skipped) or "miss" (sent)
var NotificationDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_dedup_total",
		Help:      "Total number of notification dedup checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// NotifyQueueDepth tracks events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of status events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Geocoding metrics ─────────────────────────────────────────────────────────

// GeocodeLookupsTotal counts external geocoding calls.
// Labels:
//   - provider: "google", "nominatim", or "cache"
//   - result: "hit" or "miss"
var GeocodeLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_lookups_total",
		Help:      "Total number of geocode lookups, by provider and result.",
	},
	[]string{"provider", "result"},
)

// ── Receipt metrics ───────────────────────────────────────────────────────────

// ReceiptsGeneratedTotal counts successfully rendered receipts.
// Label:
//   - status: booking status at render time
var ReceiptsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "receipts_generated_total",
		Help:      "Total number of air-waybill receipts rendered, by booking status.",
	},
	[]string{"status"},
)
