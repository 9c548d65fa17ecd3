package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AvailabilityQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hangout",
		Name:      "availability_queries_total",
		Help:      "Availability lookups by result mode.",
	}, []string{"mode"})

	CalendarSideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hangout",
		Name:      "calendar_side_effect_failures_total",
		Help:      "Best-effort calendar writes that failed, by operation and party.",
	}, []string{"operation", "party"})

	LifecycleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hangout",
		Name:      "lifecycle_transitions_total",
		Help:      "Persisted hangout status changes by target status.",
	}, []string{"status"})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hangout",
		Name:      "notification_failures_total",
		Help:      "Notifications that could not be enqueued or stored, by kind.",
	}, []string{"kind"})
)
