// Package metrics exposes Prometheus metrics for the diary service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the service.
var Registry = prometheus.NewRegistry()

// factory registers metrics against our Registry directly.
var factory = promauto.With(Registry)

// BookingsCreatedTotal counts successfully created diary entries.
var BookingsCreatedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "diary",
	Name:      "bookings_created_total",
	Help:      "Total diary entries created",
})

// BookingsUpdatedTotal counts successful updates to diary entries.
var BookingsUpdatedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "diary",
	Name:      "bookings_updated_total",
	Help:      "Total diary entries updated",
})

// BookingsDeletedTotal counts deleted diary entries.
var BookingsDeletedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "diary",
	Name:      "bookings_deleted_total",
	Help:      "Total diary entries deleted",
})

// ConflictsDetectedTotal counts writes rejected by the overlap invariant.
var ConflictsDetectedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "diary",
	Name:      "conflicts_detected_total",
	Help:      "Total saves rejected because the time range overlapped an existing booking",
})

// InitialAssignmentRejectionsTotal counts writes rejected by the
// first-assignment rule.
var InitialAssignmentRejectionsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "diary",
	Name:      "initial_assignment_rejections_total",
	Help:      "Total saves rejected because the call's designated engineer has no booking yet",
})

// RequestDurationSeconds tracks HTTP handler latency by route and status.
var RequestDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "diary",
	Name:      "request_duration_seconds",
	Help:      "HTTP request duration",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
}, []string{"method", "route", "status"})
