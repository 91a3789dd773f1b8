package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marina_booking_dispatch_total",
			Help: "Booking dispatches by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	PendingOperationsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marina_pending_operations_enqueued_total",
			Help: "Pending operations created for offline marinas",
		},
		[]string{"type"},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marina_audit_write_failures_total",
			Help: "Audit events that could not be persisted",
		},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marina_booking_dispatch_seconds",
			Help:    "Duration of booking dispatches",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marina_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)
)
