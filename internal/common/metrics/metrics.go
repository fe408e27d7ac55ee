// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WaitlistLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_loads_total",
			Help: "Total number of waitlist loads by outcome",
		},
		[]string{"outcome"},
	)

	WaitlistLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "waitlist_load_duration_seconds",
			Help:    "Duration of waitlist loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	WaitlistStatusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_status_updates_total",
			Help: "Total number of application status updates by target status and outcome",
		},
		[]string{"status", "outcome"},
	)

	WaitlistScreensActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waitlist_screens_active",
			Help: "Number of open waitlist screens",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)

	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"component", "state"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decision_notifications_total",
			Help: "Total number of applicant decision notices by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)
