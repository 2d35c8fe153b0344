// README: Prometheus collectors for capability calls, planning outcomes and HTTP traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	CapabilityCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripplanner_capability_calls_total",
			Help: "Total number of external capability calls by outcome",
		},
		[]string{"capability", "outcome"},
	)

	CapabilityCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripplanner_capability_call_duration_seconds",
			Help:    "Duration of external capability calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"capability"},
	)

	Plans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripplanner_plans_total",
			Help: "Total number of planning requests by outcome",
		},
		[]string{"outcome"},
	)

	DestinationsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripplanner_destinations_skipped_total",
			Help: "Destinations dropped during option selection by reason",
		},
		[]string{"reason"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripplanner_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveCall records one capability call. Use with defer:
//
//	defer metrics.ObserveCall("serpapi_flights", time.Now(), &err)
func ObserveCall(capability string, start time.Time, errp *error) {
	CapabilityCallDuration.WithLabelValues(capability).Observe(time.Since(start).Seconds())
	outcome := OutcomeSuccess
	if errp != nil && *errp != nil {
		outcome = OutcomeError
	}
	CapabilityCalls.WithLabelValues(capability, outcome).Inc()
}
