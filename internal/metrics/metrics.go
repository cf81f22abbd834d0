// Package metrics exposes Prometheus collectors for outbound API calls
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels used for request counters
const (
	OutcomeSuccess        = "success"
	OutcomeBackendFailure = "backend_failure"
	OutcomeTransportError = "transport_error"
)

// Metrics records request counts and latencies of the API client.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the API client collectors and registers them with reg when reg is not nil
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petctl",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Outbound API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "petctl",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Outbound API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// Observe records one finished request
func (m *Metrics) Observe(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
