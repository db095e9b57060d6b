package metrics

import (
	"mercator-hq/hmcorch/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SystemMetrics tracks the circuit breaker and error health of the HMC
// connection.
//
// Metrics:
//   - hmcorch_breaker_state: 0=closed, 1=open, 2=half-open
//   - hmcorch_breaker_trips_total: total breaker trips
//   - hmcorch_errors_total: errors by type (auth, transient, permanent, network, rate_limit)
type SystemMetrics struct {
	breakerState *prometheus.GaugeVec
	breakerTrips *prometheus.CounterVec
	errors       *prometheus.CounterVec
}

// NewSystemMetrics creates and registers system-health metrics with registry.
func NewSystemMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SystemMetrics {
	sm := &SystemMetrics{
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"host"},
		),

		breakerTrips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "breaker_trips_total",
				Help:      "Total number of times the circuit breaker tripped open",
			},
			[]string{"host"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "Total number of HMC client errors by type",
			},
			[]string{"host", "error_type"},
		),
	}

	registry.MustRegister(sm.breakerState, sm.breakerTrips, sm.errors)
	return sm
}

// UpdateBreakerState records the breaker's current numeric state for host.
func (sm *SystemMetrics) UpdateBreakerState(host string, state int) {
	sm.breakerState.WithLabelValues(host).Set(float64(state))
}

// RecordBreakerTrip records a breaker Closed/HalfOpen → Open transition.
func (sm *SystemMetrics) RecordBreakerTrip(host string) {
	sm.breakerTrips.WithLabelValues(host).Inc()
}

// RecordError records an error from the HMC client by its taxonomy type
// (auth, transient, permanent, network, rate_limit, schema).
func (sm *SystemMetrics) RecordError(host, errorType string) {
	sm.errors.WithLabelValues(host, errorType).Inc()
}
