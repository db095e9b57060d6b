package metrics

import (
	"time"

	"mercator-hq/hmcorch/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// requestDurationBuckets is tuned for HMC REST latencies: most calls
// land under a second, but session establishment and paginated listing
// calls can run into the tens of seconds on a loaded HMC.
var requestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// RequestMetrics tracks metrics for HMC REST requests issued by the
// session manager.
//
// Metrics:
//   - hmcorch_requests_total: total requests by operation and status
//   - hmcorch_request_duration_seconds: request duration histogram
//   - hmcorch_retries_total: retry attempts by operation
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
}

// NewRequestMetrics creates and registers request metrics with registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of HMC REST requests by operation and status",
			},
			[]string{"operation", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of HMC REST requests in seconds",
				Buckets:   requestDurationBuckets,
			},
			[]string{"operation"},
		),

		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retries_total",
				Help:      "Total number of retry attempts by operation",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration, rm.retriesTotal)
	return rm
}

// RecordRequest records one completed HMC REST request.
func (rm *RequestMetrics) RecordRequest(operation, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(operation, status).Inc()
	rm.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRetry records a retry attempt for operation.
func (rm *RequestMetrics) RecordRetry(operation string) {
	rm.retriesTotal.WithLabelValues(operation).Inc()
}
