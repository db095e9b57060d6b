package metrics

import (
	"mercator-hq/hmcorch/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ResizeMetrics tracks CPU entitlement changes applied to LPARs.
//
// Metrics:
//   - hmcorch_resize_total: total resize operations by direction and status
//   - hmcorch_resize_cpu_delta: distribution of CPU entitlement deltas applied
//   - hmcorch_lpar_cpu_entitlement: current CPU entitlement observed per LPAR
type ResizeMetrics struct {
	resizeTotal    *prometheus.CounterVec
	resizeCPUDelta *prometheus.HistogramVec
	cpuEntitlement *prometheus.GaugeVec
}

// NewResizeMetrics creates and registers resize metrics with registry.
func NewResizeMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ResizeMetrics {
	rm := &ResizeMetrics{
		resizeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resize_total",
				Help:      "Total number of LPAR resize operations by direction and status",
			},
			[]string{"direction", "status"},
		),

		resizeCPUDelta: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "resize_cpu_delta",
				Help:      "Distribution of CPU entitlement deltas applied to LPARs",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 4.0, 8.0, 16.0},
			},
			[]string{"direction"},
		),

		cpuEntitlement: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "lpar_cpu_entitlement",
				Help:      "Current CPU entitlement observed for an LPAR",
			},
			[]string{"lpar"},
		),
	}

	registry.MustRegister(rm.resizeTotal, rm.resizeCPUDelta, rm.cpuEntitlement)
	return rm
}

// RecordResize records one resize operation.
//
// direction is "up" or "down"; status is "applied", "failed", or
// "skipped" (gated by cooldown or a scheduling window).
func (rm *ResizeMetrics) RecordResize(direction, status string, delta float64) {
	rm.resizeTotal.WithLabelValues(direction, status).Inc()
	if delta < 0 {
		delta = -delta
	}
	if delta > 0 {
		rm.resizeCPUDelta.WithLabelValues(direction).Observe(delta)
	}
}

// UpdateEntitlement records the current CPU entitlement for lparUUID.
func (rm *ResizeMetrics) UpdateEntitlement(lparUUID string, cpu float64) {
	rm.cpuEntitlement.WithLabelValues(lparUUID).Set(cpu)
}
