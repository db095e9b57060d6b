package metrics

import (
	"time"

	"mercator-hq/hmcorch/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// policyEvaluationDurationBuckets covers rule matching and decision
// construction, which should always be sub-millisecond.
var policyEvaluationDurationBuckets = prometheus.ExponentialBuckets(0.000001, 2, 15)

// PolicyMetrics tracks metrics related to policy rule evaluation.
//
// Metrics:
//   - hmcorch_policy_evaluations_total: evaluations by rule and decision action
//   - hmcorch_policy_evaluation_duration_seconds: evaluation duration
//   - hmcorch_policy_hits_total: rule matched an LPAR
//   - hmcorch_policy_misses_total: rule did not match any LPAR
type PolicyMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	hitsTotal          *prometheus.CounterVec
	missesTotal        *prometheus.CounterVec
}

// NewPolicyMetrics creates and registers policy metrics with registry.
func NewPolicyMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PolicyMetrics {
	pm := &PolicyMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_evaluations_total",
				Help:      "Total number of policy rule evaluations",
			},
			[]string{"rule_id", "action"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_evaluation_duration_seconds",
				Help:      "Duration of a policy evaluation run in seconds",
				Buckets:   policyEvaluationDurationBuckets,
			},
			[]string{"rule_id"},
		),

		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_hits_total",
				Help:      "Total number of times a policy rule matched an LPAR",
			},
			[]string{"rule_id"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_misses_total",
				Help:      "Total number of times a policy rule did not match",
			},
			[]string{"rule_id"},
		),
	}

	registry.MustRegister(pm.evaluationsTotal, pm.evaluationDuration, pm.hitsTotal, pm.missesTotal)
	return pm
}

// RecordEvaluation records one rule evaluation and the action its
// decision took ("scale_up", "scale_down", "no_change", "skip").
func (pm *PolicyMetrics) RecordEvaluation(ruleID, action string, duration time.Duration) {
	pm.evaluationsTotal.WithLabelValues(ruleID, action).Inc()
	pm.evaluationDuration.WithLabelValues(ruleID).Observe(duration.Seconds())
}

// RecordHit records that ruleID matched an LPAR.
func (pm *PolicyMetrics) RecordHit(ruleID string) {
	pm.hitsTotal.WithLabelValues(ruleID).Inc()
}

// RecordMiss records that ruleID did not match any LPAR this run.
func (pm *PolicyMetrics) RecordMiss(ruleID string) {
	pm.missesTotal.WithLabelValues(ruleID).Inc()
}
