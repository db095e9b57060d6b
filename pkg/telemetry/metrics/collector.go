package metrics

import (
	"fmt"
	"sync"
	"time"

	"mercator-hq/hmcorch/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the orchestrator for all Prometheus metrics emitted by
// the HMC client and policy engine. It manages metric registration and
// provides a unified recording interface across components.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics *RequestMetrics
	systemMetrics  *SystemMetrics
	policyMetrics  *PolicyMetrics
	resizeMetrics  *ResizeMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a metrics collector with the given configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "hmcorch"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "client"
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000),
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.systemMetrics = NewSystemMetrics(cfg, registry)
	c.policyMetrics = NewPolicyMetrics(cfg, registry)
	c.resizeMetrics = NewResizeMetrics(cfg, registry)

	return c
}

// RecordRequest records metrics for one completed HMC REST request.
func (c *Collector) RecordRequest(operation, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	labelSet := fmt.Sprintf("request:%s:%s", operation, status)
	if !c.cardinalityLimiter.Allow(labelSet) {
		operation = "other"
	}
	c.requestMetrics.RecordRequest(operation, status, duration)
}

// RecordRetry records a retry attempt for operation.
func (c *Collector) RecordRetry(operation string) {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.RecordRetry(operation)
}

// UpdateBreakerState records the circuit breaker's numeric state for host.
func (c *Collector) UpdateBreakerState(host string, state int) {
	if !c.config.Enabled {
		return
	}
	c.systemMetrics.UpdateBreakerState(host, state)
}

// RecordBreakerTrip records a breaker trip for host.
func (c *Collector) RecordBreakerTrip(host string) {
	if !c.config.Enabled {
		return
	}
	c.systemMetrics.RecordBreakerTrip(host)
}

// RecordError records an HMC client error of errorType for host.
func (c *Collector) RecordError(host, errorType string) {
	if !c.config.Enabled {
		return
	}
	c.systemMetrics.RecordError(host, errorType)
}

// RecordPolicyEvaluation records one policy rule evaluation.
func (c *Collector) RecordPolicyEvaluation(ruleID, action string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.policyMetrics.RecordEvaluation(ruleID, action, duration)
}

// RecordPolicyHit records that ruleID matched an LPAR.
func (c *Collector) RecordPolicyHit(ruleID string) {
	if !c.config.Enabled {
		return
	}
	c.policyMetrics.RecordHit(ruleID)
}

// RecordPolicyMiss records that ruleID did not match any LPAR.
func (c *Collector) RecordPolicyMiss(ruleID string) {
	if !c.config.Enabled {
		return
	}
	c.policyMetrics.RecordMiss(ruleID)
}

// RecordResize records one LPAR resize operation.
func (c *Collector) RecordResize(direction, status string, cpuDelta float64) {
	if !c.config.Enabled {
		return
	}
	c.resizeMetrics.RecordResize(direction, status, cpuDelta)
}

// UpdateEntitlement records the current CPU entitlement observed for an LPAR.
func (c *Collector) UpdateEntitlement(lparUUID string, cpu float64) {
	if !c.config.Enabled {
		return
	}
	c.resizeMetrics.UpdateEntitlement(lparUUID, cpu)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations recorded per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter allowing up to maxCardinality
// distinct label sets.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet may be recorded: true if it is already
// tracked or the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()
	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
