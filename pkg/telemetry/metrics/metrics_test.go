package metrics

import (
	"testing"
	"time"

	"mercator-hq/hmcorch/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "metrics",
	}
}

func TestNewCollectorAppliesDefaultNamespace(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, prometheus.NewRegistry())
	if collector.config.Namespace != "hmcorch" || collector.config.Subsystem != "client" {
		t.Fatalf("namespace/subsystem = %q/%q, want hmcorch/client", collector.config.Namespace, collector.config.Subsystem)
	}
}

func TestRecordRequestIncrementsCounterAndHistogram(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordRequest("ListLPARs", "success", 50*time.Millisecond)

	got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("ListLPARs", "success"))
	if got != 1 {
		t.Fatalf("requests_total = %v, want 1", got)
	}
}

func TestRecordRequestDisabledIsNoop(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())
	collector.RecordRequest("ListLPARs", "success", time.Millisecond)

	got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("ListLPARs", "success"))
	if got != 0 {
		t.Fatalf("requests_total = %v, want 0 when metrics disabled", got)
	}
}

func TestRecordBreakerTripAndState(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.UpdateBreakerState("hmc01", 1)
	collector.RecordBreakerTrip("hmc01")

	if got := testutil.ToFloat64(collector.systemMetrics.breakerState.WithLabelValues("hmc01")); got != 1 {
		t.Fatalf("breaker_state = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.systemMetrics.breakerTrips.WithLabelValues("hmc01")); got != 1 {
		t.Fatalf("breaker_trips_total = %v, want 1", got)
	}
}

func TestRecordPolicyHitAndMiss(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordPolicyHit("scale-up-prod")
	collector.RecordPolicyMiss("scale-up-prod")
	collector.RecordPolicyEvaluation("scale-up-prod", "scale_up", time.Microsecond)

	if got := testutil.ToFloat64(collector.policyMetrics.hitsTotal.WithLabelValues("scale-up-prod")); got != 1 {
		t.Fatalf("policy_hits_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.policyMetrics.missesTotal.WithLabelValues("scale-up-prod")); got != 1 {
		t.Fatalf("policy_misses_total = %v, want 1", got)
	}
}

func TestRecordResizeAndEntitlement(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordResize("up", "applied", 1.5)
	collector.UpdateEntitlement("lpar-1", 4.5)

	if got := testutil.ToFloat64(collector.resizeMetrics.resizeTotal.WithLabelValues("up", "applied")); got != 1 {
		t.Fatalf("resize_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.resizeMetrics.cpuEntitlement.WithLabelValues("lpar-1")); got != 4.5 {
		t.Fatalf("lpar_cpu_entitlement = %v, want 4.5", got)
	}
}

func TestCardinalityLimiterCapsDistinctLabelSets(t *testing.T) {
	cl := NewCardinalityLimiter(2)
	if !cl.Allow("a") || !cl.Allow("b") {
		t.Fatal("expected first two label sets to be allowed")
	}
	if cl.Allow("c") {
		t.Fatal("expected third distinct label set to be rejected")
	}
	if !cl.Allow("a") {
		t.Fatal("expected already-tracked label set to remain allowed")
	}
	if cl.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", cl.Count())
	}
}
