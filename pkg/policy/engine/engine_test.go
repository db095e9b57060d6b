package engine

import (
	"testing"
	"time"

	"mercator-hq/hmcorch/pkg/hmcclient/api"
	"mercator-hq/hmcorch/pkg/policy"
)

func f(v float64) *float64 { return &v }

func alwaysOpenDefaults() policy.CpuPolicyCfg {
	return policy.CpuPolicyCfg{
		MinCPU:     f(1),
		MaxCPU:     f(4),
		MinCPUStep: f(1),
		Window:     "00:00-23:59,Mon-Sun",
	}
}

func TestEvaluateScaleUp(t *testing.T) {
	pol := &policy.Policy{
		Defaults: alwaysOpenDefaults(),
		Rules: []policy.Rule{
			{
				ID:      "r1",
				Match:   policy.Match{LPARNames: []string{"LP1"}},
				Targets: policy.CpuPolicyCfg{CPUUtilHighPct: f(80), CPUUtilLowPct: f(20)},
			},
		},
	}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1", CPUEntitlement: 1.0}}
	metrics := map[string]api.MetricSample{"u1": {CPUUtilPct: 90}}

	decisions, err := Evaluate(pol, "ms1", lpars, metrics, mustParse(t, "2026-07-30T10:00"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("len(decisions) = %d, want 1", len(decisions))
	}
	d := decisions[0]
	if d.Delta.CPUEnt != 1.0 {
		t.Errorf("Delta.CPUEnt = %v, want 1.0", d.Delta.CPUEnt)
	}
	if d.FrameUUID != "ms1" {
		t.Errorf("FrameUUID = %q, want ms1", d.FrameUUID)
	}
	if !contains(d.Reasons, "CPU above high threshold") {
		t.Errorf("reasons = %v, want CPU above high threshold", d.Reasons)
	}
}

func TestEvaluateScaleDown(t *testing.T) {
	pol := &policy.Policy{
		Defaults: alwaysOpenDefaults(),
		Rules: []policy.Rule{
			{Match: policy.Match{LPARNames: []string{"LP1"}}, Targets: policy.CpuPolicyCfg{CPUUtilHighPct: f(80), CPUUtilLowPct: f(20)}},
		},
	}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1", CPUEntitlement: 2.0}}
	metrics := map[string]api.MetricSample{"u1": {CPUUtilPct: 10}}

	decisions, err := Evaluate(pol, "ms1", lpars, metrics, mustParse(t, "2026-07-30T10:00"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if decisions[0].Delta.CPUEnt != -1.0 {
		t.Errorf("Delta.CPUEnt = %v, want -1.0", decisions[0].Delta.CPUEnt)
	}
	if !contains(decisions[0].Reasons, "CPU below low threshold") {
		t.Errorf("reasons = %v, want CPU below low threshold", decisions[0].Reasons)
	}
}

func TestEvaluateBoundaryDoesNotTrigger(t *testing.T) {
	pol := &policy.Policy{
		Defaults: alwaysOpenDefaults(),
		Rules: []policy.Rule{
			{Match: policy.Match{LPARNames: []string{"LP1"}}, Targets: policy.CpuPolicyCfg{CPUUtilHighPct: f(80), CPUUtilLowPct: f(20)}},
		},
	}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1", CPUEntitlement: 2.0}}
	metrics := map[string]api.MetricSample{"u1": {CPUUtilPct: 80}}

	decisions, err := Evaluate(pol, "ms1", lpars, metrics, mustParse(t, "2026-07-30T10:00"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if decisions[0].Delta.CPUEnt != 0 {
		t.Errorf("boundary util == high should not trigger a change, got delta %v", decisions[0].Delta.CPUEnt)
	}
	if !contains(decisions[0].Reasons, "No change") {
		t.Errorf("reasons = %v, want No change", decisions[0].Reasons)
	}
}

func TestEvaluateCooldownGates(t *testing.T) {
	pol := &policy.Policy{
		Defaults: alwaysOpenDefaults(),
		Rules: []policy.Rule{
			{Match: policy.Match{LPARNames: []string{"LP1"}}, Targets: policy.CpuPolicyCfg{CPUUtilHighPct: f(80)}},
		},
	}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1", CPUEntitlement: 1.0}}
	metrics := map[string]api.MetricSample{"u1": {CPUUtilPct: 95, Cooldown: 60}}

	decisions, err := Evaluate(pol, "ms1", lpars, metrics, mustParse(t, "2026-07-30T10:00"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	d := decisions[0]
	if d.Delta.CPUEnt != 0 {
		t.Errorf("Delta.CPUEnt = %v, want 0 while cooldown active", d.Delta.CPUEnt)
	}
	if !contains(d.Reasons, "Cooldown active") {
		t.Errorf("reasons = %v, want Cooldown active", d.Reasons)
	}
	if d.CooldownRemaining != 60 {
		t.Errorf("CooldownRemaining = %d, want 60", d.CooldownRemaining)
	}
}

func TestEvaluateWindowAndCooldownBothReported(t *testing.T) {
	pol := &policy.Policy{
		Defaults: policy.CpuPolicyCfg{MinCPUStep: f(1), Window: "09:00-10:00"},
		Rules: []policy.Rule{
			{Match: policy.Match{LPARNames: []string{"LP1"}}, Targets: policy.CpuPolicyCfg{CPUUtilHighPct: f(80)}},
		},
	}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1", CPUEntitlement: 1.0}}
	metrics := map[string]api.MetricSample{"u1": {CPUUtilPct: 95, Cooldown: 30}}

	decisions, err := Evaluate(pol, "ms1", lpars, metrics, mustParse(t, "2026-07-30T14:00"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	d := decisions[0]
	if !contains(d.Reasons, "Cooldown active") || !contains(d.Reasons, "Window closed") {
		t.Errorf("reasons = %v, want both Cooldown active and Window closed", d.Reasons)
	}
}

func TestEvaluateClampsAtBound(t *testing.T) {
	pol := &policy.Policy{
		Defaults: policy.CpuPolicyCfg{MinCPUStep: f(1), MaxCPU: f(4)},
		Rules: []policy.Rule{
			{Match: policy.Match{LPARNames: []string{"LP1"}}, Targets: policy.CpuPolicyCfg{CPUUtilHighPct: f(80)}},
		},
	}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1", CPUEntitlement: 3.5}}
	metrics := map[string]api.MetricSample{"u1": {CPUUtilPct: 95}}

	decisions, err := Evaluate(pol, "ms1", lpars, metrics, mustParse(t, "2026-07-30T10:00"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if decisions[0].Target.CPUEnt != 4.0 {
		t.Errorf("Target.CPUEnt = %v, want clamped to 4.0", decisions[0].Target.CPUEnt)
	}
}

func TestEvaluateNoMatchSkipsLPAR(t *testing.T) {
	pol := &policy.Policy{Rules: []policy.Rule{{Match: policy.Match{LPARNames: []string{"other"}}, Targets: policy.CpuPolicyCfg{}}}}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1"}}

	decisions, err := Evaluate(pol, "ms1", lpars, nil, time.Now())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(decisions) != 0 {
		t.Fatalf("expected no decisions for unmatched LPAR, got %d", len(decisions))
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	pol := &policy.Policy{
		Rules: []policy.Rule{
			{Match: policy.Match{LPARNames: []string{"LP1"}}, Targets: policy.CpuPolicyCfg{MinCPUStep: f(1), CPUUtilHighPct: f(50)}},
			{Match: policy.Match{LPARNames: []string{"LP1"}}, Targets: policy.CpuPolicyCfg{MinCPUStep: f(1), CPUUtilHighPct: f(99)}},
		},
	}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1", CPUEntitlement: 1.0}}
	metrics := map[string]api.MetricSample{"u1": {CPUUtilPct: 60}}

	decisions, err := Evaluate(pol, "ms1", lpars, metrics, time.Now())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if decisions[0].Delta.CPUEnt != 1.0 {
		t.Fatalf("expected first rule (high=50) to win and trigger scale up, got delta %v", decisions[0].Delta.CPUEnt)
	}
}

func TestEvaluateRejectsNonPositiveStep(t *testing.T) {
	pol := &policy.Policy{
		Rules: []policy.Rule{{Match: policy.Match{LPARNames: []string{"LP1"}}, Targets: policy.CpuPolicyCfg{MinCPUStep: f(0)}}},
	}
	lpars := []api.LogicalPartition{{UUID: "u1", Name: "LP1"}}

	if _, err := Evaluate(pol, "ms1", lpars, nil, time.Now()); err == nil {
		t.Fatal("expected error for non-positive min_cpu_step")
	}
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
