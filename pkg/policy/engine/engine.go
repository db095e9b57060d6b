// Package engine evaluates a Policy against the LPARs and metric samples
// collected from one HMC inventory pass, producing one Decision per
// matched LPAR.
//
// Evaluate is a pure function: no I/O, no global state, and no clock
// access beyond the now argument the caller supplies, so the same
// inventory, metrics and instant always yield the same Decisions. The
// plan and apply commands each collect their own inventory and pass
// their own time.Now(), so a plan and a later apply can differ.
package engine

import (
	"fmt"
	"time"

	"mercator-hq/hmcorch/pkg/hmcclient/api"
	"mercator-hq/hmcorch/pkg/policy"
)

// Evaluate returns one Decision per LPAR in lpars that matches a rule in
// pol, in input order. LPARs matching no rule are skipped entirely. now
// is used for window evaluation; callers pass time.Now().UTC() in
// production and a fixed instant in tests.
func Evaluate(pol *policy.Policy, frameUUID string, lpars []api.LogicalPartition, metrics map[string]api.MetricSample, now time.Time) ([]policy.Decision, error) {
	decisions := make([]policy.Decision, 0, len(lpars))
	for _, lpar := range lpars {
		rule, matched := matchRule(pol, lpar)
		if !matched {
			continue
		}

		cfg := pol.Defaults.Merge(rule.Overrides).Merge(rule.Targets)
		step := 1.0
		if cfg.MinCPUStep != nil {
			step = *cfg.MinCPUStep
		}
		if step <= 0 {
			return nil, fmt.Errorf("rule %q: min_cpu_step must be > 0, got %v", rule.ID, step)
		}

		decision := evaluateLPAR(frameUUID, lpar, cfg, step, metrics[lpar.UUID], now)
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

func matchRule(pol *policy.Policy, lpar api.LogicalPartition) (policy.Rule, bool) {
	for _, rule := range pol.Rules {
		if containsString(rule.Match.LPARNames, lpar.Name) || containsString(rule.Match.LPARUUIDs, lpar.UUID) {
			return rule, true
		}
	}
	return policy.Rule{}, false
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func evaluateLPAR(frameUUID string, lpar api.LogicalPartition, cfg policy.CpuPolicyCfg, step float64, metric api.MetricSample, now time.Time) policy.Decision {
	minCPU := 0.0
	if cfg.MinCPU != nil {
		minCPU = *cfg.MinCPU
	}

	current := policy.Resources{CPUEnt: lpar.CPUEntitlement, MemMB: lpar.MemoryMB}
	target := current

	var reasons []string
	if metric.Cooldown > 0 {
		reasons = append(reasons, "Cooldown active")
	}
	if cfg.Window != "" && !withinWindow(cfg.Window, now) {
		reasons = append(reasons, "Window closed")
	}

	if len(reasons) == 0 {
		util := metric.CPUUtilPct
		switch {
		case cfg.CPUUtilHighPct != nil && util > *cfg.CPUUtilHighPct && (cfg.MaxCPU == nil || current.CPUEnt < *cfg.MaxCPU):
			next := current.CPUEnt + step
			if cfg.MaxCPU != nil && next > *cfg.MaxCPU {
				next = *cfg.MaxCPU
			}
			target.CPUEnt = next
			reasons = append(reasons, "CPU above high threshold")
		case cfg.CPUUtilLowPct != nil && util < *cfg.CPUUtilLowPct && current.CPUEnt > minCPU:
			next := current.CPUEnt - step
			if next < minCPU {
				next = minCPU
			}
			target.CPUEnt = next
			reasons = append(reasons, "CPU below low threshold")
		}
	}

	if len(reasons) == 0 {
		reasons = []string{"No change"}
	}

	return policy.Decision{
		FrameUUID: frameUUID,
		LPARUUID:  lpar.UUID,
		LPARName:  lpar.Name,
		Current:   current,
		Target:    target,
		Delta: policy.Resources{
			CPUEnt: target.CPUEnt - current.CPUEnt,
			MemMB:  target.MemMB - current.MemMB,
		},
		Reasons:           reasons,
		Window:            cfg.Window,
		CooldownRemaining: metric.Cooldown,
	}
}
