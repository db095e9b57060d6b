// Package policy defines the data model shared by the policy loader and
// the policy engine: the on-disk Policy/Rule/CpuPolicyCfg shapes and the
// Decision records the engine emits.
package policy

// CpuPolicyCfg is the set of CPU-scaling knobs that can appear on
// Policy.Defaults, Rule.Overrides, or Rule.Targets. All fields are
// optional; a nil pointer means "not set" so merge order can tell "set
// to zero" apart from "unset".
type CpuPolicyCfg struct {
	// CPUUtilHighPct, when set, triggers a scale-up when observed
	// utilization exceeds it.
	CPUUtilHighPct *float64 `yaml:"cpu_util_high_pct,omitempty"`

	// CPUUtilLowPct, when set, triggers a scale-down when observed
	// utilization falls below it.
	CPUUtilLowPct *float64 `yaml:"cpu_util_low_pct,omitempty"`

	// MinCPUStep is the CPU entitlement adjustment applied per decision.
	// Default: 1.0. Must be > 0.
	MinCPUStep *float64 `yaml:"min_cpu_step,omitempty"`

	// MinCPU is the lower bound a scale-down will not cross. Default: 0.
	MinCPU *float64 `yaml:"min_cpu,omitempty"`

	// MaxCPU is the upper bound a scale-up will not cross. Unset means
	// unbounded.
	MaxCPU *float64 `yaml:"max_cpu,omitempty"`

	// Window restricts when a change may be applied, e.g.
	// "08:00-18:00,Mon-Fri". Empty means always open.
	Window string `yaml:"window,omitempty"`
}

// Merge returns a new CpuPolicyCfg in which each field set in over
// replaces the corresponding field of c, implementing the defaults ←
// overrides ← targets fold described for the engine.
func (c CpuPolicyCfg) Merge(over CpuPolicyCfg) CpuPolicyCfg {
	out := c
	if over.CPUUtilHighPct != nil {
		out.CPUUtilHighPct = over.CPUUtilHighPct
	}
	if over.CPUUtilLowPct != nil {
		out.CPUUtilLowPct = over.CPUUtilLowPct
	}
	if over.MinCPUStep != nil {
		out.MinCPUStep = over.MinCPUStep
	}
	if over.MinCPU != nil {
		out.MinCPU = over.MinCPU
	}
	if over.MaxCPU != nil {
		out.MaxCPU = over.MaxCPU
	}
	if over.Window != "" {
		out.Window = over.Window
	}
	return out
}

// Match selects the LPARs a Rule applies to. A Rule matches an LPAR iff
// its name is in LPARNames or its uuid is in LPARUUIDs.
type Match struct {
	LPARNames []string `yaml:"lpar_names,omitempty"`
	LPARUUIDs []string `yaml:"lpar_uuids,omitempty"`
}

// Rule is one entry in Policy.Rules: a match predicate plus the
// CpuPolicyCfg overrides to apply to LPARs it matches. Overrides is
// applied before Targets, so a value present in both is won by Targets.
type Rule struct {
	ID        string       `yaml:"id,omitempty"`
	Match     Match        `yaml:"match"`
	Overrides CpuPolicyCfg `yaml:"overrides,omitempty"`
	Targets   CpuPolicyCfg `yaml:"targets"`
}

// Policy is a loaded policy document: defaults applied to every LPAR plus
// an ordered sequence of rules, evaluated first-match-wins.
type Policy struct {
	Defaults CpuPolicyCfg `yaml:"defaults,omitempty"`
	Rules    []Rule       `yaml:"rules"`
}

// Resources is a resource pair tracked before and after a Decision.
type Resources struct {
	CPUEnt float64 `json:"cpu_ent"`
	MemMB  int     `json:"mem_mb"`
}

// Decision is the engine's output for one LPAR in one evaluation: the
// proposed change (if any), why, and the gating state that produced it.
type Decision struct {
	FrameUUID         string    `json:"frame_uuid"`
	LPARUUID          string    `json:"lpar_uuid"`
	LPARName          string    `json:"lpar_name"`
	Current           Resources `json:"current"`
	Target            Resources `json:"target"`
	Delta             Resources `json:"delta"`
	Reasons           []string  `json:"reasons"`
	Window            string    `json:"window,omitempty"`
	CooldownRemaining int       `json:"cooldown_remaining"`
}
