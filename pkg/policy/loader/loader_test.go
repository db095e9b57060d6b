package loader

import (
	"os"
	"path/filepath"
	"testing"

	"mercator-hq/hmcorch/pkg/hmcclient/herrors"
)

func TestParseValidPolicy(t *testing.T) {
	data := []byte(`
defaults:
  min_cpu: 1
  max_cpu: 4
  min_cpu_step: 1
  window: "00:00-23:59,Mon-Sun"
rules:
  - id: scale-lp1
    match:
      lpar_names: ["LP1"]
    targets:
      cpu_util_high_pct: 80
      cpu_util_low_pct: 20
`)
	pol, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pol.Rules) != 1 {
		t.Fatalf("len(Rules) = %d, want 1", len(pol.Rules))
	}
	if pol.Defaults.MaxCPU == nil || *pol.Defaults.MaxCPU != 4 {
		t.Errorf("Defaults.MaxCPU = %v, want 4", pol.Defaults.MaxCPU)
	}
	if pol.Rules[0].Targets.CPUUtilHighPct == nil || *pol.Rules[0].Targets.CPUUtilHighPct != 80 {
		t.Errorf("Rules[0].Targets.CPUUtilHighPct = %v, want 80", pol.Rules[0].Targets.CPUUtilHighPct)
	}
}

func TestParseRejectsUnknownTopLevelKey(t *testing.T) {
	data := []byte(`
rules: []
bogus: true
`)
	_, err := Parse(data)
	if err == nil {
		t.Fatal("expected error for unknown top-level key")
	}
	if _, ok := err.(*herrors.SchemaError); !ok {
		t.Fatalf("error type = %T, want *herrors.SchemaError", err)
	}
}

func TestParseRequiresRules(t *testing.T) {
	data := []byte(`defaults: {}`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error when rules is missing")
	}
}

func TestParseRequiresMatchAndTargetsPerRule(t *testing.T) {
	data := []byte(`
rules:
  - match:
      lpar_names: ["LP1"]
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for rule missing targets")
	}
}

func TestParseFoldsUnknownRuleKeysIntoOverrides(t *testing.T) {
	data := []byte(`
rules:
  - match:
      lpar_names: ["LP1"]
    targets: {}
    min_cpu_step: 2
`)
	pol, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if pol.Rules[0].Overrides.MinCPUStep == nil || *pol.Rules[0].Overrides.MinCPUStep != 2 {
		t.Errorf("Overrides.MinCPUStep = %v, want 2 (folded from unknown rule key)", pol.Rules[0].Overrides.MinCPUStep)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("not: valid: yaml: [")); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestLoadRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	_, err = Load(filepath.Join("..", "..", "..", "etc", "passwd"))
	if err == nil {
		t.Fatal("expected error for path escaping working directory")
	}
	if _, ok := err.(*herrors.SchemaError); !ok {
		t.Fatalf("error type = %T, want *herrors.SchemaError", err)
	}
}

func TestLoadReadsWithinWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	content := []byte("rules:\n  - match:\n      lpar_names: [\"LP1\"]\n    targets: {}\n")
	if err := os.WriteFile(filepath.Join(dir, "policy.yaml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	pol, err := Load("policy.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(pol.Rules) != 1 {
		t.Fatalf("len(Rules) = %d, want 1", len(pol.Rules))
	}
}
