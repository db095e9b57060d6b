// Package loader reads a Policy document from a YAML (or JSON, which is
// valid YAML) file, rejecting anything outside the process's working
// directory, malformed structure, and unknown top-level keys. Unknown
// rule-level keys are folded into the rule's overrides; unknown keys
// inside defaults, match, targets or overrides are ignored.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mercator-hq/hmcorch/pkg/hmcclient/herrors"
	"mercator-hq/hmcorch/pkg/policy"
)

var topLevelKeys = map[string]bool{"defaults": true, "rules": true}

var ruleKnownKeys = map[string]bool{"id": true, "match": true, "overrides": true, "targets": true}

// Load resolves path against the current working directory, rejects
// attempts to escape it, reads the file, and parses it as a Policy.
func Load(path string) (*policy.Policy, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &herrors.SchemaError{Op: "policy.Load", Message: fmt.Sprintf("read %s: %v", path, err), Cause: err}
	}
	return Parse(data)
}

func resolvePath(path string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", &herrors.SchemaError{Op: "policy.Load", Message: fmt.Sprintf("resolve working directory: %v", err), Cause: err}
	}
	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(wd, target)
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return "", &herrors.SchemaError{Op: "policy.Load", Message: "invalid path"}
	}
	rel, err := filepath.Rel(wd, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &herrors.SchemaError{Op: "policy.Load", Message: "invalid path"}
	}
	return target, nil
}

// Parse decodes a Policy document from raw YAML/JSON bytes, applying the
// same structural validation as Load.
func Parse(data []byte) (*policy.Policy, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("invalid yaml: %v", err), Cause: err}
	}
	if raw == nil {
		return nil, &herrors.SchemaError{Op: "policy.Parse", Message: "empty document"}
	}
	for k := range raw {
		if !topLevelKeys[k] {
			return nil, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("unknown top-level key %q", k)}
		}
	}

	var defaults policy.CpuPolicyCfg
	if d, ok := raw["defaults"]; ok {
		if err := remarshal(d, &defaults); err != nil {
			return nil, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("invalid defaults: %v", err), Cause: err}
		}
	}

	rawRules, ok := raw["rules"]
	if !ok {
		return nil, &herrors.SchemaError{Op: "policy.Parse", Message: `missing required field "rules"`}
	}
	rulesList, ok := rawRules.([]interface{})
	if !ok {
		return nil, &herrors.SchemaError{Op: "policy.Parse", Message: `"rules" must be a list`}
	}

	rules := make([]policy.Rule, 0, len(rulesList))
	for i, item := range rulesList {
		rm, ok := item.(map[string]interface{})
		if !ok {
			return nil, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("rule %d: must be a mapping", i)}
		}
		rule, err := decodeRule(i, rm)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return &policy.Policy{Defaults: defaults, Rules: rules}, nil
}

func decodeRule(index int, rm map[string]interface{}) (policy.Rule, error) {
	matchRaw, ok := rm["match"]
	if !ok {
		return policy.Rule{}, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("rule %d: missing required field \"match\"", index)}
	}
	targetsRaw, ok := rm["targets"]
	if !ok {
		return policy.Rule{}, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("rule %d: missing required field \"targets\"", index)}
	}

	var rule policy.Rule
	if err := remarshal(matchRaw, &rule.Match); err != nil {
		return policy.Rule{}, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("rule %d: invalid match: %v", index, err), Cause: err}
	}
	if err := remarshal(targetsRaw, &rule.Targets); err != nil {
		return policy.Rule{}, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("rule %d: invalid targets: %v", index, err), Cause: err}
	}
	if id, ok := rm["id"]; ok {
		if s, ok := id.(string); ok {
			rule.ID = s
		}
	}

	var overrides policy.CpuPolicyCfg
	if o, ok := rm["overrides"]; ok {
		if err := remarshal(o, &overrides); err != nil {
			return policy.Rule{}, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("rule %d: invalid overrides: %v", index, err), Cause: err}
		}
	}

	// Unknown rule-level keys are preserved as overrides: fold them into
	// a CpuPolicyCfg fragment and let the explicit "overrides" map win.
	extra := map[string]interface{}{}
	for k, v := range rm {
		if !ruleKnownKeys[k] {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		var implied policy.CpuPolicyCfg
		if err := remarshal(extra, &implied); err != nil {
			return policy.Rule{}, &herrors.SchemaError{Op: "policy.Parse", Message: fmt.Sprintf("rule %d: invalid overrides: %v", index, err), Cause: err}
		}
		overrides = implied.Merge(overrides)
	}
	rule.Overrides = overrides

	return rule, nil
}

// remarshal round-trips v through YAML to decode it into out, reusing
// the yaml.v3 struct-tag decoder instead of a separate map-to-struct
// conversion helper.
func remarshal(v interface{}, out interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}
