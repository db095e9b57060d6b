package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/hmcorch/pkg/hmcclient/api"
	"mercator-hq/hmcorch/pkg/orchestrator"
	"mercator-hq/hmcorch/pkg/policy"
	"mercator-hq/hmcorch/pkg/policy/engine"
	"mercator-hq/hmcorch/pkg/policy/loader"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Validate and dry-run policy files",
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a policy file's structure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pol, err := loader.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s is valid: %d rule(s)\n", args[0], len(pol.Rules))
		return nil
	},
}

var dryRunFlags struct {
	report string
}

var policyDryRunCmd = &cobra.Command{
	Use:   "dry-run <file>",
	Short: "Evaluate a policy against a stub LPAR inventory, without contacting the HMC",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pol, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		lpars, metrics := stubInventory(pol)
		decisions, err := engine.Evaluate(pol, "stub-frame", lpars, metrics, time.Now().UTC())
		if err != nil {
			return err
		}

		if dryRunFlags.report != "" {
			if err := orchestrator.WriteReport(dryRunFlags.report, decisions); err != nil {
				return fmt.Errorf("write dry-run report: %w", err)
			}
		}
		printDecisionTable(os.Stdout, decisions)
		return nil
	},
}

// stubInventory builds one synthetic LPAR per rule match name/uuid so a
// policy can be dry-run evaluated with no live HMC connection, at
// StubMetricsSource's fixed utilization.
func stubInventory(pol *policy.Policy) ([]api.LogicalPartition, map[string]api.MetricSample) {
	var lpars []api.LogicalPartition
	metrics := make(map[string]api.MetricSample)
	seen := make(map[string]bool)
	for _, rule := range pol.Rules {
		for _, name := range rule.Match.LPARNames {
			if seen[name] {
				continue
			}
			seen[name] = true
			uuid := "stub-" + name
			lpars = append(lpars, api.LogicalPartition{UUID: uuid, Name: name, CPUEntitlement: 1.0})
			metrics[uuid] = api.MetricSample{LPARUUID: uuid, CPUUtilPct: 10.0}
		}
		for _, id := range rule.Match.LPARUUIDs {
			if seen["uuid:"+id] {
				continue
			}
			seen["uuid:"+id] = true
			lpars = append(lpars, api.LogicalPartition{UUID: id, Name: id, CPUEntitlement: 1.0})
			metrics[id] = api.MetricSample{LPARUUID: id, CPUUtilPct: 10.0}
		}
	}
	return lpars, metrics
}

func init() {
	policyDryRunCmd.Flags().StringVar(&dryRunFlags.report, "report", "", "report artifact path (.json or .csv)")
	policyCmd.AddCommand(policyValidateCmd, policyDryRunCmd)
	rootCmd.AddCommand(policyCmd)
}
