package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/hmcorch/pkg/orchestrator"
	"mercator-hq/hmcorch/pkg/policy/loader"
)

var planFlags struct {
	report string
}

var planCmd = &cobra.Command{
	Use:   "plan <policy_file>",
	Short: "Evaluate a policy against the current inventory without applying it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pol, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		driver, cleanup, err := buildDriver()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := driver.Plan(cmd.Context(), pol, time.Now().UTC(), rootFlags.runID)
		if err != nil {
			return err
		}

		reportPath := planFlags.report
		if reportPath == "" {
			if rootFlags.output != "" {
				if err := os.MkdirAll(rootFlags.output, 0o755); err != nil {
					return fmt.Errorf("create output directory %q: %w", rootFlags.output, err)
				}
			}
			reportPath = orchestrator.PlanReportPath(rootFlags.output, result.RunID, "json")
		}
		if err := orchestrator.WriteReport(reportPath, result.Decisions); err != nil {
			return fmt.Errorf("write plan report: %w", err)
		}

		if !rootFlags.quiet {
			fmt.Printf("run %s: %d decision(s), report written to %s\n\n", result.RunID, len(result.Decisions), reportPath)
			printDecisionTable(os.Stdout, result.Decisions)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planFlags.report, "report", "", "report artifact path (.json or .csv); default plan-<run_id>.json")
	rootCmd.AddCommand(planCmd)
}
