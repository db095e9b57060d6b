package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/hmcorch/pkg/audit"
	"mercator-hq/hmcorch/pkg/orchestrator"
	"mercator-hq/hmcorch/pkg/policy/loader"
)

var applyFlags struct {
	apply        bool
	confirm      bool
	auditLog     string
	auditBackend string
	report       string
}

var applyCmd = &cobra.Command{
	Use:   "apply <policy_file>",
	Short: "Evaluate a policy and, if confirmed, apply the resulting resizes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pol, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		if !applyFlags.apply || !applyFlags.confirm {
			return fmt.Errorf("apply requires both --apply and --confirm; re-run with both flags to make changes")
		}

		driver, cleanup, err := buildDriver()
		if err != nil {
			return err
		}
		defer cleanup()

		sink, closeSink, err := buildAuditSink(applyFlags.auditLog, applyFlags.auditBackend)
		if err != nil {
			return err
		}
		defer closeSink()

		result, err := driver.Apply(cmd.Context(), pol, time.Now().UTC(), applyFlags.confirm, sink, rootFlags.runID)
		if err != nil {
			return err
		}

		reportPath := applyFlags.report
		if reportPath == "" {
			if rootFlags.output != "" {
				if err := os.MkdirAll(rootFlags.output, 0o755); err != nil {
					return fmt.Errorf("create output directory %q: %w", rootFlags.output, err)
				}
			}
			reportPath = orchestrator.ApplyReportPath(rootFlags.output, result.RunID, "json")
		}
		if err := orchestrator.WriteReport(reportPath, result); err != nil {
			return fmt.Errorf("write apply report: %w", err)
		}

		if !rootFlags.quiet {
			fmt.Printf("run %s: %d decision(s), report written to %s\n\n", result.RunID, len(result.Decisions), reportPath)
			printDecisionTable(os.Stdout, result.Decisions)
		}

		if len(result.Failures) > 0 {
			if !rootFlags.quiet {
				fmt.Println()
				for _, f := range result.Failures {
					fmt.Printf("FAILED %s (%s): %s\n", f.LPARName, f.LPARUUID, f.Reason)
				}
				fmt.Printf("\n%d succeeded, %d failed\n", result.Succeeded, len(result.Failures))
			}
			os.Exit(1)
		}
		if !rootFlags.quiet {
			fmt.Printf("\n%d succeeded, 0 failed\n", result.Succeeded)
		}
		return nil
	},
}

func buildAuditSink(path, backend string) (audit.Sink, func(), error) {
	if path == "" {
		return audit.NopSink{}, func() {}, nil
	}
	switch backend {
	case "", "file":
		sink, err := audit.NewFileSink(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit log: %w", err)
		}
		return sink, func() { sink.Close() }, nil
	case "sqlite":
		sink, err := audit.NewSQLiteSink(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit database: %w", err)
		}
		return sink, func() { sink.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown --audit-backend %q: want \"file\" or \"sqlite\"", backend)
	}
}

func init() {
	applyCmd.Flags().BoolVar(&applyFlags.apply, "apply", false, "enable applying resizes (requires --confirm)")
	applyCmd.Flags().BoolVar(&applyFlags.confirm, "confirm", false, "confirm applying resizes (requires --apply)")
	applyCmd.Flags().StringVar(&applyFlags.auditLog, "audit-log", "", "audit log path for successfully applied decisions")
	applyCmd.Flags().StringVar(&applyFlags.auditBackend, "audit-backend", "file", "audit sink backend for --audit-log: file (JSONL) or sqlite")
	applyCmd.Flags().StringVar(&applyFlags.report, "report", "", "report artifact path (.json or .csv); default apply-<run_id>.json")
	rootCmd.AddCommand(applyCmd)
}
