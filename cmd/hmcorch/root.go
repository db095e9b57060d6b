package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	configFile string
	host       string
	port       int
	username   string
	verify     string
	noVerify   bool
	verbose    bool
	quiet      bool
	runID      string
	output     string
}

var rootCmd = &cobra.Command{
	Use:   "hmcorch",
	Short: "Resize IBM HMC-managed LPARs according to a CPU-scaling policy",
	Long: `hmcorch connects to an IBM Hardware Management Console, reads the
managed systems and logical partitions it hosts, evaluates a CPU-scaling
policy against their current utilization, and optionally applies the
resulting resize operations.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootFlags.verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.configFile, "config", "c", "", "config file path (default: ~/.hmc_orchestrator.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.host, "host", "", "HMC host, overrides config/env")
	rootCmd.PersistentFlags().IntVar(&rootFlags.port, "port", 0, "HMC REST port, overrides config/env")
	rootCmd.PersistentFlags().StringVar(&rootFlags.username, "username", "", "HMC username, overrides config/env")
	rootCmd.PersistentFlags().StringVar(&rootFlags.verify, "verify", "", `TLS trust: "true", "false", or a CA bundle path`)
	rootCmd.PersistentFlags().BoolVar(&rootFlags.noVerify, "no-verify", false, "disable TLS certificate verification (shorthand for --verify=false)")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&rootFlags.runID, "run-id", "", "run id to use instead of a random one; stamps log lines and the report/audit record")
	rootCmd.PersistentFlags().StringVar(&rootFlags.output, "output", "", "directory to write plan/apply report artifacts into (default: current directory)")
}
