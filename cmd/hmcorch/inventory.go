package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/hmcorch/pkg/cli"
)

var inventoryFlags struct {
	format string
}

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Aliases: []string{"list"},
	Short:   "List every LPAR the HMC manages",
	RunE: func(cmd *cobra.Command, args []string) error {
		driver, cleanup, err := buildDriver()
		if err != nil {
			return err
		}
		defer cleanup()

		rows, err := driver.Inventory(cmd.Context())
		if err != nil {
			return err
		}

		formatter := cli.NewFormatter(cli.OutputFormat(inventoryFlags.format))
		if err := formatter.FormatTo(os.Stdout, rows); err != nil {
			return fmt.Errorf("render inventory: %w", err)
		}
		return nil
	},
}

func init() {
	inventoryCmd.Flags().StringVar(&inventoryFlags.format, "format", "text", "output format: text, json, or csv")
	rootCmd.AddCommand(inventoryCmd)
}
