package main

import (
	"fmt"
	"io"
	"strings"

	"mercator-hq/hmcorch/pkg/policy"
)

// printDecisionTable renders decisions as a simple fixed-width table to
// w, one row per LPAR.
func printDecisionTable(w io.Writer, decisions []policy.Decision) {
	fmt.Fprintf(w, "%-12s %-20s %8s %8s %8s  %s\n", "FRAME", "LPAR", "CURRENT", "TARGET", "DELTA", "REASONS")
	for _, d := range decisions {
		fmt.Fprintf(w, "%-12s %-20s %8.2f %8.2f %8.2f  %s\n",
			d.FrameUUID, d.LPARName, d.Current.CPUEnt, d.Target.CPUEnt, d.Delta.CPUEnt, strings.Join(d.Reasons, "; "))
	}
}
