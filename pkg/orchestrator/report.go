package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mercator-hq/hmcorch/pkg/cli"
)

// WriteReport renders data to path using the formatter selected by
// path's extension (.json or .csv); any other extension is rejected as
// a user error, per the plan/apply report artifact rule.
func WriteReport(path string, data interface{}) error {
	var format cli.OutputFormat
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = cli.FormatJSON
	case ".csv":
		format = cli.FormatCSV
	default:
		return fmt.Errorf("unsupported report extension %q: must be .json or .csv", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file %q: %w", path, err)
	}
	defer f.Close()

	formatter := cli.NewFormatter(format)
	return formatter.FormatTo(f, data)
}

// PlanReportPath returns the conventional plan artifact path for runID,
// rooted at dir (the --output directory; "" means the current
// directory).
func PlanReportPath(dir, runID, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("plan-%s.%s", runID, ext))
}

// ApplyReportPath returns the conventional apply artifact path for
// runID, rooted at dir (the --output directory; "" means the current
// directory).
func ApplyReportPath(dir, runID, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("apply-%s.%s", runID, ext))
}
