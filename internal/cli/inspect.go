package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apkforge/manifmerge/internal/report"
	"github.com/apkforge/manifmerge/internal/tui"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <report_file>",
	Short: "Browse a merging report",
	Long: `Inspect opens a merging report written by 'manifmerge merge --report'.

At an interactive terminal it opens a browsable view with a Messages tab
(the severity-tagged diagnostics) and an Actions tab (the per-node decision
log). In scripts and pipelines it prints the report as plain text instead.

Examples:
  manifmerge inspect build/report.yaml`,
	Args:              RequireReportPath,
	ValidArgsFunction: completeReportFiles,
	RunE:              runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	rep, err := report.Load(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("report %s: %w", args[0], manifmerge.ErrReportNotFound)
		}
		return fmt.Errorf("failed to load report: %w", err)
	}
	return tui.Inspect(rep)
}
