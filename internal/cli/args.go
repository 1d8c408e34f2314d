package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireManifestPath validates that exactly one manifest argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireManifestPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <main_manifest>

Usage: %s <main_manifest>

Example:
  %s app/AndroidManifest.xml --library libs/x/AndroidManifest.xml`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireReportPath validates that exactly one report argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireReportPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <report_file>

Usage: %s <report_file>

Example:
  %s build/manifest-merger-report.yaml`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
