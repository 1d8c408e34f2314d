package cli

import (
	"github.com/spf13/cobra"
)

// completeManifestFiles provides shell completion for manifest file paths.
func completeManifestFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"xml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeReportFiles provides shell completion for report file paths.
func completeReportFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}
