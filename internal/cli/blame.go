package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apkforge/manifmerge/internal/files/filesystem"
	"github.com/apkforge/manifmerge/internal/logging"
	"github.com/apkforge/manifmerge/internal/services"
	"github.com/apkforge/manifmerge/internal/ui"
)

var blameCmd = &cobra.Command{
	Use:   "blame <main_manifest>",
	Short: "Show which input contributed each merged line",
	Long: `Blame runs the merge in memory and prints the merged manifest with a
per-line gutter naming the input file and line each element came from,
like git blame for the merged output.

Nothing is written to disk.

Examples:
  # Trace where a permission came from
  manifmerge blame app/AndroidManifest.xml \
    --library libs/x/AndroidManifest.xml | grep INTERNET`,
	Args:              RequireManifestPath,
	ValidArgsFunction: completeManifestFiles,
	RunE:              runBlame,
}

var blameFlags inputFlagValues

func init() {
	rootCmd.AddCommand(blameCmd)
	addInputFlags(blameCmd, &blameFlags)
}

func runBlame(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildMergeConfig(cmd, args[0], &blameFlags, nil, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	merger := services.NewMergeService(filesystem.NewOSFileSystem(), ui.NewForcedApprover(), logger)

	ctx, cancel := signalContext()
	defer cancel()

	annotated, err := merger.Blame(ctx, cfg)
	if err != nil {
		return fmt.Errorf("blame failed: %w", err)
	}
	fmt.Fprint(os.Stdout, annotated)
	return nil
}
