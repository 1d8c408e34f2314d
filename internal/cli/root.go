package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `                      _  __
  _ __ ___   __ _ _ _(_)/ _|_ __ ___   ___ _ __ __ _  ___
 | '_ ` + "`" + ` _ \ / _` + "`" + ` | '_ \ | |_| '_ ` + "`" + ` _ \ / _ \ '__/ _` + "`" + ` |/ _ \
 | | | | | | (_| | | | | |  _| | | | | |  __/ | | (_| |  __/
 |_| |_| |_|\__,_|_| |_|_|_| |_| |_| |_|\___|_|  \__, |\___|
                                                 |___/`

var rootCmd = &cobra.Command{
	Use:   "manifmerge",
	Short: "Android manifest merger",
	Long: asciiLogo + `

manifmerge combines an application's AndroidManifest.xml with its variant
overlays and library manifests into a single merged manifest, honoring the
tools:node / tools:replace / tools:remove merge instructions and producing a
full merging report of every decision.

Inputs merge in descending priority: overlays, then the main manifest, then
libraries in dependency order. Structural conflicts are collected into the
report instead of stopping at the first one, so a single run surfaces every
problem at once.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - An input manifest file was not found
  12 - User denied overwrite approval
  13 - Merge produced ERROR-severity report entries
  14 - Input XML or tools: instruction is malformed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for manifmerge")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
