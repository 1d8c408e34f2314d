package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apkforge/manifmerge/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <target_dir>",
	Short: "Create a new manifest project",
	Long: `Init scaffolds a manifest project: an AndroidManifest.xml and a
manifmerge.yaml wired together, ready to merge.

Templates:
  basic    - application manifest with a launcher activity (default)
  library  - minimal library manifest

Examples:
  manifmerge init ./app --package com.example.app
  manifmerge init ./libs/core --package com.example.core --template library`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTemplateDirs,
	RunE:              runInit,
}

var initFlags struct {
	pkg      string
	template string
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initFlags.pkg, "package", "com.example.app",
		"Package name written into the scaffolded manifest")
	initCmd.Flags().StringVar(&initFlags.template, "template", "basic",
		"Project template (see 'manifmerge init --help' for the list)")
	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	s := scaffold.NewScaffolder(verbose)
	if err := s.CreateProject(initFlags.pkg, initFlags.template, args[0]); err != nil {
		return err
	}

	fmt.Printf("Created %s project in %s\n", initFlags.template, args[0])
	fmt.Printf("Next: manifmerge merge %s/AndroidManifest.xml\n", strings.TrimRight(args[0], "/"))
	return nil
}

// completeTemplateNames provides shell completion for template names.
func completeTemplateNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var matches []string
	for _, t := range templates {
		if strings.HasPrefix(t, toComplete) {
			matches = append(matches, t)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeTemplateDirs provides shell completion for the target directory.
func completeTemplateDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}
