package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/apkforge/manifmerge/internal/config"
	"github.com/apkforge/manifmerge/internal/files/filesystem"
	"github.com/apkforge/manifmerge/internal/logging"
	"github.com/apkforge/manifmerge/internal/placeholders"
	"github.com/apkforge/manifmerge/internal/services"
	"github.com/apkforge/manifmerge/internal/tui"
	"github.com/apkforge/manifmerge/internal/ui"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <main_manifest>",
	Short: "Merge a manifest with its overlays and libraries",
	Long: `Merge combines the main AndroidManifest.xml with variant overlays and
library manifests into a single merged manifest.

Inputs merge in descending priority:
1. Overlays (--overlay), in the order given
2. The main manifest
3. Libraries (--library), in dependency order

Per-element merge instructions (tools:node, tools:replace, tools:remove,
tools:selector) in the inputs steer the merge. Every decision lands in the
merging report; ERROR entries fail the run but never stop it early, so one
run reports every conflict at once.

A manifmerge.yaml next to the main manifest supplies defaults for every
flag; flags override the file.

Examples:
  # Basic merge to stdout
  manifmerge merge app/AndroidManifest.xml

  # Merge with a library and write output and report
  manifmerge merge app/AndroidManifest.xml \
    --library com.example:lib=libs/x/AndroidManifest.xml \
    --out build/AndroidManifest.xml \
    --report build/report.yaml

  # Merge with an overlay and placeholder values
  manifmerge merge app/AndroidManifest.xml \
    --overlay app/free/AndroidManifest.xml \
    --param applicationId=com.example.free \
    --params-file prod.env

  # Overwrite an existing output without prompting
  manifmerge merge app/AndroidManifest.xml -o build/AndroidManifest.xml --overwrite`,
	Args:              RequireManifestPath,
	ValidArgsFunction: completeManifestFiles,
	RunE:              runMerge,
}

// inputFlagValues are the flags shared by merge and blame: which manifests
// participate and which values get injected.
type inputFlagValues struct {
	overlays    []string
	libraries   []string
	params      []string
	paramsFiles []string
	properties  []string
}

type mergeFlagValues struct {
	inputFlagValues
	out       string
	report    string
	overwrite bool
	timeout   time.Duration
}

var mergeFlags mergeFlagValues

func addInputFlags(cmd *cobra.Command, f *inputFlagValues) {
	cmd.Flags().StringSliceVar(&f.overlays, "overlay", nil,
		"Variant overlay manifest (can be specified multiple times)\n"+
			"Overlays rank above the main manifest, in the order given")
	cmd.Flags().StringSliceVar(&f.libraries, "library", nil,
		"Library manifest as name=path or bare path (can be specified multiple times)\n"+
			"The name is the coordinate tools:selector matches against\n"+
			"Example: --library com.example:lib=libs/x/AndroidManifest.xml")
	cmd.Flags().StringSliceVar(&f.params, "param", nil,
		"Placeholder value as key=value (can be specified multiple times)\n"+
			"Substituted into ${key} references in attribute values\n"+
			"Example: --param applicationId=com.example.free")
	cmd.Flags().StringSliceVar(&f.paramsFiles, "params-file", nil,
		"Load placeholder values from .env files (can be specified multiple times)\n"+
			"Later files override earlier ones, CLI --param overrides all")
	cmd.Flags().StringSliceVar(&f.properties, "property", nil,
		"Attribute override injected on the manifest root as key=value\n"+
			"Example: --property versionCode=42")
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	addInputFlags(mergeCmd, &mergeFlags.inputFlagValues)

	mergeCmd.Flags().StringVarP(&mergeFlags.out, "out", "o", "",
		"Merged manifest output path (default: stdout)\n"+
			"A directory gets "+manifmerge.DefaultOutputName+" appended")
	mergeCmd.Flags().StringVar(&mergeFlags.report, "report", "",
		"Write the full merging report as YAML to this path\n"+
			"Inspect it later with 'manifmerge inspect'")
	mergeCmd.Flags().BoolVar(&mergeFlags.overwrite, "overwrite", false,
		"Replace an existing output file without prompting")
	mergeCmd.Flags().DurationVar(&mergeFlags.timeout, "timeout", manifmerge.DefaultTimeout,
		"Catastrophic failure protection timeout\n"+
			"The merge is in-memory and fast; this bounds pathological inputs\n"+
			"Examples: 30s, 5m")
}

// buildMergeConfig builds a MergeConfig from CLI flags, manifmerge.yaml next
// to the main manifest, and the environment. out is nil for commands that
// never write files (blame).
// This function is extracted for testability and separation of concerns.
func buildMergeConfig(cmd *cobra.Command, mainPath string, f *inputFlagValues, out *mergeFlagValues, verbose bool) (manifmerge.MergeConfig, error) {
	_ = godotenv.Load()

	baseDir := filepath.Dir(mainPath)
	projectCfg, err := config.Load(baseDir)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return manifmerge.MergeConfig{}, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	if projectCfg == nil {
		projectCfg = &config.ProjectConfig{}
	}

	cfg := manifmerge.MergeConfig{
		Main:    manifmerge.ManifestInput{Path: mainPath, Type: manifmerge.DocumentTypeMain},
		Verbose: verbose,
	}

	overlays := f.overlays
	if len(overlays) == 0 {
		for _, p := range projectCfg.Overlays {
			overlays = append(overlays, resolvePath(baseDir, p))
		}
	}
	for _, p := range overlays {
		cfg.Overlays = append(cfg.Overlays, manifmerge.ManifestInput{Path: p, Type: manifmerge.DocumentTypeOverlay})
	}

	if len(f.libraries) > 0 {
		for _, spec := range f.libraries {
			name, path, found := strings.Cut(spec, "=")
			if !found {
				name, path = "", spec
			}
			cfg.Libraries = append(cfg.Libraries, manifmerge.ManifestInput{
				Path: path, Type: manifmerge.DocumentTypeLibrary, Name: name,
			})
		}
	} else {
		for _, lib := range projectCfg.Libraries {
			cfg.Libraries = append(cfg.Libraries, manifmerge.ManifestInput{
				Path: resolvePath(baseDir, lib.Path), Type: manifmerge.DocumentTypeLibrary, Name: lib.Name,
			})
		}
	}

	// Placeholder precedence: manifmerge.yaml < params files < CLI --param
	fileValues, err := loadParamsFromFiles(filesystem.NewOSFileSystem(), f.paramsFiles, verbose)
	if err != nil {
		return manifmerge.MergeConfig{}, err
	}
	cliValues, err := placeholders.ParseKeyValuePairs(f.params)
	if err != nil {
		return manifmerge.MergeConfig{}, fmt.Errorf("invalid --param: %w", err)
	}
	cfg.Placeholders = placeholders.Layer(projectCfg.Placeholders, fileValues, cliValues)

	cliProps, err := placeholders.ParseKeyValuePairs(f.properties)
	if err != nil {
		return manifmerge.MergeConfig{}, fmt.Errorf("invalid --property: %w", err)
	}
	cfg.Properties = placeholders.Layer(projectCfg.Properties, cliProps)

	if out != nil {
		cfg.OutputPath = out.out
		if cfg.OutputPath == "" && projectCfg.Output != "" {
			cfg.OutputPath = resolvePath(baseDir, projectCfg.Output)
		}
		cfg.ReportPath = out.report
		if cfg.ReportPath == "" && projectCfg.Report != "" {
			cfg.ReportPath = resolvePath(baseDir, projectCfg.Report)
		}

		cfg.Overwrite = out.overwrite
		cfg.Timeout = out.timeout
		if !cmd.Flags().Changed("timeout") {
			timeout, err := projectCfg.ParseTimeout(out.timeout)
			if err != nil {
				return manifmerge.MergeConfig{}, err
			}
			cfg.Timeout = timeout
		}
	}

	return cfg, nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := buildMergeConfig(cmd, args[0], &mergeFlags.inputFlagValues, &mergeFlags, verbose)
	if err != nil {
		return err
	}

	// Select approver implementation based on terminal detection: a prompt
	// would hang a scripted build.
	var approver manifmerge.Approver
	if tui.IsInteractive() {
		approver = ui.NewInteractiveApprover()
	} else {
		approver = ui.NewForcedApprover()
	}
	logger := logging.NewConsoleLogger(verbose)
	merger := services.NewMergeService(filesystem.NewOSFileSystem(), approver, logger)

	ctx, cancel := signalContext()
	defer cancel()

	if err := merger.Merge(ctx, cfg); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	return nil
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling merge...")
		cancel()
	}()

	return ctx, cancel
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// loadParamsFromFiles loads placeholder values from multiple .env files using
// the provided filesystem. Later files override earlier ones.
func loadParamsFromFiles(fsProvider filesystem.Provider, paramsFiles []string, verbose bool) (map[string]string, error) {
	values := make(map[string]string)

	for _, paramsFile := range paramsFiles {
		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Loading placeholder values from file: %s\n", paramsFile)
		}

		content, err := fsProvider.ReadFile(paramsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file '%s': %w\n\nTip: Verify the path or use --param to set values directly:\n  manifmerge merge app/AndroidManifest.xml --param key=value", paramsFile, err)
		}

		fileValues, err := placeholders.ParseEnvFile(content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse params file '%s': %w\n\nTip: Verify the file format (KEY=VALUE)", paramsFile, err)
		}

		for k, v := range fileValues {
			values[k] = v
		}
	}

	return values, nil
}
