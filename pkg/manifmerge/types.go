package manifmerge

import (
	"errors"
	"fmt"
	"time"
)

// DocumentType classifies a manifest input by its role in the merge. The
// role decides priority ordering and which merge rules apply: library
// manifests are subject to the contribution policy table, overlays may not
// introduce a package of their own.
type DocumentType int

const (
	// DocumentTypeMain is the application's own manifest.
	DocumentTypeMain DocumentType = iota

	// DocumentTypeOverlay is a build-variant, flavor or build-type overlay.
	// Overlays rank above the main manifest.
	DocumentTypeOverlay

	// DocumentTypeLibrary is a dependency's manifest. Libraries rank below
	// the main manifest, in dependency order.
	DocumentTypeLibrary
)

// String returns a human-readable name for the document type.
func (d DocumentType) String() string {
	switch d {
	case DocumentTypeMain:
		return "main"
	case DocumentTypeOverlay:
		return "overlay"
	case DocumentTypeLibrary:
		return "library"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// IsValid returns true if the DocumentType is a defined value.
func (d DocumentType) IsValid() bool {
	return d >= DocumentTypeMain && d <= DocumentTypeLibrary
}

// ManifestInput names one manifest file participating in a merge.
type ManifestInput struct {
	// Path is the manifest file location. It also labels every source
	// position in the merging report.
	Path string

	// Type is the document's role (main / overlay / library).
	Type DocumentType

	// Name identifies the input for selector resolution. For libraries this
	// is the library coordinate (e.g. "com.example:lib"); empty defaults to
	// Path.
	Name string
}

// MergeConfig contains all parameters for one merge run.
type MergeConfig struct {
	// Main is the application manifest. Required.
	Main ManifestInput

	// Overlays are variant overlays, highest priority first.
	Overlays []ManifestInput

	// Libraries are dependency manifests in dependency order.
	Libraries []ManifestInput

	// OutputPath is where the merged manifest is written. Empty means
	// stdout.
	OutputPath string

	// ReportPath, when set, writes the full merging report as YAML.
	ReportPath string

	// Placeholders are ${name} substitutions applied to merged attribute
	// values. The applicationId placeholder defaults to the merged package
	// name when not supplied.
	Placeholders map[string]string

	// Properties are direct attribute overrides injected after the merge,
	// e.g. "versionCode" on the root element.
	Properties map[string]string

	// Overwrite allows replacing an existing output file without prompting.
	Overwrite bool

	// Timeout bounds the whole run, I/O included.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks the MergeConfig for required fields and consistent values.
// It returns a multi-error if several validations fail.
func (c *MergeConfig) Validate() error {
	var errs []error

	if c.Main.Path == "" {
		errs = append(errs, fmt.Errorf("main manifest path is required: %w", ErrInvalidConfig))
	}
	if c.Main.Type != DocumentTypeMain {
		errs = append(errs, fmt.Errorf("main input must have document type %q: %w", DocumentTypeMain, ErrInvalidConfig))
	}
	for i, o := range c.Overlays {
		if o.Path == "" {
			errs = append(errs, fmt.Errorf("overlay %d has no path: %w", i, ErrInvalidConfig))
		}
		if o.Type != DocumentTypeOverlay {
			errs = append(errs, fmt.Errorf("overlay %d has document type %q: %w", i, o.Type, ErrInvalidConfig))
		}
	}
	for i, l := range c.Libraries {
		if l.Path == "" {
			errs = append(errs, fmt.Errorf("library %d has no path: %w", i, ErrInvalidConfig))
		}
		if l.Type != DocumentTypeLibrary {
			errs = append(errs, fmt.Errorf("library %d has document type %q: %w", i, l.Type, ErrInvalidConfig))
		}
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Inputs returns all manifests in descending merge priority: overlays
// first (highest priority first), then the main manifest, then libraries in
// dependency order.
func (c *MergeConfig) Inputs() []ManifestInput {
	inputs := make([]ManifestInput, 0, 1+len(c.Overlays)+len(c.Libraries))
	inputs = append(inputs, c.Overlays...)
	inputs = append(inputs, c.Main)
	inputs = append(inputs, c.Libraries...)
	return inputs
}
