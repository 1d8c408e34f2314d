// Package services wires the merge engine to the outside world: loading and
// parsing the ordered inputs, running the priority merge, injecting
// placeholders and properties, and writing the merged manifest and report.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apkforge/manifmerge/internal/blame"
	"github.com/apkforge/manifmerge/internal/checksum"
	"github.com/apkforge/manifmerge/internal/files/filesystem"
	"github.com/apkforge/manifmerge/internal/merge"
	"github.com/apkforge/manifmerge/internal/placeholders"
	"github.com/apkforge/manifmerge/internal/report"
	"github.com/apkforge/manifmerge/internal/xmldom"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

// MergeService implements the Merger interface.
// Thread-Safety: NOT safe for concurrent Merge() calls on the same instance.
// Create separate instances for concurrent merges.
type MergeService struct {
	fs       filesystem.Provider
	approver manifmerge.Approver
	logger   manifmerge.Logger
	digester checksum.Calculator

	// stdout receives the merged manifest when no output path is given.
	stdout io.Writer
}

// NewMergeService creates a new MergeService with all dependencies injected.
// Panics on nil dependencies: those are programmer errors that should fail
// loudly at application startup, not halfway through a merge.
func NewMergeService(fs filesystem.Provider, approver manifmerge.Approver, logger manifmerge.Logger) *MergeService {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &MergeService{
		fs:       fs,
		approver: approver,
		logger:   logger,
		digester: checksum.New(),
		stdout:   os.Stdout,
	}
}

// Merge executes a merge using the provided configuration.
// This method orchestrates the workflow by calling smaller, focused methods.
func (s *MergeService) Merge(ctx context.Context, config manifmerge.MergeConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	docs, err := s.loadDocuments(ctx, config)
	if err != nil {
		return err
	}

	rec := report.NewRecorder()
	merged, err := merge.Merge(docs, rec)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	values := placeholders.WithDefaults(config.Placeholders, merged.Package())
	placeholders.Apply(merged.XML(), values, rec)
	placeholders.ApplyProperties(merged.XML(), config.Properties, rec)

	merged.StripInstructions()

	text := xmldom.Serialize(merged.XML())
	rep := rec.Build(s.digester.CalculateNormalized([]byte(text)))
	s.logMessages(rep)

	if err := s.writeReport(config.ReportPath, rep); err != nil {
		return err
	}

	if errs := rep.Errors(); len(errs) > 0 {
		return fmt.Errorf("%d error(s) during merge, see the report for details: %w",
			len(errs), manifmerge.ErrMergeFailed)
	}

	if err := s.writeOutput(ctx, config, text); err != nil {
		return err
	}

	s.logger.Info("merged %d manifests successfully", len(docs))
	return nil
}

// Blame runs the merge without writing any output and returns the merged
// manifest annotated with a per-line origin gutter.
func (s *MergeService) Blame(ctx context.Context, config manifmerge.MergeConfig) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	docs, err := s.loadDocuments(ctx, config)
	if err != nil {
		return "", err
	}

	rec := report.NewRecorder()
	merged, err := merge.Merge(docs, rec)
	if err != nil {
		return "", err
	}

	values := placeholders.WithDefaults(config.Placeholders, merged.Package())
	placeholders.Apply(merged.XML(), values, rec)
	placeholders.ApplyProperties(merged.XML(), config.Properties, rec)
	merged.StripInstructions()

	text, origins := blame.FromDocument(merged.XML())
	s.logMessages(rec.Build(""))
	if rec.HasErrors() {
		return "", fmt.Errorf("merge produced errors: %w", manifmerge.ErrMergeFailed)
	}
	return origins.Annotate(text), nil
}

// loadDocuments reads and parses every input in descending merge priority.
func (s *MergeService) loadDocuments(ctx context.Context, config manifmerge.MergeConfig) ([]*merge.Document, error) {
	inputs := config.Inputs()
	docs := make([]*merge.Document, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := s.loadDocument(in)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MergeService) loadDocument(in manifmerge.ManifestInput) (*merge.Document, error) {
	s.logger.Verbose("loading %s manifest %s", in.Type, in.Path)

	data, err := s.fs.ReadFile(in.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s manifest %s: %w", in.Type, in.Path, manifmerge.ErrManifestNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", in.Path, err)
	}

	xdoc, err := xmldom.Parse(data, in.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", in.Path, err, manifmerge.ErrMalformedManifest)
	}

	doc, err := merge.NewDocument(xdoc, in.Type, in.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", in.Path, err, manifmerge.ErrMalformedManifest)
	}
	s.logger.Verbose("loaded %s as %s (id %s)", in.Path, doc.Name(), doc.ID())
	return doc, nil
}

// writeOutput writes the merged manifest, prompting before replacing an
// existing file unless overwrite was requested.
func (s *MergeService) writeOutput(ctx context.Context, config manifmerge.MergeConfig, text string) error {
	if config.OutputPath == "" {
		_, err := io.WriteString(s.stdout, text)
		return err
	}

	target := config.OutputPath
	if info, err := s.fs.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, manifmerge.DefaultOutputName)
	}

	if s.fs.Exists(target) && !config.Overwrite {
		approved, err := s.approver.RequestApproval(ctx, target)
		if err != nil {
			return fmt.Errorf("approval failed: %w", err)
		}
		if !approved {
			return fmt.Errorf("output %s already exists: %w", target, manifmerge.ErrApprovalDenied)
		}
	}

	if err := s.fs.WriteFile(target, []byte(text)); err != nil {
		return fmt.Errorf("failed to write merged manifest: %w", err)
	}
	s.logger.Verbose("wrote merged manifest to %s", target)
	return nil
}

func (s *MergeService) writeReport(path string, rep *report.Report) error {
	if path == "" {
		return nil
	}
	data, err := rep.Marshal()
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	s.logger.Verbose("wrote merging report to %s", path)
	return nil
}

// logMessages echoes the report's diagnostics to the console so failures are
// visible without opening the report file.
func (s *MergeService) logMessages(rep *report.Report) {
	for _, m := range rep.Messages {
		switch m.Severity {
		case report.SeverityError:
			s.logger.Error("%s: %s", m.Location, m.Text)
		case report.SeverityWarning:
			s.logger.Warn("%s: %s", m.Location, m.Text)
		default:
			s.logger.Verbose("%s: %s", m.Location, m.Text)
		}
	}
}
