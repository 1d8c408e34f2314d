// Package report implements the audit trail of a merge run: an append-only
// log of per-node decisions (added, merged, rejected, injected) with source
// positions, and severity-tagged diagnostic messages. The report is the
// engine's only error surface: structural merge problems become ERROR
// entries here and the merge keeps going, so one run reports every problem
// at once.
package report

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/apkforge/manifmerge/internal/xmldom"
)

// ActionType classifies one merge decision.
type ActionType string

const (
	// ActionAdded records a node or attribute imported from a
	// lower-priority document.
	ActionAdded ActionType = "ADDED"

	// ActionMerged records a node combined with its lower-priority
	// counterpart.
	ActionMerged ActionType = "MERGED"

	// ActionRejected records a lower-priority node or attribute dropped by
	// an operation or policy.
	ActionRejected ActionType = "REJECTED"

	// ActionInjected records a value written by the merger itself
	// (placeholders, property overrides).
	ActionInjected ActionType = "INJECTED"
)

// Severity grades a diagnostic message.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Location is a source position inside a named input.
type Location struct {
	Source string `yaml:"source"`
	Line   int    `yaml:"line"`
	Column int    `yaml:"column"`
}

// LocationOf captures an element's origin.
func LocationOf(e *xmldom.Element) Location {
	return Location{Source: e.SourceName(), Line: e.Pos.Line, Column: e.Pos.Column}
}

// String renders "source:line:column".
func (l Location) String() string {
	src := l.Source
	if src == "" {
		src = "<unknown>"
	}
	if l.Line == 0 {
		return src
	}
	return fmt.Sprintf("%s:%d:%d", src, l.Line, l.Column)
}

// Record is one entry of the action log.
type Record struct {
	// Target identifies the resulting node or attribute, e.g.
	// "uses-permission#android.permission.CAMERA" or
	// "activity#.Main/@android:theme".
	Target string `yaml:"target"`

	Action ActionType `yaml:"action"`

	// Location is the source position of the node the decision was made
	// about.
	Location Location `yaml:"location"`

	// MergedFrom is the secondary (lower-priority) contributor, when the
	// action involved two nodes.
	MergedFrom *Location `yaml:"merged_from,omitempty"`

	// Reason is free-form context for REJECTED and INJECTED entries.
	Reason string `yaml:"reason,omitempty"`
}

// Message is one severity-tagged diagnostic.
type Message struct {
	Severity Severity `yaml:"severity"`
	Location Location `yaml:"location"`
	Text     string   `yaml:"text"`
}

// Report is the finalized outcome of one merge run, serializable to YAML
// for tooling and the inspect command.
type Report struct {
	RunID    string    `yaml:"run_id"`
	Result   Severity  `yaml:"result"`
	Digest   string    `yaml:"digest,omitempty"`
	Actions  []Record  `yaml:"actions"`
	Messages []Message `yaml:"messages"`
}

// HasErrors reports whether the run collected any ERROR-severity message.
func (r *Report) HasErrors() bool {
	for _, m := range r.Messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ActionsFor returns the log entries recorded against one target, in order.
func (r *Report) ActionsFor(target string) []Record {
	var out []Record
	for _, rec := range r.Actions {
		if rec.Target == target {
			out = append(out, rec)
		}
	}
	return out
}

// Errors returns all ERROR-severity messages.
func (r *Report) Errors() []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Severity == SeverityError {
			out = append(out, m)
		}
	}
	return out
}

// Marshal renders the report as YAML.
func (r *Report) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}
	return data, nil
}

// Save writes the report as YAML.
func (r *Report) Save(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Load reads a report previously written by Save.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}

// NewRunID returns a fresh identifier for one merge run.
func NewRunID() string {
	return uuid.NewString()
}
