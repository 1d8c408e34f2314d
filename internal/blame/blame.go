// Package blame maps lines of the merged manifest back to their origin, so
// tooling can answer "which input put this line here".
package blame

import (
	"fmt"
	"strings"

	"github.com/apkforge/manifmerge/internal/xmldom"
)

// Entry maps a range of lines in the merged output to their original source.
type Entry struct {
	MergedStart  int    // First line in the merged output (1-based, inclusive)
	MergedEnd    int    // Last line in the merged output (1-based, inclusive)
	OriginalFile string // Original source file path
	OriginalLine int    // Line number in the original file
	Description  string // Element the lines belong to, e.g. "activity#.Main"
}

// Map tracks how merged-output lines map back to the input manifests.
type Map struct {
	entries []Entry
}

// FromDocument serializes the merged document and builds the line map from
// element provenance. Returns the serialized text alongside the map so
// callers write exactly the bytes the map describes.
func FromDocument(doc *xmldom.Document) (string, *Map) {
	text, owners := xmldom.SerializeWithIndex(doc)

	m := &Map{}
	var current *xmldom.Element
	start := 0
	for i, owner := range owners {
		if owner == current {
			continue
		}
		m.close(current, start, i)
		current = owner
		start = i + 1
	}
	m.close(current, start, len(owners))

	return text, m
}

func (m *Map) close(owner *xmldom.Element, start, end int) {
	if owner == nil || start == 0 || end < start {
		return
	}
	m.entries = append(m.entries, Entry{
		MergedStart:  start,
		MergedEnd:    end,
		OriginalFile: owner.SourceName(),
		OriginalLine: owner.Pos.Line,
		Description:  describe(owner),
	})
}

// Resolve finds the original source for a merged-output line number.
func (m *Map) Resolve(mergedLine int) (Entry, bool) {
	for _, entry := range m.entries {
		if mergedLine >= entry.MergedStart && mergedLine <= entry.MergedEnd {
			return entry, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of all entries in merged-line order.
func (m *Map) Entries() []Entry {
	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

// Len returns the number of entries in the map.
func (m *Map) Len() int {
	return len(m.entries)
}

// Annotate renders the merged text with a per-line origin gutter:
//
//	main.xml:3    | <uses-permission ... />
func (m *Map) Annotate(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	gutters := make([]string, len(lines))
	width := 0
	for i := range lines {
		if entry, ok := m.Resolve(i + 1); ok && entry.OriginalFile != "" {
			gutters[i] = fmt.Sprintf("%s:%d", entry.OriginalFile, entry.OriginalLine)
		}
		if len(gutters[i]) > width {
			width = len(gutters[i])
		}
	}

	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%-*s | %s\n", width, gutters[i], line)
	}
	return b.String()
}

func describe(e *xmldom.Element) string {
	name := e.Name.Local
	if e.Prefix != "" {
		name = e.Prefix + ":" + name
	}
	return name
}
