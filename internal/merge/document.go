// Package merge implements the priority-ordered manifest merge: a higher
// priority tree absorbs lower-priority trees one at a time, steered by the
// per-element instructions and the schema merge policies, recording every
// decision in the merging report. Structural problems become ERROR report
// entries and the merge keeps going; only malformed instructions abort a run.
package merge

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/apkforge/manifmerge/internal/schema"
	"github.com/apkforge/manifmerge/internal/xmldom"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

var packageAttr = xmldom.LocalName("package")

// Document wraps one parsed manifest tree with its merge role and the
// selector domain of the run it participates in.
type Document struct {
	xml  *xmldom.Document
	typ  manifmerge.DocumentType
	name string
	root *Element

	policy         schema.ContributionPolicy
	knownLibraries map[string]bool
}

// NewDocument wraps a parsed tree for merging. name identifies the document
// for selector resolution; empty defaults to the tree's source name. The
// whole tree's merge instructions are parsed eagerly, so malformed
// instructions fail here rather than halfway through a merge.
func NewDocument(xdoc *xmldom.Document, typ manifmerge.DocumentType, name string) (*Document, error) {
	if xdoc == nil || xdoc.Root == nil {
		return nil, errors.New("document has no root element")
	}
	if name == "" {
		name = xdoc.SourceName
	}
	d := &Document{
		xml:            xdoc,
		typ:            typ,
		name:           name,
		policy:         schema.DefaultContributionPolicy,
		knownLibraries: map[string]bool{},
	}
	root, err := newElement(d, xdoc.Root)
	if err != nil {
		return nil, err
	}
	d.root = root
	return d, nil
}

// XML returns the underlying tree.
func (d *Document) XML() *xmldom.Document { return d.xml }

// Root returns the wrapped root element.
func (d *Document) Root() *Element { return d.root }

// Type returns the document's merge role.
func (d *Document) Type() manifmerge.DocumentType { return d.typ }

// Name returns the selector identity of this document.
func (d *Document) Name() string { return d.name }

// ID returns a deterministic identity for this document, stable across runs
// for the same name.
func (d *Document) ID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("manifmerge:"+d.name)).String()
}

// Package returns the manifest package attribute, or "".
func (d *Document) Package() string {
	pkg, _ := d.xml.Root.Attribute(packageAttr)
	return pkg
}

// SetContributionPolicy replaces the document-type contribution table
// consulted when this document is the merge target.
func (d *Document) SetContributionPolicy(p schema.ContributionPolicy) {
	d.policy = p
}

func (d *Document) setKnownLibraries(known map[string]bool) {
	d.knownLibraries = known
}

func (d *Document) knownLibraryNames() []string {
	names := make([]string, 0, len(d.knownLibraries))
	for name := range d.knownLibraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
