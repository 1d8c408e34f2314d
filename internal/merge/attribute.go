package merge

import (
	"github.com/apkforge/manifmerge/internal/report"
	"github.com/apkforge/manifmerge/internal/schema"
	"github.com/apkforge/manifmerge/internal/xmldom"
)

// Attribute is one entry of an element's attribute snapshot. Snapshots are
// rebuilt after every write to the owning node; an Attribute is never
// mutated in place.
type Attribute struct {
	owner  *Element
	name   xmldom.NodeName
	prefix string
	value  string
	pos    xmldom.Position
	model  *schema.AttributeModel
}

// Name returns the attribute's qualified name.
func (a *Attribute) Name() xmldom.NodeName { return a.name }

// Value returns the attribute's string value.
func (a *Attribute) Value() string { return a.value }

func (a *Attribute) displayName() string {
	if a.prefix != "" {
		return a.prefix + ":" + a.name.Local
	}
	return a.name.Local
}

func (a *Attribute) location() report.Location {
	return report.Location{
		Source: a.owner.xml.SourceName(),
		Line:   a.pos.Line,
		Column: a.pos.Column,
	}
}

// attrID identifies one attribute of an element in report entries, e.g.
// "activity#.Main/@android:theme".
func (e *Element) attrID(prefix string, name xmldom.NodeName) string {
	display := name.Local
	if prefix != "" {
		display = prefix + ":" + name.Local
	}
	return e.ID() + "/@" + display
}

// mergeInHigherPriorityElement merges this lower-priority attribute into the
// higher-priority element. Absent attributes import with an ADDED action;
// present ones resolve per the higher element's effective attribute
// operation.
func (a *Attribute) mergeInHigherPriorityElement(higher *Element, rec *report.Recorder) {
	op := higher.attributeOperation(a.name)
	existing := higher.xml.AttributeNode(a.name)

	switch op {
	case schema.AttrOpRemove:
		rec.RecordAction(higher.attrID(a.prefix, a.name), report.ActionRejected, a.location(),
			"removed by tools:remove")
		return

	case schema.AttrOpReplace:
		if existing != nil {
			rec.RecordMergeAction(higher.attrID(existing.Prefix, a.name), report.ActionRejected,
				attrLocation(higher, existing), a.location(),
				"overridden by tools:replace")
			return
		}

	default: // strict
		if existing != nil {
			if existing.Value == a.value {
				rec.RecordMergeAction(higher.attrID(existing.Prefix, a.name), report.ActionMerged,
					attrLocation(higher, existing), a.location(), "")
				return
			}
			rec.Error(attrLocation(higher, existing),
				"attribute %s value=(%s) at %s conflicts with value=(%s) at %s; add tools:replace=%q to the higher-priority element to override",
				higher.attrID(existing.Prefix, a.name), existing.Value, attrLocation(higher, existing),
				a.value, a.location(), a.displayName())
			return
		}
	}

	prefix := a.prefix
	if a.name.URI != "" {
		prefix = higher.doc.xml.Root.DeclareNamespace(prefixOr(a.prefix, "ns"), a.name.URI)
	}
	higher.setAttribute(a.name, prefix, a.value)
	rec.RecordAction(higher.attrID(prefix, a.name), report.ActionAdded, a.location(), "")
}

// mergeWithLowerPriorityDefaultValue reconciles this explicit higher-priority
// attribute against the default value the lower-priority element relies on.
// Strict semantics match the explicit-vs-explicit case; replace and remove
// operations suppress the comparison.
func (a *Attribute) mergeWithLowerPriorityDefaultValue(rec *report.Recorder, lower *Element, defaultValue string) {
	if a.owner.attributeOperation(a.name) != schema.AttrOpStrict {
		return
	}
	if a.value == defaultValue {
		return
	}
	rec.Error(a.location(),
		"attribute %s value=(%s) at %s conflicts with the implicit default value=(%s) of %s at %s; add tools:replace=%q or declare the attribute explicitly there",
		a.owner.attrID(a.prefix, a.name), a.value, a.location(),
		defaultValue, lower.ID(), lower.xml.Location(), a.displayName())
}

func attrLocation(e *Element, attr *xmldom.Attr) report.Location {
	return report.Location{
		Source: e.xml.SourceName(),
		Line:   attr.Pos.Line,
		Column: attr.Pos.Column,
	}
}
