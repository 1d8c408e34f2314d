package merge

import (
	"strings"

	"github.com/apkforge/manifmerge/internal/report"
	"github.com/apkforge/manifmerge/internal/schema"
	"github.com/apkforge/manifmerge/internal/xmldom"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

// MergeWithLowerPriorityNode merges a same-type-and-key lower-priority
// element into e. e is always the higher-priority side and is mutated in
// place; the lower-priority tree is never modified.
func (e *Element) MergeWithLowerPriorityNode(lower *Element, rec *report.Recorder) {
	if e.instr.Selector != nil && !e.instr.Selector.Resolvable(e.doc.knownLibraries) {
		rec.Error(report.LocationOf(e.xml),
			"invalid tools:selector value %q on element %s: no library with that name participates in this merge; known libraries: %s",
			e.instr.Selector.String(), e.ID(), strings.Join(e.doc.knownLibraryNames(), ", "))
		return
	}

	mergeType := e.kind.MergeType
	// Manifest attributes only stay confined when two library manifests
	// merge; merging overlays or the main manifest unions them normally.
	if e.isRoot() && lower.doc.typ != manifmerge.DocumentTypeLibrary {
		mergeType = schema.MergeTypeMerge
	}

	rec.RecordMergeAction(e.ID(), report.ActionMerged,
		report.LocationOf(e.xml), report.LocationOf(lower.xml), "")

	op := e.instr.OperationOr(schema.OpMerge)

	if op != schema.OpMergeChildrenOnly && mergeType != schema.MergeTypeMergeChildrenOnly {
		handled := map[xmldom.NodeName]bool{}
		for i := range lower.attrs {
			attr := &lower.attrs[i]
			attr.mergeInHigherPriorityElement(e, rec)
			handled[attr.name] = true
		}
		// Attributes the lower element left at their schema default still
		// constrain an explicit higher-priority value.
		for _, model := range lower.kind.Attributes {
			if handled[model.Name] || model.DefaultValue == nil {
				continue
			}
			if higherAttr := e.attribute(model.Name); higherAttr != nil {
				higherAttr.mergeWithLowerPriorityDefaultValue(rec, lower, *model.DefaultValue)
			}
		}
	}

	if op == schema.OpMergeOnlyAttributes {
		for _, child := range lower.children {
			rec.RecordAction(child.ID(), report.ActionRejected, report.LocationOf(child.xml),
				"dropped by tools:node=mergeOnlyAttributes")
		}
		return
	}
	e.mergeChildren(lower, rec)
}

// mergeChildren walks the lower-priority element's mergeable children in
// document order and folds each into e.
func (e *Element) mergeChildren(lower *Element, rec *report.Recorder) {
	for _, child := range lower.children {
		if child.kind.Custom {
			e.addElement(child, rec)
			continue
		}
		if child.kind.MergeType == schema.MergeTypeIgnore {
			continue
		}
		if !e.doc.policy.MayContribute(child.doc.typ, child.kind) {
			continue
		}
		if remover := e.removeAllChildFor(child); remover != nil {
			rec.RecordMergeAction(child.ID(), report.ActionRejected,
				report.LocationOf(remover.xml), report.LocationOf(child.xml),
				"removed by tools:node=removeAll")
			continue
		}

		matched := e.matchingChild(child)
		if matched == nil {
			if child.kind.MergeType == schema.MergeTypeAlways && e.structuralDuplicate(child) != nil {
				continue
			}
			e.addElement(child, rec)
			continue
		}

		switch matched.kind.MergeType {
		case schema.MergeTypeConflict:
			rec.Error(report.LocationOf(matched.xml),
				"element %s cannot be declared in more than one input: declared at %s and at %s",
				matched.ID(), matched.xml.Location(), child.xml.Location())

		case schema.MergeTypeAlways:
			eff := matched.effectiveOperation(child, rec)
			switch {
			case eff == schema.OpRemove || eff == schema.OpReplace:
				rec.RecordMergeAction(child.ID(), report.ActionRejected,
					report.LocationOf(matched.xml), report.LocationOf(child.xml),
					"removed by tools:node="+eff.String())
			case matched.kind.MultipleDeclarations:
				if e.structuralDuplicate(child) == nil {
					e.addElement(child, rec)
				}
			default:
				if Diff(matched.xml, child.xml) != "" {
					e.addElement(child, rec)
				}
			}

		default:
			e.handleTwoElementsExistence(matched, child, rec)
		}
	}
}

// handleTwoElementsExistence resolves a matched pair of default-policy
// elements according to the pair's effective operation.
func (e *Element) handleTwoElementsExistence(matched, lower *Element, rec *report.Recorder) {
	switch op := matched.effectiveOperation(lower, rec); op {
	case schema.OpMerge, schema.OpMergeOnlyAttributes, schema.OpMergeChildrenOnly:
		matched.MergeWithLowerPriorityNode(lower, rec)

	case schema.OpRemove, schema.OpReplace:
		rec.RecordMergeAction(lower.ID(), report.ActionRejected,
			report.LocationOf(matched.xml), report.LocationOf(lower.xml),
			"removed by tools:node="+op.String())

	case schema.OpStrict:
		if diff := Diff(matched.xml, lower.xml); diff != "" {
			rec.Error(report.LocationOf(matched.xml),
				"element %s at %s does not match the declaration at %s: %s",
				matched.ID(), matched.xml.Location(), lower.xml.Location(), diff)
		}

	default:
		rec.Error(report.LocationOf(matched.xml),
			"internal: unexpected node operation %s on element %s", op, matched.ID())
	}
}

// effectiveOperation computes the operation governing a matched pair. A
// lower-priority declaration overrides the higher one and is written back to
// e so it propagates into later merges, except that a lower-priority remove
// against a plain merge collapses to replace, and a non-matching selector
// reverts everything to merge.
func (e *Element) effectiveOperation(lower *Element, rec *report.Recorder) schema.NodeOperation {
	effective := e.instr.OperationOr(schema.OpMerge)
	if lower.instr.Operation != nil {
		lowerOp := *lower.instr.Operation
		effective = lowerOp
		if e.instr.Operation == nil || *e.instr.Operation == schema.OpMerge {
			if lowerOp == schema.OpRemove || lowerOp == schema.OpRemoveAll {
				effective = schema.OpReplace
			}
		}
		if err := e.setNodeOperation(lowerOp); err != nil {
			rec.Error(report.LocationOf(e.xml), "internal: propagating node operation: %v", err)
		}
	}
	if e.instr.Selector != nil && !e.instr.Selector.AppliesTo(lower.doc.name) {
		effective = schema.OpMerge
	}
	return effective
}

// removeAllChildFor returns a keyless same-type child of e marked removeAll
// whose selector, if any, covers the lower-priority child's document.
func (e *Element) removeAllChildFor(child *Element) *Element {
	for _, c := range e.children {
		if c.xml.Name != child.xml.Name {
			continue
		}
		if c.instr.OperationOr(schema.OpMerge) != schema.OpRemoveAll {
			continue
		}
		if _, hasKey := c.Key(); hasKey {
			continue
		}
		if c.instr.Selector != nil && !c.instr.Selector.AppliesTo(child.doc.name) {
			continue
		}
		return c
	}
	return nil
}

// matchingChild finds e's child corresponding to a lower-priority element.
// Keyed kinds match on key values, with absent keys only matching other
// absent keys. Keyless kinds match any same-type sibling unless multiple
// declarations are allowed, in which case nothing matches.
func (e *Element) matchingChild(lower *Element) *Element {
	if len(lower.kind.KeyAttributes) > 0 {
		lowerKey, lowerHas := lower.Key()
		for _, c := range e.children {
			if c.xml.Name != lower.xml.Name {
				continue
			}
			key, has := c.Key()
			if has == lowerHas && key == lowerKey {
				return c
			}
		}
		return nil
	}
	if lower.kind.MultipleDeclarations {
		return nil
	}
	for _, c := range e.children {
		if c.xml.Name == lower.xml.Name {
			return c
		}
	}
	return nil
}

// structuralDuplicate returns a same-type, same-key child of e structurally
// equal to the lower-priority element, or nil.
func (e *Element) structuralDuplicate(lower *Element) *Element {
	lowerKey, lowerHas := lower.Key()
	for _, c := range e.children {
		if c.xml.Name != lower.xml.Name {
			continue
		}
		key, has := c.Key()
		if has != lowerHas || key != lowerKey {
			continue
		}
		if Diff(c.xml, lower.xml) == "" {
			return c
		}
	}
	return nil
}
