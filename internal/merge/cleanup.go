package merge

import (
	"github.com/apkforge/manifmerge/internal/schema"
	"github.com/apkforge/manifmerge/internal/xmldom"
)

// StripInstructions removes all merge instructions from the finished tree:
// removal-marker elements disappear entirely, every other reserved-namespace
// attribute is deleted, and the tools namespace declaration is dropped from
// the root. Call once after the last document has been merged.
func (d *Document) StripInstructions() {
	d.stripElement(d.root)

	root := d.xml.Root
	decls := root.Namespaces[:0]
	for _, ns := range root.Namespaces {
		if ns.URI != xmldom.ToolsURI {
			decls = append(decls, ns)
		}
	}
	root.Namespaces = decls

	// Caches referencing stripped attributes are stale; re-wrap the clean
	// tree. Parsing cannot fail once every instruction is gone.
	if fresh, err := newElement(d, d.xml.Root); err == nil {
		d.root = fresh
	}
}

func (d *Document) stripElement(e *Element) {
	for _, child := range append([]*Element(nil), e.children...) {
		if child.isRemovalMarker() {
			e.xml.RemoveChild(child.xml)
			continue
		}
		d.stripElement(child)
	}

	attrs := e.xml.Attrs[:0]
	for _, a := range e.xml.Attrs {
		if !a.Name.InNamespace(xmldom.ToolsURI) {
			attrs = append(attrs, a)
		}
	}
	e.xml.Attrs = attrs
}

// isRemovalMarker reports whether the element exists only to suppress
// lower-priority content. An element whose operation was rewritten from a
// plain merge during propagation carries real content and stays.
func (e *Element) isRemovalMarker() bool {
	op := e.instr.OperationOr(schema.OpMerge)
	if op != schema.OpRemove && op != schema.OpRemoveAll {
		return false
	}
	if e.originalOp != nil {
		if orig := *e.originalOp; orig != schema.OpRemove && orig != schema.OpRemoveAll {
			return false
		}
	}
	return true
}
