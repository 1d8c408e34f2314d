package merge

import (
	"github.com/apkforge/manifmerge/internal/instructions"
	"github.com/apkforge/manifmerge/internal/report"
	"github.com/apkforge/manifmerge/internal/schema"
	"github.com/apkforge/manifmerge/internal/xmldom"
)

// Element wraps one tree node with the derived state the merge consults:
// its schema kind, the parsed instruction set, the attribute snapshot
// (merge instructions excluded) and the mergeable-children wrappers.
//
// Invariant: the caches always reflect the underlying node. Every mutation
// goes through a method of this type and refreshes exactly the caches whose
// source data changed, before any subsequent read.
type Element struct {
	doc  *Document
	xml  *xmldom.Element
	kind *schema.NodeKind

	instr    *instructions.Set
	attrs    []Attribute
	children []*Element

	// originalOp preserves the element's declared operation the first time a
	// lower-priority declaration overwrites it, for later validation.
	originalOp *schema.NodeOperation
}

func newElement(doc *Document, x *xmldom.Element) (*Element, error) {
	e := &Element{doc: doc, xml: x, kind: schema.KindFor(x.Name)}
	if err := e.refreshInstructions(); err != nil {
		return nil, err
	}
	e.refreshAttributes()
	if err := e.refreshChildren(); err != nil {
		return nil, err
	}
	return e, nil
}

// XML returns the wrapped node.
func (e *Element) XML() *xmldom.Element { return e.xml }

// Kind returns the schema policy record for this element's tag.
func (e *Element) Kind() *schema.NodeKind { return e.kind }

// Instructions returns the parsed merge-instruction set.
func (e *Element) Instructions() *instructions.Set { return e.instr }

// Children returns the mergeable child wrappers in document order.
func (e *Element) Children() []*Element { return e.children }

// Attributes returns the attribute snapshot, merge instructions excluded.
func (e *Element) Attributes() []Attribute { return e.attrs }

// Key returns the identity key of this element, ok=false for a null key.
func (e *Element) Key() (string, bool) { return e.kind.Key(e.xml) }

// OriginalOperation returns the operation declared before a lower-priority
// document overrode it, or nil if it was never overridden.
func (e *Element) OriginalOperation() *schema.NodeOperation { return e.originalOp }

// ID identifies the element in report entries: the tag name plus the
// identity key when one is present, e.g. "activity#.Main".
func (e *Element) ID() string {
	id := displayName(e.xml)
	if key, ok := e.Key(); ok {
		id += "#" + key
	}
	return id
}

func (e *Element) isRoot() bool { return e == e.doc.root }

func (e *Element) attribute(name xmldom.NodeName) *Attribute {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			return &e.attrs[i]
		}
	}
	return nil
}

// attributeOperation resolves the effective conflict policy for one
// attribute: an explicit instruction wins, then the schema model, then
// strict comparison.
func (e *Element) attributeOperation(name xmldom.NodeName) schema.AttributeOperation {
	if op, ok := e.instr.AttributeOps[name]; ok {
		return op
	}
	if m := e.kind.AttributeModelFor(name); m != nil {
		return m.Operation
	}
	return schema.AttrOpStrict
}

func (e *Element) refreshInstructions() error {
	set, err := instructions.Parse(e.xml)
	if err != nil {
		return err
	}
	e.instr = set
	return nil
}

func (e *Element) refreshAttributes() {
	e.attrs = e.attrs[:0]
	for _, a := range e.xml.Attrs {
		if a.Name.InNamespace(xmldom.ToolsURI) {
			continue
		}
		e.attrs = append(e.attrs, Attribute{
			owner:  e,
			name:   a.Name,
			prefix: a.Prefix,
			value:  a.Value,
			pos:    a.Pos,
			model:  e.kind.AttributeModelFor(a.Name),
		})
	}
}

// refreshChildren rebuilds the children cache, reusing wrappers whose
// underlying node is unchanged so merge state (originalOp) survives sibling
// insertions.
func (e *Element) refreshChildren() error {
	existing := make(map[*xmldom.Element]*Element, len(e.children))
	for _, c := range e.children {
		existing[c.xml] = c
	}
	fresh := make([]*Element, 0, len(e.xml.Children))
	for _, xc := range e.xml.Children {
		if w, ok := existing[xc]; ok {
			fresh = append(fresh, w)
			continue
		}
		w, err := newElement(e.doc, xc)
		if err != nil {
			return err
		}
		fresh = append(fresh, w)
	}
	e.children = fresh
	return nil
}

func (e *Element) setAttribute(name xmldom.NodeName, prefix, value string) {
	e.xml.SetAttribute(name, prefix, value)
	e.refreshAttributes()
}

// setNodeOperation rewrites the element's node instruction so the operation
// propagates into later merges, preserving the pre-override operation once.
func (e *Element) setNodeOperation(op schema.NodeOperation) error {
	if e.originalOp == nil {
		prev := e.instr.OperationOr(schema.OpMerge)
		e.originalOp = &prev
	}
	prefix := "tools"
	if root := e.doc.xml.Root; root != nil {
		prefix = root.DeclareNamespace("tools", xmldom.ToolsURI)
	}
	e.xml.SetAttribute(instructions.NodeAttr, prefix, op.String())
	return e.refreshInstructions()
}

// addElement imports a lower-priority element unchanged: a deep clone,
// leading comments included, appended as the last child, with namespace
// prefixes re-bound against this document's root.
func (e *Element) addElement(lower *Element, rec *report.Recorder) {
	clone := lower.xml.Clone()
	adoptNamespaces(clone, e.doc.xml.Root)
	e.xml.AppendChild(clone)
	if err := e.refreshChildren(); err != nil {
		rec.Error(report.LocationOf(lower.xml), "internal: re-wrapping imported element: %v", err)
		return
	}
	rec.RecordAction(lower.ID(), report.ActionAdded, report.LocationOf(lower.xml), "")
}

// adoptNamespaces rebinds every namespace prefix used in the subtree to a
// declaration in scope at the target root, declaring missing ones there.
func adoptNamespaces(n *xmldom.Element, targetRoot *xmldom.Element) {
	if n.Name.URI != "" {
		n.Prefix = targetRoot.DeclareNamespace(prefixOr(n.Prefix, "ns"), n.Name.URI)
	}
	for i := range n.Attrs {
		a := &n.Attrs[i]
		if a.Name.URI != "" && a.Name.URI != xmldom.XMLNSURI {
			a.Prefix = targetRoot.DeclareNamespace(prefixOr(a.Prefix, "ns"), a.Name.URI)
		}
	}
	for _, c := range n.Children {
		adoptNamespaces(c, targetRoot)
	}
}

func prefixOr(prefix, fallback string) string {
	if prefix != "" {
		return prefix
	}
	return fallback
}

func displayName(x *xmldom.Element) string {
	if x.Prefix != "" {
		return x.Prefix + ":" + x.Name.Local
	}
	return x.Name.Local
}
