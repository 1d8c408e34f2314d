package xmldom

// Attr is one attribute on an element. Attribute order is preserved exactly
// as parsed so that serialization and diagnostics are deterministic.
//
// Attributes carry the position of their owning element's start tag;
// encoding/xml does not expose per-attribute offsets and the element
// position is precise enough for every diagnostic the merger emits.
type Attr struct {
	Name   NodeName
	Prefix string // original prefix, empty for un-prefixed attributes
	Value  string
	Pos    Position
}

// NamespaceDecl is an xmlns declaration carried by an element. An empty
// Prefix is the default namespace declaration.
type NamespaceDecl struct {
	Prefix string
	URI    string
}

// Element is one node of the owned tree. All child manipulation must go
// through the mutation methods so parent and document links stay consistent.
type Element struct {
	Name       NodeName
	Prefix     string
	Attrs      []Attr
	Namespaces []NamespaceDecl
	Children   []*Element
	Comments   []string // XML comments immediately preceding this element
	Text       string   // non-whitespace character data, concatenated
	Pos        Position

	// Origin is the source name of the document this element was parsed
	// from. Unlike Doc it survives Clone and reparenting, so provenance is
	// preserved for elements imported across documents.
	Origin string

	Parent *Element
	Doc    *Document
}

// Document owns one parsed XML tree and names it for diagnostics.
type Document struct {
	Root *Element

	// SourceName is the file path or logical identifier of the input this
	// tree was parsed from. It prefixes every position in error messages.
	SourceName string
}

// NewElement creates a detached element with the given name.
func NewElement(name NodeName, prefix string) *Element {
	return &Element{Name: name, Prefix: prefix}
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name NodeName) (string, bool) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			return e.Attrs[i].Value, true
		}
	}
	return "", false
}

// AttributeNode returns the named attribute record, or nil.
func (e *Element) AttributeNode(name NodeName) *Attr {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			return &e.Attrs[i]
		}
	}
	return nil
}

// SetAttribute sets or replaces an attribute. New attributes append at the
// end, keeping the original order of everything already present.
func (e *Element) SetAttribute(name NodeName, prefix, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Prefix: prefix, Value: value, Pos: e.Pos})
}

// RemoveAttribute deletes the named attribute. Returns false if absent.
func (e *Element) RemoveAttribute(name NodeName) bool {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// AppendChild adopts child as the last child of e.
func (e *Element) AppendChild(child *Element) {
	child.Parent = e
	child.setDocument(e.Doc)
	e.Children = append(e.Children, child)
}

// InsertChildBefore adopts child immediately before ref. If ref is nil or
// not a child of e, the child is appended instead.
func (e *Element) InsertChildBefore(child, ref *Element) {
	child.Parent = e
	child.setDocument(e.Doc)
	for i, c := range e.Children {
		if c == ref {
			e.Children = append(e.Children[:i], append([]*Element{child}, e.Children[i:]...)...)
			return
		}
	}
	e.Children = append(e.Children, child)
}

// RemoveChild detaches child from e. Returns false if child is not a child
// of e.
func (e *Element) RemoveChild(child *Element) bool {
	for i, c := range e.Children {
		if c == child {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			child.Parent = nil
			child.setDocument(nil)
			return true
		}
	}
	return false
}

func (e *Element) setDocument(doc *Document) {
	e.Doc = doc
	for _, c := range e.Children {
		c.setDocument(doc)
	}
}

// Clone returns a detached deep copy of e, including attributes, namespace
// declarations, leading comments, text and all descendants. Positions are
// preserved so provenance survives the copy.
func (e *Element) Clone() *Element {
	dup := &Element{
		Name:   e.Name,
		Prefix: e.Prefix,
		Text:   e.Text,
		Pos:    e.Pos,
		Origin: e.SourceName(),
	}
	if len(e.Attrs) > 0 {
		dup.Attrs = make([]Attr, len(e.Attrs))
		copy(dup.Attrs, e.Attrs)
	}
	if len(e.Namespaces) > 0 {
		dup.Namespaces = make([]NamespaceDecl, len(e.Namespaces))
		copy(dup.Namespaces, e.Namespaces)
	}
	if len(e.Comments) > 0 {
		dup.Comments = make([]string, len(e.Comments))
		copy(dup.Comments, e.Comments)
	}
	for _, c := range e.Children {
		dup.AppendChild(c.Clone())
	}
	return dup
}

// SourceName returns the source this element was parsed from, falling back
// to the owning document's name. Empty for synthesized detached elements.
func (e *Element) SourceName() string {
	if e.Origin != "" {
		return e.Origin
	}
	if e.Doc == nil {
		return ""
	}
	return e.Doc.SourceName
}

// Location renders "source:line:column" for diagnostics.
func (e *Element) Location() string {
	src := e.SourceName()
	if src == "" {
		src = "<unknown>"
	}
	return src + ":" + e.Pos.String()
}

// PrefixForURI resolves the prefix bound to a namespace URI at this element,
// walking ancestor declarations. The second return is false when the URI is
// not in scope.
func (e *Element) PrefixForURI(uri string) (string, bool) {
	for node := e; node != nil; node = node.Parent {
		for _, ns := range node.Namespaces {
			if ns.URI == uri {
				return ns.Prefix, true
			}
		}
	}
	return "", false
}

// LookupNamespaceURI resolves a prefix to its namespace URI at this element.
func (e *Element) LookupNamespaceURI(prefix string) (string, bool) {
	for node := e; node != nil; node = node.Parent {
		for _, ns := range node.Namespaces {
			if ns.Prefix == prefix {
				return ns.URI, true
			}
		}
	}
	return "", false
}

// DeclareNamespace records an xmlns declaration on e if the URI is not
// already in scope. Returns the prefix in effect for the URI.
func (e *Element) DeclareNamespace(prefix, uri string) string {
	if existing, ok := e.PrefixForURI(uri); ok {
		return existing
	}
	// Avoid shadowing an in-scope prefix with a different URI.
	base := prefix
	for i := 1; ; i++ {
		if _, taken := e.LookupNamespaceURI(prefix); !taken {
			break
		}
		prefix = base + "x"
		if i > 1 {
			prefix = base + string(rune('0'+i))
		}
	}
	e.Namespaces = append(e.Namespaces, NamespaceDecl{Prefix: prefix, URI: uri})
	return prefix
}
