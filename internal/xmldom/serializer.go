package xmldom

import (
	"encoding/xml"
	"strings"
)

const indentUnit = "    "

// lineSink receives serialized output one line at a time, tagged with the
// element that produced the line.
type lineSink interface {
	line(owner *Element, text string)
}

type plainSink struct{ b strings.Builder }

func (s *plainSink) line(_ *Element, text string) {
	s.b.WriteString(text)
	s.b.WriteString("\n")
}

type indexedSink struct {
	plainSink
	owners []*Element
}

func (s *indexedSink) line(owner *Element, text string) {
	s.plainSink.line(owner, text)
	s.owners = append(s.owners, owner)
}

// Serialize renders the document as XML text with a standard declaration
// and four-space indentation. Leading comments re-emit ahead of their
// element; attribute and namespace order is preserved.
func Serialize(doc *Document) string {
	var s plainSink
	s.line(nil, `<?xml version="1.0" encoding="utf-8"?>`)
	if doc.Root != nil {
		writeElement(&s, doc.Root, 0)
	}
	return s.b.String()
}

// SerializeWithIndex renders the document like Serialize and additionally
// reports, for every output line, the element that produced it: line i
// (1-based) of the text was produced by owners[i-1]. The XML declaration
// has no owner.
func SerializeWithIndex(doc *Document) (string, []*Element) {
	var s indexedSink
	s.line(nil, `<?xml version="1.0" encoding="utf-8"?>`)
	if doc.Root != nil {
		writeElement(&s, doc.Root, 0)
	}
	return s.b.String(), s.owners
}

// SerializeElement renders a single element subtree without the XML
// declaration. Used by diagnostics that quote a node.
func SerializeElement(e *Element) string {
	var s plainSink
	writeElement(&s, e, 0)
	return s.b.String()
}

func writeElement(s lineSink, e *Element, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	for _, comment := range e.Comments {
		s.line(e, indent+"<!--"+comment+"-->")
	}

	var open strings.Builder
	open.WriteString(indent)
	open.WriteString("<")
	open.WriteString(qualifiedName(e.Prefix, e.Name.Local))

	for _, ns := range e.Namespaces {
		open.WriteString(" ")
		if ns.Prefix == "" {
			open.WriteString("xmlns")
		} else {
			open.WriteString("xmlns:" + ns.Prefix)
		}
		open.WriteString(`="`)
		open.WriteString(escape(ns.URI))
		open.WriteString(`"`)
	}

	for _, a := range e.Attrs {
		open.WriteString(" ")
		open.WriteString(qualifiedName(a.Prefix, a.Name.Local))
		open.WriteString(`="`)
		open.WriteString(escape(a.Value))
		open.WriteString(`"`)
	}

	closeTag := "</" + qualifiedName(e.Prefix, e.Name.Local) + ">"

	if len(e.Children) == 0 {
		if e.Text == "" {
			s.line(e, open.String()+" />")
		} else {
			s.line(e, open.String()+">"+escape(e.Text)+closeTag)
		}
		return
	}

	openLine := open.String() + ">"
	if e.Text != "" {
		openLine += escape(e.Text)
	}
	s.line(e, openLine)
	for _, c := range e.Children {
		writeElement(s, c, depth+1)
	}
	s.line(e, indent+closeTag)
}

func qualifiedName(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
