package xmldom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoRootElement is returned when the input contains no element at all.
var ErrNoRootElement = errors.New("no root element")

// Parse builds a position-tracked element tree from raw XML bytes.
// sourceName labels every position in subsequent diagnostics and becomes the
// document's SourceName.
//
// The parser keeps element structure, attributes, namespace declarations,
// leading comments and non-whitespace character data. Processing
// instructions and directives are discarded; the merger neither inspects nor
// re-emits them.
func Parse(data []byte, sourceName string) (*Document, error) {
	doc := &Document{SourceName: sourceName}
	idx := newLineIndex(data)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var stack []*Element
	var pendingComments []string

	for {
		start := decoder.InputOffset()
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapSyntaxError(err, sourceName)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			elem := &Element{
				Pos:      idx.position(start),
				Comments: pendingComments,
				Origin:   sourceName,
			}
			pendingComments = nil

			// Namespace declarations first so prefix resolution for the
			// element and attribute names sees them.
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "xmlns":
					elem.Namespaces = append(elem.Namespaces, NamespaceDecl{Prefix: a.Name.Local, URI: a.Value})
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					elem.Namespaces = append(elem.Namespaces, NamespaceDecl{URI: a.Value})
				}
			}

			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("%s:%s: multiple root elements", sourceName, elem.Pos)
				}
				elem.Doc = doc
				doc.Root = elem
			} else {
				stack[len(stack)-1].AppendChild(elem)
			}

			elem.Name = Name(t.Name.Space, t.Name.Local)
			if prefix, ok := elem.PrefixForURI(t.Name.Space); ok {
				elem.Prefix = prefix
			}

			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				attr := Attr{
					Name:  Name(a.Name.Space, a.Name.Local),
					Value: a.Value,
					Pos:   elem.Pos,
				}
				if a.Name.Space != "" {
					if prefix, ok := elem.PrefixForURI(a.Name.Space); ok {
						attr.Prefix = prefix
					} else {
						// encoding/xml leaves unbound prefixes in Space.
						attr.Prefix = a.Name.Space
					}
				}
				elem.Attrs = append(elem.Attrs, attr)
			}

			stack = append(stack, elem)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			pendingComments = nil

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" || len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if top.Text != "" {
				top.Text += "\n"
			}
			top.Text += text

		case xml.Comment:
			pendingComments = append(pendingComments, string(t))
		}
	}

	if doc.Root == nil {
		return nil, fmt.Errorf("%s: %w", sourceName, ErrNoRootElement)
	}
	return doc, nil
}

// wrapSyntaxError attaches the source name and, when available, the line
// number reported by encoding/xml.
func wrapSyntaxError(err error, sourceName string) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%s:%d: malformed XML: %w", sourceName, syntaxErr.Line, err)
	}
	return fmt.Errorf("%s: malformed XML: %w", sourceName, err)
}
