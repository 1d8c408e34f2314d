// Package xmldom implements the owned XML element tree the merge engine
// operates on: namespace-qualified names, elements with ordered attributes,
// source positions for every node, and position-aware parsing built on
// encoding/xml.
//
// The tree is deliberately not a general-purpose DOM. It keeps exactly what
// manifest merging needs: element structure, attributes, leading comments,
// and namespace declarations. Mixed content other than whitespace and
// comments is preserved verbatim on the owning element.
package xmldom

import "strings"

// Well-known namespace URIs used throughout manifest processing.
const (
	// AndroidURI is the namespace of framework attributes (android:name, ...).
	AndroidURI = "http://schemas.android.com/apk/res/android"

	// ToolsURI is the reserved namespace carrying merge instructions
	// (tools:node, tools:selector, ...). Attributes in this namespace never
	// survive into merged output and are excluded from structural comparison.
	ToolsURI = "http://schemas.android.com/tools"

	// DistURI is the app-bundle distribution namespace. Elements under it are
	// schema-known but carry no merge-relevant attributes of their own.
	DistURI = "http://schemas.android.com/apk/distribution"

	// XMLNSURI is the namespace of namespace declarations themselves.
	XMLNSURI = "http://www.w3.org/2000/xmlns/"
)

// NodeName identifies an XML element or attribute by namespace URI and local
// name. The zero value (no namespace, empty local name) is not a valid name.
//
// Names are value types and are used directly as map keys; two names are the
// same name iff both URI and local part match. Un-prefixed attributes belong
// to no namespace and have an empty URI.
type NodeName struct {
	URI   string
	Local string
}

// Name builds a namespaced NodeName.
func Name(uri, local string) NodeName {
	return NodeName{URI: uri, Local: local}
}

// LocalName builds a NodeName outside any namespace.
func LocalName(local string) NodeName {
	return NodeName{Local: local}
}

// InNamespace reports whether the name belongs to the given namespace URI.
func (n NodeName) InNamespace(uri string) bool {
	return n.URI == uri
}

// IsEmpty reports whether the name has no local part.
func (n NodeName) IsEmpty() bool {
	return n.Local == ""
}

// String renders the name for diagnostics. Namespaced names render as
// "{uri}local" so messages stay unambiguous without a prefix table.
func (n NodeName) String() string {
	if n.URI == "" {
		return n.Local
	}
	return "{" + n.URI + "}" + n.Local
}

// Compare orders names by URI first, then local part. It exists so that
// diagnostic output listing attributes is deterministic.
func (n NodeName) Compare(other NodeName) int {
	if c := strings.Compare(n.URI, other.URI); c != 0 {
		return c
	}
	return strings.Compare(n.Local, other.Local)
}
