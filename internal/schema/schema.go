// Package schema declares the merge policy model: for every known manifest
// element it states how same-typed elements from two documents combine, how
// element identity is keyed, and which attributes carry implicit default
// values. The merge engine consults this package and contains no per-element
// knowledge of its own.
package schema

import (
	"fmt"

	"github.com/apkforge/manifmerge/internal/xmldom"
)

// MergeType governs what happens when elements of the same kind and key
// exist in two documents being merged.
type MergeType int

const (
	// MergeTypeMerge combines the two elements attribute by attribute and
	// recurses into children. The default policy.
	MergeTypeMerge MergeType = iota

	// MergeTypeConflict forbids the element from appearing in more than one
	// input document; a collision is an error.
	MergeTypeConflict

	// MergeTypeAlways lets instances coexist side by side; only exact
	// structural duplicates collapse to one.
	MergeTypeAlways

	// MergeTypeIgnore drops lower-priority instances silently.
	MergeTypeIgnore

	// MergeTypeMergeChildrenOnly merges children but never imports the
	// lower-priority element's attributes. Used by the manifest root, whose
	// attributes (package, versionCode) must not leak across library
	// boundaries.
	MergeTypeMergeChildrenOnly
)

// String returns a human-readable name for the merge type.
func (m MergeType) String() string {
	switch m {
	case MergeTypeMerge:
		return "merge"
	case MergeTypeConflict:
		return "conflict"
	case MergeTypeAlways:
		return "always"
	case MergeTypeIgnore:
		return "ignore"
	case MergeTypeMergeChildrenOnly:
		return "mergeChildrenOnly"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// NodeOperation is a per-element merge instruction, parsed from tools:node.
// The zero value is the default behavior when no instruction is present.
type NodeOperation int

const (
	// OpMerge merges attributes and children (default).
	OpMerge NodeOperation = iota

	// OpMergeOnlyAttributes merges attributes but drops lower-priority
	// children.
	OpMergeOnlyAttributes

	// OpMergeChildrenOnly merges children but ignores lower-priority
	// attributes.
	OpMergeChildrenOnly

	// OpReplace discards the lower-priority element entirely.
	OpReplace

	// OpRemove removes the element and suppresses the lower-priority one.
	OpRemove

	// OpRemoveAll removes all lower-priority elements of this kind
	// (optionally scoped by a selector).
	OpRemoveAll

	// OpStrict requires lower-priority elements to be structurally equal.
	OpStrict
)

var nodeOperationNames = map[NodeOperation]string{
	OpMerge:               "merge",
	OpMergeOnlyAttributes: "mergeOnlyAttributes",
	OpMergeChildrenOnly:   "mergeChildrenOnly",
	OpReplace:             "replace",
	OpRemove:              "remove",
	OpRemoveAll:           "removeAll",
	OpStrict:              "strict",
}

// String returns the tools:node spelling of the operation.
func (op NodeOperation) String() string {
	if name, ok := nodeOperationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(op))
}

// NodeOperationFromString resolves a tools:node attribute value. The second
// return is false for unknown values; the caller decides whether that is a
// hard failure.
func NodeOperationFromString(s string) (NodeOperation, bool) {
	for op, name := range nodeOperationNames {
		if name == s {
			return op, true
		}
	}
	return OpMerge, false
}

// NodeOperationNames lists every valid tools:node value, for error messages.
func NodeOperationNames() []string {
	names := make([]string, 0, len(nodeOperationNames))
	for op := OpMerge; op <= OpStrict; op++ {
		names = append(names, nodeOperationNames[op])
	}
	return names
}

// AttributeOperation is a per-attribute merge instruction. The default is
// strict value comparison.
type AttributeOperation int

const (
	// AttrOpStrict errors when the two documents disagree on the value.
	AttrOpStrict AttributeOperation = iota

	// AttrOpReplace keeps the higher-priority value without comparison.
	AttrOpReplace

	// AttrOpRemove removes the attribute and suppresses lower-priority
	// values.
	AttrOpRemove
)

// String returns the tools: attribute spelling of the operation.
func (op AttributeOperation) String() string {
	switch op {
	case AttrOpStrict:
		return "strict"
	case AttrOpReplace:
		return "replace"
	case AttrOpRemove:
		return "remove"
	default:
		return fmt.Sprintf("Unknown(%d)", int(op))
	}
}

// AttributeModel declares merge policy for one attribute of a node kind.
type AttributeModel struct {
	Name xmldom.NodeName

	// DefaultValue is the value the runtime assumes when the attribute is
	// absent, or nil when there is none. An explicit attribute on one side
	// reconciles against the other side's default.
	DefaultValue *string

	// Operation is the conflict policy when both sides declare the
	// attribute explicitly.
	Operation AttributeOperation
}

// NodeKind is the merge policy record for one element tag.
type NodeKind struct {
	// Name is the element tag. Known kinds live in the empty namespace
	// except the distribution elements.
	Name xmldom.NodeName

	MergeType MergeType

	// MultipleDeclarations allows several same-keyed instances to coexist.
	MultipleDeclarations bool

	// KeyAttributes identify an instance across documents. Empty means the
	// element is single-instance (or identity-free under ALWAYS).
	KeyAttributes []xmldom.NodeName

	// Attributes are the declared attribute models. Attributes not listed
	// merge with strict comparison and no default.
	Attributes []AttributeModel

	// Custom marks elements in namespaces unknown to the model; they pass
	// through merges verbatim and are never matched against anything.
	Custom bool
}

// AttributeModelFor returns the model declared for the attribute, or nil.
func (k *NodeKind) AttributeModelFor(name xmldom.NodeName) *AttributeModel {
	for i := range k.Attributes {
		if k.Attributes[i].Name == name {
			return &k.Attributes[i]
		}
	}
	return nil
}

// Key computes the identity key of an element of this kind from its
// attribute values. Elements missing all key attributes have a null key
// (ok=false) and only match other null-keyed elements of the same kind.
func (k *NodeKind) Key(elem *xmldom.Element) (string, bool) {
	if len(k.KeyAttributes) == 0 {
		return "", false
	}
	key := ""
	found := false
	for _, name := range k.KeyAttributes {
		if v, ok := elem.Attribute(name); ok {
			if found {
				key += "+"
			}
			key += v
			found = true
		}
	}
	return key, found
}
