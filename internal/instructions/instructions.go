// Package instructions parses the reserved tools: namespace markers that
// steer the merge: the per-element node operation (tools:node), per-attribute
// conflict policies (tools:strict, tools:replace, tools:remove), library
// selectors (tools:selector) and uses-sdk override lists
// (tools:overrideLibrary).
//
// Malformed instructions are contract violations of the input document and
// fail hard with an InstructionError; they are never downgraded to report
// entries. Attributes from other tools that conventionally share the
// namespace (lint's tools:ignore, tools:targetApi, ...) are skipped
// silently.
package instructions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apkforge/manifmerge/internal/schema"
	"github.com/apkforge/manifmerge/internal/xmldom"
)

// Reserved-namespace attribute names understood by the merger.
var (
	NodeAttr            = xmldom.Name(xmldom.ToolsURI, "node")
	SelectorAttr        = xmldom.Name(xmldom.ToolsURI, "selector")
	StrictAttr          = xmldom.Name(xmldom.ToolsURI, "strict")
	ReplaceAttr         = xmldom.Name(xmldom.ToolsURI, "replace")
	RemoveAttr          = xmldom.Name(xmldom.ToolsURI, "remove")
	OverrideLibraryAttr = xmldom.Name(xmldom.ToolsURI, "overrideLibrary")
)

// ignorable lists tools: attributes owned by other tools (lint, resource
// shrinker). Their presence is not an error and not an instruction.
var ignorable = map[string]bool{
	"ignore":    true,
	"targetApi": true,
	"locale":    true,
	"keep":      true,
	"discard":   true,
}

// Set is the parsed merge-instruction state of one element. Field optionality
// is explicit: a nil Operation means "no tools:node present", which merges
// differently from an explicit tools:node="merge" during effective-operation
// propagation.
type Set struct {
	// Operation is the declared node operation, nil when unspecified.
	Operation *schema.NodeOperation

	// AttributeOps maps attribute names to their declared conflict policy.
	// Absent attributes default to strict comparison.
	AttributeOps map[xmldom.NodeName]schema.AttributeOperation

	// Selector scopes Operation to elements from one library, nil when
	// unspecified.
	Selector *Selector

	// OverrideLibraries lists libraries whose minSdk constraints this
	// element (uses-sdk) overrides.
	OverrideLibraries []string
}

// OperationOr returns the declared operation or the given default.
func (s *Set) OperationOr(fallback schema.NodeOperation) schema.NodeOperation {
	if s.Operation == nil {
		return fallback
	}
	return *s.Operation
}

// AttributeOperation returns the conflict policy for one attribute,
// defaulting to strict comparison.
func (s *Set) AttributeOperation(name xmldom.NodeName) schema.AttributeOperation {
	if op, ok := s.AttributeOps[name]; ok {
		return op
	}
	return schema.AttrOpStrict
}

// Parse extracts the instruction set from an element's reserved-namespace
// attributes. The element itself is not modified.
func Parse(elem *xmldom.Element) (*Set, error) {
	set := &Set{AttributeOps: map[xmldom.NodeName]schema.AttributeOperation{}}

	for _, attr := range elem.Attrs {
		if !attr.Name.InNamespace(xmldom.ToolsURI) {
			continue
		}
		switch attr.Name.Local {
		case NodeAttr.Local:
			op, ok := schema.NodeOperationFromString(attr.Value)
			if !ok {
				return nil, &InstructionError{
					Location: elem.Location(),
					Message:  fmt.Sprintf("invalid tools:node value %q", attr.Value),
					Hint:     "Valid operations: " + strings.Join(schema.NodeOperationNames(), ", "),
				}
			}
			set.Operation = &op

		case SelectorAttr.Local:
			if strings.TrimSpace(attr.Value) == "" {
				return nil, &InstructionError{
					Location: elem.Location(),
					Message:  "tools:selector must name a library",
					Hint:     `Example: tools:selector="com.example:library"`,
				}
			}
			sel := Selector(strings.TrimSpace(attr.Value))
			set.Selector = &sel

		case StrictAttr.Local:
			if err := parseAttributeList(elem, attr.Value, schema.AttrOpStrict, set.AttributeOps); err != nil {
				return nil, err
			}
		case ReplaceAttr.Local:
			if err := parseAttributeList(elem, attr.Value, schema.AttrOpReplace, set.AttributeOps); err != nil {
				return nil, err
			}
		case RemoveAttr.Local:
			if err := parseAttributeList(elem, attr.Value, schema.AttrOpRemove, set.AttributeOps); err != nil {
				return nil, err
			}

		case OverrideLibraryAttr.Local:
			for _, lib := range strings.FieldsFunc(attr.Value, func(r rune) bool { return r == ',' || r == ' ' }) {
				set.OverrideLibraries = append(set.OverrideLibraries, strings.TrimSpace(lib))
			}

		default:
			if ignorable[attr.Name.Local] {
				continue
			}
			return nil, &InstructionError{
				Location: elem.Location(),
				Message:  fmt.Sprintf("unknown merge instruction tools:%s", attr.Name.Local),
				Hint:     "Valid instructions: " + strings.Join(validInstructionNames(), ", "),
			}
		}
	}

	return set, nil
}

// parseAttributeList resolves a comma-separated attribute name list.
// Prefixed names resolve through the element's namespace scope; bare names
// refer to the android: namespace, matching how manifests spell them.
func parseAttributeList(elem *xmldom.Element, value string, op schema.AttributeOperation, into map[xmldom.NodeName]schema.AttributeOperation) error {
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return &InstructionError{
				Location: elem.Location(),
				Message:  fmt.Sprintf("empty attribute name in tools:%s list %q", op, value),
				Hint:     `Example: tools:replace="android:icon, android:label"`,
			}
		}
		var name xmldom.NodeName
		if prefix, local, found := strings.Cut(item, ":"); found {
			uri, ok := elem.LookupNamespaceURI(prefix)
			if !ok {
				return &InstructionError{
					Location: elem.Location(),
					Message:  fmt.Sprintf("undeclared namespace prefix %q in tools:%s list", prefix, op),
					Hint:     "Declare the prefix with an xmlns attribute on the manifest element",
				}
			}
			name = xmldom.Name(uri, local)
		} else {
			name = xmldom.Name(xmldom.AndroidURI, item)
		}
		into[name] = op
	}
	return nil
}

func validInstructionNames() []string {
	names := []string{
		NodeAttr.Local,
		SelectorAttr.Local,
		StrictAttr.Local,
		ReplaceAttr.Local,
		RemoveAttr.Local,
		OverrideLibraryAttr.Local,
	}
	sort.Strings(names)
	return names
}
