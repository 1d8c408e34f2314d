package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apkforge/manifmerge/internal/schema"
	"github.com/apkforge/manifmerge/internal/xmldom"
)

// Diff compares two elements structurally and returns a human-readable
// description of the first difference found, or "" when the trees are equal.
// Merge instructions and namespace declarations are ignored; attribute sets
// must match value for value in both directions; children match by type and
// key, or by best-effort structural match for keyless kinds. Comments and
// whitespace never count.
func Diff(a, b *xmldom.Element) string {
	if a.Name != b.Name {
		return fmt.Sprintf("element %s at %s does not have the same name as %s at %s",
			displayName(a), a.Location(), displayName(b), b.Location())
	}

	if a.Text != b.Text {
		return fmt.Sprintf("element %s text content differs: %q at %s, %q at %s",
			displayName(a), a.Text, a.Location(), b.Text, b.Location())
	}

	if diff := diffAttributes(a, b); diff != "" {
		return diff
	}
	if diff := diffAttributes(b, a); diff != "" {
		return diff
	}

	return diffChildren(a, b)
}

// diffAttributes reports attributes of a that are missing or differ in b.
func diffAttributes(a, b *xmldom.Element) string {
	for i := range a.Attrs {
		attr := &a.Attrs[i]
		if attr.Name.InNamespace(xmldom.ToolsURI) {
			continue
		}
		other, ok := b.Attribute(attr.Name)
		if !ok {
			return fmt.Sprintf("attribute %s declared at %s is missing at %s",
				attrDisplay(attr), a.Location(), b.Location())
		}
		if other != attr.Value {
			return fmt.Sprintf("attribute %s value=(%s) at %s differs from value=(%s) at %s",
				attrDisplay(attr), attr.Value, a.Location(), other, b.Location())
		}
	}
	return ""
}

func diffChildren(a, b *xmldom.Element) string {
	if len(a.Children) != len(b.Children) {
		return fmt.Sprintf("element %s has %d children at %s (%s) but %d at %s (%s)",
			displayName(a),
			len(a.Children), a.Location(), childNames(a),
			len(b.Children), b.Location(), childNames(b))
	}

	used := make([]bool, len(b.Children))
	for _, ac := range a.Children {
		kind := schema.KindFor(ac.Name)
		if len(kind.KeyAttributes) > 0 {
			idx := findByKey(b.Children, used, ac, kind)
			if idx < 0 {
				return fmt.Sprintf("child %s at %s has no matching child at %s",
					childID(ac, kind), ac.Location(), b.Location())
			}
			if diff := Diff(ac, b.Children[idx]); diff != "" {
				return diff
			}
			used[idx] = true
			continue
		}
		idx := findEqual(b.Children, used, ac)
		if idx < 0 {
			return fmt.Sprintf("child %s at %s has no structurally equal child at %s",
				displayName(ac), ac.Location(), b.Location())
		}
		used[idx] = true
	}
	return ""
}

func findByKey(candidates []*xmldom.Element, used []bool, target *xmldom.Element, kind *schema.NodeKind) int {
	targetKey, targetHas := kind.Key(target)
	for i, c := range candidates {
		if used[i] || c.Name != target.Name {
			continue
		}
		key, has := kind.Key(c)
		if has == targetHas && key == targetKey {
			return i
		}
	}
	return -1
}

func findEqual(candidates []*xmldom.Element, used []bool, target *xmldom.Element) int {
	for i, c := range candidates {
		if used[i] || c.Name != target.Name {
			continue
		}
		if Diff(target, c) == "" {
			return i
		}
	}
	return -1
}

func childNames(e *xmldom.Element) string {
	counts := map[string]int{}
	for _, c := range e.Children {
		counts[displayName(c)]++
	}
	names := make([]string, 0, len(counts))
	for name, n := range counts {
		if n > 1 {
			name = fmt.Sprintf("%s x%d", name, n)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func childID(x *xmldom.Element, kind *schema.NodeKind) string {
	id := displayName(x)
	if key, ok := kind.Key(x); ok {
		id += "#" + key
	}
	return id
}

func attrDisplay(a *xmldom.Attr) string {
	if a.Prefix != "" {
		return a.Prefix + ":" + a.Name.Local
	}
	return a.Name.Local
}
