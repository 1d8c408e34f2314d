package placeholders

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/apkforge/manifmerge/internal/report"
	"github.com/apkforge/manifmerge/internal/xmldom"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

var refPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_.]*)\}`)

// WithDefaults layers the run's placeholder values over the derived
// defaults: applicationId falls back to the merged package name.
func WithDefaults(values map[string]string, packageName string) map[string]string {
	defaults := map[string]string{}
	if packageName != "" {
		defaults[manifmerge.PlaceholderApplicationID] = packageName
	}
	return Layer(defaults, values)
}

// Apply substitutes ${name} references in every attribute value of the
// tree. Substitutions are recorded as INJECTED actions; a reference with no
// value becomes an ERROR entry and is left in place.
func Apply(doc *xmldom.Document, values map[string]string, rec *report.Recorder) {
	if doc.Root == nil {
		return
	}
	applyElement(doc.Root, values, rec)
}

func applyElement(e *xmldom.Element, values map[string]string, rec *report.Recorder) {
	for i := range e.Attrs {
		attr := &e.Attrs[i]
		refs := refPattern.FindAllStringSubmatch(attr.Value, -1)
		if len(refs) == 0 {
			continue
		}

		loc := report.Location{Source: e.SourceName(), Line: attr.Pos.Line, Column: attr.Pos.Column}
		resolved := true
		for _, ref := range refs {
			if _, ok := values[ref[1]]; !ok {
				resolved = false
				rec.Error(loc,
					"placeholder ${%s} in attribute %s of element <%s> has no value; pass --param %s=VALUE or add it to the params file",
					ref[1], attrDisplay(attr), elementDisplay(e), ref[1])
			}
		}
		if !resolved {
			continue
		}

		attr.Value = refPattern.ReplaceAllStringFunc(attr.Value, func(m string) string {
			return values[refPattern.FindStringSubmatch(m)[1]]
		})
		rec.RecordAction(elementDisplay(e)+"/@"+attrDisplay(attr), report.ActionInjected, loc,
			fmt.Sprintf("placeholder substitution, value %q", attr.Value))
	}

	for _, c := range e.Children {
		applyElement(c, values, rec)
	}
}

// ApplyProperties writes direct attribute overrides onto the manifest root.
// Bare names target the android namespace; "package" is the un-namespaced
// package attribute.
func ApplyProperties(doc *xmldom.Document, props map[string]string, rec *report.Recorder) {
	if doc.Root == nil || len(props) == 0 {
		return
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	root := doc.Root
	loc := report.LocationOf(root)
	for _, name := range names {
		value := props[name]
		if name == "package" {
			root.SetAttribute(xmldom.LocalName("package"), "", value)
			rec.RecordAction(elementDisplay(root)+"/@package", report.ActionInjected, loc,
				fmt.Sprintf("property override, value %q", value))
			continue
		}
		prefix := root.DeclareNamespace("android", xmldom.AndroidURI)
		root.SetAttribute(xmldom.Name(xmldom.AndroidURI, name), prefix, value)
		rec.RecordAction(elementDisplay(root)+"/@"+prefix+":"+name, report.ActionInjected, loc,
			fmt.Sprintf("property override, value %q", value))
	}
}

func attrDisplay(a *xmldom.Attr) string {
	if a.Prefix != "" {
		return a.Prefix + ":" + a.Name.Local
	}
	return a.Name.Local
}

func elementDisplay(e *xmldom.Element) string {
	if e.Prefix != "" {
		return e.Prefix + ":" + e.Name.Local
	}
	return e.Name.Local
}
