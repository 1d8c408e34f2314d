package instructions

// Selector scopes a merge instruction to elements originating from one
// library. The value is the library identifier exactly as the build names
// it (e.g. "com.example:lib" or a project path).
type Selector string

// Resolvable reports whether the selector names a library known to the
// merge run. An unresolvable selector on an element is an error surfaced in
// the report.
func (s Selector) Resolvable(known map[string]bool) bool {
	return known[string(s)]
}

// AppliesTo reports whether an element originating from the document
// identified by libraryName falls under this selector.
func (s Selector) AppliesTo(libraryName string) bool {
	return string(s) == libraryName
}

// String returns the raw selector value.
func (s Selector) String() string {
	return string(s)
}
