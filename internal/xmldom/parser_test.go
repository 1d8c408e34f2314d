package xmldom

import (
	"strings"
	"testing"
)

const sampleManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.example.app">
    <!-- the app -->
    <application android:name=".App">
        <activity android:name=".Main" />
    </application>
    <uses-permission android:name="android.permission.CAMERA" />
</manifest>
`

func TestParse_Structure(t *testing.T) {
	doc, err := Parse([]byte(sampleManifest), "AndroidManifest.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	root := doc.Root
	if root.Name.Local != "manifest" {
		t.Fatalf("root name = %q, expected %q", root.Name.Local, "manifest")
	}
	if got, ok := root.Attribute(LocalName("package")); !ok || got != "com.example.app" {
		t.Errorf("package attr = %q (ok=%v), expected com.example.app", got, ok)
	}
	if len(root.Namespaces) != 1 || root.Namespaces[0].Prefix != "android" {
		t.Fatalf("root namespaces = %v, expected android prefix declaration", root.Namespaces)
	}

	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, expected 2", len(root.Children))
	}

	app := root.Children[0]
	if app.Name.Local != "application" {
		t.Errorf("first child = %q, expected application", app.Name.Local)
	}
	if got, ok := app.Attribute(Name(AndroidURI, "name")); !ok || got != ".App" {
		t.Errorf("application android:name = %q (ok=%v), expected .App", got, ok)
	}
	if len(app.Comments) != 1 || !strings.Contains(app.Comments[0], "the app") {
		t.Errorf("application comments = %v, expected leading comment", app.Comments)
	}
	if app.Attrs[0].Prefix != "android" {
		t.Errorf("attribute prefix = %q, expected android", app.Attrs[0].Prefix)
	}

	if app.Parent != root || app.Doc != doc {
		t.Error("parent/document links not set on children")
	}
}

func TestParse_Positions(t *testing.T) {
	doc, err := Parse([]byte(sampleManifest), "AndroidManifest.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := doc.Root.Pos.Line; got != 2 {
		t.Errorf("manifest line = %d, expected 2", got)
	}
	app := doc.Root.Children[0]
	if app.Pos.Line != 5 || app.Pos.Column != 5 {
		t.Errorf("application position = %s, expected 5:5", app.Pos)
	}
	perm := doc.Root.Children[1]
	if perm.Pos.Line != 8 {
		t.Errorf("uses-permission line = %d, expected 8", perm.Pos.Line)
	}
	if loc := app.Location(); loc != "AndroidManifest.xml:5:5" {
		t.Errorf("Location() = %q", loc)
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("<manifest><application></manifest>"), "bad.xml")
	if err == nil {
		t.Fatal("Parse() on mismatched tags succeeded, expected error")
	}
	if !strings.Contains(err.Error(), "bad.xml") {
		t.Errorf("error %q does not name the source", err)
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("  \n"), "empty.xml")
	if err == nil {
		t.Fatal("Parse() on empty input succeeded, expected error")
	}
}

func TestParse_Text(t *testing.T) {
	doc, err := Parse([]byte("<a><b>hello</b></a>"), "t.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := doc.Root.Children[0].Text; got != "hello" {
		t.Errorf("text = %q, expected hello", got)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleManifest), "AndroidManifest.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out := Serialize(doc)
	for _, want := range []string{
		`xmlns:android="http://schemas.android.com/apk/res/android"`,
		`package="com.example.app"`,
		`<!-- the app -->`,
		`android:name=".Main"`,
		`<uses-permission android:name="android.permission.CAMERA" />`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized output missing %q\n%s", want, out)
		}
	}

	// The output must itself parse to the same structure.
	doc2, err := Parse([]byte(out), "roundtrip.xml")
	if err != nil {
		t.Fatalf("reparse error = %v", err)
	}
	if len(doc2.Root.Children) != len(doc.Root.Children) {
		t.Errorf("round-trip child count = %d, expected %d",
			len(doc2.Root.Children), len(doc.Root.Children))
	}
}

func TestLineIndex(t *testing.T) {
	idx := newLineIndex([]byte("ab\ncd\n\nef"))

	tests := []struct {
		offset int64
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, tt := range tests {
		pos := idx.position(tt.offset)
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("position(%d) = %d:%d, expected %d:%d",
				tt.offset, pos.Line, pos.Column, tt.line, tt.column)
		}
	}
}
