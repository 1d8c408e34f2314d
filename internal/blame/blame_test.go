package blame

import (
	"strings"
	"testing"

	"github.com/apkforge/manifmerge/internal/xmldom"
)

func TestFromDocument_ResolvesOrigins(t *testing.T) {
	doc, err := xmldom.Parse([]byte(`<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <uses-permission android:name="android.permission.CAMERA" />
    <application>
        <activity android:name=".Main" />
    </application>
</manifest>`), "main.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	text, m := FromDocument(doc)
	if m.Len() == 0 {
		t.Fatal("empty blame map")
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if !strings.Contains(line, "uses-permission") {
			continue
		}
		entry, ok := m.Resolve(i + 1)
		if !ok {
			t.Fatalf("no blame entry for line %d", i+1)
		}
		if entry.OriginalFile != "main.xml" || entry.OriginalLine != 2 {
			t.Errorf("uses-permission resolved to %s:%d, expected main.xml:2", entry.OriginalFile, entry.OriginalLine)
		}
		if entry.Description != "uses-permission" {
			t.Errorf("description = %q", entry.Description)
		}
	}

	if _, ok := m.Resolve(1); ok {
		t.Error("XML declaration line resolved to an origin")
	}
}

func TestFromDocument_ImportedElementKeepsOrigin(t *testing.T) {
	main, err := xmldom.Parse([]byte(`<manifest />`), "main.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	lib, err := xmldom.Parse([]byte(`<manifest>
    <uses-feature name="android.hardware.camera" />
</manifest>`), "lib.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	main.Root.AppendChild(lib.Root.Children[0].Clone())

	text, m := FromDocument(main)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	found := false
	for i, line := range lines {
		if !strings.Contains(line, "uses-feature") {
			continue
		}
		entry, ok := m.Resolve(i + 1)
		if !ok || entry.OriginalFile != "lib.xml" {
			t.Errorf("imported element resolved to %q, expected lib.xml", entry.OriginalFile)
		}
		found = true
	}
	if !found {
		t.Fatal("imported element missing from output")
	}
}

func TestAnnotate(t *testing.T) {
	doc, err := xmldom.Parse([]byte(`<manifest>
    <application />
</manifest>`), "main.xml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	text, m := FromDocument(doc)

	annotated := m.Annotate(text)
	if !strings.Contains(annotated, "main.xml:2") {
		t.Errorf("annotation missing origin gutter:\n%s", annotated)
	}
	if !strings.Contains(annotated, "| <application />") {
		t.Errorf("annotation missing content column:\n%s", annotated)
	}
}
