package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_RoundTrip(t *testing.T) {
	p := NewOSFileSystem()
	target := filepath.Join(t.TempDir(), "out", "AndroidManifest.xml")

	if p.Exists(target) {
		t.Fatal("target exists before write")
	}
	if err := p.WriteFile(target, []byte("<manifest />")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !p.Exists(target) {
		t.Error("Exists() = false after write")
	}

	content, err := p.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "<manifest />" {
		t.Errorf("content = %q", content)
	}

	info, err := p.Stat(target)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() != int64(len("<manifest />")) {
		t.Errorf("Size() = %d", info.Size())
	}

	if _, err := p.ReadFile(filepath.Join(t.TempDir(), "missing.xml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, expected not-exist", err)
	}
}

func TestMemoryFileSystem(t *testing.T) {
	m := NewMemoryFileSystem()
	m.AddFile("app/AndroidManifest.xml", []byte("<manifest />"))

	content, err := m.ReadFile("app/AndroidManifest.xml")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "<manifest />" {
		t.Errorf("content = %q", content)
	}

	// Mutating the returned slice must not affect the stored file.
	content[0] = 'X'
	again, _ := m.ReadFile("app/AndroidManifest.xml")
	if string(again) != "<manifest />" {
		t.Error("stored content aliased by a read")
	}

	if _, err := m.ReadFile("nope.xml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v", err)
	}
	if m.Exists("nope.xml") {
		t.Error("Exists(missing) = true")
	}

	if err := m.WriteFile("out/merged.xml", []byte("x")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	info, err := m.Stat("out/merged.xml")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Name() != "merged.xml" || info.Size() != 1 {
		t.Errorf("Stat() = %s/%d", info.Name(), info.Size())
	}
}
