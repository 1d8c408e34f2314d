package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListTemplates(t *testing.T) {
	templates, err := ListTemplates()
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	want := map[string]bool{"basic": false, "library": false}
	for _, name := range templates {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("template %q missing from %v", name, templates)
		}
	}
}

func TestCreateProject_Basic(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app")
	s := NewScaffolder(false)

	if err := s.CreateProject("com.example.app", "basic", target); err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	manifest, err := os.ReadFile(filepath.Join(target, "AndroidManifest.xml"))
	if err != nil {
		t.Fatalf("manifest not created: %v", err)
	}
	if !strings.Contains(string(manifest), `package="com.example.app"`) {
		t.Errorf("package token not substituted:\n%s", manifest)
	}
	if !strings.Contains(string(manifest), "${applicationId}") {
		t.Error("runtime placeholder must survive scaffolding")
	}
	if strings.Contains(string(manifest), "{{package}}") {
		t.Error("template token left behind")
	}

	cfg, err := os.ReadFile(filepath.Join(target, "manifmerge.yaml"))
	if err != nil {
		t.Fatalf("config not created: %v", err)
	}
	if !strings.Contains(string(cfg), "com.example.app") {
		t.Errorf("config missing package:\n%s", cfg)
	}
}

func TestCreateProject_UnknownTemplate(t *testing.T) {
	s := NewScaffolder(false)
	if err := s.CreateProject("com.example", "nope", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestCreateProject_NonEmptyTarget(t *testing.T) {
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "existing.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewScaffolder(false)
	err := s.CreateProject("com.example", "basic", target)
	if err == nil {
		t.Fatal("expected error for non-empty target")
	}
	if !strings.Contains(err.Error(), "not empty") {
		t.Errorf("error = %v", err)
	}
}
