package report

import (
	"path/filepath"
	"testing"
)

func TestRecorder_ActionsAndMessages(t *testing.T) {
	rec := NewRecorder()

	locA := Location{Source: "AndroidManifest.xml", Line: 5, Column: 5}
	locB := Location{Source: "lib/AndroidManifest.xml", Line: 3, Column: 5}

	rec.RecordAction("uses-permission#CAMERA", ActionAdded, locB, "")
	rec.RecordMergeAction("application", ActionMerged, locA, locB, "")
	rec.RecordAction("uses-permission#SMS", ActionRejected, locB, "removed by tools:node=removeAll")
	rec.Info(locA, "merging document %s", "lib")

	if rec.HasErrors() {
		t.Error("HasErrors() = true with only INFO messages")
	}
	if rec.ActionCount() != 3 {
		t.Errorf("ActionCount() = %d, expected 3", rec.ActionCount())
	}

	rep := rec.Build("abc123")
	if rep.Result != SeverityInfo {
		t.Errorf("Result = %v, expected INFO", rep.Result)
	}
	if rep.Digest != "abc123" {
		t.Errorf("Digest = %q", rep.Digest)
	}
	if rep.RunID == "" {
		t.Error("RunID is empty")
	}

	merged := rep.ActionsFor("application")
	if len(merged) != 1 || merged[0].Action != ActionMerged {
		t.Fatalf("ActionsFor(application) = %v", merged)
	}
	if merged[0].MergedFrom == nil || merged[0].MergedFrom.Source != "lib/AndroidManifest.xml" {
		t.Errorf("MergedFrom = %v", merged[0].MergedFrom)
	}
}

func TestRecorder_Severities(t *testing.T) {
	loc := Location{Source: "a.xml", Line: 1, Column: 1}

	rec := NewRecorder()
	rec.Warning(loc, "suspicious")
	if rec.HasErrors() {
		t.Error("HasErrors() = true after warning only")
	}
	if got := rec.Build("").Result; got != SeverityWarning {
		t.Errorf("Result = %v, expected WARNING", got)
	}

	rec.Error(loc, "attribute %s conflicts", "android:icon")
	if !rec.HasErrors() {
		t.Error("HasErrors() = false after error")
	}
	rep := rec.Build("")
	if rep.Result != SeverityError {
		t.Errorf("Result = %v, expected ERROR", rep.Result)
	}
	if !rep.HasErrors() {
		t.Error("report HasErrors() = false")
	}
	if errs := rep.Errors(); len(errs) != 1 || errs[0].Text != "attribute android:icon conflicts" {
		t.Errorf("Errors() = %v", errs)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{Source: "a.xml", Line: 3, Column: 7}, "a.xml:3:7"},
		{Location{Source: "a.xml"}, "a.xml"},
		{Location{}, "<unknown>"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("String() = %q, expected %q", got, tt.want)
		}
	}
}

func TestReport_SaveLoad(t *testing.T) {
	rec := NewRecorder()
	loc := Location{Source: "AndroidManifest.xml", Line: 2, Column: 1}
	rec.RecordAction("manifest", ActionMerged, loc, "")
	rec.Error(loc, "boom")
	rep := rec.Build("deadbeef")

	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := rep.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.RunID != rep.RunID {
		t.Errorf("RunID = %q, expected %q", loaded.RunID, rep.RunID)
	}
	if loaded.Result != SeverityError || !loaded.HasErrors() {
		t.Errorf("loaded result = %v", loaded.Result)
	}
	if len(loaded.Actions) != 1 || loaded.Actions[0].Target != "manifest" {
		t.Errorf("loaded actions = %v", loaded.Actions)
	}
	if loaded.Digest != "deadbeef" {
		t.Errorf("loaded digest = %q", loaded.Digest)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() on missing file succeeded")
	}
}
