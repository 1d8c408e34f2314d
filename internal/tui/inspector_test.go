package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/apkforge/manifmerge/internal/report"
)

func sampleReport() *report.Report {
	return &report.Report{
		RunID:  "run-1",
		Result: report.SeverityError,
		Digest: "abc123",
		Actions: []report.Record{
			{Target: "uses-permission#android.permission.CAMERA", Action: report.ActionAdded,
				Location: report.Location{Source: "lib.xml", Line: 3, Column: 5}},
			{Target: "activity#.Main", Action: report.ActionMerged,
				Location: report.Location{Source: "main.xml", Line: 7, Column: 5}},
			{Target: "activity#.Legacy", Action: report.ActionRejected,
				Location: report.Location{Source: "lib.xml", Line: 9, Column: 5}, Reason: "removed by tools:node"},
		},
		Messages: []report.Message{
			{Severity: report.SeverityWarning, Location: report.Location{Source: "main.xml", Line: 1}, Text: "something odd"},
			{Severity: report.SeverityError, Location: report.Location{Source: "lib.xml", Line: 4}, Text: "attribute conflict"},
		},
	}
}

func sized(t *testing.T, m InspectorModel) InspectorModel {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(InspectorModel)
}

func press(m InspectorModel, k string) InspectorModel {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, _ := m.Update(msg)
	return next.(InspectorModel)
}

func TestInspector_OpensOnMessagesWhenErrors(t *testing.T) {
	m := NewInspector(sampleReport())
	if m.active != tabMessages {
		t.Errorf("active tab = %v, expected messages", m.active)
	}
}

func TestInspector_ViewShowsMessages(t *testing.T) {
	m := sized(t, NewInspector(sampleReport()))
	view := m.View()
	if !strings.Contains(view, "attribute conflict") {
		t.Errorf("view missing error message:\n%s", view)
	}
	if !strings.Contains(view, "run-1") {
		t.Errorf("view missing run id:\n%s", view)
	}
}

func TestInspector_TabSwitchesToActions(t *testing.T) {
	m := sized(t, NewInspector(sampleReport()))
	m = press(m, "tab")
	if m.active != tabActions {
		t.Fatalf("active tab = %v after tab key", m.active)
	}
	view := m.View()
	if !strings.Contains(view, "uses-permission#android.permission.CAMERA") {
		t.Errorf("actions view missing target:\n%s", view)
	}
	if !strings.Contains(view, "removed by tools:node") {
		t.Errorf("actions view missing rejection reason:\n%s", view)
	}
}

func TestInspector_CursorNavigation(t *testing.T) {
	m := sized(t, NewInspector(sampleReport()))

	m = press(m, "down")
	if m.cursor[tabMessages] != 1 {
		t.Errorf("cursor = %d after down", m.cursor[tabMessages])
	}
	// Clamped at the last row.
	m = press(m, "down")
	if m.cursor[tabMessages] != 1 {
		t.Errorf("cursor = %d, expected clamp at last message", m.cursor[tabMessages])
	}
	m = press(m, "up")
	m = press(m, "up")
	if m.cursor[tabMessages] != 0 {
		t.Errorf("cursor = %d, expected clamp at 0", m.cursor[tabMessages])
	}
}

func TestInspector_QuitKeys(t *testing.T) {
	m := sized(t, NewInspector(sampleReport()))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not quit")
	}
}

func TestRenderStatic(t *testing.T) {
	out := RenderStatic(sampleReport())
	for _, want := range []string{
		"run-1", "ERROR", "abc123",
		"attribute conflict", "lib.xml:4",
		"ADDED", "uses-permission#android.permission.CAMERA",
		"(removed by tools:node)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("static render missing %q:\n%s", want, out)
		}
	}
}
