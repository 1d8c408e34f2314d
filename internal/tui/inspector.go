package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apkforge/manifmerge/internal/report"
)

type tab int

const (
	tabMessages tab = iota
	tabActions
	tabCount
)

func (t tab) title() string {
	switch t {
	case tabMessages:
		return "Messages"
	case tabActions:
		return "Actions"
	default:
		return "?"
	}
}

// InspectorModel is the bubbletea model browsing one merging report: a
// Messages tab with the severity-tagged diagnostics and an Actions tab with
// the per-node decision log.
type InspectorModel struct {
	rep  *report.Report
	keys KeyMap

	active   tab
	cursor   [tabCount]int
	viewport viewport.Model
	ready    bool
}

// NewInspector creates an inspector for the given report. Runs with ERROR
// entries open on the Messages tab; clean runs open on the Actions tab.
func NewInspector(rep *report.Report) InspectorModel {
	m := InspectorModel{rep: rep, keys: DefaultKeyMap()}
	if !rep.HasErrors() && len(rep.Messages) == 0 {
		m.active = tabActions
	}
	return m
}

func (m InspectorModel) Init() tea.Cmd { return nil }

func (m InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Reserve rows for title, tabs and help.
		height := msg.Height - 5
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.active = (m.active + 1) % tabCount
		case key.Matches(msg, m.keys.ShiftTab):
			m.active = (m.active + tabCount - 1) % tabCount
		case key.Matches(msg, m.keys.Up):
			if m.cursor[m.active] > 0 {
				m.cursor[m.active]--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor[m.active] < m.rowCount()-1 {
				m.cursor[m.active]++
			}
		}
	}

	if m.ready {
		m.viewport.SetContent(m.renderRows())
		m.scrollToCursor()
	}
	return m, nil
}

func (m InspectorModel) View() string {
	if !m.ready {
		return "loading report..."
	}
	return strings.Join([]string{
		m.renderHeader(),
		m.renderTabs(),
		m.viewport.View(),
		HelpStyle.Render(m.keys.HelpText()),
	}, "\n")
}

func (m *InspectorModel) rowCount() int {
	if m.active == tabMessages {
		return len(m.rep.Messages)
	}
	return len(m.rep.Actions)
}

func (m *InspectorModel) scrollToCursor() {
	cursor := m.cursor[m.active]
	if cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(cursor)
	}
	if cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursor - m.viewport.Height + 1)
	}
}

func (m *InspectorModel) renderHeader() string {
	badge := SuccessStyle.Render(SymbolCheck + " " + string(m.rep.Result))
	switch m.rep.Result {
	case report.SeverityError:
		badge = ErrorStyle.Render(SymbolCross + " " + string(m.rep.Result))
	case report.SeverityWarning:
		badge = WarningStyle.Render("! " + string(m.rep.Result))
	}
	title := TitleStyle.Render("Merging report " + m.rep.RunID)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", badge)
}

func (m *InspectorModel) renderTabs() string {
	var tabs []string
	for t := tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%s (%d)", t.title(), m.count(t))
		if t == m.active {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *InspectorModel) count(t tab) int {
	if t == tabMessages {
		return len(m.rep.Messages)
	}
	return len(m.rep.Actions)
}

func (m *InspectorModel) renderRows() string {
	var rows []string
	if m.active == tabMessages {
		for i, msg := range m.rep.Messages {
			rows = append(rows, m.renderMessage(i, msg))
		}
	} else {
		for i, act := range m.rep.Actions {
			rows = append(rows, m.renderAction(i, act))
		}
	}
	if len(rows) == 0 {
		return UnselectedStyle.Render("  nothing recorded")
	}
	return strings.Join(rows, "\n")
}

func (m *InspectorModel) renderMessage(i int, msg report.Message) string {
	style := SubtitleStyle
	symbol := SymbolBullet
	switch msg.Severity {
	case report.SeverityError:
		style, symbol = ErrorStyle, SymbolCross
	case report.SeverityWarning:
		style, symbol = WarningStyle, "!"
	}
	line := fmt.Sprintf("%s %-7s %s  %s",
		symbol, msg.Severity, msg.Text, LocationStyle.Render(msg.Location.String()))
	return m.markCursor(i, style.Render(line))
}

func (m *InspectorModel) renderAction(i int, act report.Record) string {
	style := SubtitleStyle
	if act.Action == report.ActionRejected {
		style = WarningStyle
	}
	line := fmt.Sprintf("%-8s %s  %s", act.Action, act.Target,
		LocationStyle.Render(act.Location.String()))
	if act.Reason != "" {
		line += "  " + LocationStyle.Render("("+act.Reason+")")
	}
	return m.markCursor(i, style.Render(line))
}

func (m *InspectorModel) markCursor(i int, line string) string {
	if i == m.cursor[m.active] {
		return SelectedStyle.Render(SymbolSelected+" ") + line
	}
	return "  " + line
}

// RenderStatic renders the report as plain text for non-interactive runs.
func RenderStatic(rep *report.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Merging report %s: %s\n", rep.RunID, rep.Result)
	if rep.Digest != "" {
		fmt.Fprintf(&b, "Digest: %s\n", rep.Digest)
	}
	if len(rep.Messages) > 0 {
		b.WriteString("\nMessages:\n")
		for _, msg := range rep.Messages {
			fmt.Fprintf(&b, "  [%s] %s (%s)\n", msg.Severity, msg.Text, msg.Location)
		}
	}
	if len(rep.Actions) > 0 {
		b.WriteString("\nActions:\n")
		for _, act := range rep.Actions {
			line := fmt.Sprintf("  %-8s %s  %s", act.Action, act.Target, act.Location)
			if act.Reason != "" {
				line += "  (" + act.Reason + ")"
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Inspect shows the report, interactively when a human is at the terminal
// and as plain text otherwise.
func Inspect(rep *report.Report) error {
	if !IsInteractive() {
		fmt.Print(RenderStatic(rep))
		return nil
	}
	_, err := tea.NewProgram(NewInspector(rep), tea.WithAltScreen()).Run()
	return err
}
