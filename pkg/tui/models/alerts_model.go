package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/go-go-golems/alin-dash/pkg/tui/styles"
	"github.com/go-go-golems/alin-dash/pkg/tui/widgets"
)

// AlertsModel is a scrollable alert log with a substring filter.
type AlertsModel struct {
	max     int
	entries []pipeline.Alert

	width  int
	height int

	searching bool
	search    textinput.Model
	filter    string

	vp viewport.Model
}

func NewAlertsModel() AlertsModel {
	search := textinput.New()
	search.Placeholder = "filter…"
	search.Prompt = "/ "
	search.CharLimit = 200

	m := AlertsModel{max: 200, search: search}
	m.vp = viewport.New(0, 0)
	return m
}

func (m AlertsModel) WithSize(width, height int) AlertsModel {
	m.width, m.height = width, height
	return m.resizeViewport()
}

// Searching reports whether the filter input has focus.
func (m AlertsModel) Searching() bool { return m.searching }

func (m AlertsModel) Filter() string { return m.filter }

func (m AlertsModel) Len() int { return len(m.entries) }

func (m AlertsModel) Update(msg tea.Msg) (AlertsModel, tea.Cmd) {
	v, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.searching {
		switch v.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			return m, nil
		case "enter":
			m.filter = strings.TrimSpace(m.search.Value())
			m.searching = false
			m.search.Blur()
			return m.refreshViewportContent(true), nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(v)
		return m, cmd
	}

	switch v.String() {
	case "/":
		m.searching = true
		m.search.SetValue(m.filter)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case "ctrl+l":
		m.filter = ""
		m.search.SetValue("")
		return m.refreshViewportContent(true), nil
	case "c":
		m.entries = nil
		return m.refreshViewportContent(true), nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(v)
	return m, cmd
}

func (m AlertsModel) Append(a pipeline.Alert) AlertsModel {
	m.entries = append(m.entries, a)
	if m.max > 0 && len(m.entries) > m.max {
		m.entries = append([]pipeline.Alert{}, m.entries[len(m.entries)-m.max:]...)
	}
	return m.refreshViewportContent(true)
}

// Seed replaces the log with alerts already retained by the engine, used
// for the first snapshot and after a reset.
func (m AlertsModel) Seed(alerts []pipeline.Alert) AlertsModel {
	m.entries = append([]pipeline.Alert{}, alerts...)
	return m.refreshViewportContent(true)
}

func (m AlertsModel) View() string {
	theme := styles.DefaultTheme()

	hints := "[/] filter  [c] clear  [↑/↓] scroll"
	if m.filter != "" {
		hints = fmt.Sprintf("filter=%q  %s", m.filter, hints)
	}

	var sections []string
	if m.searching {
		sections = append(sections, m.search.View())
	}

	box := widgets.NewBox(fmt.Sprintf("Alerts (%d)", len(m.entries))).WithTitleRight(hints)
	if len(m.entries) == 0 {
		box = box.WithContent(theme.TitleMuted.Render("(no alerts yet)")).WithSize(m.width, 5)
	} else {
		box = box.WithContent(m.vp.View()).WithSize(m.width, m.vp.Height+3)
	}
	sections = append(sections, box.Render())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m AlertsModel) resizeViewport() AlertsModel {
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	m.vp.Width = max(0, m.width)
	m.vp.Height = h
	return m.refreshViewportContent(false)
}

func (m AlertsModel) visible() []pipeline.Alert {
	if m.filter == "" {
		return m.entries
	}
	needle := strings.ToLower(m.filter)
	out := make([]pipeline.Alert, 0, len(m.entries))
	for _, a := range m.entries {
		if strings.Contains(strings.ToLower(a.Level+" "+a.Message), needle) {
			out = append(out, a)
		}
	}
	return out
}

func (m AlertsModel) refreshViewportContent(gotoBottom bool) AlertsModel {
	theme := styles.DefaultTheme()

	entries := m.visible()
	if len(entries) == 0 {
		m.vp.SetContent("")
		return m
	}

	lines := make([]string, 0, len(entries))
	for _, a := range entries {
		style := theme.Level(event.ParseLevel(a.Level))
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Center,
			style.Render(styles.LevelNameIcon(a.Level)),
			" ",
			theme.TitleMuted.Render(a.Time.Format("2006-01-02 15:04:05")),
			" ",
			style.Render(fmt.Sprintf("%-5s", a.Level)),
			"  ",
			a.Message,
			"  ",
			theme.TitleMuted.Render(fmt.Sprintf("count=%d rate=%.2f/s", a.Total, a.Rate)),
		))
	}
	m.vp.SetContent(strings.Join(lines, "\n") + "\n")
	if gotoBottom {
		m.vp.GotoBottom()
	}
	return m
}
