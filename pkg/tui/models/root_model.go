package models

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/tui"
	"github.com/go-go-golems/alin-dash/pkg/tui/styles"
	"github.com/go-go-golems/alin-dash/pkg/tui/widgets"
)

type ViewID string

const (
	ViewDashboard ViewID = "dashboard"
	ViewAlerts    ViewID = "alerts"
)

type RootModelOptions struct {
	// Publish dispatches an action. Nil makes every action a no-op.
	Publish func(tui.ActionRequest) error
	Now     func() time.Time
}

type RootModel struct {
	width  int
	height int

	active ViewID
	status string

	publish func(tui.ActionRequest) error
	now     func() time.Time
	// seededAt is the StartedAt of the snapshot the alert log was last
	// seeded from. A reset moves StartedAt and reseeds.
	seededAt time.Time

	dashboard DashboardModel
	alerts    AlertsModel
}

func NewRootModel(opts RootModelOptions) RootModel {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return RootModel{
		active:    ViewDashboard,
		publish:   opts.Publish,
		now:       now,
		dashboard: NewDashboardModel(),
		alerts:    NewAlertsModel(),
	}
}

func (m RootModel) Init() tea.Cmd { return nil }

func (m RootModel) Active() ViewID { return m.active }

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		m.dashboard = m.dashboard.WithSize(v.Width, v.Height-4)
		m.alerts = m.alerts.WithSize(v.Width, v.Height-4)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(v)
	case tui.SnapshotMsg:
		m.dashboard = m.dashboard.WithView(v.View)
		if started := v.View.Snapshot.StartedAt; !started.Equal(m.seededAt) {
			m.alerts = m.alerts.Seed(v.View.Alerts)
			m.seededAt = started
		}
		return m, nil
	case tui.AlertMsg:
		m.alerts = m.alerts.Append(v.Alert)
		return m, nil
	case tui.ActionErrorMsg:
		m.status = "action failed: " + v.Err.Error()
		return m, nil
	}
	return m, nil
}

func (m RootModel) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.active == ViewAlerts && m.alerts.Searching() {
		var cmd tea.Cmd
		m.alerts, cmd = m.alerts.Update(k)
		return m, cmd
	}

	key := k.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.active == ViewDashboard {
			m.active = ViewAlerts
		} else {
			m.active = ViewDashboard
		}
		return m, nil
	case "1", "2", "3", "4":
		l := event.Levels[key[0]-'1']
		return m, m.dispatch(tui.LevelAction(tui.ActionFilter, l))
	case "0":
		return m, m.dispatch(tui.LevelAction(tui.ActionFilter, event.LevelDebug))
	case "i":
		return m, m.dispatch(tui.LevelAction(tui.ActionGenerate, event.LevelInfo))
	case "w":
		return m, m.dispatch(tui.LevelAction(tui.ActionGenerate, event.LevelWarn))
	case "e":
		return m, m.dispatch(tui.LevelAction(tui.ActionGenerate, event.LevelError))
	case "r":
		return m, m.dispatch(tui.ActionRequest{Kind: tui.ActionReset})
	case "t":
		return m, m.dispatch(tui.ActionRequest{Kind: tui.ActionRefresh})
	case "+", "=":
		return m, m.dispatch(tui.ActionRequest{Kind: tui.ActionThreshold, Delta: 1})
	case "-", "_":
		return m, m.dispatch(tui.ActionRequest{Kind: tui.ActionThreshold, Delta: -1})
	}

	if m.active == ViewAlerts {
		var cmd tea.Cmd
		m.alerts, cmd = m.alerts.Update(k)
		return m, cmd
	}
	return m, nil
}

func (m RootModel) dispatch(req tui.ActionRequest) tea.Cmd {
	publish := m.publish
	if publish == nil {
		return nil
	}
	req.At = m.now()
	return func() tea.Msg {
		if err := publish(req); err != nil {
			return tui.ActionErrorMsg{Err: err}
		}
		return nil
	}
}

var dashboardKeys = []widgets.Keybind{
	{Key: "1-4", Label: "level"},
	{Key: "0", Label: "all"},
	{Key: "i/w/e", Label: "generate"},
	{Key: "r", Label: "reset"},
	{Key: "t", Label: "topology"},
	{Key: "+/-", Label: "threshold"},
	{Key: "tab", Label: "alerts"},
	{Key: "q", Label: "quit"},
}

var alertKeys = []widgets.Keybind{
	{Key: "/", Label: "filter"},
	{Key: "c", Label: "clear"},
	{Key: "tab", Label: "dashboard"},
	{Key: "q", Label: "quit"},
}

func (m RootModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	header := widgets.NewHeader("ALIN Stream Dashboard").WithWidth(width)
	if snap, ok := m.dashboard.Snapshot(); ok {
		header = header.
			WithStatus("live  filter >= "+snap.FilterLevel.String(), true).
			WithUptime(m.now().Sub(snap.StartedAt))
	} else {
		header = header.WithStatus("waiting", false)
	}

	var body string
	keys := dashboardKeys
	switch m.active {
	case ViewAlerts:
		body = m.alerts.View()
		keys = alertKeys
	default:
		body = m.dashboard.View()
	}

	sections := []string{header.Render(), body}
	if m.status != "" {
		sections = append(sections, styles.DefaultTheme().StatusBad.Render(m.status))
	}
	sections = append(sections, widgets.NewFooter(keys).WithWidth(width).Render())
	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n") + "\n"
}
