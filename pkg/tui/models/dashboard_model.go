package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/dashboard"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/go-go-golems/alin-dash/pkg/tui/styles"
	"github.com/go-go-golems/alin-dash/pkg/tui/widgets"
)

type DashboardModel struct {
	last   *bus.View
	width  int
	height int
}

func NewDashboardModel() DashboardModel { return DashboardModel{} }

func (m DashboardModel) WithView(v bus.View) DashboardModel {
	m.last = &v
	return m
}

func (m DashboardModel) WithSize(width, height int) DashboardModel {
	m.width, m.height = width, height
	return m
}

func (m DashboardModel) Snapshot() (dashboard.Snapshot, bool) {
	if m.last == nil {
		return dashboard.Snapshot{}, false
	}
	return m.last.Snapshot, true
}

func (m DashboardModel) View() string {
	if m.last == nil {
		return "Waiting for events...\n"
	}
	theme := styles.DefaultTheme()
	s := m.last.Snapshot
	width := m.width
	if width <= 0 {
		width = 80
	}

	sections := []string{
		m.renderStats(theme, s, width),
		m.renderTopology(theme, s, width),
		m.renderBars(theme, s, width),
		m.renderControls(theme, s, width),
		m.renderEvents(theme, s, width),
	}
	if n := len(m.last.Alerts); n > 0 {
		sections = append(sections, renderLastAlert(theme, m.last.Alerts[n-1], width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderStats(theme styles.Theme, s dashboard.Snapshot, width int) string {
	cardWidth := width / 4
	if cardWidth < 14 {
		cardWidth = 14
	}
	card := func(title, value string, style lipgloss.Style) string {
		return widgets.NewBox(title).
			WithContent(style.Render(value)).
			WithSize(cardWidth, 4).
			Render()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total events", s.TotalText(), theme.StatValue),
		card("Events/sec", s.RateText(), theme.StatValue),
		card("Errors", fmt.Sprint(s.Count(event.LevelError)), theme.Level(event.LevelError).Bold(true)),
		card("Warnings", fmt.Sprint(s.Count(event.LevelWarn)), theme.Level(event.LevelWarn).Bold(true)),
	)
}

func (m DashboardModel) renderTopology(theme styles.Theme, s dashboard.Snapshot, width int) string {
	nodes := make([]string, 0, len(dashboard.NodeNames))
	for _, name := range dashboard.NodeNames {
		nodes = append(nodes, theme.Title.Render(name)+" "+theme.TitleMuted.Render(fmt.Sprintf("%d", s.Topology.Inode(name))))
	}
	arrow := " " + theme.TitleMuted.Render(styles.IconArrow) + " "
	return widgets.NewBox("Stream topology").
		WithTitleRight("[t] refresh").
		WithContent(strings.Join(nodes, arrow)).
		WithSize(width, 0).
		Render()
}

func (m DashboardModel) renderBars(theme styles.Theme, s dashboard.Snapshot, width int) string {
	barWidth := width - 24
	if barWidth < 10 {
		barWidth = 10
	}
	lines := make([]string, 0, len(s.Bars))
	for _, b := range s.Bars {
		bar := widgets.NewProgressBar(b.Percent).
			WithWidth(barWidth).
			WithStyle(theme.Level(b.Level))
		lines = append(lines, bar.RenderLabeled(b.Level.String(), fmt.Sprint(b.Count)))
	}
	return widgets.NewBox("Level distribution").
		WithContent(strings.Join(lines, "\n")).
		WithSize(width, 0).
		Render()
}

func (m DashboardModel) renderControls(theme styles.Theme, s dashboard.Snapshot, width int) string {
	levels := make([]string, 0, len(event.Levels))
	for i, l := range event.Levels {
		label := fmt.Sprintf("%d %s", i+1, l)
		if l == s.FilterLevel {
			levels = append(levels, theme.Selected.Render(" "+label+" "))
		} else {
			levels = append(levels, theme.TitleMuted.Render(" "+label+" "))
		}
	}

	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	threshold := widgets.NewProgressBar(float64(s.Threshold) * 100 / dashboard.MaxThreshold).
		WithWidth(barWidth).
		WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary))

	content := lipgloss.JoinVertical(lipgloss.Left,
		"Minimum level   "+strings.Join(levels, " "),
		fmt.Sprintf("Alert threshold %s %3d", threshold.Render(), s.Threshold),
	)
	return widgets.NewBox("Hot switch").
		WithTitleRight("[1-4/0] level  [+/-] threshold").
		WithContent(content).
		WithSize(width, 0).
		Render()
}

func (m DashboardModel) renderEvents(theme styles.Theme, s dashboard.Snapshot, width int) string {
	rows := make([]widgets.TableRow, 0, len(s.Events))
	for _, ev := range s.Events {
		rows = append(rows, widgets.TableRow{
			Icon:  styles.LevelIcon(ev.Level),
			Style: theme.Level(ev.Level),
			Cells: []string{dashboard.FormatTime(ev.Timestamp), ev.Level.String(), ev.Message},
		})
	}
	table := widgets.NewTable([]widgets.TableColumn{
		{Header: "Time", Width: 10},
		{Header: "Level", Width: 7, Styled: true},
		{Header: "Message"},
	}).WithRows(rows).WithEmpty("No matching events...").WithWidth(width - 4)

	title := fmt.Sprintf("Recent events (>= %s)", s.FilterLevel)
	if s.FilterLevel == event.LevelDebug {
		title = "Recent events (all)"
	}
	return widgets.NewBox(title).
		WithTitleRight(fmt.Sprintf("%d/%d kept", len(s.Events), s.HistoryLen)).
		WithContent(table.Render()).
		WithSize(width, 0).
		Render()
}

func renderLastAlert(theme styles.Theme, a pipeline.Alert, width int) string {
	line := fmt.Sprintf("%s %s  %s  total=%d  rate=%.2f/s",
		styles.IconAlert, a.Time.Format("15:04:05"), a.Message, a.Total, a.Rate)
	return widgets.NewBox("Last alert "+a.Level).
		WithAccent(theme.Error).
		WithContent(theme.Level(event.ParseLevel(a.Level)).Render(line)).
		WithSize(width, 0).
		Render()
}
