package models

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/dashboard"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/go-go-golems/alin-dash/pkg/tui"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 30, 0, time.UTC)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newRecordingRoot(t *testing.T) (RootModel, *[]tui.ActionRequest) {
	t.Helper()
	var got []tui.ActionRequest
	m := NewRootModel(RootModelOptions{
		Publish: func(req tui.ActionRequest) error {
			got = append(got, req)
			return nil
		},
		Now: func() time.Time { return testNow },
	})
	return m, &got
}

func press(t *testing.T, m RootModel, key tea.KeyMsg) RootModel {
	t.Helper()
	next, cmd := m.Update(key)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			next, _ = next.Update(msg)
		}
	}
	return next.(RootModel)
}

// send delivers a key without running the returned command, for keys that
// only produce cursor blink ticks.
func send(m RootModel, key tea.KeyMsg) RootModel {
	next, _ := m.Update(key)
	return next.(RootModel)
}

func testView() bus.View {
	state := dashboard.New(dashboard.Options{
		Capacity:     50,
		DisplayLimit: 10,
		FilterLevel:  event.LevelWarn,
		Threshold:    10,
		Now:          func() time.Time { return testNow.Add(-30 * time.Second) },
	})
	state.Add(event.Event{Level: event.LevelError, Message: "Out of memory exception", Timestamp: testNow})
	state.Add(event.Event{Level: event.LevelInfo, Message: "Health check passed", Timestamp: testNow})
	state.SetTopology(dashboard.Topology{{Name: "parser", Inode: 1234567}})
	return bus.View{Seq: 1, Snapshot: state.Snapshot()}
}

func TestKeys_DispatchActions(t *testing.T) {
	m, got := newRecordingRoot(t)
	for _, k := range []string{"1", "4", "0", "i", "w", "e", "r", "t", "+", "-"} {
		m = press(t, m, keyRunes(k))
	}

	require.Len(t, *got, 10)
	level := func(i int) event.Level { return *(*got)[i].Level }

	require.Equal(t, tui.ActionFilter, (*got)[0].Kind)
	require.Equal(t, event.LevelError, level(0))
	require.Equal(t, event.LevelDebug, level(1))
	require.Equal(t, event.LevelDebug, level(2))
	require.Equal(t, tui.ActionGenerate, (*got)[3].Kind)
	require.Equal(t, event.LevelInfo, level(3))
	require.Equal(t, event.LevelWarn, level(4))
	require.Equal(t, event.LevelError, level(5))
	require.Equal(t, tui.ActionReset, (*got)[6].Kind)
	require.Equal(t, tui.ActionRefresh, (*got)[7].Kind)
	require.Equal(t, tui.ActionRequest{Kind: tui.ActionThreshold, At: testNow, Delta: 1}, (*got)[8])
	require.Equal(t, -1, (*got)[9].Delta)
}

func TestKeys_TabAndQuit(t *testing.T) {
	m, _ := newRecordingRoot(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ViewAlerts, m.Active())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ViewDashboard, m.Active())

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSearchInput_SwallowsGlobalKeys(t *testing.T) {
	m, got := newRecordingRoot(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(m, keyRunes("/"))
	m = send(m, keyRunes("r"))
	m = send(m, keyRunes("q"))
	require.Empty(t, *got)
	require.Equal(t, ViewAlerts, m.Active())

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "rq", m.alerts.Filter())
}

func TestActionError_ShowsStatus(t *testing.T) {
	m := NewRootModel(RootModelOptions{
		Publish: func(tui.ActionRequest) error { return errors.New("bus closed") },
	})
	m = press(t, m, keyRunes("r"))
	require.Contains(t, m.View(), "action failed: bus closed")
}

func TestView_RendersSnapshot(t *testing.T) {
	m, _ := newRecordingRoot(t)
	require.Contains(t, m.View(), "Waiting for events...")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(tui.SnapshotMsg{View: testView()})
	out := next.(RootModel).View()

	require.Contains(t, out, "ALIN Stream Dashboard")
	require.Contains(t, out, "Out of memory exception")
	require.NotContains(t, out, "Health check passed")
	require.Contains(t, out, "1234567")
	require.Contains(t, out, "Recent events (>= WARN)")
	require.Contains(t, out, "Since reset: 30s")
}

func TestView_EmptyFilteredList(t *testing.T) {
	m, _ := newRecordingRoot(t)
	state := dashboard.New(dashboard.DefaultOptions())
	next, _ := m.Update(tui.SnapshotMsg{View: bus.View{Snapshot: state.Snapshot()}})
	require.Contains(t, next.(RootModel).View(), "No matching events...")
}

func TestAlerts_SeedAppendAndFilter(t *testing.T) {
	m, _ := newRecordingRoot(t)
	v := testView()
	v.Alerts = []pipeline.Alert{{Time: testNow, Level: "ERROR", Message: "Out of memory exception", Total: 10}}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(tui.SnapshotMsg{View: v})
	next, _ = next.Update(tui.AlertMsg{Alert: pipeline.Alert{Time: testNow, Level: "WARN", Message: "Slow query detected", Total: 11}})
	m = next.(RootModel)
	require.Equal(t, 2, m.alerts.Len())

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	out := m.View()
	require.Contains(t, out, "Alerts (2)")
	require.Contains(t, out, "Slow query detected")

	m.alerts.filter = "memory"
	m.alerts = m.alerts.refreshViewportContent(true)
	visible := m.alerts.visible()
	require.Len(t, visible, 1)
	require.True(t, strings.Contains(visible[0].Message, "memory"))

	// Later snapshots do not reseed the log.
	next, _ = m.Update(tui.SnapshotMsg{View: bus.View{Snapshot: v.Snapshot}})
	require.Equal(t, 2, next.(RootModel).alerts.Len())
}

func TestAlerts_ResetSnapshotClearsLog(t *testing.T) {
	m, _ := newRecordingRoot(t)
	v := testView()
	v.Alerts = []pipeline.Alert{{Time: testNow, Level: "ERROR", Message: "Out of memory exception", Total: 10}}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(tui.SnapshotMsg{View: v})
	next, _ = next.Update(tui.AlertMsg{Alert: pipeline.Alert{Time: testNow, Level: "WARN", Message: "Slow query detected", Total: 11}})
	require.Equal(t, 2, next.(RootModel).alerts.Len())

	reset := bus.View{Seq: 2, Snapshot: v.Snapshot}
	reset.Snapshot.StartedAt = testNow
	next, _ = next.Update(tui.SnapshotMsg{View: reset})
	require.Equal(t, 0, next.(RootModel).alerts.Len())

	next, _ = next.Update(tui.AlertMsg{Alert: pipeline.Alert{Time: testNow, Level: "ERROR", Message: "Timeout waiting for response", Total: 1}})
	next, _ = next.Update(tui.SnapshotMsg{View: reset})
	require.Equal(t, 1, next.(RootModel).alerts.Len())
}

func TestFooter_ListsTopologyKey(t *testing.T) {
	m, _ := newRecordingRoot(t)
	require.Contains(t, m.View(), "[t] topology")
}
