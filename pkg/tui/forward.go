package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
)

func RegisterUIForwarder(b *bus.Bus, p *tea.Program) {
	bus.OnUI(b, "alin-ui-forward",
		func(v bus.View) { p.Send(SnapshotMsg{View: v}) },
		func(a pipeline.Alert) { p.Send(AlertMsg{Alert: a}) },
	)
}
