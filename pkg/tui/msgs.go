package tui

import (
	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
)

type SnapshotMsg struct {
	View bus.View
}

type AlertMsg struct {
	Alert pipeline.Alert
}

// ActionErrorMsg reports that an action could not be dispatched.
type ActionErrorMsg struct {
	Err error
}
