package bus

import (
	"time"

	"github.com/go-go-golems/alin-dash/pkg/dashboard"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
)

// View is what front ends render: the dashboard snapshot plus recent alerts.
type View struct {
	Seq      uint64             `json:"seq"`
	Snapshot dashboard.Snapshot `json:"snapshot"`
	Alerts   []pipeline.Alert   `json:"alerts,omitempty"`
}

type EventAdded struct {
	Event event.Event `json:"event"`
}

type FilterChanged struct {
	Level event.Level `json:"level"`
}

type ThresholdChanged struct {
	Threshold int `json:"threshold"`
}

type DashboardReset struct {
	At time.Time `json:"at"`
}

type TopologyRefreshed struct {
	Topology dashboard.Topology `json:"topology"`
}

type ConfigReloaded struct {
	At time.Time `json:"at"`
}
