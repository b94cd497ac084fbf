package dashboard

import (
	"time"

	"github.com/go-go-golems/alin-dash/pkg/event"
)

type Bar struct {
	Level   event.Level `json:"level"`
	Count   uint64      `json:"count"`
	Percent float64     `json:"percent"`
}

// Snapshot is a point-in-time copy of the dashboard, everything a view needs.
type Snapshot struct {
	At          time.Time              `json:"at"`
	StartedAt   time.Time              `json:"started_at"`
	Total       uint64                 `json:"total"`
	Rate        float64                `json:"rate"`
	Counts      map[event.Level]uint64 `json:"counts"`
	FilterLevel event.Level            `json:"filter_level"`
	Threshold   int                    `json:"threshold"`
	Events      []event.Event          `json:"events"`
	HistoryLen  int                    `json:"history_len"`
	Bars        []Bar                  `json:"bars"`
	Topology    Topology               `json:"topology"`
}

func (s Snapshot) Count(l event.Level) uint64 {
	return s.Counts[l]
}

func (s Snapshot) TotalText() string { return FormatCount(s.Total) }

func (s Snapshot) RateText() string { return FormatRate(s.Rate) }
