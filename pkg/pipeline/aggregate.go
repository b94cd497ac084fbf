package pipeline

import (
	"sync"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/event"
)

// Aggregation is the running count attached to each event that passes the
// aggregator.
type Aggregation struct {
	Total   uint64            `json:"total"`
	Rate    float64           `json:"rate"`
	ByLevel map[string]uint64 `json:"by_level"`
}

// Aggregator counts events since its session start, keyed by the raw level
// name so that RAW and FATAL stay distinguishable.
type Aggregator struct {
	mu      sync.Mutex
	start   time.Time
	total   uint64
	byLevel map[string]uint64
}

func NewAggregator(start time.Time) *Aggregator {
	return &Aggregator{start: start, byLevel: map[string]uint64{}}
}

func (a *Aggregator) Add(levelName string, now time.Time) Aggregation {
	a.mu.Lock()
	defer a.mu.Unlock()

	if levelName == "" {
		levelName = "UNKNOWN"
	}
	a.total++
	a.byLevel[levelName]++

	by := make(map[string]uint64, len(a.byLevel))
	for k, v := range a.byLevel {
		by[k] = v
	}
	rate := 0.0
	if secs := int64(now.Sub(a.start) / time.Second); secs > 0 {
		rate = float64(a.total) / float64(secs)
	}
	return Aggregation{Total: a.total, Rate: rate, ByLevel: by}
}

func (a *Aggregator) Reset(start time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.start = start
	a.total = 0
	a.byLevel = map[string]uint64{}
}

// AddEvent is Add keyed by the event's canonical level.
func (a *Aggregator) AddEvent(ev event.Event, now time.Time) Aggregation {
	return a.Add(ev.Level.String(), now)
}
