package dashboard

import (
	"sync"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/event"
)

const (
	DefaultCapacity     = 50
	DefaultDisplayLimit = 10
	DefaultThreshold    = 10
	MaxThreshold        = 100
)

type Options struct {
	Capacity     int
	DisplayLimit int
	FilterLevel  event.Level
	Threshold    int
	Now          func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Capacity:     DefaultCapacity,
		DisplayLimit: DefaultDisplayLimit,
		FilterLevel:  event.LevelWarn,
		Threshold:    DefaultThreshold,
	}
}

// State is the dashboard model: counters, filter settings, the bounded
// history and the topology display. All methods are safe for concurrent use.
type State struct {
	mu sync.Mutex

	now          func() time.Time
	displayLimit int

	total     uint64
	counts    map[event.Level]uint64
	startTime time.Time
	history   *History

	filterLevel event.Level
	threshold   int

	topology Topology
}

func New(opts Options) *State {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.DisplayLimit <= 0 {
		opts.DisplayLimit = DefaultDisplayLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &State{
		now:          opts.Now,
		displayLimit: opts.DisplayLimit,
		counts:       newCounts(),
		history:      NewHistory(opts.Capacity),
		filterLevel:  opts.FilterLevel,
		threshold:    clampThreshold(opts.Threshold),
	}
	s.startTime = s.now()
	return s
}

func newCounts() map[event.Level]uint64 {
	counts := make(map[event.Level]uint64, len(event.Levels))
	for _, l := range event.Levels {
		counts[l] = 0
	}
	return counts
}

func clampThreshold(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxThreshold {
		return MaxThreshold
	}
	return n
}

// Add records a new event.
func (s *State) Add(ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.counts[ev.Level.Counter()]++
	s.history.Push(ev)
}

// Reset clears counters and history and restarts the rate baseline. Filter
// level and threshold are kept.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = 0
	s.counts = newCounts()
	s.history.Clear()
	s.startTime = s.now()
}

func (s *State) SetFilter(l event.Level) {
	s.mu.Lock()
	s.filterLevel = l
	s.mu.Unlock()
}

func (s *State) FilterLevel() event.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterLevel
}

// SetThreshold stores the slider value clamped to [0, MaxThreshold] and
// returns what was stored.
func (s *State) SetThreshold(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = clampThreshold(n)
	return s.threshold
}

func (s *State) Threshold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

func (s *State) Total() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *State) Count(l event.Level) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[l]
}

// Filtered returns the display list: events at or above the filter level,
// most recent first, capped at the display limit.
func (s *State) Filtered() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

func (s *State) filteredLocked() []event.Event {
	min := s.filterLevel
	return s.history.Newest(s.displayLimit, func(ev event.Event) bool {
		return ev.Level.AtLeast(min)
	})
}

// History returns every retained event, most recent first.
func (s *State) History() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Newest(0, nil)
}

// Rate is events per second since the last reset.
func (s *State) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rateLocked(s.now())
}

func (s *State) rateLocked(now time.Time) float64 {
	elapsed := now.Sub(s.startTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.total) / elapsed
}

// Bars returns one bar per level, sized relative to the largest counter.
func (s *State) Bars() []Bar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.barsLocked()
}

func (s *State) barsLocked() []Bar {
	var max uint64 = 1
	for _, l := range event.Levels {
		if s.counts[l] > max {
			max = s.counts[l]
		}
	}
	bars := make([]Bar, 0, len(event.Levels))
	for _, l := range event.Levels {
		c := s.counts[l]
		bars = append(bars, Bar{
			Level:   l,
			Count:   c,
			Percent: float64(c) / float64(max) * 100,
		})
	}
	return bars
}

// SetTopology replaces the displayed topology inodes.
func (s *State) SetTopology(t Topology) {
	s.mu.Lock()
	s.topology = t
	s.mu.Unlock()
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	counts := make(map[event.Level]uint64, len(s.counts))
	for l, c := range s.counts {
		counts[l] = c
	}
	return Snapshot{
		At:          now,
		Total:       s.total,
		Rate:        s.rateLocked(now),
		Counts:      counts,
		FilterLevel: s.filterLevel,
		Threshold:   s.threshold,
		Events:      s.filteredLocked(),
		HistoryLen:  s.history.Len(),
		Bars:        s.barsLocked(),
		Topology:    s.topology,
		StartedAt:   s.startTime,
	}
}
