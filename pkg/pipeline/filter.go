package pipeline

import (
	"github.com/go-go-golems/alin-dash/pkg/event"
)

// Filter decides whether an event continues down the pipeline. It may return
// a modified copy.
type Filter interface {
	Apply(ev event.Event) (event.Event, bool, error)
}

// LevelFilter keeps events at or above Min.
type LevelFilter struct {
	Min func() event.Level
}

func NewLevelFilter(min event.Level) LevelFilter {
	return LevelFilter{Min: func() event.Level { return min }}
}

func (f LevelFilter) Apply(ev event.Event) (event.Event, bool, error) {
	return ev, ev.Level.AtLeast(f.Min()), nil
}

// Chain runs filters in order and stops at the first rejection.
type Chain []Filter

func (c Chain) Apply(ev event.Event) (event.Event, bool, error) {
	for _, f := range c {
		var ok bool
		var err error
		ev, ok, err = f.Apply(ev)
		if err != nil || !ok {
			return ev, false, err
		}
	}
	return ev, true, nil
}
