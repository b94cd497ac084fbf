package generator

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/event"
)

// Ticker drives automatic generation: on every tick it emits one event with
// the configured probability.
type Ticker struct {
	Gen      *Generator
	Interval time.Duration
	Emit     func(event.Event)

	probability atomic.Uint64
	tick        <-chan time.Time
}

func NewTicker(gen *Generator, interval time.Duration, probability float64, emit func(event.Event)) *Ticker {
	t := &Ticker{Gen: gen, Interval: interval, Emit: emit}
	t.SetProbability(probability)
	return t
}

func (t *Ticker) SetProbability(p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	t.probability.Store(math.Float64bits(p))
}

func (t *Ticker) Probability() float64 {
	return math.Float64frombits(t.probability.Load())
}

// Step runs a single tick and reports whether an event was emitted.
func (t *Ticker) Step() bool {
	if t.Gen.Chance() >= t.Probability() {
		return false
	}
	if t.Emit != nil {
		t.Emit(t.Gen.Generate())
	}
	return true
}

// Run ticks until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	interval := t.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	tick := t.tick
	if tick == nil {
		tk := time.NewTicker(interval)
		defer tk.Stop()
		tick = tk.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			t.Step()
		}
	}
}
