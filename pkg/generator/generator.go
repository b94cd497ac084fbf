package generator

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/pkg/errors"
)

// Weights is the relative chance of each level when none is requested.
type Weights map[event.Level]float64

func DefaultWeights() Weights {
	return Weights{
		event.LevelError: 5,
		event.LevelWarn:  15,
		event.LevelInfo:  50,
		event.LevelDebug: 30,
	}
}

func (w Weights) Validate() error {
	var total float64
	for l, v := range w {
		if !slices.Contains(event.Levels, l) {
			return errors.Errorf("weight for unknown level %d", l)
		}
		if v < 0 {
			return errors.Errorf("negative weight for %s", l)
		}
		total += v
	}
	if total <= 0 {
		return errors.New("weights must sum to more than zero")
	}
	return nil
}

type Options struct {
	Weights  Weights
	Messages map[event.Level][]string
	Rand     *rand.Rand
	Now      func() time.Time
}

// Generator fabricates synthetic events. It is safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	weights  Weights
	messages map[event.Level][]string
	now      func() time.Time
}

func New(opts Options) (*Generator, error) {
	weights := opts.Weights
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	messages := opts.Messages
	if messages == nil {
		messages = event.Messages
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, weights: weights, messages: messages, now: now}, nil
}

// Generate returns an event at a weighted random level.
func (g *Generator) Generate() event.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.build(g.pickLevel(g.rng.Float64()))
}

// GenerateLevel returns an event at the given level.
func (g *Generator) GenerateLevel(level event.Level) event.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.build(level)
}

// Chance draws a uniform number in [0, 1) from the generator's source.
func (g *Generator) Chance() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

// RandomInode returns a display inode in [1000000, 9999999].
func (g *Generator) RandomInode() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return 1000000 + g.rng.Uint64N(9000000)
}

func (g *Generator) SetWeights(w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	g.weights = w
	g.mu.Unlock()
	return nil
}

// pickLevel maps a uniform draw in [0, 1) onto the cumulative weights,
// walking levels from most to least severe.
func (g *Generator) pickLevel(draw float64) event.Level {
	var total float64
	for _, l := range event.Levels {
		total += g.weights[l]
	}
	target := draw * total
	var cumulative float64
	for _, l := range event.Levels {
		cumulative += g.weights[l]
		if target < cumulative {
			return l
		}
	}
	// Only reachable through float rounding at the top edge.
	for i := len(event.Levels) - 1; i >= 0; i-- {
		if g.weights[event.Levels[i]] > 0 {
			return event.Levels[i]
		}
	}
	return event.LevelInfo
}

func (g *Generator) build(level event.Level) event.Event {
	msg := ""
	if pool := g.messages[level]; len(pool) > 0 {
		msg = pool[g.rng.IntN(len(pool))]
	}
	return event.Event{Level: level, Message: msg, Timestamp: g.now()}
}
