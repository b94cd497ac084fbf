package engine

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/config"
	"github.com/go-go-golems/alin-dash/pkg/dashboard"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/generator"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultAlertLimit is how many recent alerts the engine keeps for views.
const DefaultAlertLimit = 50

type Options struct {
	Config *config.File
	// Publisher receives domain envelopes. Nil disables publishing.
	Publisher message.Publisher
	// Script is an optional extra filter run after the level filter on the
	// alert path.
	Script     pipeline.Filter
	AlertLimit int
	Rand       *rand.Rand
	Now        func() time.Time
}

// Engine owns the dashboard state and everything that feeds it: the
// generator, the ticker and the alert path. Front ends call its actions and
// listen on the bus for the resulting snapshots.
type Engine struct {
	state  *dashboard.State
	gen    *generator.Generator
	ticker *generator.Ticker
	pub    message.Publisher
	now    func() time.Time

	filter  pipeline.Filter
	agg     *pipeline.Aggregator
	alerter pipeline.Alerter

	mu            sync.Mutex
	seedEvents    int
	alertsEnabled bool
	alertLimit    int
	alerts        []pipeline.Alert
	script        pipeline.Filter

	seq atomic.Uint64
}

func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.File{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	dopts, err := cfg.DashboardOptions()
	if err != nil {
		return nil, err
	}
	dopts.Now = now

	weights, err := cfg.Weights()
	if err != nil {
		return nil, err
	}
	gen, err := generator.New(generator.Options{Weights: weights, Rand: opts.Rand, Now: now})
	if err != nil {
		return nil, errors.Wrap(err, "new generator")
	}

	limit := opts.AlertLimit
	if limit <= 0 {
		limit = DefaultAlertLimit
	}

	e := &Engine{
		state:         dashboard.New(dopts),
		gen:           gen,
		pub:           opts.Publisher,
		now:           now,
		agg:           pipeline.NewAggregator(now()),
		seedEvents:    cfg.SeedEvents(),
		alertsEnabled: cfg.AlertsEnabled(),
		alertLimit:    limit,
		script:        opts.Script,
	}
	e.filter = pipeline.LevelFilter{Min: e.state.FilterLevel}
	e.alerter = pipeline.Alerter{Threshold: e.state.Threshold}
	e.ticker = generator.NewTicker(gen, cfg.Interval(), cfg.Probability(), e.Add)
	e.state.SetTopology(dashboard.NewTopology(gen.RandomInode))
	return e, nil
}

// Run seeds the initial events and then generates on every tick until ctx
// is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.Seed()
	log.Info().
		Dur("interval", e.ticker.Interval).
		Float64("probability", e.ticker.Probability()).
		Msg("engine started")
	return e.ticker.Run(ctx)
}

// Seed adds the configured number of random events.
func (e *Engine) Seed() {
	e.mu.Lock()
	n := e.seedEvents
	e.mu.Unlock()
	for i := 0; i < n; i++ {
		e.Add(e.gen.Generate())
	}
}

// Add records ev on the dashboard and runs it through the alert path.
func (e *Engine) Add(ev event.Event) {
	e.state.Add(ev)
	e.publish(bus.DomainTypeEventAdded, bus.EventAdded{Event: ev})
	e.checkAlert(ev)
}

func (e *Engine) checkAlert(ev event.Event) {
	e.mu.Lock()
	enabled := e.alertsEnabled
	script := e.script
	e.mu.Unlock()
	if !enabled {
		return
	}

	filters := pipeline.Chain{e.filter}
	if script != nil {
		filters = append(filters, script)
	}
	ev, ok, err := filters.Apply(ev)
	if err != nil {
		log.Warn().Err(err).Str("level", ev.Level.String()).Msg("alert filter failed")
		return
	}
	if !ok {
		return
	}

	agg := e.agg.AddEvent(ev, e.now())
	a, fire := e.alerter.Check(ev.Level.String(), ev.Message, ev.Timestamp, agg)
	if !fire {
		return
	}

	e.mu.Lock()
	e.alerts = append(e.alerts, a)
	if over := len(e.alerts) - e.alertLimit; over > 0 {
		e.alerts = append(e.alerts[:0:0], e.alerts[over:]...)
	}
	e.mu.Unlock()

	log.Debug().
		Str("level", a.Level).
		Str("message", a.Message).
		Uint64("total", a.Total).
		Float64("rate", a.Rate).
		Msg("alert")
	e.publish(bus.DomainTypeAlertFired, a)
}

// Generate adds one event at the given level.
func (e *Engine) Generate(level event.Level) event.Event {
	ev := e.gen.GenerateLevel(level)
	e.Add(ev)
	return ev
}

// GenerateRandom adds one event at a weighted random level.
func (e *Engine) GenerateRandom() event.Event {
	ev := e.gen.Generate()
	e.Add(ev)
	return ev
}

// Reset clears counters, history, the alert aggregation and the alert log.
// Filter level and threshold are kept.
func (e *Engine) Reset() {
	e.state.Reset()
	e.agg.Reset(e.now())
	e.mu.Lock()
	e.alerts = nil
	e.mu.Unlock()
	log.Info().Msg("dashboard reset")
	e.publish(bus.DomainTypeDashboardReset, bus.DashboardReset{At: e.now()})
}

func (e *Engine) SetFilter(l event.Level) {
	e.state.SetFilter(l)
	e.publish(bus.DomainTypeFilterChanged, bus.FilterChanged{Level: l})
}

// SetThreshold stores n clamped to the slider range and returns the stored
// value.
func (e *Engine) SetThreshold(n int) int {
	stored := e.state.SetThreshold(n)
	e.publish(bus.DomainTypeThresholdChanged, bus.ThresholdChanged{Threshold: stored})
	return stored
}

// RefreshTopology re-rolls the display inodes.
func (e *Engine) RefreshTopology() dashboard.Topology {
	t := dashboard.NewTopology(e.gen.RandomInode)
	e.state.SetTopology(t)
	e.publish(bus.DomainTypeTopologyRefreshed, bus.TopologyRefreshed{Topology: t})
	return t
}

// SetScript swaps the scripted alert filter. Nil removes it.
func (e *Engine) SetScript(f pipeline.Filter) {
	e.mu.Lock()
	e.script = f
	e.mu.Unlock()
}

// ApplyConfig hot-switches the settings that can change at runtime:
// generator weights, interval probability, filter level, threshold and
// alerting. Capacity and display limit need a restart.
func (e *Engine) ApplyConfig(cfg *config.File) error {
	if cfg == nil {
		return errors.New("missing config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "validate config")
	}
	weights, err := cfg.Weights()
	if err != nil {
		return err
	}
	if err := e.gen.SetWeights(weights); err != nil {
		return errors.Wrap(err, "set weights")
	}
	level, err := cfg.FilterLevel()
	if err != nil {
		return err
	}

	e.ticker.SetProbability(cfg.Probability())
	e.state.SetFilter(level)
	e.state.SetThreshold(cfg.Threshold())

	e.mu.Lock()
	e.alertsEnabled = cfg.AlertsEnabled()
	e.seedEvents = cfg.SeedEvents()
	e.mu.Unlock()

	e.publish(bus.DomainTypeConfigReloaded, bus.ConfigReloaded{At: e.now()})
	return nil
}

func (e *Engine) Snapshot() dashboard.Snapshot {
	return e.state.Snapshot()
}

// Alerts returns the retained alerts, oldest first.
func (e *Engine) Alerts() []pipeline.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]pipeline.Alert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// View is the snapshot and alerts bundled for front ends. Seq increases with
// every call.
func (e *Engine) View() bus.View {
	return bus.View{
		Seq:      e.seq.Add(1),
		Snapshot: e.Snapshot(),
		Alerts:   e.Alerts(),
	}
}

func (e *Engine) Ticker() *generator.Ticker {
	return e.ticker
}

func (e *Engine) publish(typ string, payload any) {
	if e.pub == nil {
		return
	}
	if err := bus.Publish(e.pub, bus.TopicDomainEvents, typ, payload); err != nil {
		log.Warn().Err(err).Str("type", typ).Msg("publish domain event")
	}
}
