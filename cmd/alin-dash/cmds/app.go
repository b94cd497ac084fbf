package cmds

import (
	"context"

	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/config"
	"github.com/go-go-golems/alin-dash/pkg/engine"
	"github.com/go-go-golems/alin-dash/pkg/script"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// app is the wiring shared by the serve and tui commands: the bus, the
// engine feeding it and the optional config watcher.
type app struct {
	cfgPath string
	bus     *bus.Bus
	engine  *engine.Engine

	scriptPath string
}

func newApp(ctx context.Context, cfg *config.File, cfgPath string) (*app, error) {
	b, err := bus.NewInMemoryBus()
	if err != nil {
		return nil, err
	}
	e, err := engine.New(engine.Options{Config: cfg, Publisher: b.Publisher})
	if err != nil {
		return nil, err
	}
	a := &app{cfgPath: cfgPath, bus: b, engine: e}
	if err := a.loadScript(ctx, cfg); err != nil {
		return nil, err
	}
	bus.RegisterDomainToUITransformer(b, e.View)
	return a, nil
}

func (a *app) loadScript(ctx context.Context, cfg *config.File) error {
	path := cfg.Script.Path
	if path == a.scriptPath {
		return nil
	}
	if path == "" {
		a.engine.SetScript(nil)
		a.scriptPath = ""
		return nil
	}
	f, err := script.LoadFromFile(ctx, path, script.Options{HookTimeout: cfg.Script.HookTimeout})
	if err != nil {
		return errors.Wrapf(err, "load script %s", path)
	}
	a.engine.SetScript(f)
	a.scriptPath = path
	log.Info().Str("script", f.Name()).Str("path", path).Msg("alert script loaded")
	return nil
}

// start runs the bus, then the engine once the router is up, plus the
// config watcher when watch is set.
func (a *app) start(ctx context.Context, eg *errgroup.Group, watch bool) {
	eg.Go(func() error {
		return ignoreCanceled(a.bus.Run(ctx))
	})
	eg.Go(func() error {
		select {
		case <-a.bus.Running():
		case <-ctx.Done():
			return nil
		}
		return ignoreCanceled(a.engine.Run(ctx))
	})
	if !watch {
		return
	}
	w := &config.Watcher{
		Path: a.cfgPath,
		OnChange: func(cfg *config.File) {
			if err := a.engine.ApplyConfig(cfg); err != nil {
				log.Warn().Err(err).Msg("config not applied")
				return
			}
			if err := a.loadScript(ctx, cfg); err != nil {
				log.Warn().Err(err).Msg("script not reloaded")
			}
		},
	}
	eg.Go(func() error {
		return ignoreCanceled(w.Run(ctx))
	})
}
