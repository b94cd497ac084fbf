package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Watcher reloads the config file whenever it changes on disk and hands the
// new version to OnChange. The parent directory is watched so that editors
// which replace the file atomically are picked up too.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(*File)
}

func (w *Watcher) Run(ctx context.Context) error {
	if w.Path == "" {
		return errors.New("missing Path")
	}
	if w.OnChange == nil {
		return errors.New("missing OnChange")
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return errors.Wrap(err, "resolve config path")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "new fsnotify watcher")
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(err, "watch config dir")
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("path", target).Msg("config watcher error")
		case <-fire:
			fire = nil
			cfg, err := Load(target)
			if err != nil {
				log.Warn().Err(err).Str("path", target).Msg("config reload failed")
				continue
			}
			if err := cfg.Validate(); err != nil {
				log.Warn().Err(err).Str("path", target).Msg("config reload rejected")
				continue
			}
			log.Info().Str("path", target).Msg("config reloaded")
			w.OnChange(cfg)
		}
	}
}
