package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	p := DefaultPath(dir)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
	return p
}

func TestLoadOptional_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8080", cfg.ListenAddr())
	require.Equal(t, 500*time.Millisecond, cfg.Interval())
	require.Equal(t, 0.3, cfg.Probability())
	require.Equal(t, 5, cfg.SeedEvents())
	require.Equal(t, 10, cfg.Threshold())
	require.Equal(t, 0, cfg.PipeThreshold())
	require.True(t, cfg.AlertsEnabled())
	require.Equal(t, "text", cfg.AlertFormat())

	l, err := cfg.FilterLevel()
	require.NoError(t, err)
	require.Equal(t, event.LevelWarn, l)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, `
listen: 0.0.0.0:9000
generator:
  interval: 250ms
  probability: 0.5
  seed_events: 0
  weights:
    error: 1
    info: 3
dashboard:
  capacity: 20
  display_limit: 5
  filter_level: info
  threshold: 0
alert:
  enabled: false
  format: json
`)
	t.Setenv("ALIN_FILTER_LEVEL", "ERROR")
	t.Setenv("ALIN_PROBABILITY", "0.9")

	cfg, err := Load(p)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
	require.Equal(t, 250*time.Millisecond, cfg.Interval())
	require.Equal(t, 0.9, cfg.Probability())
	require.Equal(t, 0, cfg.SeedEvents())
	require.Equal(t, 0, cfg.Threshold())
	require.False(t, cfg.AlertsEnabled())
	require.Equal(t, "json", cfg.AlertFormat())

	w, err := cfg.Weights()
	require.NoError(t, err)
	require.Equal(t, 1.0, w[event.LevelError])
	require.Equal(t, 3.0, w[event.LevelInfo])

	opts, err := cfg.DashboardOptions()
	require.NoError(t, err)
	require.Equal(t, 20, opts.Capacity)
	require.Equal(t, 5, opts.DisplayLimit)
	require.Equal(t, event.LevelError, opts.FilterLevel)
}

func TestPipeThreshold_FollowsEnv(t *testing.T) {
	t.Setenv("ALIN_ALERT_THRESHOLD", "7")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, 7, cfg.PipeThreshold())
	require.Equal(t, 7, cfg.Threshold())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	p := 1.5
	require.Error(t, (&File{Generator: Generator{Probability: &p}}).Validate())
	require.Error(t, (&File{Generator: Generator{Weights: map[string]float64{"loud": 1}}}).Validate())
	require.Error(t, (&File{Generator: Generator{Weights: map[string]float64{"all": 1}}}).Validate())
	require.Error(t, (&File{Dashboard: Dashboard{FilterLevel: "loud"}}).Validate())
	require.Error(t, (&File{Alert: Alert{Format: "xml"}}).Validate())
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "listen: [")
	_, err := LoadFromFile(p)
	require.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "dashboard:\n  threshold: 1\n")

	changes := make(chan *File, 4)
	w := &Watcher{Path: p, Debounce: 10 * time.Millisecond, OnChange: func(f *File) { changes <- f }}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before writing.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(p, []byte("dashboard:\n  threshold: 42\n"), 0o644)
		select {
		case f := <-changes:
			return f.Threshold() == 42
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
