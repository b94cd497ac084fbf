package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-go-golems/alin-dash/pkg/dashboard"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/generator"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFilename = ".alin-dash.yaml"

type File struct {
	Listen    string    `yaml:"listen,omitempty" env:"ALIN_LISTEN"`
	Generator Generator `yaml:"generator,omitempty"`
	Dashboard Dashboard `yaml:"dashboard,omitempty"`
	Alert     Alert     `yaml:"alert,omitempty"`
	Script    Script    `yaml:"script,omitempty"`
}

type Generator struct {
	Interval    time.Duration      `yaml:"interval,omitempty" env:"ALIN_INTERVAL"`
	Probability *float64           `yaml:"probability,omitempty" env:"ALIN_PROBABILITY"`
	SeedEvents  *int               `yaml:"seed_events,omitempty" env:"ALIN_SEED_EVENTS"`
	Weights     map[string]float64 `yaml:"weights,omitempty"`
}

type Dashboard struct {
	Capacity     int    `yaml:"capacity,omitempty" env:"ALIN_CAPACITY"`
	DisplayLimit int    `yaml:"display_limit,omitempty" env:"ALIN_DISPLAY_LIMIT"`
	FilterLevel  string `yaml:"filter_level,omitempty" env:"ALIN_FILTER_LEVEL"`
	Threshold    *int   `yaml:"threshold,omitempty" env:"ALIN_ALERT_THRESHOLD"`
}

type Alert struct {
	Enabled *bool  `yaml:"enabled,omitempty" env:"ALIN_ALERT_ENABLED"`
	Format  string `yaml:"format,omitempty" env:"ALIN_ALERT_FORMAT"`
}

type Script struct {
	Path        string        `yaml:"path,omitempty" env:"ALIN_SCRIPT"`
	HookTimeout time.Duration `yaml:"hook_timeout,omitempty" env:"ALIN_SCRIPT_TIMEOUT"`
}

func DefaultPath(dir string) string {
	return filepath.Join(dir, DefaultConfigFilename)
}

func LoadFromFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg File
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config yaml")
	}
	return &cfg, nil
}

func LoadOptional(path string) (*File, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, errors.Wrap(err, "stat config")
	}
	return LoadFromFile(path)
}

// Load reads the optional config file and applies ALIN_* environment
// overrides on top of it.
func Load(path string) (*File, error) {
	cfg, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

func (f *File) ListenAddr() string {
	if f.Listen == "" {
		return "127.0.0.1:8080"
	}
	return f.Listen
}

func (f *File) Interval() time.Duration {
	if f.Generator.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return f.Generator.Interval
}

func (f *File) Probability() float64 {
	if f.Generator.Probability == nil {
		return 0.3
	}
	return *f.Generator.Probability
}

func (f *File) SeedEvents() int {
	if f.Generator.SeedEvents == nil {
		return 5
	}
	return *f.Generator.SeedEvents
}

func (f *File) Weights() (generator.Weights, error) {
	if len(f.Generator.Weights) == 0 {
		return generator.DefaultWeights(), nil
	}
	w := generator.Weights{}
	for name, v := range f.Generator.Weights {
		l, err := event.ParseFilterLevel(name)
		if err != nil || strings.EqualFold(strings.TrimSpace(name), "all") {
			return nil, errors.Errorf("generator.weights: unknown level %q", name)
		}
		w[l] += v
	}
	if err := w.Validate(); err != nil {
		return nil, errors.Wrap(err, "generator.weights")
	}
	return w, nil
}

func (f *File) FilterLevel() (event.Level, error) {
	if f.Dashboard.FilterLevel == "" {
		return event.LevelWarn, nil
	}
	l, err := event.ParseFilterLevel(f.Dashboard.FilterLevel)
	if err != nil {
		return event.LevelWarn, errors.Wrap(err, "dashboard.filter_level")
	}
	return l, nil
}

func (f *File) Threshold() int {
	if f.Dashboard.Threshold == nil {
		return dashboard.DefaultThreshold
	}
	return *f.Dashboard.Threshold
}

// PipeThreshold is the alert threshold for the pipe command. Unset means 0,
// an alert for every event.
func (f *File) PipeThreshold() int {
	if f.Dashboard.Threshold == nil {
		return 0
	}
	return *f.Dashboard.Threshold
}

func (f *File) AlertsEnabled() bool {
	return f.Alert.Enabled == nil || *f.Alert.Enabled
}

func (f *File) AlertFormat() string {
	if f.Alert.Format == "" {
		return pipeline.FormatText
	}
	return f.Alert.Format
}

// DashboardOptions builds the dashboard options described by the file.
func (f *File) DashboardOptions() (dashboard.Options, error) {
	opts := dashboard.DefaultOptions()
	if f.Dashboard.Capacity > 0 {
		opts.Capacity = f.Dashboard.Capacity
	}
	if f.Dashboard.DisplayLimit > 0 {
		opts.DisplayLimit = f.Dashboard.DisplayLimit
	}
	l, err := f.FilterLevel()
	if err != nil {
		return opts, err
	}
	opts.FilterLevel = l
	opts.Threshold = f.Threshold()
	return opts, nil
}

func (f *File) Validate() error {
	if p := f.Probability(); p < 0 || p > 1 {
		return errors.Errorf("generator.probability must be within [0, 1], got %v", p)
	}
	if _, err := f.Weights(); err != nil {
		return err
	}
	if _, err := f.FilterLevel(); err != nil {
		return err
	}
	switch f.AlertFormat() {
	case pipeline.FormatText, pipeline.FormatJSON:
	default:
		return errors.Errorf("alert.format must be text or json, got %q", f.Alert.Format)
	}
	return nil
}
