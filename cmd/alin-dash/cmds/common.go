package cmds

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/go-go-golems/alin-dash/pkg/config"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootOptions struct {
	Config string
}

func AddRootFlags(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "Path to config file (defaults to "+config.DefaultConfigFilename+" in the current directory)")
}

func getRootOptions(cmd *cobra.Command) (rootOptions, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return rootOptions{}, err
	}
	if cfgPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return rootOptions{}, errors.Wrap(err, "getwd")
		}
		cfgPath = config.DefaultPath(cwd)
	}
	cfgPath, err = filepath.Abs(cfgPath)
	if err != nil {
		return rootOptions{}, errors.Wrap(err, "resolve config path")
	}
	return rootOptions{Config: cfgPath}, nil
}

// loadConfig reads the config file (if any) plus ALIN_* overrides.
func loadConfig(cmd *cobra.Command) (*config.File, rootOptions, error) {
	opts, err := getRootOptions(cmd)
	if err != nil {
		return nil, opts, err
	}
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, opts, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, opts, errors.Wrap(err, "invalid config")
	}
	return cfg, opts, nil
}

func ignoreCanceled(err error) error {
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// levelFlag is a --level style flag that accepts level names and aliases.
type levelFlag struct {
	level    event.Level
	allowAll bool
}

var _ pflag.Value = (*levelFlag)(nil)

func (f *levelFlag) String() string { return f.level.String() }

func (f *levelFlag) Type() string { return "level" }

func (f *levelFlag) Set(s string) error {
	if f.allowAll {
		l, err := event.ParseFilterLevel(s)
		if err != nil {
			return err
		}
		f.level = l
		return nil
	}
	l, err := event.ParseKnownLevel(s)
	if err != nil {
		return err
	}
	f.level = l
	return nil
}
