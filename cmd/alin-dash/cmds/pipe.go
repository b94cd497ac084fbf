package cmds

import (
	"io"
	"os"

	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/go-go-golems/alin-dash/pkg/script"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newPipeCmd() *cobra.Command {
	var (
		threshold   int
		alertFormat string
		scriptPath  string
		input       string
		noAlerts    bool
	)
	level := &levelFlag{level: event.LevelError, allowAll: true}

	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Run JSON log lines through the parse, filter, aggregate and alert stages",
		Long: "Read JSON log lines from stdin (or --input), keep those at or above --level,\n" +
			"write the enriched events to stdout and alerts to stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !flagChanged(cmd, "threshold") {
				threshold = cfg.PipeThreshold()
			}
			if !flagChanged(cmd, "alert-format") {
				alertFormat = cfg.AlertFormat()
			}
			if scriptPath == "" {
				scriptPath = cfg.Script.Path
			}

			ctx := cmd.Context()
			chain := pipeline.Chain{pipeline.NewLevelFilter(level.level)}
			if scriptPath != "" {
				f, err := script.LoadFromFile(ctx, scriptPath, script.Options{HookTimeout: cfg.Script.HookTimeout})
				if err != nil {
					return errors.Wrapf(err, "load script %s", scriptPath)
				}
				chain = append(chain, f)
			}

			var r io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return errors.Wrap(err, "open input")
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			var alerts io.Writer = cmd.ErrOrStderr()
			if noAlerts || !cfg.AlertsEnabled() {
				alerts = nil
			}

			log.Debug().
				Str("level", level.level.String()).
				Int("threshold", threshold).
				Str("script", scriptPath).
				Msg("pipe start")

			p := pipeline.New(chain, pipeline.NewAlerter(threshold))
			return ignoreCanceled(p.Run(ctx, r, cmd.OutOrStdout(), alerts, alertFormat))
		},
	}

	cmd.Flags().Var(level, "level", "Minimum level to keep (ERROR, WARN, INFO, DEBUG or ALL)")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Alert once this many events have passed the filter (defaults to the config value, else 0: every event)")
	cmd.Flags().StringVar(&alertFormat, "alert-format", pipeline.FormatText, "Alert format: text or json")
	cmd.Flags().StringVar(&scriptPath, "script", "", "JavaScript filter applied after the level filter")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Read from this file instead of stdin")
	cmd.Flags().BoolVar(&noAlerts, "no-alerts", false, "Do not write alerts")
	return cmd
}
