package cmds

import (
	"encoding/json"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/generator"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var count int
	var interval time.Duration
	level := &levelFlag{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic log events as JSON lines",
		Long: "Write synthetic log events as JSON lines to stdout.\n" +
			"The output can be piped into `alin-dash pipe`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			weights, err := cfg.Weights()
			if err != nil {
				return err
			}
			gen, err := generator.New(generator.Options{Weights: weights})
			if err != nil {
				return err
			}
			forced := flagChanged(cmd, "level")

			ctx := cmd.Context()
			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := 0; count <= 0 || i < count; i++ {
				if i > 0 && interval > 0 {
					select {
					case <-ctx.Done():
						return nil
					case <-time.After(interval):
					}
				}
				var ev event.Event
				if forced {
					ev = gen.GenerateLevel(level.level)
				} else {
					ev = gen.Generate()
				}
				if err := enc.Encode(ev); err != nil {
					return errors.Wrap(err, "write event")
				}
			}
			log.Debug().Int("count", count).Msg("generate done")
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 20, "Number of events to write (0 runs until interrupted)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Delay between events")
	cmd.Flags().Var(level, "level", "Force every event to this level (ERROR, WARN, INFO, DEBUG); weighted random when unset")
	return cmd
}
