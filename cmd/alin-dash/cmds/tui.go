package cmds

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/alin-dash/pkg/tui"
	"github.com/go-go-golems/alin-dash/pkg/tui/models"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newTuiCmd() *cobra.Command {
	var altScreen bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// Info logs on stderr would tear the screen.
			if !flagChanged(cmd, "log-level") {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, cfg, opts.Config)
			if err != nil {
				return err
			}
			tui.RegisterUIActionRunner(a.bus, a.engine)

			model := models.NewRootModel(models.RootModelOptions{
				Publish: func(req tui.ActionRequest) error {
					return tui.PublishAction(a.bus.Publisher, req)
				},
			})
			programOptions := []tea.ProgramOption{
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			}
			if altScreen {
				programOptions = append(programOptions, tea.WithAltScreen())
			}
			program := tea.NewProgram(model, programOptions...)
			tui.RegisterUIForwarder(a.bus, program)

			eg, egCtx := errgroup.WithContext(ctx)
			a.start(egCtx, eg, watch)
			eg.Go(func() error {
				_, err := program.Run()
				cancel()
				return ignoreCanceled(err)
			})
			eg.Go(func() error {
				<-egCtx.Done()
				program.Quit()
				return nil
			})

			if err := eg.Wait(); err != nil {
				return errors.Wrap(err, "tui")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&altScreen, "alt-screen", true, "Use the terminal alternate screen buffer")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the config file when it changes")
	return cmd
}
