package cmds

import (
	"context"

	"github.com/go-go-golems/alin-dash/pkg/web"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var listen string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.ListenAddr()
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, cfg, opts.Config)
			if err != nil {
				return err
			}

			hub := web.NewHub()
			web.RegisterHubForwarder(a.bus, hub)
			srv, err := web.NewServer(a.engine, hub)
			if err != nil {
				return err
			}

			eg, egCtx := errgroup.WithContext(ctx)
			a.start(egCtx, eg, watch)
			eg.Go(func() error {
				return web.ListenAndServe(egCtx, listen, srv.Handler())
			})

			if err := eg.Wait(); err != nil {
				return errors.Wrap(err, "serve")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (defaults to the config value or 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload the config file when it changes")
	return cmd
}
