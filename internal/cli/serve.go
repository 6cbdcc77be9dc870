package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/coinmap/internal/server"
	"github.com/matzehuels/coinmap/pkg/errors"
)

type serveOpts struct {
	addr    string
	refresh string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the treemap page over HTTP",
		Long: `Serve the treemap page, its SVG and PNG renderings and the JSON API.

Categories are fetched at startup and on the refresh schedule. Open pages reload
over a websocket after each refresh.`,
		Example: `  coinmap serve --addr :8080
  coinmap serve --refresh "@every 1m"
  coinmap serve --refresh ""   # fetch once`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = opts.addr
			}
			if cmd.Flags().Changed("refresh") {
				cfg.Server.Refresh = opts.refresh
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			client, backend, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			srv := server.New(server.Config{
				Addr:           cfg.Server.Addr,
				Logger:         c.Logger,
				Source:         client,
				Artifacts:      backend,
				Keyer:          cacheKeyer(),
				Refresh:        cfg.Server.Refresh,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Width:          cfg.Chart.Width,
				Height:         cfg.Chart.Height,
				Padding:        cfg.Chart.Padding,
			})
			if err := srv.Run(ctx); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "serve on %s", cfg.Server.Addr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.refresh, "refresh", "", "cron schedule for refetching (default from config, @every 5m)")

	return cmd
}
