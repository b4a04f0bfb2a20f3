package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/contacts/internal/app"
	"github.com/example/contacts/internal/server"
	"github.com/example/contacts/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	var query string
	var metricsAddr string
	var pollInterval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the contact list every time it changes",
		Long: `Print the contact list, then print it again after every change,
including changes made by other contacts commands, until interrupted.

With --metrics-addr an HTTP server exposes /metrics, /health/live,
/health/ready and /contacts while watching.

Examples:
  contacts watch
  contacts watch --search ruiz --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Init(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				// The poller and server stop with the watch.
				defer cancel()
				return wire.ContactAdapter().Watch(ctx, query)
			})

			g.Go(func() error {
				return app.PollExternalChanges(ctx, wire.ChangeDetector(), wire.ContactService(), pollInterval, wire.Logger())
			})

			if metricsAddr != "" {
				srv := server.New(metricsAddr, wire.Registry(), wire.ContactService(), wire.DB(), wire.Logger())
				g.Go(func() error {
					return srv.Run(ctx)
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Only show contacts matching this text")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", app.DefaultPollInterval, "How often to check the database for outside changes")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve metrics and health checks on this address")

	return cmd
}
