package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amykglen/biolink-explorer/internal/server"
	"github.com/amykglen/biolink-explorer/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the explorer API and browser viewer",
		Long:  `Run the HTTP server exposing the JSON API, Prometheus metrics, and the browser viewer. Hierarchies are built on first request per version and shared across instances when a snapshot store is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := c.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			snapshots, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := snapshots.Close(closeCtx); err != nil {
					c.Logger.Warn("snapshot store close failed", "err", err)
				}
			}()

			printInfo("Serving on %s", cfg.Server.Addr)
			printKeyValue("viewer", fmt.Sprintf("http://localhost%s/", cfg.Server.Addr))
			printKeyValue("api", fmt.Sprintf("http://localhost%s/api/versions", cfg.Server.Addr))
			printKeyValue("metrics", fmt.Sprintf("http://localhost%s/metrics", cfg.Server.Addr))

			return server.New(cfg, runner, snapshots, c.Logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the local graph cache")

	return cmd
}

// newStore creates the snapshot store from configuration.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	switch c.cfg.Store.Backend {
	case "mongo":
		s, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.cfg.Store.Mongo.URI,
			Database:   c.cfg.Store.Mongo.Database,
			Collection: c.cfg.Store.Mongo.Collection,
		})
		if err != nil {
			return nil, fmt.Errorf("connect snapshot store: %w", err)
		}
		return s, nil
	default:
		return store.NewMemoryStore(), nil
	}
}
