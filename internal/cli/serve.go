package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardbuilder/internal/server"
	"github.com/matzehuels/cardbuilder/pkg/cache"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the card HTTP API",
		Long: `Serve cards over HTTP: CRUD, editor commands, drag sessions and renders.

The card store, session store and render cache come from the config file
(see --config) and CARDBUILDER_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cards, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open card store: %w", err)
	}
	defer cards.Close()

	sessions, err := c.openSessions(ctx)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessions.Close()

	rc, err := c.newCache(ctx, noCache)
	if err != nil {
		c.Logger.Warn("render cache unavailable", "err", err)
		rc = cache.NewNullCache()
	}
	defer rc.Close()

	srv := server.New(cards, sessions, c.Logger)
	srv.Cache = rc
	srv.Keys = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
	if ttl := c.Config.Session.TTL; ttl > 0 {
		srv.SessionTTL = ttl
	}
	if ttl := c.Config.Cache.TTL; ttl > 0 {
		srv.CacheTTL = ttl
	}

	printInfo("Serving cards on %s", StyleHighlight.Render(addr))
	printKeyValue("store", c.Config.Store.Backend)
	printKeyValue("sessions", c.Config.Session.Backend)
	printKeyValue("cache", cacheBackend(c.Config.Cache.Backend, noCache))

	timeout := c.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return srv.Run(ctx, addr, timeout)
}

func cacheBackend(backend string, noCache bool) string {
	if noCache {
		return "none"
	}
	return backend
}
