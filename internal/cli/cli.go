// Package cli implements the cardbuilder command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardbuilder/internal/config"
	"github.com/matzehuels/cardbuilder/pkg/buildinfo"
	"github.com/matzehuels/cardbuilder/pkg/cache"
	"github.com/matzehuels/cardbuilder/pkg/editor"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/observability"
	"github.com/matzehuels/cardbuilder/pkg/registry"
	"github.com/matzehuels/cardbuilder/pkg/session"
	"github.com/matzehuels/cardbuilder/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cardbuilder"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	ids        layout.IDFunc
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		ids:    layout.NewID,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cardbuilder edits dashboard card layouts",
		Long: `cardbuilder edits the row, column and module tree of a dashboard card.

Cards are JSON, YAML or TOML files. Every edit keeps the layout invariants:
at most 6 columns per row, at least one row, no containers inside containers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(observability.WithLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.modulesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Collaborators
// =============================================================================

func (c *CLI) newEditor() *editor.Editor {
	return editor.New(registry.Builtin(c.ids), c.ids, c.Logger)
}

// newCache opens the render cache selected by the config.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr, "", 0)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// openStore opens the card store selected by the config.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	sc := c.Config.Store
	return store.Open(ctx, store.Config{
		Backend:       sc.Backend,
		Dir:           sc.Dir,
		SQLitePath:    sc.SQLitePath,
		MongoURI:      sc.MongoURI,
		MongoDatabase: sc.MongoDatabase,
	})
}

// openSessions opens the session store selected by the config.
func (c *CLI) openSessions(ctx context.Context) (session.Store, error) {
	sc := c.Config.Session
	switch sc.Backend {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "file":
		return session.NewFileStore(sc.Dir)
	case "redis":
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     sc.RedisAddr,
			Password: sc.RedisPassword,
			DB:       sc.RedisDB,
		})
	}
	return nil, fmt.Errorf("unknown session backend %q", sc.Backend)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cardbuilder/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
