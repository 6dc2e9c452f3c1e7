// Package cli implements the biolink-explorer command-line interface.
//
// This package provides commands for listing Biolink Model releases,
// fetching and building hierarchy graphs, exporting diagrams, serving
// the HTTP API, and managing the local cache. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - versions: List model releases, optionally with an interactive picker
//   - fetch: Download a schema version and build its hierarchies
//   - export: Write a hierarchy as a DOT, SVG, or PNG diagram
//   - serve: Run the HTTP API and browser viewer
//   - cache: Manage the local response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/amykglen/biolink-explorer/internal/config"
	"github.com/amykglen/biolink-explorer/pkg/buildinfo"
	"github.com/amykglen/biolink-explorer/pkg/cache"
	"github.com/amykglen/biolink-explorer/pkg/pipeline"
	"github.com/amykglen/biolink-explorer/pkg/registry"
)

// appName is the application name used for directories and display.
const appName = "biolink-explorer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfgPath string
	cfg     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Explore Biolink Model category and predicate hierarchies",
		Long:         `Biolink Explorer fetches versioned Biolink Model schemas from GitHub, builds their category and predicate hierarchies, and serves them as a browsable graph with search and domain/range filtering.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cfgPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newSource creates the GitHub schema source from configuration.
func (c *CLI) newSource() (*registry.Client, error) {
	dir, err := httpCacheDir()
	if err != nil {
		dir = "" // fall back to the registry default
	}
	return registry.New(registry.Options{
		Token:    c.cfg.GitHub.Token,
		CacheDir: dir,
		Owner:    c.cfg.GitHub.Owner,
		Repo:     c.cfg.GitHub.Repo,
	})
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	src, err := c.newSource()
	if err != nil {
		return nil, err
	}
	graphs, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(src, graphs, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if c.cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.cfg.Cache.Redis.Addr,
			Password: c.cfg.Cache.Redis.Password,
			DB:       c.cfg.Cache.Redis.DB,
		})
	}

	dir := c.cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = graphCacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/biolink-explorer/).
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

// httpCacheDir holds raw GitHub responses; graphCacheDir holds built
// element sets. Separate subdirectories so `cache clear` can wipe both
// while other tools sharing the XDG dir are untouched.
func httpCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "http"), nil
}

func graphCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "graphs"), nil
}

// resolveVersion picks the version from a positional argument, falling
// back to the configured default.
func (c *CLI) resolveVersion(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.cfg.Version
}
