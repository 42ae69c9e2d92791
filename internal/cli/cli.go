// Package cli implements the arbor command-line interface.
//
// # Commands
//
//   - layout: compute the layout of a tree JSON file
//   - iris: grow the sample decision tree and lay it out
//   - layouts: list and delete stored layouts
//   - serve: run the HTTP API
//   - cache: inspect and clear the layout cache
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Every command reads the config file given by --config, falling back to
// ~/.config/arbor/config.toml when it exists. ARBOR_* environment
// variables override file values; command flags override both.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/buildinfo"
	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "arbor"

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

	// Config is loaded before any subcommand runs.
	Config *config.Config

	// errOut receives progress animations; it is the logger's writer.
	errOut io.Writer

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		errOut: w,
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
		Short:        "Arbor lays out trees as node-link diagrams",
		Long:         `Arbor computes hierarchical tree layouts (cluster dendrograms and tidy trees) from JSON trees, serves them over HTTP, and caches the results.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml or .yml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.irisCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies the log level.
func (c *CLI) setup() error {
	path := c.configPath
	if path == "" {
		if p := config.DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = LogInfo
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	setLogFormat(c.Logger, cfg.Log.Format)
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	if c.Config.Cache.TTL > 0 {
		r.LayoutTTL = c.Config.Cache.TTL
	}
	return r, nil
}

// newCache builds the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == "none" {
		return cache.NewNullCache(), nil
	}

	var (
		ch  cache.Cache
		err error
	)
	switch cfg.Backend {
	case "redis":
		ch, err = cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
	default:
		if cfg.Dir == "" {
			c.Logger.Warn("no cache directory available, caching disabled")
			return cache.NewNullCache(), nil
		}
		ch, err = cache.NewFileCache(cfg.Dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s cache", cfg.Backend)
	}
	if cfg.Compress {
		ch = cache.NewCompressed(ch)
	}
	return ch, nil
}

// newStore builds the configured layout store. The CLI swaps the memory
// backend for the file store, since a memory store would not outlive the
// command.
func (c *CLI) newStore(ctx context.Context, persistent bool) (store.Store, error) {
	cfg := c.Config.Store
	switch {
	case cfg.Backend == "mongo":
		s, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case cfg.Backend == "file" || persistent:
		s, err := store.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return store.NewMemoryStore(), nil
}

// layoutDefaults converts the configured layout section to pipeline options.
func (c *CLI) layoutDefaults() pipeline.Options {
	l := c.Config.Layout
	return pipeline.Options{
		Algorithm:   l.Algorithm,
		Width:       l.Width,
		Height:      l.Height,
		Separation:  l.Separation,
		Orientation: l.Orientation,
		NodeWidth:   l.NodeWidth,
		NodeHeight:  l.NodeHeight,
	}
}
