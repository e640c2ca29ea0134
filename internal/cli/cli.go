// Package cli implements the darkroom command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/buildinfo"
	"github.com/matzehuels/darkroom/pkg/cache"
	"github.com/matzehuels/darkroom/pkg/config"
	"github.com/matzehuels/darkroom/pkg/errors"
	"github.com/matzehuels/darkroom/pkg/observability"
	"github.com/matzehuels/darkroom/pkg/pipeline"
	"github.com/matzehuels/darkroom/pkg/preset"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "darkroom"
)

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
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks log every calculation, render and cache access.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetCalculationHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Darkroom computes enlarger easel blade positions for even print borders",
		Long: `Darkroom is a printing companion for the wet darkroom. Given a paper size,
a negative's aspect ratio and a minimum border, it sizes the print, places it
on a standard easel and tells you where to set the blades. Settings can be
shared as short codes, stored as presets and served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/darkroom/config.toml)")

	// Register all subcommands
	root.AddCommand(c.borderCommand())
	root.AddCommand(c.optimalCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.tablesCommand())
	root.AddCommand(c.exposureCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "presets", cfg.Presets.Backend)
	return nil
}

// requireFeature returns FEATURE_DISABLED when the named feature is off.
func (c *CLI) requireFeature(name string) error {
	if !c.Config.Features.Enabled(name) {
		return errors.New(errors.ErrCodeFeatureDisabled, "feature %q is disabled in the config", name)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	engine := border.NewEngine(c.Config.Engine.EaselCacheSize)
	runner := pipeline.NewRunner(cache, c.newKeyer(), engine, c.Logger)
	runner.TTL = c.Config.Cache.TTL
	return runner, nil
}

// newKeyer scopes cache keys under the configured Redis prefix, if any.
func (c *CLI) newKeyer() cache.Keyer {
	if prefix := c.Config.Cache.Redis.Prefix; prefix != "" {
		return cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)
	}
	return nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured preset store.
func (c *CLI) newStore(ctx context.Context) (preset.Store, error) {
	cfg := c.Config.Presets
	switch cfg.Backend {
	case config.BackendRedis, config.BackendMongo:
		spin := startSpinner(ctx, "Connecting to "+cfg.Backend+"...")
		store, err := c.dialStore(ctx, cfg)
		if err != nil {
			spin.fail("Could not reach the " + cfg.Backend + " preset store")
			return nil, err
		}
		spin.stop()
		return store, nil
	case config.BackendMemory:
		return preset.NewMemoryStore(), nil
	default:
		return preset.NewFileStore(cfg.Dir)
	}
}

func (c *CLI) dialStore(ctx context.Context, cfg config.PresetsConfig) (preset.Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return preset.NewRedisStore(ctx, preset.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case config.BackendMongo:
		return preset.NewMongoStore(ctx, preset.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "presets.backend %q is not a remote store", cfg.Backend)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/darkroom/).
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
