// Package cli implements the coinmap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coinmap/internal/config"
	"github.com/matzehuels/coinmap/pkg/buildinfo"
	"github.com/matzehuels/coinmap/pkg/cache"
	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/integrations/coingecko"
	"github.com/matzehuels/coinmap/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "coinmap"

	// fetchTimeout bounds a single category fetch from the CLI.
	fetchTimeout = 30 * time.Second
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

	configPath string
	apiKey     string
	noCache    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "coinmap renders crypto categories as a market cap treemap",
		Long:         `coinmap fetches coin categories from CoinGecko and renders them as a treemap: area by market cap, green or red by 24h change, with the top coins of each category on hover.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/coinmap/config.toml)")
	flags.StringVar(&c.apiKey, "api-key", "", "CoinGecko API key (overrides "+config.EnvAPIKey+")")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves configuration and applies global flags on top.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		cfg.CoinGecko.APIKey = c.apiKey
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	observability.NewLogHooks(c.Logger).Register()
	return nil
}

// config returns the loaded configuration, falling back to defaults for
// commands that run without the root pre-run (tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates the CoinGecko client and its cache. The caller closes
// the cache.
func (c *CLI) newClient(ctx context.Context) (*coingecko.Client, cache.Cache, error) {
	cfg := c.config()
	backend, err := c.newCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	client := coingecko.NewClient(backend, coingecko.Options{
		APIKey:        cfg.CoinGecko.APIKey,
		Pro:           cfg.CoinGecko.Pro,
		BaseURL:       cfg.CoinGecko.BaseURL,
		CacheTTL:      cfg.Cache.TTL.Duration,
		RetryAttempts: cfg.CoinGecko.RetryAttempts,
	})
	client.SetKeyer(cacheKeyer())
	if cfg.CoinGecko.APIKey == "" {
		c.Logger.Debug("no API key configured, using the public rate limit")
	}
	return client, backend, nil
}

// cacheKeyer scopes HTTP and artifact cache keys to coinmap, so a shared
// redis backend can serve other applications.
func cacheKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.config()
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		backend, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to redis at %s", cfg.Cache.RedisAddr)
		}
		return backend, nil
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", dir, err)
		}
		return fc, nil
	}
}
