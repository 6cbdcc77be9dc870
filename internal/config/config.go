// Package config provides configuration loading for coinmap.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults
//  2. the TOML file ($XDG_CONFIG_HOME/coinmap/config.toml unless a path is given)
//  3. a .env file in the working directory
//  4. environment variables
//  5. command-line flags (applied by the caller)
//
// There is no default API key. Without one, requests go out without a key
// header and are subject to the public rate limit.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	cmerrors "github.com/matzehuels/coinmap/pkg/errors"
)

const appName = "coinmap"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Environment variables.
const (
	EnvAPIKey       = "COINGECKO_API_KEY"
	EnvPro          = "COINGECKO_PRO"
	EnvBaseURL      = "COINGECKO_BASE_URL"
	EnvCacheTTL     = "COINMAP_CACHE_TTL"
	EnvCacheBackend = "COINMAP_CACHE_BACKEND"
	EnvRedisAddr    = "COINMAP_REDIS_ADDR"
	EnvAddr         = "COINMAP_ADDR"
	EnvRefresh      = "COINMAP_REFRESH"
)

// Config holds application configuration.
type Config struct {
	CoinGecko CoinGecko `toml:"coingecko"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`
	Chart     Chart     `toml:"chart"`
}

// CoinGecko configures the data source.
type CoinGecko struct {
	APIKey        string `toml:"api_key"`
	Pro           bool   `toml:"pro"`
	BaseURL       string `toml:"base_url"` // empty selects the plan's default
	RetryAttempts int    `toml:"retry_attempts"`
}

// Cache configures the response cache.
type Cache struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	Dir           string   `toml:"dir"` // file backend; empty selects the XDG cache dir
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// Server configures the HTTP server.
type Server struct {
	Addr           string   `toml:"addr"`
	Refresh        string   `toml:"refresh"` // cron spec; empty disables
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Chart configures the default chart size.
type Chart struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Padding float64 `toml:"padding"`
}

// Duration is a time.Duration read from strings like "5m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CoinGecko: CoinGecko{RetryAttempts: 1},
		Cache: Cache{
			Backend:   BackendFile,
			TTL:       Duration{5 * time.Minute},
			RedisAddr: "localhost:6379",
		},
		Server: Server{
			Addr:           ":8080",
			Refresh:        "@every 5m",
			AllowedOrigins: []string{"*"},
		},
		Chart: Chart{Width: 960, Height: 600, Padding: 2},
	}
}

// Load builds the configuration. An empty path reads the default file if
// it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := toml.Decode(string(data), c); err != nil {
		return cmerrors.Wrap(cmerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.CoinGecko.APIKey = getEnv(EnvAPIKey, c.CoinGecko.APIKey)
	c.CoinGecko.BaseURL = getEnv(EnvBaseURL, c.CoinGecko.BaseURL)
	c.Cache.Backend = getEnv(EnvCacheBackend, c.Cache.Backend)
	c.Cache.RedisAddr = getEnv(EnvRedisAddr, c.Cache.RedisAddr)
	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)
	if v, ok := os.LookupEnv(EnvRefresh); ok {
		c.Server.Refresh = v
	}

	if v := os.Getenv(EnvPro); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cmerrors.Wrap(cmerrors.ErrCodeInvalidConfig, err, "%s", EnvPro)
		}
		c.CoinGecko.Pro = b
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cmerrors.Wrap(cmerrors.ErrCodeInvalidConfig, err, "%s", EnvCacheTTL)
		}
		c.Cache.TTL = Duration{d}
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if err := cmerrors.ValidateAPIKey(c.CoinGecko.APIKey); err != nil {
		return err
	}
	if c.CoinGecko.BaseURL != "" {
		if err := cmerrors.ValidateURL(c.CoinGecko.BaseURL); err != nil {
			return cmerrors.Wrap(cmerrors.ErrCodeInvalidConfig, err, "coingecko base_url")
		}
	}
	if c.CoinGecko.RetryAttempts < 1 {
		return cmerrors.New(cmerrors.ErrCodeInvalidConfig, "retry_attempts must be at least 1")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return cmerrors.New(cmerrors.ErrCodeInvalidConfig, "redis backend needs redis_addr")
		}
	default:
		return cmerrors.New(cmerrors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return cmerrors.New(cmerrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}

	if err := cmerrors.ValidateDimensions(c.Chart.Width, c.Chart.Height); err != nil {
		return err
	}
	if c.Chart.Padding < 0 {
		return cmerrors.New(cmerrors.ErrCodeInvalidConfig, "padding must not be negative")
	}

	if spec := strings.TrimSpace(c.Server.Refresh); spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return cmerrors.Wrap(cmerrors.ErrCodeInvalidConfig, err, "refresh schedule %q", spec)
		}
	}
	return nil
}

// DefaultPath returns the XDG config file path, or "" if no home directory
// can be determined.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// CacheDir returns the file cache directory (~/.cache/coinmap/ by default).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
