package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/coinmap/pkg/errors"
)

// isolate points XDG paths and the working directory at empty temp dirs
// and clears coinmap's environment variables.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, k := range []string{EnvAPIKey, EnvPro, EnvBaseURL, EnvCacheTTL, EnvCacheBackend, EnvRedisAddr, EnvAddr, EnvRefresh} {
		t.Setenv(k, "")
	}
	// An empty refresh schedule is meaningful, so it has to be absent.
	os.Unsetenv(EnvRefresh)
	chdir(t, dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CoinGecko.APIKey != "" {
		t.Errorf("APIKey = %q, want no default key", cfg.CoinGecko.APIKey)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Cache.TTL.Duration != 5*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Chart.Padding != 2 || cfg.Server.Refresh != "@every 5m" {
		t.Errorf("Chart = %+v, Refresh = %q", cfg.Chart, cfg.Server.Refresh)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, appName, "config.toml"), `
[coingecko]
api_key = "CG-file"
pro = true

[cache]
backend = "none"
ttl = "90s"

[chart]
width = 1200
height = 800
`)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CoinGecko.APIKey != "CG-file" || !cfg.CoinGecko.Pro {
		t.Errorf("CoinGecko = %+v", cfg.CoinGecko)
	}
	if cfg.Cache.Backend != BackendNone || cfg.Cache.TTL.Duration != 90*time.Second {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Chart.Width != 1200 || cfg.Chart.Height != 800 || cfg.Chart.Padding != 2 {
		t.Errorf("Chart = %+v", cfg.Chart)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, "[coingecko]\napi_key = \"CG-file\"\n")
	t.Setenv(EnvAPIKey, "CG-env")
	t.Setenv(EnvCacheTTL, "1m")
	t.Setenv(EnvRefresh, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.CoinGecko.APIKey != "CG-env" {
		t.Errorf("APIKey = %q, want env value", cfg.CoinGecko.APIKey)
	}
	if cfg.Cache.TTL.Duration != time.Minute {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Server.Refresh != "" {
		t.Errorf("Refresh = %q, want disabled", cfg.Server.Refresh)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	// godotenv never overrides variables that exist, even empty ones.
	os.Unsetenv(EnvAddr)
	writeFile(t, filepath.Join(dir, ".env"), EnvAddr+"=127.0.0.1:9999\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("Addr = %q, want value from .env", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		env   map[string]string
		wantC errors.Code
	}{
		{"bad toml", "[coingecko\n", nil, errors.ErrCodeInvalidConfig},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n", nil, errors.ErrCodeInvalidConfig},
		{"bad cron", "[server]\nrefresh = \"every now and then\"\n", nil, errors.ErrCodeInvalidConfig},
		{"zero width", "[chart]\nwidth = 0\n", nil, errors.ErrCodeInvalidDimension},
		{"bad pro", "", map[string]string{EnvPro: "maybe"}, errors.ErrCodeInvalidConfig},
		{"bad ttl", "", map[string]string{EnvCacheTTL: "soon"}, errors.ErrCodeInvalidConfig},
		{"bad base url", "", map[string]string{EnvBaseURL: "ftp://x"}, errors.ErrCodeInvalidConfig},
		{"key with space", "", map[string]string{EnvAPIKey: "CG abc"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "c.toml")
			writeFile(t, path, tt.file)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(path)
			if got := errors.GetCode(err); got != tt.wantC {
				t.Errorf("Load() code = %q, want %q (err: %v)", got, tt.wantC, err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
		t.Error("Load() should fail for a missing explicit file")
	}
}

func TestCacheDir(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	got, err := cfg.CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", appName); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
	cfg.Cache.Dir = "/tmp/x"
	if got, _ := cfg.CacheDir(); got != "/tmp/x" {
		t.Errorf("CacheDir() = %q, want override", got)
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
