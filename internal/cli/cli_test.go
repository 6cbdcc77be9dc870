package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/coinmap/internal/config"
	"github.com/matzehuels/coinmap/pkg/cache"
	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/observability"
)

// isolate points config and cache lookups at temp dirs and clears
// environment overrides.
func isolate(t *testing.T) (cacheHome string) {
	t.Helper()
	cacheHome = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	for _, k := range []string{
		config.EnvAPIKey, config.EnvPro, config.EnvBaseURL, config.EnvCacheTTL,
		config.EnvCacheBackend, config.EnvRedisAddr, config.EnvAddr, config.EnvRefresh,
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	chdir(t, t.TempDir())
	t.Cleanup(observability.Reset)
	return cacheHome
}

func sampleCategories() []category.Category {
	return []category.Category{
		{ID: "defi", Name: "DeFi", MarketCap: 100, MarketCapChange24h: 1.5, Top3Coins: []string{"https://img/a.png", "https://img/b.png"}},
		{ID: "meme", Name: "Meme", MarketCap: 50, MarketCapChange24h: -2.25, Top3Coins: []string{"https://img/c.png"}},
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(&out, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"render", "list", "serve", "tui", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "api-key", "no-cache"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestGlobalFlagsOverrideConfig(t *testing.T) {
	isolate(t)

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--api-key", "flag-key", "--no-cache", "cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := c.config()
	if cfg.CoinGecko.APIKey != "flag-key" {
		t.Errorf("APIKey = %q, want flag-key", cfg.CoinGecko.APIKey)
	}
	if cfg.Cache.Backend != config.BackendNone {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, config.BackendNone)
	}
}

func TestInvalidAPIKeyRejected(t *testing.T) {
	isolate(t)

	if _, err := execute(t, "--api-key", "bad key", "cache", "path"); err == nil {
		t.Fatal("expected error for API key with whitespace")
	}
}

func TestCachePath(t *testing.T) {
	cacheHome := isolate(t)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if want := filepath.Join(cacheHome, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCacheClear(t *testing.T) {
	cacheHome := isolate(t)

	dir := filepath.Join(cacheHome, appName, "ab")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ab01.json", "ab02.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("output = %q, want cleared count", out)
	}

	out, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q, want empty message", out)
	}
}

func TestCacheClearNonFileBackend(t *testing.T) {
	isolate(t)

	out, err := execute(t, "--no-cache", "cache", "clear")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "nothing to clear") {
		t.Errorf("output = %q, want warning", out)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)

	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "coinmap") {
		t.Error("bash completion should mention the command name")
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestNewCacheBackends(t *testing.T) {
	isolate(t)

	c := New(&bytes.Buffer{}, LogInfo)
	cfg := c.config()

	cfg.Cache.Backend = config.BackendNone
	backend, err := c.newCache(context.Background())
	if err != nil {
		t.Fatalf("none backend: %v", err)
	}
	backend.Close()

	cfg.Cache.Backend = config.BackendFile
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "responses")
	backend, err = c.newCache(context.Background())
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	backend.Close()
	if _, err := os.Stat(cfg.Cache.Dir); err != nil {
		t.Errorf("file backend did not create its directory: %v", err)
	}
}

func TestNewClientScopesCacheKeys(t *testing.T) {
	isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"defi","name":"DeFi","market_cap":100,"market_cap_change_24h":1}]`))
	}))
	defer srv.Close()

	c := New(&bytes.Buffer{}, LogInfo)
	cfg := c.config()
	cfg.CoinGecko.BaseURL = srv.URL
	cfg.Cache.Backend = config.BackendFile
	cfg.Cache.Dir = t.TempDir()

	client, backend, err := c.newClient(context.Background())
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	defer backend.Close()
	if _, err := client.FetchCategories(context.Background(), false); err != nil {
		t.Fatalf("FetchCategories: %v", err)
	}

	key := cache.NewDefaultKeyer().HTTPKey("coingecko", "categories")
	if _, hit, _ := backend.Get(context.Background(), "coinmap:"+key); !hit {
		t.Errorf("response not cached under coinmap:%s", key)
	}
	if _, hit, _ := backend.Get(context.Background(), key); hit {
		t.Errorf("response cached under unscoped key %s", key)
	}
}

func TestCacheKeyerSeparatesPrefix(t *testing.T) {
	k := cacheKeyer()
	if got := k.HTTPKey("coingecko", "categories"); got != "coinmap:http:coingecko:categories" {
		t.Errorf("HTTPKey = %q", got)
	}
	if got := k.ArtifactKey("gen", cache.ArtifactKeyOpts{Format: "svg"}); !strings.HasPrefix(got, "coinmap:artifact") {
		t.Errorf("ArtifactKey = %q, want coinmap: prefix with separator", got)
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
