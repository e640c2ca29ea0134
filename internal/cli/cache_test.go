package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "xdg")
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t, "")
	dir := filepath.Join(env.dir, "cache")

	out, err := env.run(t, "cache", "path")
	if err != nil || strings.TrimSpace(out) != dir {
		t.Fatalf("cache path = %q, %v; want %q", out, err, dir)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"calc:a", "preview:b", "preview:c"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	out, err = env.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 3 cached entries") {
		t.Errorf("cache clear output:\n%s", out)
	}

	out, err = env.run(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cache is empty") {
		t.Errorf("second clear = %q, %v", out, err)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	env := newTestEnv(t, "")
	if err := os.WriteFile(env.config, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := env.run(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Caching is disabled") {
		t.Errorf("clear with no cache = %q, %v", out, err)
	}
}

func TestNewRunnerAppliesCacheConfig(t *testing.T) {
	in := border.Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 0.5}

	c := New(io.Discard, log.WarnLevel)
	runner, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if runner.TTL != 0 {
		t.Errorf("default TTL = %v, want 0 (per-kind lifetimes)", runner.TTL)
	}
	plain := runner.Keyer.CalculationKey(in)

	c.Config.Cache.TTL = 90 * time.Minute
	c.Config.Cache.Redis.Prefix = "staging:"
	runner, err = c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if runner.TTL != 90*time.Minute {
		t.Errorf("TTL = %v, want 1h30m", runner.TTL)
	}
	if got := runner.Keyer.CalculationKey(in); got != "staging:"+plain {
		t.Errorf("scoped key = %q, want %q", got, "staging:"+plain)
	}
}
