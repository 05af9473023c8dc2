package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skoehler/geomap/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir == "" {
		t.Fatal("cacheDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "geomap")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "geomap") {
		t.Errorf("cacheDir() = %q, should honor XDG_CACHE_HOME", dir)
	}
	if !strings.HasSuffix(dir, "geomap") {
		t.Errorf("cacheDir() = %q, should end with 'geomap'", dir)
	}
}

func TestCachePrune(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "stages"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := fc.Set(ctx, "grid:stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := fc.Set(ctx, "scene:live", []byte("y"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	fc.Close()
	time.Sleep(time.Millisecond)

	cmd := newCachePruneCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache prune: %v", err)
	}

	fc, err = cache.NewFileCache(filepath.Join(dir, "stages"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer fc.Close()
	if _, hit, _ := fc.Get(ctx, "grid:stale"); hit {
		t.Error("expired entry survived cache prune")
	}
	if _, hit, _ := fc.Get(ctx, "scene:live"); !hit {
		t.Error("live entry was pruned")
	}
}

func TestNewPipelineCacheDisabled(t *testing.T) {
	c, err := newPipelineCache(true)
	if err != nil {
		t.Fatalf("newPipelineCache(true) error: %v", err)
	}
	if c == nil {
		t.Fatal("newPipelineCache(true) returned nil cache")
	}
	defer c.Close()
}
