package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skoehler/geomap/pkg/cache"
	"github.com/skoehler/geomap/pkg/httputil"
	"github.com/skoehler/geomap/pkg/naturalearth"
	"github.com/skoehler/geomap/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "geomap"

// cacheDir returns the cache directory using XDG standard (~/.cache/geomap/).
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

// newPipelineCache builds the stage cache for the runner.
// With noCache set, caching is disabled entirely.
func newPipelineCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "stages"))
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// newLayerClient builds the Natural Earth client backed by the shared
// layer cache. With noCache set, downloads land in a throwaway directory.
func newLayerClient(noCache bool) (*naturalearth.Client, error) {
	dir, err := cacheDir()
	if err != nil || noCache {
		dir, err = os.MkdirTemp("", appName+"-layers-")
		if err != nil {
			return nil, err
		}
	} else {
		dir = filepath.Join(dir, "layers")
	}
	hc, err := httputil.NewCache(dir, naturalearth.DefaultTTL)
	if err != nil {
		return nil, err
	}
	return naturalearth.NewClient(hc), nil
}

// newRunner creates a pipeline runner for CLI use. With redisURL set the
// stage cache lives in Redis instead of the local filesystem.
func newRunner(ctx context.Context, logger *log.Logger, noCache bool, redisURL string) (*pipeline.Runner, error) {
	var (
		c   cache.Cache
		err error
	)
	if redisURL != "" && !noCache {
		c, err = cache.NewRedisCacheFromURL(ctx, redisURL)
	} else {
		c, err = newPipelineCache(noCache)
	}
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(c, nil, logger)
	if layers, err := newLayerClient(noCache); err == nil {
		r.Layers = layers
	} else {
		logger.Warn("vector overlays disabled", "err", err)
	}
	return r, nil
}

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePruneCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// newCachePruneCmd creates the "cache prune" subcommand. Unlike clear, it
// only removes stage entries whose TTL has lapsed.
func newCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired stage cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(filepath.Join(dir, "stages"))
			if err != nil {
				return err
			}
			defer fc.Close()

			removed, err := fc.Prune(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Pruned %d expired entries", removed)
			printDetail("Directory: %s", filepath.Join(dir, "stages"))
			return nil
		},
	}
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached grids, scenes, artifacts and map layers",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir {
					return nil
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty subdirectories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
