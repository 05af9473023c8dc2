package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores pipeline stage results on disk for CLI usage, one entry
// per file. The stage prefix of a key ("grid:", "scene:", "artifact:")
// becomes a subdirectory, so related entries can be inspected and pruned
// together.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache rooted at dir, creating it if
// needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk format. Expiry is derived from SavedAt rather
// than stored as an absolute deadline, so copying a cache directory between
// machines with skewed clocks does not resurrect stale entries.
type fileEntry struct {
	Payload []byte        `json:"payload"`
	SavedAt time.Time     `json:"saved_at"`
	TTL     time.Duration `json:"ttl,omitempty"`
}

func (e *fileEntry) expired(now time.Time) bool {
	return e.TTL > 0 && now.After(e.SavedAt.Add(e.TTL))
}

// Get retrieves a stage result. Expired and unreadable entries are removed
// and reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Payload, true, nil
}

// Set stores a stage result. A ttl of 0 keeps the entry until it is
// deleted or the cache is cleared.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{
		Payload: data,
		SavedAt: time.Now(),
		TTL:     ttl,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Delete removes a stage result. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file cache.
func (c *FileCache) Close() error {
	return nil
}

// Prune removes all expired entries and empty stage directories, returning
// the number of entries removed. Live and unexpired entries are untouched.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	now := time.Now()
	removed := 0

	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var entry fileEntry
		if json.Unmarshal(data, &entry) != nil || entry.expired(now) {
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return removed, err
	}

	// Drop stage directories left empty by the sweep.
	dirs, _ := os.ReadDir(c.dir)
	for _, d := range dirs {
		if d.IsDir() {
			_ = os.Remove(filepath.Join(c.dir, d.Name()))
		}
	}
	return removed, nil
}

// path maps a key to its file. The stage prefix selects the subdirectory
// and the full key is hashed into the filename, so arbitrary keys stay
// filesystem-safe.
func (c *FileCache) path(key string) string {
	stage := "misc"
	if i := strings.IndexByte(key, ':'); i > 0 {
		stage = key[:i]
	}
	return filepath.Join(c.dir, stage, Hash([]byte(key))+".json")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
