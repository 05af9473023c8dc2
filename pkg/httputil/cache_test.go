package httputil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"simple", "key1", map[string]string{"layer": "coastline"}},
		{"string", "key2", "test"},
		{"bytes", "key3", []byte(`{"type":"FeatureCollection","features":[]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}

			var result any
			switch tt.value.(type) {
			case map[string]string:
				result = &map[string]string{}
			case string:
				result = new(string)
			case []byte:
				result = &[]byte{}
			}

			ok, err := c.Get(tt.key, result)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned false for existing key")
			}
		})
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var res string
	ok, err := c.Get("key", &res)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}

	time.Sleep(20 * time.Millisecond)

	ok, err = c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	p1 := c.keyPath("test")
	p2 := c.keyPath("test")
	if p1 != p2 {
		t.Error("path should be deterministic")
	}
	p3 := c.keyPath("other")
	if p1 == p3 {
		t.Error("different keys should produce different paths")
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}

	want := filepath.Join(home, ".cache", "geomap")
	if c.Dir() != want {
		t.Errorf("got Dir = %s, want %s", c.Dir(), want)
	}
	if c.TTL() != time.Hour {
		t.Errorf("got TTL = %v, want 1h", c.TTL())
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	t.Run("basicNamespacing", func(t *testing.T) {
		ne := c.Namespace("naturalearth:")
		grids := c.Namespace("grid:")

		if err := ne.Set("coastline", "vector-data"); err != nil {
			t.Fatalf("ne.Set() failed: %v", err)
		}
		if err := grids.Set("coastline", "grid-data"); err != nil {
			t.Fatalf("grids.Set() failed: %v", err)
		}

		var neVal, gridVal string
		ok, err := ne.Get("coastline", &neVal)
		if !ok || err != nil {
			t.Fatalf("ne.Get() = %v, %v; want true, nil", ok, err)
		}
		ok, err = grids.Get("coastline", &gridVal)
		if !ok || err != nil {
			t.Fatalf("grids.Get() = %v, %v; want true, nil", ok, err)
		}

		if neVal != "vector-data" {
			t.Errorf("got naturalearth value %q, want %q", neVal, "vector-data")
		}
		if gridVal != "grid-data" {
			t.Errorf("got grid value %q, want %q", gridVal, "grid-data")
		}

		// Values should not cross-contaminate
		_, _ = ne.Get("coastline", &gridVal)
		if gridVal != "vector-data" {
			t.Error("namespace isolation violated")
		}
	})

	t.Run("chainedNamespacing", func(t *testing.T) {
		ne := c.Namespace("naturalearth:")
		scale := ne.Namespace("110m:")

		if err := scale.Set("land", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}

		var result string
		ok, err := scale.Get("land", &result)
		if !ok || err != nil || result != "value" {
			t.Errorf("Get() = %v, %v, %q; want true, nil, %q", ok, err, result, "value")
		}

		// Should not be accessible without full prefix
		found, _ := ne.Get("land", &result)
		if found {
			t.Error("value accessible without full namespace chain")
		}
	})

	t.Run("emptyPrefix", func(t *testing.T) {
		ns := c.Namespace("")
		if err := ns.Set("key", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}

		var result string
		ok, err := ns.Get("key", &result)
		if !ok || err != nil || result != "value" {
			t.Errorf("Get() = %v, %v, %q; want true, nil, %q", ok, err, result, "value")
		}

		// Should be same as parent cache
		ok, err = c.Get("key", &result)
		if !ok || err != nil || result != "value" {
			t.Error("empty namespace should behave like parent")
		}
	})

	t.Run("preservesDirAndTTL", func(t *testing.T) {
		ns := c.Namespace("test:")
		if ns.Dir() != c.Dir() {
			t.Errorf("Dir() = %s, want %s", ns.Dir(), c.Dir())
		}
		if ns.TTL() != c.TTL() {
			t.Errorf("TTL() = %v, want %v", ns.TTL(), c.TTL())
		}
	})
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	quick := Backoff{Attempts: 3, Initial: time.Millisecond, Cap: 2 * time.Millisecond}

	t.Run("succeedsFirstTry", func(t *testing.T) {
		calls := 0
		err := quick.Do(ctx, func() error {
			calls++
			return nil
		})
		if err != nil || calls != 1 {
			t.Errorf("got err %v after %d calls, want nil after 1", err, calls)
		}
	})

	t.Run("retriesTransient", func(t *testing.T) {
		calls := 0
		err := quick.Do(ctx, func() error {
			calls++
			if calls < 3 {
				return &Transient{Err: errors.New("connection reset")}
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("got err %v after %d calls, want nil after 3", err, calls)
		}
	})

	t.Run("stopsOnPermanent", func(t *testing.T) {
		calls := 0
		permanent := errors.New("bad request")
		err := quick.Do(ctx, func() error {
			calls++
			return permanent
		})
		if !errors.Is(err, permanent) || calls != 1 {
			t.Errorf("got err %v after %d calls, want permanent after 1", err, calls)
		}
	})

	t.Run("exhaustsAttempts", func(t *testing.T) {
		calls := 0
		err := quick.Do(ctx, func() error {
			calls++
			return &Transient{Err: errors.New("still down")}
		})
		if err == nil || calls != 3 {
			t.Errorf("got err %v after %d calls, want error after 3", err, calls)
		}
		if !IsTransient(err) {
			t.Error("exhaustion should surface the last transient error")
		}
	})

	t.Run("cancelledBetweenAttempts", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := quick.Do(cctx, func() error {
			return &Transient{Err: errors.New("down")}
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	})
}
