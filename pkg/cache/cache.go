// Package cache provides the pluggable byte cache the render pipeline uses
// to memoize its stages: loaded grids, built legend scenes, and rendered
// artifacts.
//
// Two backends are provided: [FileCache] for CLI usage and [RedisCache] for
// the preview server, plus [NullCache] to disable caching. Key construction
// is separated into the [Keyer] interface so multi-tenant deployments can
// prefix keys without touching the backends.
package cache

import (
	"context"
	"time"
)

// TTLs per pipeline stage. Grids are re-read from their source files
// relatively often; scenes and artifacts are pure functions of their
// inputs and can live longer.
const (
	TTLGrid     = 24 * time.Hour
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with per-entry TTLs.
//
// Implementations must treat keys as opaque strings. Get returns
// (nil, false, nil) for a miss; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GridKeyOpts are the inputs that make a loaded grid unique.
type GridKeyOpts struct {
	Variable string
	Region   string
}

// SceneKeyOpts are the legend settings that affect the built scene.
type SceneKeyOpts struct {
	Direction string
	Spacing   string
	Title     string
	Expand    float64
	BarWidth  float64
}

// ArtifactKeyOpts are the render settings that affect the final artifact.
type ArtifactKeyOpts struct {
	Format string
	Width  int
	Height int
}

// Keyer builds cache keys for the pipeline stages.
//
// Separating key construction from storage lets the preview server scope
// keys per tenant (see [ScopedKeyer]) while reusing the same backends.
type Keyer interface {
	HTTPKey(namespace, key string) string
	GridKey(source string, opts GridKeyOpts) string
	SceneKey(breaksHash string, opts SceneKeyOpts) string
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates deterministic, collision-resistant keys by hashing
// the key components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for raw HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return hashKey("http", namespace, key)
}

// GridKey generates a key for a loaded and clipped grid.
func (k *DefaultKeyer) GridKey(source string, opts GridKeyOpts) string {
	return hashKey("grid", source, opts)
}

// SceneKey generates a key for a built legend scene.
func (k *DefaultKeyer) SceneKey(breaksHash string, opts SceneKeyOpts) string {
	return hashKey("scene", breaksHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
