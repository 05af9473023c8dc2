// Package httputil provides HTTP utilities for remote dataset clients.
//
// # Overview
//
// This package provides infrastructure used by the Natural Earth client and
// any other remote data source:
//
//   - [Cache]: File-based HTTP response caching
//   - [Backoff]: Download retry pacing with capped exponential delays
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/geomap/) with a
// configurable TTL. Vector layers and gridded datasets change rarely, so
// repeated plots of the same region reuse the cached download instead of
// hitting the CDN again.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 7*24*time.Hour)
//	ok, err := cache.Get("naturalearth:110m:coastline", &data)
//	if !ok {
//	    data = fetchFromCDN()
//	    cache.Set("naturalearth:110m:coastline", data)
//	}
//
// Cache keys should be namespaced by source to avoid collisions.
//
// # Retry
//
// [Backoff] wraps HTTP requests with automatic retry for failures marked
// [Transient]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// The delay doubles after each attempt, capped by the policy:
//
//	err := httputil.DownloadBackoff().Do(ctx, func() error {
//	    return fetchLayer(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/geomap/
//   - Default TTL: 7 days
//   - Download attempts: 4
//   - Backoff: 500ms doubling, capped at 4s
//
// The cache can be cleared via `geomap cache clear` or by deleting the
// cache directory.
package httputil
