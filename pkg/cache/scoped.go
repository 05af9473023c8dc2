package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The preview server uses this to give each session its own cache
// namespace while sharing one Redis instance.
//
// Example usage:
//
//	// Session-specific keys for uploaded datasets
//	sessionKeyer := NewScopedKeyer(NewDefaultKeyer(), "session:abc123:")
//
//	// Global keys for public Natural Earth layers
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// GridKey generates a prefixed key for grid caching.
func (k *ScopedKeyer) GridKey(source string, opts GridKeyOpts) string {
	return k.prefix + k.inner.GridKey(source, opts)
}

// SceneKey generates a prefixed key for legend scene caching.
func (k *ScopedKeyer) SceneKey(breaksHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(breaksHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}
