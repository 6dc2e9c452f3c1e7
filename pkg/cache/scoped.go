package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments (or
// separate upstream schema repositories) sharing one Redis instance
// don't collide.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TagsKey generates a prefixed release-tag listing key.
func (k *ScopedKeyer) TagsKey() string { return k.prefix + k.inner.TagsKey() }

// SchemaKey generates a prefixed schema download key.
func (k *ScopedKeyer) SchemaKey(tag string) string { return k.prefix + k.inner.SchemaKey(tag) }

// GraphKey generates a prefixed built-graph key.
func (k *ScopedKeyer) GraphKey(version, kind string) string {
	return k.prefix + k.inner.GraphKey(version, kind)
}
