package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The server scopes keys
// per deployment so several instances can share one Redis database:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "schematic:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(sourceHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(sourceHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
