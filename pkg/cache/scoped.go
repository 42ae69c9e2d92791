package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// environments can share one backend without colliding.
//
// Example usage:
//
//	// Staging and production on the same Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// TreeKey generates a prefixed key for tree documents.
func (k *ScopedKeyer) TreeKey(treeHash string) string {
	return k.prefix + k.inner.TreeKey(treeHash)
}

// LayoutKey generates a prefixed key for layouts.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}
