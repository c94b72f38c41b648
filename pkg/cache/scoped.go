package cache

// ScopedKeyer wraps a Keyer with a prefix, giving several users of one
// shared backend (Redis database, Mongo collection) separate namespaces.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "drawlayout:")
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

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(fingerprint uint64) string {
	return k.prefix + k.inner.LayoutKey(fingerprint)
}
