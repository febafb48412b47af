package cache

import "net/url"

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can
// share one Redis database without seeing each other's entries.
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DistortionKey generates a prefixed distortion response key.
func (k *ScopedKeyer) DistortionKey(endpoint string, form url.Values) string {
	return k.prefix + k.inner.DistortionKey(endpoint, form)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(opts)
}
