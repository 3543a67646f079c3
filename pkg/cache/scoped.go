package cache

import "github.com/matzehuels/cardbuilder/pkg/layout"

// ScopedKeyer wraps a Keyer with a prefix, giving each deployment or tenant
// its own namespace in a shared backend.
//
//	keys := NewScopedKeyer(NewDefaultKeyer(), "cardbuilder:")
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

func (k *ScopedKeyer) RenderKey(l layout.Layout, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(l, opts)
}
