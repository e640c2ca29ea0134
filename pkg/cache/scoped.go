package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis without their keys colliding.
//
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

// CalculationKey generates a prefixed calculation key.
func (k *ScopedKeyer) CalculationKey(input any) string {
	return k.prefix + k.inner.CalculationKey(input)
}

// PreviewKey generates a prefixed preview key.
func (k *ScopedKeyer) PreviewKey(input any, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(input, opts)
}
