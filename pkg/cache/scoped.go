package cache

import "strings"

// scopeSep separates a scope from the key it namespaces.
const scopeSep = ":"

// ScopedKeyer namespaces another Keyer's keys, so several shops or
// deployments can share one Redis without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "shop:abc123")
//	keyer.PlanKey(h, opts) // "shop:abc123:plan:<sha256>"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes inner's keys with scope. A missing trailing ":" is
// added. An empty scope returns inner unchanged; a nil inner means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return inner
	}
	if !strings.HasSuffix(scope, scopeSep) {
		scope += scopeSep
	}
	return &ScopedKeyer{inner: inner, prefix: scope}
}

// Prefix returns the normalized scope prefix, including the separator.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

func (k *ScopedKeyer) PlanKey(sourceHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(sourceHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}

// Owns reports whether key was produced by this keyer's scope.
func (k *ScopedKeyer) Owns(key string) bool {
	return strings.HasPrefix(key, k.prefix)
}
