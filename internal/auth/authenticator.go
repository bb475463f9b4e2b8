package auth

import "net/http"

// OwnerResolver identifies the owner a request acts on behalf of.
// This abstraction allows swapping between identity sources (platform principal
// header, bearer tokens, etc.) without changing the handlers.
type OwnerResolver interface {
	// ResolveOwner returns the owner ID carried by the request.
	// The second result is false when the request carries no usable identity.
	ResolveOwner(r *http.Request) (string, bool)
}

// ResolverFunc adapts a plain function to OwnerResolver.
type ResolverFunc func(r *http.Request) (string, bool)

// ResolveOwner calls f(r).
func (f ResolverFunc) ResolveOwner(r *http.Request) (string, bool) {
	return f(r)
}

// ChainResolver tries each resolver in order; the first one that yields an
// owner wins.
type ChainResolver []OwnerResolver

// NewChainResolver builds a chain, skipping nil resolvers.
func NewChainResolver(resolvers ...OwnerResolver) ChainResolver {
	chain := make(ChainResolver, 0, len(resolvers))
	for _, r := range resolvers {
		if r != nil {
			chain = append(chain, r)
		}
	}
	return chain
}

// ResolveOwner implements OwnerResolver.
func (c ChainResolver) ResolveOwner(r *http.Request) (string, bool) {
	for _, resolver := range c {
		if owner, ok := resolver.ResolveOwner(r); ok {
			return owner, true
		}
	}
	return "", false
}
