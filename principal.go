package authgate

import "context"

// Principal is the authenticated identity established for one request by the
// authentication interceptor. It is request-scoped, never persisted, and
// discarded when the request ends.
type Principal struct {
	Subject string
	Role    string
}

type principalContextKey struct{}

// WithPrincipal attaches p to ctx unless a principal is already present.
// Re-entry through forwarded or nested dispatch therefore never overwrites
// the identity established by the outermost pass.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if _, ok := PrincipalFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal attached by the interceptor,
// if any. Handlers downstream of the interceptor use this for authorization
// decisions; a missing principal means the request arrived unauthenticated.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}

	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
