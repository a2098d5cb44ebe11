package auth

import "context"

type claimsContextKey struct{}

// WithClaims returns a copy of ctx carrying the verified claims of the caller.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// FromContext returns the claims placed by the middleware; ok is false for
// anonymous requests such as /healthz.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, _ := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, claims != nil
}
