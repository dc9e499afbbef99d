// Package identity carries the authenticated caller through a request.
package identity

import "context"

// Principal is the caller as vouched for by the identity provider.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok && p != nil
}
