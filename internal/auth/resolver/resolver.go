package resolver

import (
	"context"

	"signin-portal/internal/auth"
)

// Resolver determines which internal user an external identity belongs to.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (userID string, err error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, identity *auth.Identity) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, identity *auth.Identity) (string, error) {
	return f(ctx, identity)
}
