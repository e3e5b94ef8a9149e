// Package identity carries the authenticated caller through a request's
// context. The HTTP auth middleware binds the user; the engine resolves it
// through an explicit IdentityContext rather than reaching into globals.
package identity

import (
	"context"

	"github.com/iho/bankservice/internal/domain"
)

type contextKey struct{}

// WithUser returns a context with the authenticated user bound to it.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// FromContext extracts the authenticated user from the context.
func FromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*domain.User)
	return user, ok
}
