package usecase

import (
	"context"
	"fmt"

	"github.com/iho/bankservice/internal/domain"
	"github.com/iho/bankservice/internal/identity"
)

// RequestIdentity implements IdentityContext against the identity the auth
// middleware bound to the request context. It is read-only and holds no
// state of its own.
type RequestIdentity struct{}

// NewRequestIdentity creates a new RequestIdentity.
func NewRequestIdentity() *RequestIdentity {
	return &RequestIdentity{}
}

// Current returns the caller bound to the request.
func (r *RequestIdentity) Current(ctx context.Context) (*domain.User, error) {
	user, ok := identity.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no user bound to request", domain.ErrUnauthorized)
	}

	return user, nil
}

// Authorize checks that the account belongs to the caller. Ownership is
// compared by stable identifier, never by reference.
func (r *RequestIdentity) Authorize(ctx context.Context, account *domain.Account) error {
	user, err := r.Current(ctx)
	if err != nil {
		return err
	}

	if user.ID != account.UserID {
		return fmt.Errorf("%w: user id and account owner mismatch", domain.ErrUnauthorized)
	}

	return nil
}
