package identity

import (
	"context"
	"errors"
	"fmt"
)

// Resolver maps an authenticated session to its owning user.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveCurrent returns the user for the given session user ID. A zero or
// negative ID means no session; an unknown ID means the session is stale.
// Both resolve to (nil, nil) so callers can distinguish "not signed in" from
// an infrastructure failure.
func (r *Resolver) ResolveCurrent(ctx context.Context, userID int64) (*User, error) {
	if userID <= 0 {
		return nil, nil
	}

	user, err := r.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	return user, nil
}
