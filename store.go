package auth

// The IdentityStore contract lives in types.go next to the other core
// interfaces. This file holds the small helpers shared by store backed
// components.

import (
	"context"

	"github.com/goliatone/go-errors"
)

// requireUser loads a user by id and maps a missing record to
// ErrIdentityNotFound so callers see one error shape regardless of the
// backing store.
func requireUser(ctx context.Context, store IdentityStore, id string) (*User, error) {
	user, err := store.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load user record")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return user, nil
}
