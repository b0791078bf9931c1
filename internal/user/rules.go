// AngelaMos | 2026
// rules.go

package user

import (
	"context"
)

// Rules holds the read-only existence checks user operations run before
// they change anything.
type Rules struct {
	store Store
}

func NewRules(store Store) *Rules {
	return &Rules{store: store}
}

// CheckIfExistsByID returns the live user with id or core.ErrUserNotFound.
func (r *Rules) CheckIfExistsByID(ctx context.Context, id string) (*User, error) {
	return r.store.Users().GetByID(ctx, id, false)
}

// CheckIfExistsByMail returns the live user with email or
// core.ErrUserNotFound.
func (r *Rules) CheckIfExistsByMail(ctx context.Context, email string) (*User, error) {
	return r.store.Users().GetByEmail(ctx, email, false)
}
