// AngelaMos | 2026
// rules.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

// Rules are the read-only checks the auth flows run before acting.
type Rules struct {
	users UserProvider
}

func NewRules(users UserProvider) *Rules {
	return &Rules{users: users}
}

// CheckIfUserExists reports whether any account, deleted or not, owns
// email.
func (r *Rules) CheckIfUserExists(ctx context.Context, email string) (bool, error) {
	exists, err := r.users.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// CheckIfUserDoesNotExist gates registration: true means email is free.
func (r *Rules) CheckIfUserDoesNotExist(ctx context.Context, email string) (bool, error) {
	exists, err := r.CheckIfUserExists(ctx, email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// UserToCheck resolves the account behind a login and verifies its
// password. Unknown emails, inactive accounts and wrong passwords all fail
// with core.ErrInvalidCredentials after the same amount of hashing work.
func (r *Rules) UserToCheck(ctx context.Context, req LoginRequest) (*UserInfo, error) {
	user, err := r.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.VerifyPasswordDummy(req.Password)
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("resolve login: %w", err)
	}

	if !core.VerifyPasswordHash(req.Password, user.PasswordHash, user.PasswordSalt) {
		return nil, core.ErrInvalidCredentials
	}

	if !user.Status {
		return nil, core.ErrInvalidCredentials
	}

	return user, nil
}
