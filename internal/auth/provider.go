// AngelaMos | 2026
// provider.go

package auth

import (
	"context"
)

// UserProvider is what the auth flows need from user storage. Lookups
// return core.ErrUserNotFound for unknown or soft-deleted users.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user NewUser) (*UserInfo, error)
	GetClaims(ctx context.Context, userID string) ([]string, error)
	UpdatePassword(ctx context.Context, userID string, hash, salt []byte) error
}
