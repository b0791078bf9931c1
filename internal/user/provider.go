// AngelaMos | 2026
// provider.go

package user

import (
	"context"

	"github.com/carterperez-dev/templates/user-backend/internal/auth"
)

type authProvider struct {
	s *Service
}

// AuthProvider exposes the service to the auth flows.
func (s *Service) AuthProvider() auth.UserProvider {
	return authProvider{s: s}
}

func (p authProvider) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	u, err := p.s.GetByMail(ctx, GetByMailQuery{Email: email})
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (p authProvider) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	u, err := p.s.rules.CheckIfExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (p authProvider) EmailExists(ctx context.Context, email string) (bool, error) {
	return p.s.store.Users().ExistsByEmail(ctx, email)
}

func (p authProvider) Create(ctx context.Context, nu auth.NewUser) (*auth.UserInfo, error) {
	u, err := p.s.create.Invoke(ctx, nu)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (p authProvider) GetClaims(ctx context.Context, userID string) ([]string, error) {
	claims, err := p.s.GetClaims(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ClaimNames(claims), nil
}

func (p authProvider) UpdatePassword(
	ctx context.Context,
	userID string,
	hash, salt []byte,
) error {
	_, err := p.s.updatePassword.Invoke(ctx, passwordChange{
		UserID: userID,
		Hash:   hash,
		Salt:   salt,
	})
	return err
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		UserName:     u.UserName,
		PasswordHash: u.PasswordHash,
		PasswordSalt: u.PasswordSalt,
		Status:       u.Status,
	}
}

var _ auth.UserProvider = authProvider{}
