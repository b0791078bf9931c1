// AngelaMos | 2026
// provider_fake_test.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

type fakeProvider struct {
	mu        sync.Mutex
	users     map[string]*UserInfo
	claims    map[string][]string
	lookupErr error
	createErr error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		users:  map[string]*UserInfo{},
		claims: map[string][]string{},
	}
}

func (p *fakeProvider) seed(email, password string, active bool, claims ...string) *UserInfo {
	hash, salt, err := core.CreatePasswordHash(password)
	if err != nil {
		panic(err)
	}

	u := &UserInfo{
		ID:           uuid.New().String(),
		FirstName:    "Test",
		LastName:     "User",
		Email:        strings.ToLower(email),
		UserName:     "test",
		PasswordHash: hash,
		PasswordSalt: salt,
		Status:       active,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.ID] = u
	p.claims[u.ID] = claims
	return u
}

func (p *fakeProvider) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lookupErr != nil {
		return nil, p.lookupErr
	}
	for _, u := range p.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrUserNotFound)
}

func (p *fakeProvider) GetByID(_ context.Context, id string) (*UserInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (p *fakeProvider) EmailExists(_ context.Context, email string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lookupErr != nil {
		return false, p.lookupErr
	}
	for _, u := range p.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (p *fakeProvider) Create(_ context.Context, nu NewUser) (*UserInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.createErr != nil {
		return nil, p.createErr
	}

	u := &UserInfo{
		ID:           uuid.New().String(),
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Email:        nu.Email,
		UserName:     nu.UserName,
		PasswordHash: nu.PasswordHash,
		PasswordSalt: nu.PasswordSalt,
		Status:       true,
	}
	p.users[u.ID] = u
	p.claims[u.ID] = []string{"user"}
	return u, nil
}

func (p *fakeProvider) GetClaims(_ context.Context, userID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.claims[userID], nil
}

func (p *fakeProvider) UpdatePassword(_ context.Context, userID string, hash, salt []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[userID]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrUserNotFound)
	}
	u.PasswordHash, u.PasswordSalt = hash, salt
	return nil
}

var _ UserProvider = (*fakeProvider)(nil)
