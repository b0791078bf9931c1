// AngelaMos | 2026
// store_mem_test.go

package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

// memStore is an in-memory Store. A transaction works on a snapshot that
// replaces the live data only when fn succeeds.
type memStore struct {
	mu       sync.Mutex
	users    map[string]User
	claims   map[string]OperationClaim
	grants   map[string]map[string]bool
	txCount  int
	failNext error
}

func newMemStore() *memStore {
	s := &memStore{
		users:  map[string]User{},
		claims: map[string]OperationClaim{},
		grants: map[string]map[string]bool{},
	}
	s.claims["c-admin"] = OperationClaim{ID: "c-admin", Name: ClaimAdmin}
	s.claims["c-user"] = OperationClaim{ID: "c-user", Name: ClaimUser}
	return s
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		users:  map[string]User{},
		claims: map[string]OperationClaim{},
		grants: map[string]map[string]bool{},
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.claims {
		c.claims[k] = v
	}
	for k, v := range s.grants {
		g := map[string]bool{}
		for id := range v {
			g[id] = true
		}
		c.grants[k] = g
	}
	c.failNext = s.failNext
	return c
}

func (s *memStore) Users() Repository       { return memUsers{s} }
func (s *memStore) Claims() ClaimRepository { return memClaims{s} }

func (s *memStore) WithinTx(_ context.Context, fn func(Store) error) error {
	s.mu.Lock()
	s.txCount++
	tx := s.clone()
	s.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.claims, s.grants = tx.users, tx.claims, tx.grants
	return nil
}

func (s *memStore) put(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.failNext != nil {
		err := r.s.failNext
		r.s.failNext = nil
		return err
	}
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string, withDeleted bool) (*User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || (!withDeleted && u.IsDeleted()) {
		return nil, fmt.Errorf("get user: %w", core.ErrUserNotFound)
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string, withDeleted bool) (*User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) && (withDeleted || !u.IsDeleted()) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrUserNotFound)
}

func (r memUsers) Update(_ context.Context, u *User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrUserNotFound)
	}
	u.UpdatedAt = time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) UpdatePassword(_ context.Context, id string, hash, salt []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.IsDeleted() {
		return fmt.Errorf("update password: %w", core.ErrUserNotFound)
	}
	u.PasswordHash, u.PasswordSalt = hash, salt
	r.s.users[id] = u
	return nil
}

func (r memUsers) SoftDelete(_ context.Context, id string) (time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.IsDeleted() {
		return time.Time{}, fmt.Errorf("delete user: %w", core.ErrUserNotFound)
	}
	now := time.Now()
	u.DeletedAt = &now
	u.Status = false
	r.s.users[id] = u
	return now, nil
}

func (r memUsers) List(_ context.Context, req core.PageRequest) ([]User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req.Normalize()
	live := []User{}
	for _, u := range r.s.users {
		if !u.IsDeleted() {
			live = append(live, u)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].Email < live[j].Email })

	start := min(req.Offset(), len(live))
	end := min(start+req.PageSize, len(live))
	return live[start:end], len(live), nil
}

func (r memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

type memClaims struct{ s *memStore }

func (r memClaims) List(_ context.Context) ([]OperationClaim, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []OperationClaim{}
	for _, c := range r.s.claims {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memClaims) GetByName(_ context.Context, name string) (*OperationClaim, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.claims {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("get claim %q: %w", name, core.ErrNotFound)
}

func (r memClaims) ForUser(_ context.Context, userID string) ([]OperationClaim, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []OperationClaim{}
	for id := range r.s.grants[userID] {
		out = append(out, r.s.claims[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memClaims) Assign(_ context.Context, userID, claimID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.grants[userID] == nil {
		r.s.grants[userID] = map[string]bool{}
	}
	r.s.grants[userID][claimID] = true
	return nil
}

func (r memClaims) Revoke(_ context.Context, userID, claimID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.grants[userID][claimID] {
		return fmt.Errorf("revoke claim: %w", core.ErrNotFound)
	}
	delete(r.s.grants[userID], claimID)
	return nil
}
