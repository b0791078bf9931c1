// AngelaMos | 2026
// rules_test.go

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

func TestRules_UserToCheck(t *testing.T) {
	users := newFakeProvider()
	users.seed("alice@example.com", "correct-horse-1", true)
	users.seed("inactive@example.com", "correct-horse-1", false)
	rules := NewRules(users)
	ctx := context.Background()

	got, err := rules.UserToCheck(ctx, LoginRequest{Email: "Alice@Example.com", Password: "correct-horse-1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	failures := []LoginRequest{
		{Email: "alice@example.com", Password: "wrong-password-1"},
		{Email: "nobody@example.com", Password: "correct-horse-1"},
		{Email: "inactive@example.com", Password: "correct-horse-1"},
	}
	for _, req := range failures {
		_, err := rules.UserToCheck(ctx, req)
		assert.Equal(t, core.ErrInvalidCredentials, err, req.Email)
	}
}

func TestRules_UserToCheck_StorageErrorPropagates(t *testing.T) {
	users := newFakeProvider()
	boom := errors.New("connection reset")
	users.lookupErr = boom

	_, err := NewRules(users).UserToCheck(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-1",
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestRules_Existence(t *testing.T) {
	users := newFakeProvider()
	users.seed("taken@example.com", "correct-horse-1", true)
	rules := NewRules(users)
	ctx := context.Background()

	exists, err := rules.CheckIfUserExists(ctx, "TAKEN@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	free, err := rules.CheckIfUserDoesNotExist(ctx, "taken@example.com")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = rules.CheckIfUserDoesNotExist(ctx, "new@example.com")
	require.NoError(t, err)
	assert.True(t, free)
}
