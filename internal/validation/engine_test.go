// AngelaMos | 2026
// engine_test.go

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type otherInput struct {
	Name string `validate:"required"`
}

func newEngine() *Engine {
	e := NewEngine()
	Register[loginInput](e, "login", func(in loginInput) []core.FieldError {
		if in.Password == "password" {
			return []core.FieldError{{
				Field:   "password",
				Rule:    "not_common",
				Message: "password is too common",
			}}
		}
		return nil
	})
	return e
}

func TestValidate_Valid(t *testing.T) {
	e := newEngine()

	fields, err := e.Validate("login", loginInput{Email: "a@example.com", Password: "long-enough"})
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = e.Validate("login", &loginInput{Email: "a@example.com", Password: "long-enough"})
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestValidate_FieldErrors(t *testing.T) {
	e := newEngine()

	fields, err := e.Validate("login", loginInput{Email: "not-an-email", Password: "short"})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "password", fields[1].Field)
	assert.Equal(t, "min", fields[1].Rule)
}

func TestValidate_ExtraCheckRunsAfterTags(t *testing.T) {
	e := newEngine()

	fields, err := e.Validate("login", loginInput{Email: "a@example.com", Password: "password"})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "not_common", fields[0].Rule)
}

func TestValidate_UnknownRuleSet(t *testing.T) {
	e := newEngine()
	assert.False(t, e.Has("register"))

	_, err := e.Validate("register", loginInput{})
	assert.ErrorIs(t, err, ErrUnknownRuleSet)
}

func TestValidate_TypeMismatch(t *testing.T) {
	e := newEngine()

	_, err := e.Validate("login", otherInput{Name: "x"})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = e.Validate("login", nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	var nilPtr *loginInput
	_, err = e.Validate("login", nilPtr)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		pw string
		ok bool
	}{
		{"correct-horse-1", true},
		{"Sup3r-secret!", true},
		{"only-letters", false},
		{"12345678", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.pw, func(t *testing.T) {
			fields := PasswordStrength("password", tc.pw)
			if tc.ok {
				assert.Empty(t, fields)
				return
			}
			require.Len(t, fields, 1)
			assert.Equal(t, "password", fields[0].Field)
			assert.Equal(t, "strength", fields[0].Rule)
		})
	}
}
