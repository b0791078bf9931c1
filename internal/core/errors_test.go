// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrUserNotFound_IsNotFound(t *testing.T) {
	wrapped := fmt.Errorf("get user: %w", ErrUserNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.ErrorIs(t, wrapped, ErrUserNotFound)
}

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	err := NewValidationError("register", []FieldError{
		{Field: "email", Rule: "required", Message: "email is required"},
	})

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "email is required")
	assert.Contains(t, err.Error(), "register")
}

type sample struct {
	Email     string `validate:"required,email"`
	FirstName string `validate:"required,min=2"`
}

func TestFieldErrors_FromValidator(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(sample{Email: "nope", FirstName: "a"})
	require.Error(t, err)

	fields := FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "email", fields[0].Rule)
	assert.Equal(t, "first_name", fields[1].Field)
	assert.Equal(t, "min", fields[1].Rule)
	assert.Equal(t, "first_name must be at least 2 characters", fields[1].Message)
}

func TestFieldErrors_NonValidatorError(t *testing.T) {
	fields := FieldErrors(errors.New("boom"))
	require.Len(t, fields, 1)
	assert.Equal(t, "boom", fields[0].Message)
	assert.Nil(t, FieldErrors(nil))
}

func TestWriteServiceError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", NewValidationError("login", nil), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"credentials", fmt.Errorf("login: %w", ErrInvalidCredentials), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unauthorized", fmt.Errorf("delete: %w", ErrUnauthorized), http.StatusForbidden, "FORBIDDEN"},
		{"user not found", fmt.Errorf("get: %w", ErrUserNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", ErrDuplicateKey, http.StatusConflict, "DUPLICATE"},
		{"bad input", ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestPage_Metadata(t *testing.T) {
	req := PageRequest{PageIndex: 1, PageSize: 10}
	page := NewPage([]int{11, 12}, req, 25)

	assert.Equal(t, 3, page.Pages)
	assert.True(t, page.HasPrevious())
	assert.True(t, page.HasNext())

	last := NewPage([]int{21}, PageRequest{PageIndex: 2, PageSize: 10}, 25)
	assert.False(t, last.HasNext())

	mapped := MapPage(page, func(i int) string { return fmt.Sprint(i) })
	assert.Equal(t, []string{"11", "12"}, mapped.Items)
	assert.Equal(t, page.Count, mapped.Count)
}

func TestPageRequest_Normalize(t *testing.T) {
	req := PageRequest{PageIndex: -3, PageSize: 0}
	req.Normalize()
	assert.Equal(t, 0, req.PageIndex)
	assert.Equal(t, DefaultPageSize, req.PageSize)

	req = PageRequest{PageIndex: 2, PageSize: 500}
	req.Normalize()
	assert.Equal(t, MaxPageSize, req.PageSize)
	assert.Equal(t, 200, req.Offset())

	req = PageRequest{PageIndex: math.MaxInt / 2, PageSize: MaxPageSize}
	req.Normalize()
	assert.Equal(t, MaxPageIndex, req.PageIndex)
	assert.Positive(t, req.Offset())
}
