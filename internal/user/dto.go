// AngelaMos | 2026
// dto.go

package user

import (
	"log/slog"
	"time"
)

type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=2,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	UserName  string `json:"user_name"  validate:"required,min=3,max=100"`
	Password  string `json:"password"   validate:"required,min=8,max=128"`
}

func (r CreateUserRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", r.Email),
		slog.String("user_name", r.UserName),
		slog.String("password", "[REDACTED]"),
	)
}

type UpdateUserRequest struct {
	ID        string `json:"id"         validate:"required,uuid"`
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=2,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	UserName  string `json:"user_name"  validate:"required,min=3,max=100"`
}

// GetByMailQuery looks a user up by email, optionally including
// soft-deleted accounts.
type GetByMailQuery struct {
	Email       string
	WithDeleted bool
}

type ClaimAssignment struct {
	UserID    string `json:"user_id"    validate:"required,uuid"`
	ClaimName string `json:"claim_name" validate:"required,min=2,max=100"`
}

type UserResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	UserName  string     `json:"user_name"`
	Status    bool       `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type DeletedUserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	DeletedAt time.Time `json:"deleted_at"`
}

func ToUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		UserName:  u.UserName,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

func ToUserResponseValue(u User) UserResponse {
	return *ToUserResponse(&u)
}
