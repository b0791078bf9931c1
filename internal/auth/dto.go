// AngelaMos | 2026
// dto.go

package auth

import (
	"log/slog"
	"time"
)

const redacted = "[REDACTED]"

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r LoginRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", r.Email),
		slog.String("password", redacted),
	)
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=2,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	UserName  string `json:"user_name"  validate:"required,min=3,max=100"`
	Password  string `json:"password"   validate:"required,min=8,max=128"`
}

func (r RegisterRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", r.Email),
		slog.String("user_name", r.UserName),
		slog.String("password", redacted),
	)
}

// ChangePasswordRequest carries the caller's id from the verified token,
// never from the request body.
type ChangePasswordRequest struct {
	UserID          string `json:"-"                validate:"required,uuid"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

func (r ChangePasswordRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user_id", r.UserID),
		slog.String("current_password", redacted),
		slog.String("new_password", redacted),
	)
}

// UserInfo is the view of a user the auth flows need, credentials
// included.
type UserInfo struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	UserName     string
	PasswordHash []byte
	PasswordSalt []byte
	Status       bool
}

func (u *UserInfo) LogValue() slog.Value {
	if u == nil {
		return slog.AnyValue(nil)
	}
	return slog.GroupValue(
		slog.String("id", u.ID),
		slog.String("email", u.Email),
	)
}

func (u *UserInfo) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// NewUser is a registration that already carries its credential hash.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	UserName     string
	PasswordHash []byte
	PasswordSalt []byte
}

func (n NewUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", n.Email),
		slog.String("user_name", n.UserName),
	)
}

// AccessToken is a signed token and the moment it stops being valid.
type AccessToken struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	Claims     []string  `json:"claims"`
}

func (t *AccessToken) LogValue() slog.Value {
	if t == nil {
		return slog.AnyValue(nil)
	}
	return slog.GroupValue(
		slog.String("token", redacted),
		slog.Time("expiration", t.Expiration),
		slog.Any("claims", t.Claims),
	)
}

type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	UserName  string `json:"user_name"`
}

func ToUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		UserName:  u.UserName,
	}
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token *AccessToken `json:"token"`
}
