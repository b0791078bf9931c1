// AngelaMos | 2026
// entity.go

package user

import (
	"log/slog"
	"time"
)

const (
	ClaimAdmin = "admin"
	ClaimUser  = "user"
)

type User struct {
	ID           string     `db:"id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Email        string     `db:"email"`
	UserName     string     `db:"user_name"`
	PasswordHash []byte     `db:"password_hash"`
	PasswordSalt []byte     `db:"password_salt"`
	Status       bool       `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Activate clears the soft-delete marker.
func (u *User) Activate() {
	u.DeletedAt = nil
	u.Status = true
}

// LogValue keeps credential material out of logs.
func (u *User) LogValue() slog.Value {
	if u == nil {
		return slog.AnyValue(nil)
	}
	return slog.GroupValue(
		slog.String("id", u.ID),
		slog.String("email", u.Email),
		slog.Bool("status", u.Status),
		slog.Bool("deleted", u.IsDeleted()),
	)
}

type OperationClaim struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type UserOperationClaim struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	OperationClaimID string    `db:"operation_claim_id"`
	CreatedAt        time.Time `db:"created_at"`
}

func ClaimNames(claims []OperationClaim) []string {
	names := make([]string, 0, len(claims))
	for _, c := range claims {
		names = append(names, c.Name)
	}
	return names
}
