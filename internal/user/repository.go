// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string, withDeleted bool) (*User, error)
	GetByEmail(ctx context.Context, email string, withDeleted bool) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id string, hash, salt []byte) error
	SoftDelete(ctx context.Context, id string) (time.Time, error)
	List(ctx context.Context, req core.PageRequest) ([]User, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, first_name, last_name, email, user_name,
		       password_hash, password_salt, status,
		       created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, user_name,
		                   password_hash, password_salt, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		strings.ToLower(user.Email),
		user.UserName,
		user.PasswordHash,
		user.PasswordSalt,
		user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.Email = strings.ToLower(user.Email)
	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
	withDeleted bool,
) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND ($2 OR deleted_at IS NULL)`

	var user User
	err := r.db.GetContext(ctx, &user, query, id, withDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
	withDeleted bool,
) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = $1 AND ($2 OR deleted_at IS NULL)`

	var user User
	err := r.db.GetContext(ctx, &user, query, strings.ToLower(email), withDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// Update writes profile fields, status and the deletion marker. It matches
// soft-deleted rows so reactivation goes through it.
func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, user_name = $5,
		    status = $6, deleted_at = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		strings.ToLower(user.Email),
		user.UserName,
		user.Status,
		user.DeletedAt,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrUserNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	user.Email = strings.ToLower(user.Email)
	return nil
}

// UpdatePassword replaces hash and salt in one statement so they never
// disagree.
func (r *repository) UpdatePassword(
	ctx context.Context,
	id string,
	hash, salt []byte,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, password_salt = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, hash, salt)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrUserNotFound)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) (time.Time, error) {
	query := `
		UPDATE users
		SET deleted_at = NOW(), status = FALSE, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING deleted_at`

	var deletedAt time.Time
	err := r.db.QueryRowxContext(ctx, query, id).Scan(&deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("delete user: %w", core.ErrUserNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("delete user: %w", err)
	}

	return deletedAt, nil
}

func (r *repository) List(
	ctx context.Context,
	req core.PageRequest,
) ([]User, int, error) {
	req.Normalize()

	var total int
	countQuery := `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, req.PageSize, req.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

// ExistsByEmail counts soft-deleted accounts too, since the address stays
// reserved by the unique index.
func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, strings.ToLower(email)); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}
