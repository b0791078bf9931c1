// AngelaMos | 2026
// claim_repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

type ClaimRepository interface {
	List(ctx context.Context) ([]OperationClaim, error)
	GetByName(ctx context.Context, name string) (*OperationClaim, error)
	ForUser(ctx context.Context, userID string) ([]OperationClaim, error)
	Assign(ctx context.Context, userID, claimID string) error
	Revoke(ctx context.Context, userID, claimID string) error
}

type claimRepository struct {
	db core.DBTX
}

func NewClaimRepository(db core.DBTX) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) List(ctx context.Context) ([]OperationClaim, error) {
	query := `SELECT id, name, created_at FROM operation_claims ORDER BY name`

	claims := []OperationClaim{}
	if err := r.db.SelectContext(ctx, &claims, query); err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}

func (r *claimRepository) GetByName(
	ctx context.Context,
	name string,
) (*OperationClaim, error) {
	query := `SELECT id, name, created_at FROM operation_claims WHERE name = $1`

	var claim OperationClaim
	err := r.db.GetContext(ctx, &claim, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get claim %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get claim %q: %w", name, err)
	}
	return &claim, nil
}

func (r *claimRepository) ForUser(
	ctx context.Context,
	userID string,
) ([]OperationClaim, error) {
	query := `
		SELECT oc.id, oc.name, oc.created_at
		FROM operation_claims oc
		JOIN user_operation_claims uoc ON uoc.operation_claim_id = oc.id
		WHERE uoc.user_id = $1
		ORDER BY oc.name`

	claims := []OperationClaim{}
	if err := r.db.SelectContext(ctx, &claims, query, userID); err != nil {
		return nil, fmt.Errorf("get user claims: %w", err)
	}
	return claims, nil
}

// Assign is idempotent.
func (r *claimRepository) Assign(ctx context.Context, userID, claimID string) error {
	query := `
		INSERT INTO user_operation_claims (id, user_id, operation_claim_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, operation_claim_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, uuid.New().String(), userID, claimID); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("assign claim: %w", core.ErrUserNotFound)
		}
		return fmt.Errorf("assign claim: %w", err)
	}
	return nil
}

func (r *claimRepository) Revoke(ctx context.Context, userID, claimID string) error {
	query := `
		DELETE FROM user_operation_claims
		WHERE user_id = $1 AND operation_claim_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, claimID)
	if err != nil {
		return fmt.Errorf("revoke claim: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke claim: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("revoke claim: %w", core.ErrNotFound)
	}
	return nil
}
