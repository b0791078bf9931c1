// AngelaMos | 2026
// store.go

package user

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

// Store groups the user and claim repositories over one connection or
// transaction.
type Store interface {
	Users() Repository
	Claims() ClaimRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type sqlStore struct {
	db *sqlx.DB
	q  core.DBTX
}

func NewStore(db *sqlx.DB) Store {
	return &sqlStore{db: db, q: db}
}

func (s *sqlStore) Users() Repository {
	return NewRepository(s.q)
}

func (s *sqlStore) Claims() ClaimRepository {
	return NewClaimRepository(s.q)
}

// WithinTx runs fn against a transactional store. Nested calls join the
// outer transaction.
func (s *sqlStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	return core.InTx(ctx, s.db, nil, func(tx *sqlx.Tx) error {
		return fn(&sqlStore{q: tx})
	})
}
