// AngelaMos | 2026
// database_test.go

package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &Database{DB: sqlx.NewDb(db, "pgx")}, mock
}

var schemaQuery = regexp.QuoteMeta("FROM goose_db_version")

func TestDatabase_CheckSchema(t *testing.T) {
	tests := []struct {
		name    string
		version int64
		want    error
	}{
		{"current", 2, nil},
		{"behind", 1, ErrSchemaOutdated},
		{"empty", 0, ErrSchemaOutdated},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, mock := newMockDatabase(t)
			mock.ExpectQuery(schemaQuery).
				WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow(tc.version))

			err := d.CheckSchema(context.Background())
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDatabase_CheckSchema_MissingTable(t *testing.T) {
	d, mock := newMockDatabase(t)
	mock.ExpectQuery(schemaQuery).
		WillReturnError(&pgconn.PgError{Code: "42P01"})

	err := d.CheckSchema(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaOutdated)
}

func TestPostgresErrorClasses(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("create user: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, IsUniqueViolation(wrap("23505")))
	assert.False(t, IsUniqueViolation(wrap("23503")))
	assert.True(t, IsForeignKeyViolation(wrap("23503")))
	assert.True(t, IsRetryable(wrap("40001")))
	assert.True(t, IsRetryable(wrap("40P01")))
	assert.False(t, IsRetryable(wrap("23505")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestInTx_GivesUpAfterAttempts(t *testing.T) {
	d, mock := newMockDatabase(t)
	conflict := &pgconn.PgError{Code: "40P01"}

	for range txAttempts {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	calls := 0
	err := InTx(context.Background(), d.DB, nil, func(*sqlx.Tx) error {
		calls++
		return conflict
	})
	assert.ErrorIs(t, err, conflict)
	assert.Equal(t, txAttempts, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_DoesNotRetryOtherFailures(t *testing.T) {
	d, mock := newMockDatabase(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	calls := 0
	err := InTx(context.Background(), d.DB, nil, func(*sqlx.Tx) error {
		calls++
		return &pgconn.PgError{Code: "23505"}
	})
	assert.True(t, IsUniqueViolation(err))
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
