// AngelaMos | 2026
// migrations_test.go

package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ContainsOrderedMigrations(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"00001_create_users.sql",
		"00002_create_operation_claims.sql",
	}, names)
}

func TestUp_DelegatesToGoose(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(_ context.Context, _ *sql.DB, dir string) error {
		gotDir = dir
		return errors.New("boom")
	}

	err := Up(context.Background(), nil)
	require.EqualError(t, err, "boom")
	assert.Equal(t, ".", gotDir)
}

func TestLatest(t *testing.T) {
	v, err := Latest()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}
