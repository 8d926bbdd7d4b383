package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/tasklist/internal/platform/postgres"
	"github.com/phrazzld/tasklist/internal/store"
	"github.com/phrazzld/tasklist/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresKVStore_PanicsOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postgres.NewPostgresKVStore(nil, nil) })
}

func TestPostgresKVStore_EmptyKey(t *testing.T) {
	t.Parallel()

	// Key validation happens before any query, so a closed pool is enough.
	db, err := sql.Open("pgx", "postgres://localhost/unused")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s := postgres.NewPostgresKVStore(db, nil)
	_, _, err = s.Get(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrEmptyKey)
	assert.ErrorIs(t, s.Set(context.Background(), "  ", "[]"), store.ErrEmptyKey)
}

func TestPostgresKVStore_GetSet(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresKVStore(tx, nil)

		_, found, err := s.Get(ctx, "tasks")
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, s.Set(ctx, "tasks", `[{"id":"a"}]`))
		v, found, err := s.Get(ctx, "tasks")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"a"}]`, v)

		require.NoError(t, s.Set(ctx, "tasks", "[]"))
		v, _, err = s.Get(ctx, "tasks")
		require.NoError(t, err)
		assert.Equal(t, "[]", v)

		var rows int
		require.NoError(t, tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_entries WHERE key = $1", "tasks").Scan(&rows))
		assert.Equal(t, 1, rows, "upsert must not duplicate keys")
	})
}

func TestPostgresKVStore_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresKVStore(tx, nil)

		require.NoError(t, s.Set(ctx, "tasks", "[]"))
		require.NoError(t, s.Set(ctx, "tasks-archive", `[{"id":"b"}]`))

		v, _, err := s.Get(ctx, "tasks")
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})
}
