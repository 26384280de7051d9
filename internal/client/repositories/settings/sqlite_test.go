package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)
	return db
}

func TestSetGetDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	got, err := r.Get(ctx, KeySyncEnabled)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, r.Set(ctx, KeySyncEnabled, "true"))
	got, err = r.Get(ctx, KeySyncEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	// overwrite
	require.NoError(t, r.Set(ctx, KeySyncEnabled, "false"))
	got, err = r.Get(ctx, KeySyncEnabled)
	require.NoError(t, err)
	assert.Equal(t, "false", got)

	require.NoError(t, r.Delete(ctx, KeySyncEnabled))
	got, err = r.Get(ctx, KeySyncEnabled)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	// deleting again is fine
	require.NoError(t, r.Delete(ctx, KeySyncEnabled))
}
