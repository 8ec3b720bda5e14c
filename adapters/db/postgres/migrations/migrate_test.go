package migrations

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadEmbedded(t *testing.T) {
	migs, err := Load(files)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, "001", migs[0].Version)
	assert.Equal(t, "analysis_reports", migs[0].Name)
	assert.Contains(t, migs[0].Up, "CREATE TABLE IF NOT EXISTS analysis_reports")
	assert.NotEmpty(t, migs[0].Down)
}

func TestLoadRejectsDownOnly(t *testing.T) {
	fsys := fstest.MapFS{"003_x.down.sql": {Data: []byte("SELECT 1")}}
	_, err := Load(fsys)
	assert.Error(t, err)
}

func TestUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, err := NewMigrator(openDB(t))
	require.NoError(t, err)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, applied)

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	status, err := m.Status(ctx)
	require.NoError(t, err)
	for _, s := range status {
		assert.True(t, s.Applied, s.Version)
	}
}

func TestDownRollsBackLatest(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m, err := NewMigrator(db)
	require.NoError(t, err)
	_, err = m.Up(ctx)
	require.NoError(t, err)

	version, err := m.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, "002", version)

	version, err = m.Down(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", version)

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'analysis_reports'"))
	assert.Equal(t, 0, n)

	_, err = m.Down(ctx)
	assert.Error(t, err)
}
