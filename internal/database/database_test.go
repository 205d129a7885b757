package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/fraudscope/internal/database/repository"
)

func TestRunMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "fraudscope.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(dbPath))
	require.NoError(t, RunMigrations(dbPath))
	require.NoError(t, RunMigrationsWithDB(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('kv_store','rule_events')`).Scan(&n))
	require.Equal(t, 2, n)
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	db, err := OpenMigrated(ctx, filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	kv := repository.NewKVRepo(db)
	require.NoError(t, SeedDefaults(ctx, db))
	v, ok, err := kv.Get(ctx, repository.KeyRules)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[]", v)

	require.NoError(t, kv.Put(ctx, repository.KeyRules, `[{"id":"x"}]`))
	require.NoError(t, SeedDefaults(ctx, db))
	v, _, err = kv.Get(ctx, repository.KeyRules)
	require.NoError(t, err)
	require.Equal(t, `[{"id":"x"}]`, v)
}
