// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigrateQuickCheck(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := Open(path, DefaultConfig())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	schema := `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL);`
	require.NoError(t, Migrate(ctx, db, 1, schema))
	// Same version is a no-op, so the CREATE without IF NOT EXISTS is not re-run.
	require.NoError(t, Migrate(ctx, db, 1, schema))

	var version int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, 1, version)

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	require.NoError(t, QuickCheck(ctx, db))
}

func TestMigrateRollsBackBadSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "bad.db"), DefaultConfig())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.Error(t, Migrate(ctx, db, 1, `CREATE TABLE (`))

	var version int
	require.NoError(t, db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Zero(t, version)
}
