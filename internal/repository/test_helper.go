package repository

import (
	"testing"

	"github.com/nimasrn/finance-ledger/pkg/pg"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a private in-memory sqlite database with the schema applied.
func setupTestDB(t *testing.T) *pg.DB {
	t.Helper()

	db, err := pg.CreateSQLite(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.AutoMigrate(Entities()...))
	return db
}
