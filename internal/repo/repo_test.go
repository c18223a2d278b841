package repo_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/readlater/internal/repo"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repo.Open(":memory:")
	require.NoError(t, err)
	// a single in-memory connection, shared by every statement in the test
	db.SetMaxOpenConns(1)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
