package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/madatlas/madatlas-be/internal/database"
	"github.com/stretchr/testify/require"
)

// testDB creates a temporary, migrated database for a test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
