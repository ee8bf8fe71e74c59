// Package databasetest provides migrated SQLite databases for tests.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/sibstore/storefront/internal/infrastructure/config"
	"github.com/sibstore/storefront/internal/infrastructure/database"
)

// New opens a fresh SQLite database in a temporary directory and applies all
// migrations. The database is closed when the test ends.
func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.New(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.MigrateUp(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}
