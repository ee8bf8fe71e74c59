package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sibstore/storefront/internal/infrastructure/config"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()
	db, err := New(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "shop.db")})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp(t *testing.T) {
	db := openSQLite(t)

	changed, err := db.MigrateUp()
	if err != nil {
		t.Fatalf("MigrateUp() error: %v", err)
	}
	if !changed {
		t.Error("first MigrateUp() reported no change")
	}

	changed, err = db.MigrateUp()
	if err != nil {
		t.Fatalf("second MigrateUp() error: %v", err)
	}
	if changed {
		t.Error("second MigrateUp() reported a change")
	}

	for _, table := range []string{"products", "used_phones", "orders", "visits", "error_reports", "contact_messages", "admins"} {
		var n int
		err := db.DB.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err != nil {
			t.Fatalf("query %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestMigrateDown(t *testing.T) {
	db := openSQLite(t)
	if _, err := db.MigrateUp(); err != nil {
		t.Fatal(err)
	}

	m, err := db.Migrator()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Down(); err != nil {
		t.Fatalf("Down() error: %v", err)
	}

	var n int
	if err := db.DB.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'products'"); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("products table still present after down migration")
	}
}

func TestHealthCheck(t *testing.T) {
	db := openSQLite(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}
	if db.Driver() != "sqlite" {
		t.Errorf("Driver() = %q", db.Driver())
	}
	if info := db.GetConnectionInfo(); info["driver"] != "sqlite" {
		t.Errorf("driver = %v", info["driver"])
	}
}

func TestUnsupportedDriver(t *testing.T) {
	db := &DB{config: config.DatabaseConfig{Driver: "oracle"}}
	if _, err := db.Migrator(); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
