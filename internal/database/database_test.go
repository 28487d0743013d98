package database

import (
	"strings"
	"testing"
)

func TestDSNCarriesPragmas(t *testing.T) {
	got := dsn("mesada.db")
	if !strings.HasPrefix(got, "mesada.db?") {
		t.Fatalf("dsn = %q, want mesada.db prefix", got)
	}
	for _, param := range []string{"_journal_mode=WAL", "_busy_timeout=5000", "_foreign_keys=on"} {
		if !strings.Contains(got, param) {
			t.Errorf("dsn %q missing %q", got, param)
		}
	}
}

func TestOpenMigratesSchema(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"users", "sessions", "children", "tasks", "completed_tasks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migration: %v", table, err)
		}
	}

	// Migrate is idempotent on an up-to-date database.
	if err := Migrate(db); err != nil {
		t.Errorf("re-migrate: %v", err)
	}
}
