package store

import (
	"database/sql"
	"testing"

	"github.com/frocha/mesada/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestChildCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	s := NewChildStore(db)

	c, err := s.Create("Alice")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if c.ID == "" {
		t.Error("expected non-empty id")
	}
	if c.Name != "Alice" {
		t.Errorf("name = %q, want Alice", c.Name)
	}

	got, err := s.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if got == nil || got.Name != "Alice" {
		t.Errorf("got %+v, want Alice", got)
	}
}

func TestChildGetMissing(t *testing.T) {
	db := setupTestDB(t)
	s := NewChildStore(db)

	got, err := s.GetByID("no-such-id")
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing child, got %+v", got)
	}
}

func TestChildListOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	s := NewChildStore(db)

	for _, name := range []string{"Zoe", "Alice", "Bob"} {
		if _, err := s.Create(name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	children, err := s.List()
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 3 {
		t.Fatalf("len = %d, want 3", len(children))
	}
	want := []string{"Alice", "Bob", "Zoe"}
	for i, w := range want {
		if children[i].Name != w {
			t.Errorf("children[%d].Name = %q, want %q", i, children[i].Name, w)
		}
	}
}

func TestChildUpdate(t *testing.T) {
	db := setupTestDB(t)
	s := NewChildStore(db)

	c, err := s.Create("Alice")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	updated, err := s.Update(c.ID, "Alicia")
	if err != nil {
		t.Fatalf("update child: %v", err)
	}
	if updated.Name != "Alicia" {
		t.Errorf("name = %q, want Alicia", updated.Name)
	}
}

func TestChildDelete(t *testing.T) {
	db := setupTestDB(t)
	s := NewChildStore(db)

	c, err := s.Create("Alice")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if err := s.Delete(c.ID); err != nil {
		t.Fatalf("delete child: %v", err)
	}

	got, err := s.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}
