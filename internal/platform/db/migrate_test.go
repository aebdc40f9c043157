package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "010_chat.sql", "CREATE TABLE c (id INT);")
	writeFile(t, dir, "002_scheduling.sql", "CREATE TABLE s (id INT);")
	writeFile(t, dir, "001_identity.sql", "CREATE TABLE i (id INT);")
	writeFile(t, dir, "notes.txt", "not a migration")
	writeFile(t, dir, "seed.sql", "no numeric prefix")
	writeFile(t, dir, "README_first.sql", "bad prefix")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantVersions := []int{1, 2, 10}
	if len(migrations) != len(wantVersions) {
		t.Fatalf("got %d migrations, want %d", len(migrations), len(wantVersions))
	}
	for i, v := range wantVersions {
		if migrations[i].Version != v {
			t.Errorf("migration[%d].Version = %d, want %d", i, migrations[i].Version, v)
		}
	}
	if migrations[0].Name != "001_identity.sql" {
		t.Errorf("name = %s, want 001_identity.sql", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE i (id INT);" {
		t.Errorf("SQL not loaded: %q", migrations[0].SQL)
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/does/not/exist")
	if _, err := m.LoadMigrations(); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadMigrations_EmptyDir(t *testing.T) {
	m := NewMigrator(nil, t.TempDir())
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("got %d migrations, want 0", len(migrations))
	}
}
