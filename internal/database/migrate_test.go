// Package database provides connection setup for MariaDB and Redis.
// This file validates migration SQL files to catch schema mismatches early.
package database

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// migrationsDir returns the absolute path to migrations/ from the project root.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	// thisFile is internal/database/migrate_test.go, project root is two dirs up.
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	dir := filepath.Join(projectRoot, "migrations")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("migrations directory not found at %s: %v", dir, err)
	}
	return dir
}

// TestMigrations_PostTimestampPrecision checks that the posts timestamp
// columns carry fractional seconds. The listing orders by created_at
// descending; second-granularity stamps would make that order
// nondeterministic for posts created within the same second.
func TestMigrations_PostTimestampPrecision(t *testing.T) {
	data, err := os.ReadFile(filepath.Join(migrationsDir(t), "000002_create_posts.up.sql"))
	if err != nil {
		t.Fatalf("reading posts migration: %v", err)
	}
	content := string(data)

	pattern := regexp.MustCompile(`(created_at|updated_at)\s+TIMESTAMP\((\d)\)`)
	matches := pattern.FindAllStringSubmatch(content, -1)
	if len(matches) != 2 {
		t.Fatalf("expected 2 fractional TIMESTAMP columns in posts, found %d", len(matches))
	}
	for _, m := range matches {
		if m[2] != "6" {
			t.Errorf("column %s has precision %s, want 6", m[1], m[2])
		}
	}
}

// TestMigrations_UpDownPairs checks that every up migration has a matching
// down migration, so a failed deploy can roll back.
func TestMigrations_UpDownPairs(t *testing.T) {
	dir := migrationsDir(t)
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing migration files: %v", err)
	}
	if len(ups) == 0 {
		t.Fatal("no migration files found")
	}

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := os.Stat(down); err != nil {
			t.Errorf("missing down migration for %s", filepath.Base(up))
		}
	}
}
