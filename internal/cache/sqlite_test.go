package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *SQLite {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteSetAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := db.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("expected stored value, got %q", got)
	}
}

func TestSQLiteSetOverwrites(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	db.Set(ctx, "k", []byte("one"))
	if err := db.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, _ := db.Get(ctx, "k")
	if string(got) != "two" {
		t.Errorf("expected overwritten value, got %q", got)
	}

	count, _, err := db.Stats(filepath.Join(t.TempDir(), "missing.db"))
	if count != 1 {
		t.Errorf("expected 1 entry after overwrite, got %d", count)
	}
	if err == nil {
		t.Error("expected stat error for a missing file")
	}
}

func TestSQLiteMiss(t *testing.T) {
	db := testDB(t)

	_, err := db.Get(context.Background(), "absent")
	if !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestSQLiteDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	db.Set(ctx, "k", []byte("v"))
	if err := db.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after delete, got %v", err)
	}
	// Deleting twice is fine.
	if err := db.Delete(ctx, "k"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestPruneDeletesOldEntries(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	db.Set(ctx, "fresh", []byte("v"))
	db.Set(ctx, "stale", []byte("v"))
	old := time.Now().Add(-48 * time.Hour).UnixMilli()
	if _, err := db.writeDB.Exec("UPDATE entries SET written_at = ? WHERE key = 'stale'", old); err != nil {
		t.Fatalf("backdating: %v", err)
	}

	deleted, err := db.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}
	if _, err := db.Get(ctx, "fresh"); err != nil {
		t.Errorf("expected fresh entry to survive, got %v", err)
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	db := testDB(t)
	db.Set(context.Background(), "k", []byte("v"))

	deleted, err := db.Prune(365 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	db.Set(ctx, "a", []byte("1"))
	db.Set(ctx, "b", []byte("2"))

	count, size, err := db.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}
