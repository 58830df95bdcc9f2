package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(nil)
	if err := store.Open(MemoryPath); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)

	if err := store.Open(MemoryPath); err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)
	ctx := context.Background()

	if err := store.Migrate(); err == nil {
		t.Error("Migrate should fail before Open")
	}
	if err := store.SaveUpload(ctx, &Upload{}); err == nil {
		t.Error("SaveUpload should fail before Open")
	}
	if _, err := store.LatestUpload(ctx, "s"); err == nil {
		t.Error("LatestUpload should fail before Open")
	}
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	if err != nil {
		t.Fatalf("GetMigrationVersion: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}

	// Running again is a no-op.
	if err := store.Migrate(); err != nil {
		t.Errorf("second Migrate: %v", err)
	}
}

func TestSQLiteStore_LatestUpload(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.LatestUpload(ctx, "session-a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store: err = %v, want ErrNotFound", err)
	}

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	uploads := []*Upload{
		{SessionID: "session-a", Filename: "old.csv", Content: []byte("old"), CreatedAt: base},
		{SessionID: "session-a", Filename: "new.csv", Content: []byte("new"), CreatedAt: base.Add(time.Minute)},
		{SessionID: "session-b", Filename: "other.csv", Content: []byte("other"), CreatedAt: base.Add(time.Hour)},
	}
	for _, u := range uploads {
		if err := store.SaveUpload(ctx, u); err != nil {
			t.Fatalf("SaveUpload(%s): %v", u.Filename, err)
		}
		if u.ID == "" {
			t.Errorf("SaveUpload should assign an ID")
		}
	}

	got, err := store.LatestUpload(ctx, "session-a")
	if err != nil {
		t.Fatalf("LatestUpload: %v", err)
	}
	if got.Filename != "new.csv" || string(got.Content) != "new" {
		t.Errorf("LatestUpload = %s %q, want new.csv \"new\"", got.Filename, got.Content)
	}
	if !got.CreatedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, base.Add(time.Minute))
	}
}

func TestSQLiteStore_SaveUploadDefaults(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	u := &Upload{SessionID: "s", Filename: "plan.csv", Content: []byte("x")}
	before := time.Now().UTC().Add(-time.Second)
	if err := store.SaveUpload(ctx, u); err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if u.CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want a current timestamp", u.CreatedAt)
	}
}

func TestSQLiteStore_DeleteSession(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, sid := range []string{"keep", "drop", "drop"} {
		if err := store.SaveUpload(ctx, &Upload{SessionID: sid, Filename: "f.csv", Content: []byte("x")}); err != nil {
			t.Fatalf("SaveUpload: %v", err)
		}
	}

	if err := store.DeleteSession(ctx, "drop"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := store.LatestUpload(ctx, "drop"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted session: err = %v, want ErrNotFound", err)
	}
	if _, err := store.LatestUpload(ctx, "keep"); err != nil {
		t.Errorf("other session should survive: %v", err)
	}
}

func TestSQLiteStore_Prune(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	old := &Upload{SessionID: "a", Filename: "old.csv", Content: []byte("x"), CreatedAt: now.Add(-48 * time.Hour)}
	fresh := &Upload{SessionID: "b", Filename: "fresh.csv", Content: []byte("x"), CreatedAt: now}
	for _, u := range []*Upload{old, fresh} {
		if err := store.SaveUpload(ctx, u); err != nil {
			t.Fatalf("SaveUpload: %v", err)
		}
	}

	n, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d uploads, want 1", n)
	}
	if _, err := store.LatestUpload(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old upload should be pruned, err = %v", err)
	}
}

func TestSQLiteStore_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	ctx := context.Background()

	store := NewSQLiteStore(nil)
	if err := store.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := store.SaveUpload(ctx, &Upload{SessionID: "s", Filename: "p.csv", Content: []byte("x")}); err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := NewSQLiteStore(nil)
	if err := reopened.Open(path); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if _, err := reopened.LatestUpload(ctx, "s"); err != nil {
		t.Errorf("upload should survive reopen: %v", err)
	}
}
