package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenAt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(t *testing.T, store *Store, op Operation, pkgs ...string) *Entry {
	t.Helper()
	entry := NewEntry(op, "apt-get", pkgs)
	entry.MarkSuccess()
	if err := store.Record(entry); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	return entry
}

func TestOpenDefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	store, err := Open()
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestRecordAndList(t *testing.T) {
	store := setupTestStore(t)

	record(t, store, OpInstall, "vim")
	record(t, store, OpRemove, "nano")
	record(t, store, OpUpdate)

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Operation != OpUpdate || entries[2].Operation != OpInstall {
		t.Errorf("entries should be most recent first: %v, %v", entries[0].Operation, entries[2].Operation)
	}

	limited, err := store.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d entries", len(limited))
	}
}

func TestGet(t *testing.T) {
	store := setupTestStore(t)

	first := record(t, store, OpInstall, "vim")
	record(t, store, OpInstall, "git")

	got, err := store.Get(first.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Packages[0] != "vim" {
		t.Errorf("Get() = %+v", got)
	}

	got, err = store.Get(first.ShortID())
	if err != nil {
		t.Fatalf("Get(short) error: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("Get(short) = %s, want %s", got.ID, first.ID)
	}

	if _, err := store.Get("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestCountAndClear(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 4; i++ {
		record(t, store, OpInstall, "pkg")
	}

	count, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("Count() = %d, want 4", count)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	count, _ = store.Count()
	if count != 0 {
		t.Errorf("Count() after Clear = %d", count)
	}
}

func TestPrune(t *testing.T) {
	store := setupTestStore(t)

	old := NewEntry(OpInstall, "apt-get", []string{"old"})
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	if err := store.Record(old); err != nil {
		t.Fatal(err)
	}
	record(t, store, OpInstall, "new")

	deleted, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d, want 1", deleted)
	}

	entries, _ := store.List(0)
	if len(entries) != 1 || entries[0].Packages[0] != "new" {
		t.Errorf("remaining entries = %+v", entries)
	}
}
