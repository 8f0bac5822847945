package memory

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndRecall(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("editor", "prefers vim"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	entry, ok, err := store.Recall("editor")
	if err != nil || !ok {
		t.Fatalf("Recall = (%v, %v), want found", ok, err)
	}
	if entry.Content != "prefers vim" {
		t.Fatalf("content = %q", entry.Content)
	}
}

func TestSaveOverwritesLabel(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("editor", "vim"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Save("editor", "emacs"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	entry, ok, err := store.Recall("editor")
	if err != nil || !ok {
		t.Fatalf("Recall = (%v, %v), want found", ok, err)
	}
	if entry.Content != "emacs" {
		t.Fatalf("content = %q, want emacs (overwrite, not duplicate)", entry.Content)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("entries = %d, want 1", len(all))
	}
}

func TestRecallMissingLabel(t *testing.T) {
	store := newTestStore(t)
	_, ok, err := store.Recall("nothing")
	if err != nil {
		t.Fatalf("Recall error: %v", err)
	}
	if ok {
		t.Fatal("expected not-found for missing label")
	}
}

func TestMemorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	if err := store.Save("host", "prod runs on debian"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()
	entry, ok, err := reopened.Recall("host")
	if err != nil || !ok {
		t.Fatalf("Recall after reopen = (%v, %v), want found", ok, err)
	}
	if entry.Content != "prod runs on debian" {
		t.Fatalf("content = %q", entry.Content)
	}
}
