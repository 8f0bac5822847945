// Package memory persists labeled notes across sessions.
package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/pkg/filesystem"
	"github.com/doeshing/nlsh/internal/ports"
)

// SQLiteStore keeps memory entries in a SQLite database. The label column is
// the primary key, so re-saving a label overwrites in place, and the write
// happens inside the driver's transaction: a crash leaves the old row or the
// new row, never a mix.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore opens (or creates) the memory database at path. An empty
// path defaults to ~/.nlsh/memory.db.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".nlsh", "memory.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("memory store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init memory store: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS memories (
		label TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

// Save implements ports.MemoryStore. Existing labels are overwritten.
func (s *SQLiteStore) Save(label, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO memories (label, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		label, content, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Recall implements ports.MemoryStore.
func (s *SQLiteStore) Recall(label string) (domain.MemoryEntry, bool, error) {
	row := s.db.QueryRow(`SELECT label, content, updated_at FROM memories WHERE label = ?`, label)
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return domain.MemoryEntry{}, false, nil
	}
	if err != nil {
		return domain.MemoryEntry{}, false, err
	}
	return entry, true, nil
}

// All implements ports.MemoryStore, ordered by label.
func (s *SQLiteStore) All() ([]domain.MemoryEntry, error) {
	rows, err := s.db.Query(`SELECT label, content, updated_at FROM memories ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []domain.MemoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the backing database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func scanEntry(scan func(...any) error) (domain.MemoryEntry, error) {
	var entry domain.MemoryEntry
	var ts string
	if err := scan(&entry.Label, &entry.Content, &ts); err != nil {
		return domain.MemoryEntry{}, err
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		entry.UpdatedAt = t
	}
	return entry, nil
}

var _ ports.MemoryStore = (*SQLiteStore)(nil)
