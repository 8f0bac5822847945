// Package session keeps the in-process conversation state: a bounded rolling
// history of recent interactions plus access to the persistent memory store.
package session

import (
	"sync"
	"time"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/ports"
)

// DefaultHistoryCap bounds the rolling interaction history when the
// configuration does not specify a cap.
const DefaultHistoryCap = 20

// Manager owns the per-process session state. The interaction history is a
// FIFO window: once the cap is reached, recording a new interaction evicts
// the oldest one. Memory operations delegate to the durable store.
type Manager struct {
	mu      sync.Mutex
	history []domain.Interaction
	cap     int
	store   ports.MemoryStore
}

// NewManager builds a session manager with the given history cap. A cap of
// zero or less falls back to DefaultHistoryCap.
func NewManager(historyCap int, store ports.MemoryStore) *Manager {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Manager{
		history: make([]domain.Interaction, 0, historyCap),
		cap:     historyCap,
		store:   store,
	}
}

// Record appends an interaction to the rolling history, evicting the oldest
// entry when the window is full.
func (m *Manager) Record(interaction domain.Interaction) {
	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) >= m.cap {
		m.history = m.history[1:]
	}
	m.history = append(m.history, interaction)
}

// RecentHistory returns a copy of the rolling window, oldest first.
func (m *Manager) RecentHistory() []domain.Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Interaction, len(m.history))
	copy(out, m.history)
	return out
}

// Remember persists a labeled note. Existing labels are overwritten.
func (m *Manager) Remember(label, content string) error {
	return m.store.Save(label, content)
}

// Recall fetches a labeled note from the persistent store.
func (m *Manager) Recall(label string) (domain.MemoryEntry, bool, error) {
	return m.store.Recall(label)
}

// AllMemory lists every persistent note.
func (m *Manager) AllMemory() ([]domain.MemoryEntry, error) {
	return m.store.All()
}

var _ ports.SessionManager = (*Manager)(nil)
