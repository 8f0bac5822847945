package domain

import "time"

// Interaction is one completed user turn kept in the rolling session history.
type Interaction struct {
	Input     string
	Command   string
	Result    *ExecutionResult
	Timestamp time.Time
}

// MemoryEntry is a persistent note the user asked the assistant to remember.
// Labels are unique; re-saving a label overwrites the previous content.
type MemoryEntry struct {
	Label     string
	Content   string
	UpdatedAt time.Time
}

// Phase enumerates the thinking state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseExploring  Phase = "exploring"
	PhaseAnalyzing  Phase = "analyzing"
	PhaseResponding Phase = "responding"
)

// ThinkingSession tracks one exploration/analysis round for an ambiguous
// request. A session is created per request and discarded once terminal.
type ThinkingSession struct {
	ID          string
	Request     string
	Phase       Phase
	Exploration []string
	Results     []ExecutionResult
	StartedAt   time.Time
}
