// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core depends on these abstractions only; concrete adapters
// live in the infrastructure layer. This keeps the orchestrator testable with
// stubs and independent of HTTP clients, SQLite, or the terminal.
package ports

import (
	"context"

	"github.com/doeshing/nlsh/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.nlsh/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Classifier resolves a command line to a safety verdict. Implementations
// must be deterministic and total: every input maps to exactly one verdict.
type Classifier interface {
	Classify(command string) domain.Verdict
	// Report returns the verdict together with the matched rule
	// descriptions, for rendering confirmations and blocks.
	Report(command string) domain.SafetyReport
}

// Runner executes a command, batch or interactive, and always returns a
// result; spawn failures are reported in the result, never as a panic.
type Runner interface {
	Run(ctx context.Context, command string, opts domain.RunOptions) domain.ExecutionResult
}

// AIClient is the external natural-language collaborator.
type AIClient interface {
	// ProposeCommand translates a request into a shell command.
	ProposeCommand(ctx context.Context, request string, snapshot domain.ContextSnapshot, history []domain.Interaction, memory []domain.MemoryEntry) (domain.AIResponse, error)
	// ProposeExploration returns diagnostic commands (at most the
	// configured cap) to gather context for an ambiguous request.
	ProposeExploration(ctx context.Context, request string, snapshot domain.ContextSnapshot, history []domain.Interaction, memory []domain.MemoryEntry) ([]string, error)
	// Analyze interprets exploration results and yields either a final
	// command or a clarifying message.
	Analyze(ctx context.Context, request string, snapshot domain.ContextSnapshot, results []domain.ExecutionResult, history []domain.Interaction, memory []domain.MemoryEntry) (domain.AIResponse, error)
}

// MemoryStore is the durable label -> (content, timestamp) collection.
// Writes are atomic: a crash mid-write leaves the old or the new state.
type MemoryStore interface {
	Save(label, content string) error
	Recall(label string) (domain.MemoryEntry, bool, error)
	All() ([]domain.MemoryEntry, error)
}

// HistoryStore persists completed turns across restarts.
type HistoryStore interface {
	Save(record domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
}

// SessionManager tracks the rolling conversation window and fronts the
// persistent memory store.
type SessionManager interface {
	Record(domain.Interaction)
	RecentHistory() []domain.Interaction
	Remember(label, content string) error
	Recall(label string) (domain.MemoryEntry, bool, error)
	AllMemory() ([]domain.MemoryEntry, error)
}

// ContextCollector gathers environmental context to enrich AI prompts.
type ContextCollector interface {
	Collect(ctx context.Context, cfg domain.Config) (domain.ContextSnapshot, error)
}

// ConfirmationPrompter handles interactive user confirmations for commands
// whose verdict is Confirm.
type ConfirmationPrompter interface {
	Confirm(command string, reasons []string) (bool, error)
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
