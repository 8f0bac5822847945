package domain

import "context"

// TurnRequest captures one user turn entering the orchestrator.
type TurnRequest struct {
	Context          context.Context
	Input            string
	ModelOverride    string
	AutoExecute      bool
	ForceInteractive bool
}

// TurnKind is the caller-facing outcome of a turn. Exactly one is produced
// per turn.
type TurnKind string

const (
	TurnExecuted      TurnKind = "executed"
	TurnConfirmation  TurnKind = "awaiting_confirmation"
	TurnBlocked       TurnKind = "blocked"
	TurnClarification TurnKind = "clarification"
	TurnFailed        TurnKind = "error"
)

// TurnResult is the canonical response propagated back to the CLI.
type TurnResult struct {
	Kind    TurnKind
	Input   string
	Command string
	Message string
	Safety  SafetyReport
	Result  *ExecutionResult
	// Explored lists the diagnostic commands actually run during a
	// thinking round, in execution order.
	Explored []string
	Session  *ThinkingSession
}

// AIResponse is the parsed envelope returned by the AI client. It mirrors
// the JSON contract the providers are prompted to emit.
type AIResponse struct {
	Message             string
	Commands            []string
	ExplorationCommands []string
	NeedsClarification  bool
	ThinkingMode        bool
	Confidence          float64
}

// Command returns the first suggested command, or empty.
func (r AIResponse) Command() string {
	if len(r.Commands) == 0 {
		return ""
	}
	return r.Commands[0]
}
