// Package services holds the application use cases. The orchestrator drives
// one user turn end to end: translate, classify, confirm, execute.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/pkg/filesystem"
	"github.com/doeshing/nlsh/internal/ports"
)

// ClientFactory builds an AI client for the model resolved at turn time, so
// a --model override takes effect without rebuilding the container.
type ClientFactory func(model domain.ModelDefinition, thinking domain.ThinkingSettings) ports.AIClient

// Orchestrator coordinates the turn lifecycle. Ambiguous requests pass
// through the exploration state machine (Idle, Exploring, Analyzing,
// Responding); everything else takes the direct single-command path. Both
// paths gate every execution through the classifier.
type Orchestrator struct {
	ConfigProvider ports.ConfigProvider
	Collector      ports.ContextCollector
	NewClient      ClientFactory
	Classifier     ports.Classifier
	Runner         ports.Runner
	Prompter       ports.ConfirmationPrompter
	Session        ports.SessionManager
	History        ports.HistoryStore
	Logger         ports.Logger
}

// Respond processes a single natural-language turn and always yields exactly
// one TurnResult. Errors returned here are wiring or configuration faults;
// everything that can be resolved at a component boundary is folded into the
// result instead.
func (o *Orchestrator) Respond(req domain.TurnRequest) (domain.TurnResult, error) {
	if o.ConfigProvider == nil || o.Collector == nil || o.NewClient == nil ||
		o.Classifier == nil || o.Runner == nil || o.Session == nil || o.Logger == nil {
		return domain.TurnResult{}, errors.New("services.Orchestrator dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := o.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.TurnResult{}, fmt.Errorf("load config: %w", err)
	}

	snapshot, err := o.Collector.Collect(ctx, cfg)
	if err != nil {
		// A partial snapshot still produces usable prompts.
		o.Logger.Warn("context collection incomplete", map[string]interface{}{"error": err.Error()})
	}

	model, err := pickModel(cfg, req.ModelOverride)
	if err != nil {
		return domain.TurnResult{}, err
	}
	client := o.NewClient(model, cfg.Thinking)

	history := o.Session.RecentHistory()
	memory, err := o.Session.AllMemory()
	if err != nil {
		o.Logger.Warn("memory unavailable", map[string]interface{}{"error": err.Error()})
	}

	turn := turnState{
		ctx:      ctx,
		cfg:      cfg,
		req:      req,
		client:   client,
		snapshot: snapshot,
		history:  history,
		memory:   memory,
	}

	var result domain.TurnResult
	if needsThinking(req.Input) {
		result = o.think(turn)
	} else {
		result = o.direct(turn)
	}

	o.record(result)
	return result, nil
}

// turnState carries the per-turn inputs between the orchestrator's phases.
type turnState struct {
	ctx      context.Context
	cfg      domain.Config
	req      domain.TurnRequest
	client   ports.AIClient
	snapshot domain.ContextSnapshot
	history  []domain.Interaction
	memory   []domain.MemoryEntry
}

// direct is the single-command path for unambiguous requests.
func (o *Orchestrator) direct(turn turnState) domain.TurnResult {
	response, err := turn.client.ProposeCommand(turn.ctx, turn.req.Input, turn.snapshot, turn.history, turn.memory)
	if err != nil {
		return o.fallback(turn, err)
	}
	// Models may escalate to the exploration machine on their own.
	if response.ThinkingMode {
		return o.think(turn)
	}
	if response.NeedsClarification || response.Command() == "" {
		return domain.TurnResult{
			Kind:    domain.TurnClarification,
			Input:   turn.req.Input,
			Message: response.Message,
		}
	}
	return o.respond(turn, response.Command(), response.Message, nil, nil)
}

// think runs the exploration state machine: exactly one exploration round,
// then one analysis, then a final response.
func (o *Orchestrator) think(turn turnState) domain.TurnResult {
	session := &domain.ThinkingSession{
		ID:        uuid.NewString(),
		Request:   turn.req.Input,
		Phase:     domain.PhaseExploring,
		StartedAt: time.Now(),
	}
	defer func() { session.Phase = domain.PhaseIdle }()

	proposed, err := turn.client.ProposeExploration(turn.ctx, turn.req.Input, turn.snapshot, turn.history, turn.memory)
	if err != nil {
		return o.fallback(turn, err)
	}

	cap := turn.cfg.Thinking.ExplorationCap
	if cap <= 0 {
		cap = 5
	}

	var explored []string
	for _, command := range proposed {
		if len(explored) >= cap {
			break
		}
		verdict := o.Classifier.Classify(command)
		if verdict != domain.VerdictAutoApprove {
			// Dropped, not substituted: the round proceeds with whatever
			// cleared the gate.
			o.Logger.Debug("exploration command dropped", map[string]interface{}{
				"command": command,
				"verdict": string(verdict),
			})
			continue
		}
		result := o.Runner.Run(turn.ctx, command, domain.RunOptions{ForceBatch: true})
		explored = append(explored, command)
		session.Exploration = append(session.Exploration, command)
		session.Results = append(session.Results, result)
	}

	session.Phase = domain.PhaseAnalyzing
	response, err := turn.client.Analyze(turn.ctx, turn.req.Input, turn.snapshot, session.Results, turn.history, turn.memory)
	if err != nil {
		fallback := o.fallback(turn, err)
		fallback.Explored = explored
		fallback.Session = session
		return fallback
	}

	session.Phase = domain.PhaseResponding
	if response.NeedsClarification || response.Command() == "" {
		return domain.TurnResult{
			Kind:     domain.TurnClarification,
			Input:    turn.req.Input,
			Message:  response.Message,
			Explored: explored,
			Session:  session,
		}
	}
	return o.respond(turn, response.Command(), response.Message, explored, session)
}

// respond is the shared terminal phase: classify the final command, then
// execute, prompt, or block per its verdict.
func (o *Orchestrator) respond(turn turnState, command, message string, explored []string, session *domain.ThinkingSession) domain.TurnResult {
	report := o.Classifier.Report(command)
	result := domain.TurnResult{
		Input:    turn.req.Input,
		Command:  command,
		Message:  message,
		Safety:   report,
		Explored: explored,
		Session:  session,
	}

	switch report.Verdict {
	case domain.VerdictBlock:
		result.Kind = domain.TurnBlocked
		result.Message = blockMessage(report)
		return result

	case domain.VerdictAutoApprove:
		if turn.req.AutoExecute || turn.cfg.Preferences.AutoExecuteSafe {
			return o.execute(turn, result, report)
		}
		return o.confirmAndExecute(turn, result, report)

	default: // VerdictConfirm, always prompted regardless of auto-execute
		return o.confirmAndExecute(turn, result, report)
	}
}

func (o *Orchestrator) confirmAndExecute(turn turnState, result domain.TurnResult, report domain.SafetyReport) domain.TurnResult {
	if o.Prompter == nil || !o.Prompter.Enabled() {
		result.Kind = domain.TurnConfirmation
		return result
	}
	accepted, err := o.Prompter.Confirm(result.Command, report.Reasons)
	if err != nil {
		result.Kind = domain.TurnFailed
		result.Message = fmt.Sprintf("confirmation failed: %v", err)
		return result
	}
	if !accepted {
		result.Kind = domain.TurnConfirmation
		return result
	}
	return o.execute(turn, result, report)
}

func (o *Orchestrator) execute(turn turnState, result domain.TurnResult, report domain.SafetyReport) domain.TurnResult {
	// cd only affects the calling process; spawned in a shell it would exit
	// zero and change nothing. The orchestrator performs it like a builtin.
	if dir, ok := chdirTarget(result.Command); ok {
		execResult := changeDir(result.Command, dir)
		result.Kind = domain.TurnExecuted
		result.Result = &execResult
		return result
	}

	opts := domain.RunOptions{
		ForceInteractive: turn.req.ForceInteractive || report.Interactive,
	}
	execResult := o.Runner.Run(turn.ctx, result.Command, opts)
	result.Kind = domain.TurnExecuted
	result.Result = &execResult

	if execResult.ErrKind == domain.ExecNonZero {
		if suggestion := o.suggestFix(turn, execResult); suggestion != "" {
			if result.Message != "" {
				result.Message += "\n" + suggestion
			} else {
				result.Message = suggestion
			}
		}
	}
	return result
}

// chdirTarget recognizes a bare cd invocation. Anything with control
// operators or expansion falls through to the shell.
func chdirTarget(command string) (string, bool) {
	if strings.ContainsAny(command, "&|;$`") {
		return "", false
	}
	fields := strings.Fields(command)
	switch {
	case len(fields) == 1 && fields[0] == "cd":
		return "~", true
	case len(fields) == 2 && fields[0] == "cd":
		return fields[1], true
	}
	return "", false
}

func changeDir(command, dir string) domain.ExecutionResult {
	result := domain.ExecutionResult{Command: command}
	start := time.Now()
	if err := os.Chdir(filesystem.Expand(dir)); err != nil {
		result.ErrKind = domain.ExecNonZero
		result.ExitCode = 1
		result.Stderr = err.Error()
		result.Err = err
	} else if wd, err := os.Getwd(); err == nil {
		result.Stdout = "Changed directory to " + wd
	}
	result.Duration = time.Since(start)
	return result
}

// suggestFix asks the AI to interpret a failed execution. The suggestion is
// only text; it is never executed.
func (o *Orchestrator) suggestFix(turn turnState, failed domain.ExecutionResult) string {
	response, err := turn.client.Analyze(turn.ctx, turn.req.Input, turn.snapshot, []domain.ExecutionResult{failed}, turn.history, turn.memory)
	if err != nil {
		o.Logger.Debug("fix suggestion unavailable", map[string]interface{}{"error": err.Error()})
		return ""
	}
	message := response.Message
	if command := response.Command(); command != "" {
		message = strings.TrimSpace(message + "\nSuggested: " + command)
	}
	return message
}

/// fallback handles an AI client failure: the raw request is offered for
// direct confirm-execution and the failure is surfaced in the message.
func (o *Orchestrator) fallback(turn turnState, cause error) domain.TurnResult {
	o.Logger.Error("ai client failed", cause, map[string]interface{}{"input": turn.req.Input})

	report := o.Classifier.Report(turn.req.Input)
	result := domain.TurnResult{
		Input:   turn.req.Input,
		Command: turn.req.Input,
		Safety:  report,
		Message: fmt.Sprintf("AI unavailable (%v); offering your input as a literal command.", cause),
	}

	if report.Verdict == domain.VerdictBlock {
		result.Kind = domain.TurnBlocked
		return result
	}
	if o.Prompter == nil || !o.Prompter.Enabled() {
		result.Kind = domain.TurnFailed
		return result
	}
	accepted, err := o.Prompter.Confirm(turn.req.Input, append([]string{result.Message}, report.Reasons...))
	if err != nil || !accepted {
		result.Kind = domain.TurnFailed
		return result
	}

	executed := o.execute(turn, result, report)
	// Keep the surfaced failure even when execution succeeds.
	if executed.Message == "" {
		executed.Message = result.Message
	}
	return executed
}

// record appends the turn to the rolling session window and the persistent
// history log. Persistence failures are logged; the in-memory session state
// is unaffected.
func (o *Orchestrator) record(result domain.TurnResult) {
	o.Session.Record(domain.Interaction{
		Input:     result.Input,
		Command:   result.Command,
		Result:    result.Result,
		Timestamp: time.Now(),
	})

	if o.History == nil {
		return
	}
	record := domain.HistoryRecord{
		Timestamp: time.Now(),
		Input:     result.Input,
		Command:   result.Command,
		Verdict:   result.Safety.Verdict,
		Executed:  result.Kind == domain.TurnExecuted,
	}
	if result.Result != nil {
		record.ExitCode = result.Result.ExitCode
		record.DurationMS = result.Result.Duration.Milliseconds()
	}
	if err := o.History.Save(record); err != nil {
		o.Logger.Warn("history write failed", map[string]interface{}{"error": err.Error()})
	}
}

func blockMessage(report domain.SafetyReport) string {
	if len(report.Reasons) == 0 {
		return "command blocked by safety rules"
	}
	return "command blocked: " + strings.Join(report.Reasons, "; ")
}

func pickModel(cfg domain.Config, override string) (domain.ModelDefinition, error) {
	name := override
	if name == "" {
		name = cfg.Preferences.DefaultModel
	}
	if name == "" {
		if len(cfg.Models) > 0 {
			return cfg.Models[0], nil
		}
		// No models configured at all: the factory resolves this to the
		// offline heuristic provider.
		return domain.ModelDefinition{}, nil
	}
	for _, model := range cfg.Models {
		if model.Name == name {
			return model, nil
		}
	}
	return domain.ModelDefinition{}, fmt.Errorf("model %s not configured", name)
}
