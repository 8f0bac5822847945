package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/ports"
)

type stubConfig struct{ cfg domain.Config }

func (s stubConfig) Load(context.Context) (domain.Config, error) { return s.cfg, nil }

type stubCollector struct{}

func (stubCollector) Collect(context.Context, domain.Config) (domain.ContextSnapshot, error) {
	return domain.ContextSnapshot{WorkingDir: "/home/tester", Shell: "/bin/sh", OS: "linux"}, nil
}

// stubClassifier maps exact commands to verdicts, defaulting to Confirm.
type stubClassifier struct {
	verdicts map[string]domain.Verdict
}

func (s stubClassifier) Classify(command string) domain.Verdict {
	if v, ok := s.verdicts[command]; ok {
		return v
	}
	return domain.VerdictConfirm
}

func (s stubClassifier) Report(command string) domain.SafetyReport {
	return domain.SafetyReport{Verdict: s.Classify(command), Reasons: []string{"stub rule"}}
}

type stubRunner struct {
	ran     []string
	opts    []domain.RunOptions
	results map[string]domain.ExecutionResult
}

func (s *stubRunner) Run(_ context.Context, command string, opts domain.RunOptions) domain.ExecutionResult {
	s.ran = append(s.ran, command)
	s.opts = append(s.opts, opts)
	if result, ok := s.results[command]; ok {
		return result
	}
	return domain.ExecutionResult{Command: command, Stdout: "ok"}
}

type stubPrompter struct {
	answer bool
	err    error
	asked  []string
}

func (s *stubPrompter) Confirm(command string, _ []string) (bool, error) {
	s.asked = append(s.asked, command)
	return s.answer, s.err
}

func (s *stubPrompter) Enabled() bool { return true }

type stubClient struct {
	propose    domain.AIResponse
	proposeErr error
	explore    []string
	exploreErr error
	analyze    domain.AIResponse
	analyzeErr error

	analyzedResults []domain.ExecutionResult
}

func (s *stubClient) ProposeCommand(context.Context, string, domain.ContextSnapshot, []domain.Interaction, []domain.MemoryEntry) (domain.AIResponse, error) {
	return s.propose, s.proposeErr
}

func (s *stubClient) ProposeExploration(context.Context, string, domain.ContextSnapshot, []domain.Interaction, []domain.MemoryEntry) ([]string, error) {
	return s.explore, s.exploreErr
}

func (s *stubClient) Analyze(_ context.Context, _ string, _ domain.ContextSnapshot, results []domain.ExecutionResult, _ []domain.Interaction, _ []domain.MemoryEntry) (domain.AIResponse, error) {
	s.analyzedResults = results
	return s.analyze, s.analyzeErr
}

type stubSession struct {
	recorded []domain.Interaction
}

func (s *stubSession) Record(i domain.Interaction)          { s.recorded = append(s.recorded, i) }
func (s *stubSession) RecentHistory() []domain.Interaction  { return nil }
func (s *stubSession) Remember(string, string) error        { return nil }
func (s *stubSession) Recall(string) (domain.MemoryEntry, bool, error) {
	return domain.MemoryEntry{}, false, nil
}
func (s *stubSession) AllMemory() ([]domain.MemoryEntry, error) { return nil, nil }

type stubHistory struct {
	saved []domain.HistoryRecord
}

func (s *stubHistory) Save(r domain.HistoryRecord) error { s.saved = append(s.saved, r); return nil }
func (s *stubHistory) Records(int, string) ([]domain.HistoryRecord, error) { return s.saved, nil }
func (s *stubHistory) Clear() error                                        { s.saved = nil; return nil }

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

type fixture struct {
	orchestrator *Orchestrator
	client       *stubClient
	runner       *stubRunner
	prompter     *stubPrompter
	session      *stubSession
	history      *stubHistory
}

func newFixture(client *stubClient, verdicts map[string]domain.Verdict) *fixture {
	runner := &stubRunner{results: map[string]domain.ExecutionResult{}}
	prompter := &stubPrompter{answer: true}
	session := &stubSession{}
	history := &stubHistory{}
	o := &Orchestrator{
		ConfigProvider: stubConfig{cfg: domain.Config{
			Thinking: domain.ThinkingSettings{ExplorationCap: 5},
		}},
		Collector: stubCollector{},
		NewClient: func(domain.ModelDefinition, domain.ThinkingSettings) ports.AIClient {
			return client
		},
		Classifier: stubClassifier{verdicts: verdicts},
		Runner:     runner,
		Prompter:   prompter,
		Session:    session,
		History:    history,
		Logger:     nopLogger{},
	}
	return &fixture{orchestrator: o, client: client, runner: runner, prompter: prompter, session: session, history: history}
}

func TestDirectPathAutoApproveExecutes(t *testing.T) {
	client := &stubClient{propose: domain.AIResponse{Message: "lists files", Commands: []string{"ls -la"}}}
	f := newFixture(client, map[string]domain.Verdict{"ls -la": domain.VerdictAutoApprove})

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "list everything here", AutoExecute: true})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnExecuted {
		t.Fatalf("kind = %s, want executed", result.Kind)
	}
	if len(f.runner.ran) != 1 || f.runner.ran[0] != "ls -la" {
		t.Fatalf("ran = %v, want [ls -la]", f.runner.ran)
	}
	if len(f.prompter.asked) != 0 {
		t.Fatalf("auto-approved command should not prompt, asked %v", f.prompter.asked)
	}
	if len(f.session.recorded) != 1 || len(f.history.saved) != 1 {
		t.Fatalf("turn not recorded: session=%d history=%d", len(f.session.recorded), len(f.history.saved))
	}
}

func TestDirectPathConfirmVerdictPrompts(t *testing.T) {
	client := &stubClient{propose: domain.AIResponse{Commands: []string{"rm notes.txt"}}}
	f := newFixture(client, map[string]domain.Verdict{"rm notes.txt": domain.VerdictConfirm})
	f.prompter.answer = false

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "get rid of my notes", AutoExecute: true})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnConfirmation {
		t.Fatalf("kind = %s, want awaiting_confirmation", result.Kind)
	}
	if len(f.runner.ran) != 0 {
		t.Fatalf("declined command must not run, ran %v", f.runner.ran)
	}
	if len(f.prompter.asked) != 1 {
		t.Fatalf("prompt count = %d, want 1", len(f.prompter.asked))
	}
}

func TestDirectPathBlockNeverRuns(t *testing.T) {
	client := &stubClient{propose: domain.AIResponse{Commands: []string{"dd if=/dev/zero of=/dev/sda"}}}
	f := newFixture(client, map[string]domain.Verdict{"dd if=/dev/zero of=/dev/sda": domain.VerdictBlock})

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "wipe it", AutoExecute: true})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnBlocked {
		t.Fatalf("kind = %s, want blocked", result.Kind)
	}
	if len(f.runner.ran) != 0 || len(f.prompter.asked) != 0 {
		t.Fatal("blocked command must neither run nor prompt")
	}
}

func TestDirectPathClarification(t *testing.T) {
	client := &stubClient{propose: domain.AIResponse{Message: "which file?", NeedsClarification: true}}
	f := newFixture(client, nil)

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "open it"})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnClarification || result.Message != "which file?" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestThinkingRunsOnlyAutoApprovedDiagnostics(t *testing.T) {
	client := &stubClient{
		explore: []string{"ls -la", "rm -rf /tmp/x", "df -h"},
		analyze: domain.AIResponse{Message: "biggest is big.bin", Commands: []string{"du -sh big.bin"}},
	}
	verdicts := map[string]domain.Verdict{
		"ls -la":         domain.VerdictAutoApprove,
		"rm -rf /tmp/x":  domain.VerdictBlock,
		"df -h":          domain.VerdictAutoApprove,
		"du -sh big.bin": domain.VerdictAutoApprove,
	}
	f := newFixture(client, verdicts)

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "show me the largest file", AutoExecute: true})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnExecuted {
		t.Fatalf("kind = %s, want executed", result.Kind)
	}

	wantExplored := []string{"ls -la", "df -h"}
	if strings.Join(result.Explored, ",") != strings.Join(wantExplored, ",") {
		t.Fatalf("explored = %v, want %v", result.Explored, wantExplored)
	}
	// Diagnostics ran batch-only; the final command did not.
	for i, command := range f.runner.ran {
		if command == "du -sh big.bin" {
			continue
		}
		if !f.runner.opts[i].ForceBatch {
			t.Errorf("diagnostic %q ran without ForceBatch", command)
		}
	}
	if len(client.analyzedResults) != 2 {
		t.Fatalf("analysis received %d results, want 2", len(client.analyzedResults))
	}
}

func TestThinkingEnforcesExplorationCap(t *testing.T) {
	var proposed []string
	verdicts := map[string]domain.Verdict{}
	for i := 0; i < 8; i++ {
		command := fmt.Sprintf("ls /dir%d", i)
		proposed = append(proposed, command)
		verdicts[command] = domain.VerdictAutoApprove
	}
	client := &stubClient{
		explore: proposed,
		analyze: domain.AIResponse{Message: "nothing interesting", NeedsClarification: true},
	}
	f := newFixture(client, verdicts)

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "analyze these directories"})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if len(result.Explored) != 5 {
		t.Fatalf("explored %d commands, want cap 5", len(result.Explored))
	}
	if result.Kind != domain.TurnClarification {
		t.Fatalf("kind = %s, want clarification", result.Kind)
	}
}

func TestAnalyzeFailureFallsBackWithSurfacedError(t *testing.T) {
	client := &stubClient{
		explore:    []string{"ls -la"},
		analyzeErr: errors.New("provider unreachable"),
	}
	f := newFixture(client, map[string]domain.Verdict{"ls -la": domain.VerdictAutoApprove})
	f.prompter.answer = false

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "tell me about this directory"})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnFailed {
		t.Fatalf("kind = %s, want error", result.Kind)
	}
	if !strings.Contains(result.Message, "provider unreachable") {
		t.Fatalf("failure not surfaced in message: %q", result.Message)
	}
	// The fallback offered the raw request for confirmation.
	if len(f.prompter.asked) != 1 || f.prompter.asked[0] != "tell me about this directory" {
		t.Fatalf("asked = %v, want the raw request", f.prompter.asked)
	}
}

func TestProposeFailureFallbackCanExecuteWithConsent(t *testing.T) {
	client := &stubClient{proposeErr: errors.New("timeout")}
	f := newFixture(client, map[string]domain.Verdict{"uptime": domain.VerdictConfirm})
	f.prompter.answer = true

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "uptime"})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnExecuted {
		t.Fatalf("kind = %s, want executed", result.Kind)
	}
	if len(f.runner.ran) != 1 || f.runner.ran[0] != "uptime" {
		t.Fatalf("ran = %v, want [uptime]", f.runner.ran)
	}
	if !strings.Contains(result.Message, "timeout") {
		t.Fatalf("failure not surfaced in message: %q", result.Message)
	}
}

func TestChdirHandledInProcess(t *testing.T) {
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	target := t.TempDir()

	command := "cd " + target
	client := &stubClient{propose: domain.AIResponse{Commands: []string{command}}}
	f := newFixture(client, map[string]domain.Verdict{command: domain.VerdictAutoApprove})

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "go to my scratch dir", AutoExecute: true})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnExecuted {
		t.Fatalf("kind = %s, want executed", result.Kind)
	}
	if len(f.runner.ran) != 0 {
		t.Fatalf("cd must not spawn a shell, ran %v", f.runner.ran)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	wantDir, _ := filepath.EvalSymlinks(target)
	gotDir, _ := filepath.EvalSymlinks(wd)
	if gotDir != wantDir {
		t.Fatalf("working dir = %s, want %s", gotDir, wantDir)
	}
	if result.Result == nil || !strings.Contains(result.Result.Stdout, "Changed directory to ") {
		t.Fatalf("directory change not reported: %+v", result.Result)
	}
}

func TestChdirFailureReportsError(t *testing.T) {
	command := "cd /nonexistent-nlsh-dir"
	client := &stubClient{propose: domain.AIResponse{Commands: []string{command}}}
	f := newFixture(client, map[string]domain.Verdict{command: domain.VerdictAutoApprove})

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "switch to a missing dir", AutoExecute: true})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Result == nil || result.Result.ErrKind != domain.ExecNonZero || result.Result.ExitCode != 1 {
		t.Fatalf("failed cd should report a non-zero result, got %+v", result.Result)
	}
	if len(f.runner.ran) != 0 {
		t.Fatalf("failed cd must not fall through to the shell, ran %v", f.runner.ran)
	}
}

func TestFixSuggestionAppendsToExplanation(t *testing.T) {
	client := &stubClient{
		propose: domain.AIResponse{Message: "runs the build", Commands: []string{"make build"}},
		analyze: domain.AIResponse{Message: "no Makefile in this directory"},
	}
	f := newFixture(client, map[string]domain.Verdict{"make build": domain.VerdictAutoApprove})
	f.runner.results["make build"] = domain.ExecutionResult{
		Command:  "make build",
		ErrKind:  domain.ExecNonZero,
		ExitCode: 2,
	}

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "build the project", AutoExecute: true})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if !strings.Contains(result.Message, "runs the build") {
		t.Fatalf("original explanation lost: %q", result.Message)
	}
	if !strings.Contains(result.Message, "no Makefile in this directory") {
		t.Fatalf("fix suggestion missing: %q", result.Message)
	}
}

func TestModelEscalationToThinking(t *testing.T) {
	client := &stubClient{
		propose: domain.AIResponse{ThinkingMode: true},
		explore: []string{"ls -la"},
		analyze: domain.AIResponse{Commands: []string{"cat README.md"}},
	}
	verdicts := map[string]domain.Verdict{
		"ls -la":        domain.VerdictAutoApprove,
		"cat README.md": domain.VerdictAutoApprove,
	}
	f := newFixture(client, verdicts)

	result, err := f.orchestrator.Respond(domain.TurnRequest{Input: "open the readme", AutoExecute: true})
	if err != nil {
		t.Fatalf("Respond error: %v", err)
	}
	if result.Kind != domain.TurnExecuted || result.Command != "cat README.md" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Session == nil || result.Session.Phase != domain.PhaseIdle {
		t.Fatal("thinking session should terminate back in idle")
	}
}
