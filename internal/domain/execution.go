package domain

import "time"

// ExecErrorKind distinguishes the ways a command execution can fail.
type ExecErrorKind string

const (
	ExecOK       ExecErrorKind = ""
	ExecSpawn    ExecErrorKind = "spawn"
	ExecTimeout  ExecErrorKind = "timeout"
	ExecNonZero  ExecErrorKind = "non_zero_exit"
	ExecCanceled ExecErrorKind = "canceled"
	ExecPTY      ExecErrorKind = "pty"
)

// ExecutionResult wraps details from the command runner. Stdout and Stderr
// are capped; the truncated flags mark that output was cut at the cap.
type ExecutionResult struct {
	Command         string
	Stdout          string
	Stderr          string
	StdoutTruncated bool
	StderrTruncated bool
	ExitCode        int
	Duration        time.Duration
	Interactive     bool
	ErrKind         ExecErrorKind
	Err             error
}

// Ran reports whether the child process completed with exit code zero.
func (r ExecutionResult) Ran() bool {
	return r.ErrKind == ExecOK && r.ExitCode == 0
}

// RunOptions influence a single runner invocation.
type RunOptions struct {
	// ForceInteractive bypasses the interactivity heuristic.
	ForceInteractive bool
	// ForceBatch disables the PTY path entirely. Diagnostic commands run
	// with this set; they must never take over the caller's terminal.
	ForceBatch bool
	// WorkingDir overrides the child's working directory when non-empty.
	WorkingDir string
}
