// Package executor runs shell commands on the host, in batch mode with
// captured output or interactively through a pseudo-terminal.
package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/doeshing/nlsh/internal/domain"
	"github.com/doeshing/nlsh/internal/ports"
)

const defaultOutputCap = 64 * 1024

// reapDelay bounds how long Wait lingers after the process group is killed.
const reapDelay = 2 * time.Second

// LocalRunner executes commands in the configured shell.
type LocalRunner struct {
	shell     string
	timeout   time.Duration
	outputCap int

	stdin  *os.File
	stdout *os.File
	stderr *os.File
}

// NewLocalRunner builds a runner. Shell defaults to $SHELL then /bin/sh.
func NewLocalRunner(cfg domain.ExecutionSettings) *LocalRunner {
	shell := cfg.Shell
	if shell == "" || shell == "auto" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	cap := cfg.OutputCapBytes
	if cap <= 0 {
		cap = defaultOutputCap
	}
	var timeout time.Duration
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &LocalRunner{
		shell:     shell,
		timeout:   timeout,
		outputCap: cap,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// Run implements ports.Runner. Mode is derived: the interactivity heuristic
// (or the caller's flag) picks the PTY path, everything else runs batch.
func (r *LocalRunner) Run(ctx context.Context, command string, opts domain.RunOptions) domain.ExecutionResult {
	if !opts.ForceBatch && (opts.ForceInteractive || IsLikelyInteractive(command)) {
		if stdinIsTerminal(r.stdin) {
			return r.runInteractive(ctx, command, opts)
		}
		// No terminal to hand over; fall through to batch.
	}
	return r.runBatch(ctx, command, opts)
}

func (r *LocalRunner) runBatch(ctx context.Context, command string, opts domain.RunOptions) domain.ExecutionResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	if opts.WorkingDir != "" {
		cmd.Dir = opts.WorkingDir
	}
	// Own process group so cancellation reaches descendants too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error { return killGroup(cmd) }
	cmd.WaitDelay = reapDelay

	stdout := newCapBuffer(r.outputCap)
	stderr := newCapBuffer(r.outputCap)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	result := domain.ExecutionResult{
		Command:         command,
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		StdoutTruncated: stdout.Truncated(),
		StderrTruncated: stderr.Truncated(),
		Duration:        time.Since(start),
	}
	classifyRunError(&result, ctx, err)
	return result
}

// classifyRunError folds the exec error into the result. Nothing here ever
// propagates as a fault to the caller.
func classifyRunError(result *domain.ExecutionResult, ctx context.Context, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.ErrKind = domain.ExecTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		result.ErrKind = domain.ExecCanceled
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ErrKind = domain.ExecNonZero
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ErrKind = domain.ExecSpawn
		}
	}
	result.Err = err
}

// killGroup terminates the whole process group of cmd, not just the
// immediate child, so no orphaned descendants survive a cancel.
func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}

var _ ports.Runner = (*LocalRunner)(nil)
