package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/doeshing/nlsh/internal/domain"
)

// runInteractive gives the child a pseudo-terminal and relays raw bytes
// between it and the caller's terminal. The caller's terminal mode is
// restored on every exit path; cancellation kills the whole process group.
func (r *LocalRunner) runInteractive(ctx context.Context, command string, opts domain.RunOptions) domain.ExecutionResult {
	result := domain.ExecutionResult{Command: command, Interactive: true}

	cmd := exec.Command(r.shell, "-c", command)
	if opts.WorkingDir != "" {
		cmd.Dir = opts.WorkingDir
	}

	start := time.Now()
	ptmx, err := pty.Start(cmd)
	if err != nil {
		result.ErrKind = domain.ExecPTY
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	defer ptmx.Close()

	// Forward the caller's dimensions now and on every resize.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, unix.SIGWINCH)
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()
	go func() {
		for range winch {
			_ = pty.InheritSize(r.stdin, ptmx)
		}
	}()
	winch <- unix.SIGWINCH

	// Raw mode so control bytes (including ^C) reach the child untouched.
	// Restore is deferred: normal completion, error and cancellation all
	// pass through it.
	oldState, err := term.MakeRaw(int(r.stdin.Fd()))
	if err == nil {
		defer func() { _ = term.Restore(int(r.stdin.Fd()), oldState) }()
	}

	// Cancellation terminates the process group; Wait below then reaps.
	cancelDone := make(chan struct{})
	defer close(cancelDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = killGroup(cmd)
		case <-cancelDone:
		}
	}()

	// The two mandatory relay loops: caller input into the child, child
	// output back out (also captured, capped, for the result).
	transcript := newCapBuffer(r.outputCap)
	go func() { _, _ = io.Copy(ptmx, r.stdin) }()
	outDone := make(chan struct{})
	go func() {
		defer close(outDone)
		_, _ = io.Copy(io.MultiWriter(r.stdout, transcript), ptmx)
	}()

	err = cmd.Wait()
	// Closing the master unblocks the output relay if the slave side is
	// still open in a descendant.
	ptmx.Close()
	select {
	case <-outDone:
	case <-time.After(reapDelay):
	}

	result.Stdout = transcript.String()
	result.StdoutTruncated = transcript.Truncated()
	result.Duration = time.Since(start)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			result.ErrKind = domain.ExecCanceled
		} else {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				result.ErrKind = domain.ExecNonZero
				result.ExitCode = exitErr.ExitCode()
			} else {
				result.ErrKind = domain.ExecPTY
			}
		}
		result.Err = err
	}
	return result
}
