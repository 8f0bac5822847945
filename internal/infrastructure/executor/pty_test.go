package executor

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/doeshing/nlsh/internal/domain"
)

// newPTYRunner points a runner at the slave side of a fresh pty pair, so the
// interactive path sees a real terminal without touching the test process's
// stdio. The master side is drained so relay writes never block.
func newPTYRunner(t *testing.T) (*LocalRunner, *os.File) {
	t.Helper()
	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	t.Cleanup(func() {
		master.Close()
		slave.Close()
	})
	go func() { _, _ = io.Copy(io.Discard, master) }()

	r := NewLocalRunner(domain.ExecutionSettings{Shell: "/bin/sh"})
	r.stdin = slave
	r.stdout = slave
	r.stderr = slave
	return r, slave
}

func TestInteractiveCapturesTranscript(t *testing.T) {
	r, _ := newPTYRunner(t)

	result := r.Run(context.Background(), "echo hello-tty", domain.RunOptions{ForceInteractive: true})

	if !result.Interactive {
		t.Fatal("forced interactive run not marked interactive")
	}
	if result.ErrKind != domain.ExecOK {
		t.Fatalf("err kind = %s (%v), want ok", result.ErrKind, result.Err)
	}
	if !strings.Contains(result.Stdout, "hello-tty") {
		t.Fatalf("transcript missing command output: %q", result.Stdout)
	}
}

func TestInteractiveCancelKillsChildAndRestoresTerminal(t *testing.T) {
	r, slave := newPTYRunner(t)

	before, err := term.GetState(int(slave.Fd()))
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result := r.Run(ctx, "cat", domain.RunOptions{ForceInteractive: true})
	elapsed := time.Since(start)

	if result.ErrKind != domain.ExecCanceled {
		t.Fatalf("err kind = %s (%v), want canceled", result.ErrKind, result.Err)
	}
	if !result.Interactive {
		t.Fatal("canceled run not marked interactive")
	}
	if elapsed > 5*time.Second {
		t.Fatalf("cancellation took %s, child was not killed promptly", elapsed)
	}

	after, err := term.GetState(int(slave.Fd()))
	if err != nil {
		t.Fatalf("GetState after run: %v", err)
	}
	if *after != *before {
		t.Fatal("terminal mode not restored after cancellation")
	}
}

func TestInteractiveSkippedWithoutTerminal(t *testing.T) {
	r := NewLocalRunner(domain.ExecutionSettings{Shell: "/bin/sh"})
	devnull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { devnull.Close() })
	r.stdin = devnull

	result := r.Run(context.Background(), "echo piped", domain.RunOptions{ForceInteractive: true})

	if result.Interactive {
		t.Fatal("run without a terminal must fall back to batch")
	}
	if result.ErrKind != domain.ExecOK || !strings.Contains(result.Stdout, "piped") {
		t.Fatalf("batch fallback failed: %+v", result)
	}
}
