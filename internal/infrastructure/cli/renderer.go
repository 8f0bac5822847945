package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/nlsh/internal/domain"
)

// RenderTurn prints one turn result to stdout in a plain, ASCII-only format.
func RenderTurn(result domain.TurnResult) {
	renderTurn(os.Stdout, result)
}

func renderTurn(w io.Writer, result domain.TurnResult) {
	switch result.Kind {
	case domain.TurnExecuted:
		renderExecuted(w, result)
	case domain.TurnConfirmation:
		fmt.Fprintln(w, "Command was not executed (confirmation pending or declined):")
		fmt.Fprintf(w, "  %s\n", result.Command)
		renderReasons(w, result.Safety.Reasons)
	case domain.TurnBlocked:
		fmt.Fprintf(w, "Blocked: %s\n", result.Command)
		renderReasons(w, result.Safety.Reasons)
	case domain.TurnClarification:
		fmt.Fprintln(w, result.Message)
		renderExplored(w, result.Explored)
	case domain.TurnFailed:
		fmt.Fprintf(w, "Error: %s\n", result.Message)
	default:
		fmt.Fprintln(w, result.Message)
	}
}

func renderExecuted(w io.Writer, result domain.TurnResult) {
	renderExplored(w, result.Explored)
	if result.Message != "" {
		fmt.Fprintln(w, result.Message)
	}
	fmt.Fprintf(w, "$ %s\n", result.Command)

	exec := result.Result
	if exec == nil {
		return
	}
	if stdout := strings.TrimRight(exec.Stdout, "\n"); stdout != "" && !exec.Interactive {
		fmt.Fprintln(w, stdout)
	}
	if stderr := strings.TrimRight(exec.Stderr, "\n"); stderr != "" {
		fmt.Fprintln(w, stderr)
	}
	if exec.StdoutTruncated {
		fmt.Fprintf(w, "[stdout truncated at %s]\n", humanize.Bytes(uint64(len(exec.Stdout))))
	}
	if exec.StderrTruncated {
		fmt.Fprintf(w, "[stderr truncated at %s]\n", humanize.Bytes(uint64(len(exec.Stderr))))
	}

	switch exec.ErrKind {
	case domain.ExecOK:
		fmt.Fprintf(w, "(completed in %s)\n", exec.Duration.Round(durationGrain(exec)))
	case domain.ExecNonZero:
		fmt.Fprintf(w, "(exit %d after %s)\n", exec.ExitCode, exec.Duration.Round(durationGrain(exec)))
	case domain.ExecTimeout:
		fmt.Fprintf(w, "(timed out after %s)\n", exec.Duration.Round(durationGrain(exec)))
	case domain.ExecCanceled:
		fmt.Fprintln(w, "(canceled)")
	default:
		if exec.Err != nil {
			fmt.Fprintf(w, "(failed: %v)\n", exec.Err)
		}
	}
}

func renderExplored(w io.Writer, explored []string) {
	if len(explored) == 0 {
		return
	}
	fmt.Fprintf(w, "Explored %d command(s):\n", len(explored))
	for _, command := range explored {
		fmt.Fprintf(w, "  $ %s\n", command)
	}
}

func renderReasons(w io.Writer, reasons []string) {
	for _, reason := range reasons {
		fmt.Fprintf(w, " - %s\n", reason)
	}
}

func durationGrain(exec *domain.ExecutionResult) time.Duration {
	if exec.Duration >= time.Second {
		return 10 * time.Millisecond
	}
	return time.Millisecond
}
