package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/nlsh/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	terminal bool
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	terminal := true
	if in == nil {
		in = os.Stdin
		terminal = isatty.IsTerminal(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:       bufio.NewReader(in),
		out:      out,
		terminal: terminal,
	}
}

// Enabled reports whether a user is present to answer. Without a terminal
// the orchestrator presents commands instead of hanging on a read.
func (p *Prompter) Enabled() bool {
	return p.terminal
}

// Confirm asks the user to approve a command before it runs.
func (p *Prompter) Confirm(command string, reasons []string) (bool, error) {
	fmt.Fprintln(p.out)
	for _, reason := range reasons {
		fmt.Fprintf(p.out, " - %s\n", reason)
	}
	fmt.Fprintf(p.out, "Command:\n  %s\n", command)
	fmt.Fprint(p.out, "Run it? [y/N]: ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
