package executor

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// replInvocations are program invocations that expect a terminal.
var replInvocations = map[string]bool{
	"python -i":  true,
	"python3 -i": true,
	"node":       true,
	"irb":        true,
	"ghci":       true,
}

// dataSuffixes mark ./paths that are data files, not programs.
var dataSuffixes = []string{".txt", ".log", ".conf", ".json", ".csv", ".md"}

// IsLikelyInteractive reports whether a command probably needs a terminal:
// locally-built executables, known REPL invocations, or full-screen programs
// launched by path.
func IsLikelyInteractive(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}

	if replInvocations[command] {
		return true
	}

	fields := strings.Fields(command)
	head := fields[0]

	if strings.HasPrefix(head, "./") {
		for _, suffix := range dataSuffixes {
			if strings.HasSuffix(head, suffix) {
				return false
			}
		}
		return true
	}

	// A path to an executable file outside PATH is treated as a custom
	// program with unknown I/O behavior.
	if strings.Contains(head, "/") {
		if info, err := os.Stat(head); err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
			return true
		}
	}

	return false
}

func stdinIsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
