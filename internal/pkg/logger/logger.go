// Package logger provides the default Logger port implementation.
package logger

import (
	"log"
	"os"
)

// StdLogger writes structured lines through Go's log package. Debug and Info
// are gated on verbose mode; warnings and errors are always emitted, since
// they surface degraded behavior the user should see.
type StdLogger struct {
	verbose bool
	std     *log.Logger
}

// NewStd creates a StdLogger writing to stderr.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{
		verbose: verbose,
		std:     log.New(os.Stderr, "nlsh ", log.LstdFlags),
	}
}

// SetVerbose toggles Debug and Info emission. Callers flip it before a
// request when the user asks for verbose output on that run.
func (l *StdLogger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

func (l *StdLogger) Debug(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.std.Println("[DEBUG]", msg, fields)
}

func (l *StdLogger) Info(msg string, fields map[string]interface{}) {
	if !l.verbose {
		return
	}
	l.std.Println("[INFO]", msg, fields)
}

func (l *StdLogger) Warn(msg string, fields map[string]interface{}) {
	l.std.Println("[WARN]", msg, fields)
}

func (l *StdLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.std.Println("[ERROR]", msg, err, fields)
}
