package cli

import (
	"fmt"
	"io"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a braille throbber while an AI call is in flight. One
// Spinner serves one operation: Start once, Stop once.
type Spinner struct {
	writer io.Writer
	stop   chan struct{}
	done   chan struct{}
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		writer: w,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins the animation in the background.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		frame := 0
		for {
			select {
			case <-s.stop:
				// Clear the spinner line before handing the cursor back.
				fmt.Fprint(s.writer, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.writer, "\r%s ", spinnerFrames[frame%len(spinnerFrames)])
				frame++
			}
		}
	}()
}

// Stop halts the animation and clears its line. Safe to call once.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}
