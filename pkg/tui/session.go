// Package tui is the picker runtime: a single-threaded, cooperative event
// loop over a raw-mode terminal with the alternate screen buffer. Session
// is the only component permitted to put the terminal in raw mode, and
// guarantees restoration on every exit path including panic.
package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

// Session owns the raw-mode terminal lifecycle for one picker run.
type Session struct {
	program *tea.Program
}

// IsInteractive reports whether stdin is a real terminal; non-interactive
// environments (CI, piped input) should not attempt to launch a picker.
func IsInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd())
}

// Run launches model under the alternate screen buffer and blocks until it
// returns a result or is cancelled. The terminal is always restored before
// Run returns, including on panic: the recover here only restores state
// before resuming the unwind. This is the only place that owns raw mode.
func Run(model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithAltScreen())
	s := &Session{program: program}

	defer func() {
		if r := recover(); r != nil {
			s.program.ReleaseTerminal()
			panic(r)
		}
	}()

	return program.Run()
}
