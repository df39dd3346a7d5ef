package config

import "strings"

// Safety gates which shell commands (worktree onCreate hooks) and which
// tmux subcommands (tmux-passthrough commands) are permitted to run, so
// unsafe actions stay opt-in even once parsed out of the config document.
type Safety struct {
	AllowShell           bool
	AllowTmuxPassthrough bool
	AllowedTmuxCommands  []string
	DeniedTmuxCommands   []string
}

// DefaultSafety returns the conservative default: shell hooks and tmux
// passthrough both disabled, with a starter allow/deny list that only
// takes effect once AllowTmuxPassthrough is set.
func DefaultSafety() Safety {
	return Safety{
		AllowShell:           false,
		AllowTmuxPassthrough: false,
		AllowedTmuxCommands:  defaultAllowedTmuxCommands(),
		DeniedTmuxCommands:   defaultDeniedTmuxCommands(),
	}
}

func defaultAllowedTmuxCommands() []string {
	return []string{
		"list-sessions", "list-windows", "list-panes", "list-clients",
		"new-session", "new-window", "split-window", "select-window", "select-pane",
		"switch-client", "kill-session", "display-popup", "display-message",
		"show-environment", "show-options", "set-option",
	}
}

func defaultDeniedTmuxCommands() []string {
	return []string{"kill-server", "source-file"}
}

// IsTmuxCommandAllowed reports whether subcommand may run given the
// current policy: passthrough must be enabled, the command must not be
// denied, and (if an allow list is configured) the command must be on it.
func (s Safety) IsTmuxCommandAllowed(subcommand string) bool {
	if !s.AllowTmuxPassthrough {
		return false
	}
	subcommand = strings.TrimSpace(subcommand)
	for _, denied := range s.DeniedTmuxCommands {
		if strings.EqualFold(denied, subcommand) {
			return false
		}
	}
	if len(s.AllowedTmuxCommands) == 0 {
		return true
	}
	for _, allowed := range s.AllowedTmuxCommands {
		if strings.EqualFold(allowed, subcommand) {
			return true
		}
	}
	return false
}

// IsShellCommandAllowed reports whether worktree onCreate hooks (or other
// shell commands) may run at all. Shell gating is a single opt-in switch,
// not a command-text allowlist.
func (s Safety) IsShellCommandAllowed() bool {
	return s.AllowShell
}
