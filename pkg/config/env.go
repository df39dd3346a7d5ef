package config

import (
	"os"
	"strings"
)

// EnvKeys names the environment variables consulted across the system.
// Centralizing the names here avoids scattering string literals through
// the command handlers that read them.
type EnvKeys struct {
	TmuxSocket string // RAFAELTAB_TMUX_SOCKET
	SessionID  string // RAFAELTAB_SESSION_ID
	Workspace  string // RAFAELTAB_WORKSPACE (legacy)
	InTmux     string // TMUX
	LogLevel   string // DEVSTATION_LOG_LEVEL (ambient, not in the external config schema)
}

func DefaultEnvKeys() EnvKeys {
	return EnvKeys{
		TmuxSocket: "RAFAELTAB_TMUX_SOCKET",
		SessionID:  "RAFAELTAB_SESSION_ID",
		Workspace:  "RAFAELTAB_WORKSPACE",
		InTmux:     "TMUX",
		LogLevel:   "DEVSTATION_LOG_LEVEL",
	}
}

// CurrentWorkspaceID reads the legacy RAFAELTAB_WORKSPACE variable, used
// by "workspace tmux" to recover which workspace a running session
// belongs to without consulting RAFAELTAB_SESSION_ID.
func (k EnvKeys) CurrentWorkspaceID() (string, bool) {
	v := strings.TrimSpace(os.Getenv(k.Workspace))
	return v, v != ""
}

// CurrentSessionDescriptionID reads RAFAELTAB_SESSION_ID, exported by the
// driver into every created tmux session.
func (k EnvKeys) CurrentSessionDescriptionID() (string, bool) {
	v := strings.TrimSpace(os.Getenv(k.SessionID))
	return v, v != ""
}

// LogLevelOrDefault reads DEVSTATION_LOG_LEVEL, defaulting to "warn".
func (k EnvKeys) LogLevelOrDefault() string {
	v := strings.TrimSpace(os.Getenv(k.LogLevel))
	if v == "" {
		return "warn"
	}
	return v
}
