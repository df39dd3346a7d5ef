package tmux

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"workbench/pkg/errkind"
	"workbench/pkg/tmuxfmt"
)

const SessionIDEnvKey = "RAFAELTAB_SESSION_ID"

// WindowSpec is the minimal window description SessionRepository.NewSession
// needs to bring up a session's initial window set.
type WindowSpec struct {
	Name    string
	Command *string
}

// NewSessionRequest describes a session to materialize.
type NewSessionRequest struct {
	ID      string // the SessionDescription id, exported as RAFAELTAB_SESSION_ID
	Name    string
	Path    string
	Windows []WindowSpec
}

// SessionRepository is the typed CRUD surface over tmux sessions.
type SessionRepository struct {
	Conn    Runner
	Windows *WindowRepository
}

func NewSessionRepository(conn Runner, windows *WindowRepository) *SessionRepository {
	return &SessionRepository{Conn: conn, Windows: windows}
}

type sessionRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

func sessionListFormat() string {
	return fmt.Sprintf(`{"id":"%s","name":"%s","path":"%s"}`,
		tmuxfmt.SessionID.Format(), tmuxfmt.SessionName.Format(), tmuxfmt.SessionPath.Format())
}

// NewSession creates a detached session: sets its working directory to
// req.Path, exports RAFAELTAB_SESSION_ID=req.ID, names it req.Name, creates
// the first window from req.Windows[0] (its command, if any, is wrapped
// with "; exec $SHELL" so the window survives after the command exits),
// then creates the remaining windows on the new session in order.
func (r *SessionRepository) NewSession(ctx context.Context, req NewSessionRequest) (Session, error) {
	first := WindowSpec{Name: "zsh"}
	rest := req.Windows
	if len(req.Windows) > 0 {
		first = req.Windows[0]
		rest = req.Windows[1:]
	}

	args := []string{
		"new-session", "-d", "-P", "-F", tmuxfmt.SessionID.Format(),
		"-c", req.Path,
		"-e", fmt.Sprintf("%s=%s", SessionIDEnvKey, req.ID),
		"-n", first.Name,
		"-s", req.Name,
	}
	if first.Command != nil {
		args = append(args, shellExecWrap(*first.Command))
	}

	out, err := r.Conn.Run(ctx, args...)
	if err != nil {
		return Session{}, fmt.Errorf("new session %q: %w", req.Name, err)
	}
	sessionID := strings.TrimSpace(out)

	filter := tmuxfmt.Eq(tmuxfmt.Const(sessionID), tmuxfmt.Var(tmuxfmt.SessionID))
	sessions, err := r.GetSessions(ctx, filter, SessionIncludes{})
	if err != nil {
		return Session{}, fmt.Errorf("lookup created session %q: %w", sessionID, err)
	}
	if len(sessions) == 0 {
		return Session{}, errkind.New(errkind.Parse, fmt.Errorf("session %q not found after creation", sessionID))
	}
	session := sessions[0]

	for _, w := range rest {
		if _, err := r.Windows.NewWindow(ctx, NewWindowRequest{
			SessionID: session.ID,
			Dir:       req.Path,
			Name:      w.Name,
			Command:   w.Command,
		}); err != nil {
			return session, fmt.Errorf("create window %q in session %q: %w", w.Name, session.Name, err)
		}
	}

	return session, nil
}

// KillSession kills the given session id. A missing session is tolerated
// as a no-op, matching tmux's own idempotent kill-session semantics.
func (r *SessionRepository) KillSession(ctx context.Context, sessionID string) error {
	args := []string{"kill-session"}
	if sessionID != "" {
		args = append(args, "-t", sessionID)
	}
	_, err := r.Conn.Run(ctx, args...)
	if err != nil && !IsListEmptyErr(err) {
		return fmt.Errorf("kill session %q: %w", sessionID, err)
	}
	return nil
}

// GetEnvironment returns the raw "show-environment" text for a session.
func (r *SessionRepository) GetEnvironment(ctx context.Context, sessionID string) (string, error) {
	out, err := r.Conn.Run(ctx, "show-environment", "-t", sessionID)
	if err != nil {
		return "", fmt.Errorf("get environment for session %q: %w", sessionID, err)
	}
	return out, nil
}

// GetSessions lists sessions whose JSON projection matches filter (nil
// means no filter). If include.Windows is set, each session's windows are
// fetched via the window repository and attached; if include.Environment
// is set, GetEnvironment is called per session.
//
// A failing list-sessions invocation (tmux reports no server / no
// sessions) yields an empty slice and a nil error, since the list was run
// against a possibly-empty server; any other failure is returned as an
// error.
func (r *SessionRepository) GetSessions(ctx context.Context, filter tmuxfmt.Node, include SessionIncludes) ([]Session, error) {
	args := []string{"list-sessions", "-F", sessionListFormat()}
	if filter != nil {
		args = append(args, "-f", filter.Render())
	}

	out, err := r.Conn.Run(ctx, args...)
	if err != nil {
		if IsListEmptyErr(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var sessions []Session
	for _, line := range splitNonEmptyLines(out) {
		var row sessionRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, errkind.New(errkind.Parse, fmt.Errorf("parse session row %q: %w", line, err))
		}
		sessions = append(sessions, Session{
			ID:       row.ID,
			Name:     row.Name,
			Path:     row.Path,
			Includes: include,
		})
	}

	if include.Windows != nil {
		for i := range sessions {
			windowFilter := tmuxfmt.Eq(tmuxfmt.Var(tmuxfmt.SessionID), tmuxfmt.Const(sessions[i].ID))
			windows, err := r.Windows.GetWindows(ctx, windowFilter, *include.Windows, GetWindowsTarget{SessionID: sessions[i].ID})
			if err != nil {
				return nil, fmt.Errorf("windows for session %q: %w", sessions[i].ID, err)
			}
			sessions[i].Windows = windows
		}
	}

	if include.Environment {
		for i := range sessions {
			env, err := r.GetEnvironment(ctx, sessions[i].ID)
			if err != nil {
				return nil, err
			}
			sessions[i].Env = &env
		}
	}

	return sessions, nil
}

func shellExecWrap(cmd string) string {
	return cmd + "; exec $SHELL"
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
