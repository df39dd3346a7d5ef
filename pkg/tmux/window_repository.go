package tmux

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"workbench/pkg/errkind"
	"workbench/pkg/tmuxfmt"
)

// NewWindowRequest describes a window to create on an existing session.
type NewWindowRequest struct {
	SessionID string
	Dir       string
	Name      string
	Command   *string
}

// GetWindowsTarget scopes a window listing either to a single session (via
// "-t") or, if SessionID is empty, across the whole server (via "-a").
type GetWindowsTarget struct {
	SessionID string
}

// WindowRepository is the typed CRUD surface over tmux windows. It depends
// only on PaneRepository (never on SessionRepository), which is how the
// session/window/pane cycle described in Design Notes is broken: sessions
// call windows, windows call panes, nothing calls back up.
type WindowRepository struct {
	Conn  Runner
	Panes *PaneRepository
}

func NewWindowRepository(conn Runner, panes *PaneRepository) *WindowRepository {
	return &WindowRepository{Conn: conn, Panes: panes}
}

type windowRow struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Index     string `json:"index"`
	Name      string `json:"name"`
}

func windowListFormat() string {
	return fmt.Sprintf(`{"id":"%s","session_id":"%s","index":"%s","name":"%s"}`,
		tmuxfmt.WindowID.Format(), tmuxfmt.SessionID.Format(), tmuxfmt.WindowIndex.Format(), tmuxfmt.WindowName.Format())
}

// NewWindow creates a window on the given session, returning it enriched
// with its initial pane set.
func (r *WindowRepository) NewWindow(ctx context.Context, req NewWindowRequest) (Window, error) {
	args := []string{
		"new-window", "-P", "-F", tmuxfmt.WindowID.Format(),
		"-t", req.SessionID,
		"-c", req.Dir,
		"-n", req.Name,
	}
	if req.Command != nil {
		args = append(args, shellExecWrap(*req.Command))
	}

	out, err := r.Conn.Run(ctx, args...)
	if err != nil {
		return Window{}, fmt.Errorf("new window %q on session %q: %w", req.Name, req.SessionID, err)
	}
	windowID := strings.TrimSpace(out)

	filter := tmuxfmt.Eq(tmuxfmt.Const(windowID), tmuxfmt.Var(tmuxfmt.WindowID))
	windows, err := r.GetWindows(ctx, filter, WindowIncludes{Panes: true}, GetWindowsTarget{SessionID: req.SessionID})
	if err != nil {
		return Window{}, fmt.Errorf("lookup created window %q: %w", windowID, err)
	}
	if len(windows) == 0 {
		return Window{}, errkind.New(errkind.Parse, fmt.Errorf("window %q not found after creation", windowID))
	}
	return windows[0], nil
}

// GetWindows lists windows matching filter, scoped per target, enriching
// with panes when include.Panes is set.
func (r *WindowRepository) GetWindows(ctx context.Context, filter tmuxfmt.Node, include WindowIncludes, target GetWindowsTarget) ([]Window, error) {
	args := []string{"list-windows", "-F", windowListFormat()}
	if target.SessionID != "" {
		args = append(args, "-t", target.SessionID)
	} else {
		args = append(args, "-a")
	}
	if filter != nil {
		args = append(args, "-f", filter.Render())
	}

	out, err := r.Conn.Run(ctx, args...)
	if err != nil {
		if IsListEmptyErr(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list windows: %w", err)
	}

	var windows []Window
	for _, line := range splitNonEmptyLines(out) {
		var row windowRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, errkind.New(errkind.Parse, fmt.Errorf("parse window row %q: %w", line, err))
		}
		windows = append(windows, Window{
			ID:        row.ID,
			SessionID: row.SessionID,
			Index:     row.Index,
			Name:      row.Name,
			Includes:  include,
		})
	}

	if include.Panes {
		for i := range windows {
			paneFilter := tmuxfmt.Eq(tmuxfmt.Var(tmuxfmt.WindowID), tmuxfmt.Const(windows[i].ID))
			panes, err := r.Panes.GetPanes(ctx, paneFilter, GetPanesTarget{WindowID: windows[i].ID})
			if err != nil {
				return nil, fmt.Errorf("panes for window %q: %w", windows[i].ID, err)
			}
			windows[i].Panes = panes
		}
	}

	return windows, nil
}
