package tmux

import (
	"context"
	"encoding/json"
	"fmt"

	"workbench/pkg/errkind"
	"workbench/pkg/tmuxfmt"
)

// GetPanesTarget scopes a pane listing either to a single window (via "-t")
// or, if WindowID is empty, across the whole server (via "-a").
type GetPanesTarget struct {
	WindowID string
}

type SplitDirection int

const (
	SplitVertical SplitDirection = iota
	SplitHorizontal
)

// SplitWindowRequest describes a split-window invocation. PaneID, if set,
// targets a specific pane to split; otherwise the window's active pane is
// split.
type SplitWindowRequest struct {
	WindowID  string
	PaneID    string
	CWD       string
	Direction SplitDirection
}

// PaneRepository is the typed CRUD surface over tmux panes.
type PaneRepository struct {
	Conn Runner
}

func NewPaneRepository(conn Runner) *PaneRepository {
	return &PaneRepository{Conn: conn}
}

type paneRow struct {
	ID          string `json:"id"`
	WindowID    string `json:"window_id"`
	Index       string `json:"index"`
	Title       string `json:"title"`
	CurrentPath string `json:"current_path"`
}

func paneListFormat() string {
	return fmt.Sprintf(`{"id":"%s","window_id":"%s","index":"%s","title":"%s","current_path":"%s"}`,
		tmuxfmt.PaneID.Format(), tmuxfmt.WindowID.Format(), tmuxfmt.PaneIndex.Format(),
		tmuxfmt.PaneTitle.Format(), tmuxfmt.PaneCurrentPath.Format())
}

// GetPanes lists panes matching filter, scoped per target.
func (r *PaneRepository) GetPanes(ctx context.Context, filter tmuxfmt.Node, target GetPanesTarget) ([]Pane, error) {
	args := []string{"list-panes", "-F", paneListFormat()}
	if target.WindowID != "" {
		args = append(args, "-t", target.WindowID)
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
		return nil, fmt.Errorf("list panes: %w", err)
	}

	var panes []Pane
	for _, line := range splitNonEmptyLines(out) {
		var row paneRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, errkind.New(errkind.Parse, fmt.Errorf("parse pane row %q: %w", line, err))
		}
		panes = append(panes, Pane{
			ID:          row.ID,
			WindowID:    row.WindowID,
			Index:       row.Index,
			Title:       row.Title,
			CurrentPath: row.CurrentPath,
		})
	}
	return panes, nil
}

// SplitWindow snapshots the target window's pane ids before invoking
// split-window, then returns the single new pane by set difference.
// tmux's split-window does not itself return the created pane's id; this
// avoids a round-trip race at the cost of one extra list call.
func (r *PaneRepository) SplitWindow(ctx context.Context, req SplitWindowRequest) (Pane, error) {
	before, err := r.GetPanes(ctx, nil, GetPanesTarget{WindowID: req.WindowID})
	if err != nil {
		return Pane{}, fmt.Errorf("snapshot panes before split: %w", err)
	}
	beforeIDs := make(map[string]bool, len(before))
	for _, p := range before {
		beforeIDs[p.ID] = true
	}

	target := req.WindowID
	if req.PaneID != "" {
		target = req.PaneID
	}
	args := []string{"split-window"}
	switch req.Direction {
	case SplitHorizontal:
		args = append(args, "-h")
	default:
		args = append(args, "-v")
	}
	args = append(args, "-t", target)
	if req.CWD != "" {
		args = append(args, "-c", req.CWD)
	}

	if _, err := r.Conn.Run(ctx, args...); err != nil {
		return Pane{}, fmt.Errorf("split window %q: %w", req.WindowID, err)
	}

	after, err := r.GetPanes(ctx, nil, GetPanesTarget{WindowID: req.WindowID})
	if err != nil {
		return Pane{}, fmt.Errorf("snapshot panes after split: %w", err)
	}
	for _, p := range after {
		if !beforeIDs[p.ID] {
			return p, nil
		}
	}
	return Pane{}, errkind.New(errkind.Parse, fmt.Errorf("split-window did not produce a detectable new pane in window %q", req.WindowID))
}
