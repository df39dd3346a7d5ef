package display

import (
	"fmt"
	"strings"

	"workbench/pkg/config"
	"workbench/pkg/pathutil"
	"workbench/pkg/sessiondesc"
	"workbench/pkg/tmux"
)

// WorkspaceView adapts config.Workspace to Displayable.
type WorkspaceView struct{ Workspace config.Workspace }

func (v WorkspaceView) ToJSON() any { return v.Workspace }

// ToPretty renders "<name> (<id>): <expanded-root> [<tags>]", matching the
// seed scenario's documented line shape for "workspace list".
func (v WorkspaceView) ToPretty() string {
	root := pathutil.Expand(v.Workspace.Root)
	tags := strings.Join(v.Workspace.Tags, ", ")
	return fmt.Sprintf("%s (%s): %s [%s]", v.Workspace.Name, v.Workspace.ID, root, tags)
}

// SessionView adapts tmux.Session to Displayable.
type SessionView struct{ Session tmux.Session }

func (v SessionView) ToJSON() any { return v.Session }

func (v SessionView) ToPretty() string {
	return fmt.Sprintf("%s (%s): %s", v.Session.Name, v.Session.ID, v.Session.Path)
}

// WindowView adapts tmux.Window to Displayable.
type WindowView struct{ Window tmux.Window }

func (v WindowView) ToJSON() any { return v.Window }

func (v WindowView) ToPretty() string {
	return fmt.Sprintf("%s:%s %s", v.Window.SessionID, v.Window.Index, v.Window.Name)
}

// PaneView adapts tmux.Pane to Displayable.
type PaneView struct{ Pane tmux.Pane }

func (v PaneView) ToJSON() any { return v.Pane }

func (v PaneView) ToPretty() string {
	return fmt.Sprintf("%s:%s %s", v.Pane.WindowID, v.Pane.Index, v.Pane.CurrentPath)
}

// ClientView adapts tmux.Client to Displayable.
type ClientView struct{ Client tmux.Client }

func (v ClientView) ToJSON() any { return v.Client }

func (v ClientView) ToPretty() string {
	return fmt.Sprintf("%s (%s) -> %s", v.Client.Name, v.Client.TTY, v.Client.SessionName)
}

// DescriptionView adapts sessiondesc.Description to Displayable.
type DescriptionView struct{ Description sessiondesc.Description }

func (v DescriptionView) ToJSON() any { return v.Description }

func (v DescriptionView) ToPretty() string {
	status := "not running"
	if v.Description.Session != nil {
		status = "running (" + v.Description.Session.ID + ")"
	}
	return fmt.Sprintf("%s: %s [%s]", v.Description.Name, v.Description.WorkingDir, status)
}
