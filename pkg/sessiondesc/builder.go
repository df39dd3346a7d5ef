// Package sessiondesc builds the declarative SessionDescription list that
// is the currency of the session-description pipeline: it projects the
// config document's workspaces and templates, plus each workspace's active
// git worktrees, into fully-resolved target sessions, then the caller
// reconciles that list against the live tmux server.
package sessiondesc

import (
	"fmt"

	"workbench/pkg/config"
	"workbench/pkg/tmux"
)

// Kind distinguishes a path-bound description from a workspace-bound one.
type Kind int

const (
	KindPath Kind = iota
	KindWorkspace
)

// Description is a fully resolved target session: a stable id, display
// name, kind, ordered windows, and (once AttachLiveSessions has run) an
// optional reference to the live TmuxSession if one already exists.
type Description struct {
	ID         string
	Name       string
	Kind       Kind
	WorkspaceID string // set iff Kind == KindWorkspace
	WorkingDir string
	Windows    []config.Window
	Session    *tmux.Session
}

// WorktreeRef is the minimal worktree fact the builder needs: a branch and
// its checkout path. Defined locally (rather than importing pkg/gitdriver)
// to keep sessiondesc a leaf the way pkg/tmuxfmt is for the tmux
// repositories.
type WorktreeRef struct {
	Branch string
	Path   string
}

// Build projects doc into a SessionDescription list following the rules in
// order: (1) one description per configured template, (2) one description
// per template-less workspace using defaultWindows, (3) one description
// per active worktree of every workspace (template-bearing or not — this
// resolves the source's ambiguity about worktree-unaware workspaces in
// favor of always emitting a worktree description, falling back to
// defaultWindows when no template exists), each named
// "<workspace.name>-<branch>".
func Build(doc config.Document, worktreesByWorkspace map[string][]WorktreeRef) []Description {
	var out []Description

	templatedWorkspaces := make(map[string]config.SessionTemplate)

	for _, tpl := range doc.Tmux.Sessions {
		switch tpl.Kind {
		case config.TemplateWorkspace:
			ws, ok := doc.WorkspaceByID(tpl.Workspace)
			if !ok {
				// Failure policy: skip unresolved workspace templates rather than
				// aborting the whole build; callers that want strict behavior can
				// cross-check doc.Workspaces themselves before calling Build.
				continue
			}
			name := tpl.Name
			if name == "" {
				name = ws.Name
			}
			out = append(out, Description{
				ID:          fmt.Sprintf("workspace:%s", ws.ID),
				Name:        name,
				Kind:        KindWorkspace,
				WorkspaceID: ws.ID,
				WorkingDir:  ws.Root,
				Windows:     tpl.Windows,
			})
			templatedWorkspaces[ws.ID] = tpl

		case config.TemplatePath:
			out = append(out, Description{
				ID:         fmt.Sprintf("path:%s", tpl.Path),
				Name:       tpl.Name,
				Kind:       KindPath,
				WorkingDir: tpl.Path,
				Windows:    tpl.Windows,
			})
		}
	}

	for _, ws := range doc.Workspaces {
		if _, has := templatedWorkspaces[ws.ID]; has {
			continue
		}
		out = append(out, Description{
			ID:          fmt.Sprintf("workspace:%s", ws.ID),
			Name:        ws.Name,
			Kind:        KindWorkspace,
			WorkspaceID: ws.ID,
			WorkingDir:  ws.Root,
			Windows:     doc.Tmux.DefaultWindows,
		})
	}

	for _, ws := range doc.Workspaces {
		worktrees := worktreesByWorkspace[ws.ID]
		if len(worktrees) == 0 {
			continue
		}
		windows := doc.Tmux.DefaultWindows
		if tpl, has := templatedWorkspaces[ws.ID]; has {
			windows = tpl.Windows
		}
		for _, wt := range worktrees {
			out = append(out, Description{
				ID:          fmt.Sprintf("worktree:%s:%s", ws.ID, wt.Branch),
				Name:        fmt.Sprintf("%s-%s", ws.Name, wt.Branch),
				Kind:        KindWorkspace,
				WorkspaceID: ws.ID,
				WorkingDir:  wt.Path,
				Windows:     windows,
			})
		}
	}

	return out
}

// AttachLiveSessions annotates each description with the matching live
// TmuxSession (by name), if one exists.
func AttachLiveSessions(descriptions []Description, sessions []tmux.Session) []Description {
	byName := make(map[string]tmux.Session, len(sessions))
	for _, s := range sessions {
		byName[s.Name] = s
	}
	for i := range descriptions {
		if s, ok := byName[descriptions[i].Name]; ok {
			sessionCopy := s
			descriptions[i].Session = &sessionCopy
		}
	}
	return descriptions
}

// Unmaterialized returns the subset of descriptions with no live session
// attached — the set the "tmux start" command must call
// SessionRepository.NewSession on.
func Unmaterialized(descriptions []Description) []Description {
	var out []Description
	for _, d := range descriptions {
		if d.Session == nil {
			out = append(out, d)
		}
	}
	return out
}
