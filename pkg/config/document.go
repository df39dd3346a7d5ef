// Package config is the configuration store: the on-disk JSON document of
// workspaces, tmux session templates, and worktree settings, plus the
// environment-variable overlay and safety allowlists that gate unsafe
// passthrough actions. Schema and env var names are part of the external
// interface and must not drift from what callers (and tests) expect.
package config

import (
	"encoding/json"
	"fmt"
)

// Window is one window within a SessionTemplate: a name and an optional
// command string.
type Window struct {
	Name    string  `json:"name"`
	Command *string `json:"command"`
}

// WorktreeConfig is the shape shared by the global worktree config and a
// per-workspace override: glob patterns to symlink from the main worktree
// into each new worktree, and shell commands to run after creation.
type WorktreeConfig struct {
	SymlinkFiles []string `json:"symlinkFiles,omitempty"`
	OnCreate     []string `json:"onCreate,omitempty"`
}

// Merge concatenates global and workspace (per-workspace) in that order,
// deduplicating while preserving first-seen order. Both inputs may be the
// zero value.
func Merge(global, workspace WorktreeConfig) WorktreeConfig {
	return WorktreeConfig{
		SymlinkFiles: dedupConcat(global.SymlinkFiles, workspace.SymlinkFiles),
		OnCreate:     dedupConcat(global.OnCreate, workspace.OnCreate),
	}
}

func dedupConcat(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Workspace is a named, tagged directory registered in the config
// document. Workspaces are created by the "add workspace" flow and
// persisted verbatim; nothing silently mutates them afterward.
type Workspace struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Root     string          `json:"root"`
	Tags     []string        `json:"tags,omitempty"`
	Worktree *WorktreeConfig `json:"worktree,omitempty"`
}

// TemplateKind distinguishes a workspace-bound SessionTemplate from a
// path-bound one.
type TemplateKind int

const (
	TemplateWorkspace TemplateKind = iota
	TemplatePath
)

// SessionTemplate is either workspace-bound (references a workspace id by
// name, optional session-name override) or path-bound (an explicit path
// and required session name). Both carry an ordered list of windows.
type SessionTemplate struct {
	Kind      TemplateKind
	Workspace string // set iff Kind == TemplateWorkspace
	Path      string // set iff Kind == TemplatePath
	Name      string // override name for workspace templates; required for path templates
	Windows   []Window
}

type sessionTemplateJSON struct {
	Workspace *string  `json:"workspace,omitempty"`
	Path      *string  `json:"path,omitempty"`
	Name      *string  `json:"name,omitempty"`
	Windows   []Window `json:"windows"`
}

func (t SessionTemplate) MarshalJSON() ([]byte, error) {
	raw := sessionTemplateJSON{Windows: t.Windows}
	switch t.Kind {
	case TemplateWorkspace:
		raw.Workspace = &t.Workspace
		if t.Name != "" {
			raw.Name = &t.Name
		}
	case TemplatePath:
		raw.Path = &t.Path
		raw.Name = &t.Name
	}
	return json.Marshal(raw)
}

func (t *SessionTemplate) UnmarshalJSON(data []byte) error {
	var raw sessionTemplateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Workspace != nil:
		t.Kind = TemplateWorkspace
		t.Workspace = *raw.Workspace
		if raw.Name != nil {
			t.Name = *raw.Name
		}
	case raw.Path != nil:
		if raw.Name == nil {
			return fmt.Errorf("path-bound session template missing required %q field", "name")
		}
		t.Kind = TemplatePath
		t.Path = *raw.Path
		t.Name = *raw.Name
	default:
		return fmt.Errorf("session template must set either %q or %q", "workspace", "path")
	}
	t.Windows = raw.Windows
	return nil
}

// TmuxConfig holds session templates and the default window set applied
// when no template matches a workspace.
type TmuxConfig struct {
	Sessions       []SessionTemplate `json:"sessions,omitempty"`
	DefaultWindows []Window          `json:"defaultWindows"`
}

// Document is the full on-disk configuration document.
type Document struct {
	Workspaces []Workspace     `json:"workspaces"`
	Tmux       TmuxConfig      `json:"tmux"`
	Worktree   *WorktreeConfig `json:"worktree,omitempty"`
}

// GlobalWorktree returns the document's global worktree config, or the
// zero value if none is set.
func (d Document) GlobalWorktree() WorktreeConfig {
	if d.Worktree == nil {
		return WorktreeConfig{}
	}
	return *d.Worktree
}

// WorkspaceByID returns the workspace with the given id, if any.
func (d Document) WorkspaceByID(id string) (Workspace, bool) {
	for _, w := range d.Workspaces {
		if w.ID == id {
			return w, true
		}
	}
	return Workspace{}, false
}

// ValidateUnique enforces the invariant that workspace ids are unique
// within the document.
func (d Document) ValidateUnique() error {
	seen := make(map[string]bool, len(d.Workspaces))
	for _, w := range d.Workspaces {
		if seen[w.ID] {
			return fmt.Errorf("duplicate workspace id %q", w.ID)
		}
		seen[w.ID] = true
	}
	return nil
}
