package sessiondesc

import (
	"testing"

	"workbench/pkg/config"
)

func TestWorktreeStartUsesWorkspaceWindows(t *testing.T) {
	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "proj", Name: "MyProject", Root: "/home/dev/proj"}},
		Tmux: config.TmuxConfig{
			Sessions: []config.SessionTemplate{
				{
					Kind:      config.TemplateWorkspace,
					Workspace: "proj",
					Windows: []config.Window{
						{Name: "nvim"}, {Name: "terminal"}, {Name: "server"},
					},
				},
			},
			DefaultWindows: []config.Window{{Name: "default"}},
		},
	}

	descriptions := Build(doc, map[string][]WorktreeRef{
		"proj": {{Branch: "feat/api", Path: "/home/dev/proj-worktrees/feat-api"}},
	})

	var worktreeDesc *Description
	for i := range descriptions {
		if descriptions[i].Name == "MyProject-feat/api" {
			worktreeDesc = &descriptions[i]
		}
	}
	if worktreeDesc == nil {
		t.Fatalf("expected a worktree description named MyProject-feat/api, got %+v", descriptions)
	}
	if len(worktreeDesc.Windows) != 3 {
		t.Fatalf("expected 3 windows, got %d: %+v", len(worktreeDesc.Windows), worktreeDesc.Windows)
	}
	for _, want := range []string{"nvim", "terminal", "server"} {
		found := false
		for _, w := range worktreeDesc.Windows {
			if w.Name == want {
				found = true
			}
			if w.Name == "default" {
				t.Fatalf("worktree description should not use default windows when a template exists")
			}
		}
		if !found {
			t.Fatalf("missing expected window %q", want)
		}
	}
}

func TestWorktreeStartWithEmptyDefaultWindows(t *testing.T) {
	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "proj", Name: "MyProject", Root: "/home/dev/proj"}},
		Tmux:       config.TmuxConfig{DefaultWindows: []config.Window{}},
	}

	descriptions := Build(doc, map[string][]WorktreeRef{
		"proj": {{Branch: "feat/empty", Path: "/home/dev/proj-worktrees/feat-empty"}},
	})

	var worktreeDesc *Description
	for i := range descriptions {
		if descriptions[i].Name == "MyProject-feat/empty" {
			worktreeDesc = &descriptions[i]
		}
	}
	if worktreeDesc == nil {
		t.Fatalf("expected a worktree description for feat/empty")
	}
	if len(worktreeDesc.Windows) > 1 {
		t.Fatalf("expected at most 1 window, got %d", len(worktreeDesc.Windows))
	}
}

func TestTemplatelessWorkspaceUsesDefaultWindows(t *testing.T) {
	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "a", Name: "A", Root: "/a"}},
		Tmux:       config.TmuxConfig{DefaultWindows: []config.Window{{Name: "shell"}}},
	}
	descriptions := Build(doc, nil)
	if len(descriptions) != 1 || descriptions[0].Windows[0].Name != "shell" {
		t.Fatalf("unexpected descriptions: %+v", descriptions)
	}
}
