package spec

import "testing"

func TestToSessionTemplateDerivesCommandFromFirstPane(t *testing.T) {
	s := &Spec{
		Name: "myproj",
		Windows: []Window{
			{Name: "editor", Panes: []Pane{{Command: "nvim ."}}},
			{Name: "server", Panes: []Pane{{Actions: []Action{{Type: "shell", Shell: &ShellAction{Cmd: "npm run dev"}}}}}},
			{Name: "empty"},
		},
	}

	tpl, warnings := ToSessionTemplate(s, "/proj/.tmux-session.yaml", "")
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if tpl.Kind != 1 { // TemplatePath
		t.Fatalf("expected path-bound template")
	}
	if tpl.Name != "myproj" {
		t.Fatalf("got name %q, want fallback to spec name", tpl.Name)
	}
	if len(tpl.Windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(tpl.Windows))
	}
	if tpl.Windows[0].Command == nil || *tpl.Windows[0].Command != "nvim ." {
		t.Fatalf("window 0 command = %v, want \"nvim .\"", tpl.Windows[0].Command)
	}
	if tpl.Windows[1].Command == nil || *tpl.Windows[1].Command != "npm run dev" {
		t.Fatalf("window 1 command = %v, want \"npm run dev\"", tpl.Windows[1].Command)
	}
	if tpl.Windows[2].Command != nil {
		t.Fatalf("window 2 command = %v, want nil", tpl.Windows[2].Command)
	}
}

func TestToSessionTemplateWarnsOnDroppedPanePlan(t *testing.T) {
	s := &Spec{
		Windows: []Window{
			{Name: "dev", PanePlan: []PanePlanStep{{Pane: &PanePlanPane{Name: "editor"}}}},
		},
	}

	_, warnings := ToSessionTemplate(s, "/proj/spec.yaml", "dev-session")
	if len(warnings) != 1 {
		t.Fatalf("expected one warning about dropped pane_plan, got %v", warnings)
	}
}
