package spec

import (
	"strings"

	"workbench/pkg/config"
)

// ToSessionTemplate adapts a project-local Spec (the declarative
// .tmux-session.yaml/.json document's richer window/pane/action schema)
// down to the orchestrator's own config.SessionTemplate: one window per
// Spec.Window, with a single derived command per window taken from the
// window's first pane's Command (directly, or from its first "shell"
// action's Cmd or "run" action's program and args). PanePlan steps and
// panes beyond the first have no equivalent in config.Window and are
// dropped; importers are told so via the returned warnings. Actions of any
// other type are skipped without a warning (Validate, which LoadFile runs,
// already rejects them).
func ToSessionTemplate(s *Spec, path, name string) (config.SessionTemplate, []string) {
	var warnings []string
	windows := make([]config.Window, 0, len(s.Windows))

	for _, w := range s.Windows {
		cmd := firstWindowCommand(w)
		windows = append(windows, config.Window{Name: w.Name, Command: cmd})
		if len(w.PanePlan) > 0 {
			warnings = append(warnings, "window "+w.Name+": pane_plan layout dropped, only the first pane's command was kept")
		} else if len(w.Panes) > 1 {
			warnings = append(warnings, "window "+w.Name+": additional panes beyond the first were dropped")
		}
	}

	templateName := name
	if templateName == "" {
		templateName = s.Name
	}

	return config.SessionTemplate{
		Kind:    config.TemplatePath,
		Path:    path,
		Name:    templateName,
		Windows: windows,
	}, warnings
}

func firstWindowCommand(w Window) *string {
	if len(w.Panes) == 0 {
		return nil
	}
	pane := w.Panes[0]
	if pane.Command != "" {
		return strPtr(pane.Command)
	}
	for _, a := range pane.Actions {
		if a.Type == "shell" && a.Shell != nil && strings.TrimSpace(a.Shell.Cmd) != "" {
			return strPtr(a.Shell.Cmd)
		}
		if a.Type == "run" && a.Run != nil && a.Run.Program != "" {
			return strPtr(strings.TrimSpace(a.Run.Program + " " + strings.Join(a.Run.Args, " ")))
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
