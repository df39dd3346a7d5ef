// Package spec defines the project-local session specification format: an
// optional .tmux-session.yaml/.yml/.json document that describes a
// project's windows and the command each one should launch, read by
// "devstation tmux import-yaml" and converted into a config.SessionTemplate.
//
// The format only exposes a "run program+args" action and a "shell"
// escape hatch; it intentionally has no tmux passthrough, pane-split
// geometry, or interactive-readiness actions, matching this importer's
// one job: derive a single startup command per window.
package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the schema version for project-local specs.
const CurrentVersion = 1

// Spec is the root document.
type Spec struct {
	Version int    `json:"version" yaml:"version"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`

	Windows []Window `json:"windows,omitempty" yaml:"windows,omitempty"`
}

// Window describes one tmux window and its panes.
type Window struct {
	Name string `json:"name" yaml:"name"`

	// Panes contains panes and their actions/commands. Only the first
	// pane's command is carried into the session template; see
	// ToSessionTemplate.
	Panes []Pane `json:"panes,omitempty" yaml:"panes,omitempty"`

	// PanePlan is an optional declarative split plan. ToSessionTemplate
	// drops it (no equivalent in config.Window) and warns the importer.
	PanePlan []PanePlanStep `json:"pane_plan,omitempty" yaml:"pane_plan,omitempty"`
}

// PanePlanStep is a tagged union: exactly one of Pane or Split must be set.
type PanePlanStep struct {
	Pane  *PanePlanPane  `json:"pane,omitempty" yaml:"pane,omitempty"`
	Split *PanePlanSplit `json:"split,omitempty" yaml:"split,omitempty"`
}

// PanePlanPane describes the pane created/selected after a split.
type PanePlanPane struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Actions []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
}

// PanePlanSplit describes how to split from the currently active pane.
type PanePlanSplit struct {
	// Direction: "h" (side-by-side) or "v" (stacked)
	Direction string `json:"direction" yaml:"direction"`
	// Size: optional, e.g. "30%" or "20"
	Size string `json:"size,omitempty" yaml:"size,omitempty"`
}

// Pane describes a tmux pane within a window.
type Pane struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Actions describes what to do in the pane. Typical: a single Run or
	// Shell action.
	Actions []Action `json:"actions,omitempty" yaml:"actions,omitempty"`

	// Command is shorthand for a single shell action.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// Action is one of the two whitelisted operations a pane may run.
type Action struct {
	// Type identifies the action: "run" or "shell".
	Type string `json:"type" yaml:"type"`

	// For "run": Program + Args represent an argv.
	Run *RunAction `json:"run,omitempty" yaml:"run,omitempty"`

	// For "shell": Cmd is a shell snippet.
	Shell *ShellAction `json:"shell,omitempty" yaml:"shell,omitempty"`
}

// RunAction describes a program execution in a pane.
type RunAction struct {
	Program string   `json:"program" yaml:"program"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// ShellAction is a shell snippet to run in a pane.
type ShellAction struct {
	Cmd string `json:"cmd" yaml:"cmd"`
}

// Validate performs structural validation of the document: it defaults and
// checks Version, requires a name on every window, normalizes Pane.Command
// shorthand into a shell action, and validates every action's shape.
func (s *Spec) Validate() error {
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported spec version %d (expected %d)", s.Version, CurrentVersion)
	}

	if len(s.Windows) == 0 {
		return errors.New("spec must define windows[]")
	}

	for i := range s.Windows {
		w := &s.Windows[i]
		if strings.TrimSpace(w.Name) == "" {
			return fmt.Errorf("windows[%d].name is required", i)
		}

		if len(w.PanePlan) > 0 {
			if err := validatePanePlan(w.PanePlan); err != nil {
				return fmt.Errorf("windows[%d](%s).pane_plan: %w", i, w.Name, err)
			}
			for si := range w.PanePlan {
				step := &w.PanePlan[si]
				if step.Pane == nil {
					continue
				}
				normalizeCommand(&step.Pane.Command, &step.Pane.Actions)
				for ak := range step.Pane.Actions {
					if err := validateAction(&step.Pane.Actions[ak]); err != nil {
						return fmt.Errorf("windows[%d](%s).pane_plan[%d].pane.actions[%d]: %w", i, w.Name, si, ak, err)
					}
				}
			}
		}

		for j := range w.Panes {
			p := &w.Panes[j]
			normalizeCommand(&p.Command, &p.Actions)
			for k := range p.Actions {
				if err := validateAction(&p.Actions[k]); err != nil {
					return fmt.Errorf("windows[%d](%s).panes[%d].actions[%d]: %w", i, w.Name, j, k, err)
				}
			}
		}
	}

	return nil
}

// normalizeCommand turns a Command shorthand into an equivalent shell
// action, if no actions were given explicitly.
func normalizeCommand(command *string, actions *[]Action) {
	if *command == "" || len(*actions) != 0 {
		return
	}
	*actions = []Action{{Type: "shell", Shell: &ShellAction{Cmd: *command}}}
}

func validateAction(a *Action) error {
	a.Type = strings.TrimSpace(strings.ToLower(a.Type))
	switch a.Type {
	case "run":
		if a.Run == nil {
			return errors.New("run action missing run{}")
		}
		a.Run.Program = strings.TrimSpace(a.Run.Program)
		if a.Run.Program == "" {
			return errors.New("run.program is required")
		}
	case "shell":
		if a.Shell == nil {
			return errors.New("shell action missing shell{}")
		}
		a.Shell.Cmd = strings.TrimSpace(a.Shell.Cmd)
		if a.Shell.Cmd == "" {
			return errors.New("shell.cmd is required")
		}
	default:
		return fmt.Errorf("unknown action type %q (allowed: run, shell)", a.Type)
	}
	return nil
}

func validatePanePlan(steps []PanePlanStep) error {
	if len(steps) == 0 {
		return nil
	}

	if steps[0].Pane == nil || steps[0].Split != nil {
		return errors.New("first step must be pane")
	}

	for i := range steps {
		step := &steps[i]
		hasPane := step.Pane != nil
		hasSplit := step.Split != nil
		if hasPane == hasSplit {
			return fmt.Errorf("step[%d] must have exactly one of pane or split", i)
		}
		if hasSplit {
			dir := strings.ToLower(strings.TrimSpace(step.Split.Direction))
			if dir != "h" && dir != "v" {
				return fmt.Errorf("step[%d].split.direction must be 'h' or 'v'", i)
			}
		}
	}

	if steps[len(steps)-1].Split != nil {
		return errors.New("last step must be pane (cannot end with split)")
	}

	return nil
}

// LoadFile loads a spec from a YAML or JSON file path, inferring format
// from the extension (falling back to trying YAML then JSON).
func LoadFile(path string) (*Spec, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("empty path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	var s Spec
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &s); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(b, &s); err != nil {
			if jerr := json.Unmarshal(b, &s); jerr != nil {
				return nil, fmt.Errorf("unknown spec file type %q; yaml err: %v; json err: %v", ext, err, jerr)
			}
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
