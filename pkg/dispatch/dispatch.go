// Package dispatch routes CLI subcommands to repository and service calls.
// It replaces a dispatch table of heterogeneous, dynamically-dispatched
// command receivers with a registry of named closures over a single
// shared Context — the tagged-variant/registry redesign called for in
// Design Notes.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"workbench/pkg/config"
	"workbench/pkg/display"
	"workbench/pkg/gitdriver"
	"workbench/pkg/tmux"
	"workbench/pkg/worktree"
)

// Context is constructed once at startup (DI wiring) and handed to every
// registered command: the injected repositories, the config store, the
// display adapter, and the logger.
type Context struct {
	ConfigStore *config.Store
	Sessions    *tmux.SessionRepository
	Windows     *tmux.WindowRepository
	Panes       *tmux.PaneRepository
	Clients     *tmux.ClientRepository
	Popups      *tmux.PopupRepository
	Options     *tmux.OptionsRepository
	Safety      config.Safety
	Git         *gitdriver.Driver
	Worktrees   *worktree.Service
	Display     *display.Adapter
	Logger      *slog.Logger
}

// Handler is a registered command's entry point: it receives the shared
// Context, a background context.Context for subprocess calls, and the
// command's own argv (subcommand name already stripped).
type Handler func(ctx context.Context, dc Context, args []string) error

// Command is one registered subcommand, named by its full dotted path
// (e.g. "workspace.list", "tmux.start", "worktree.complete").
type Command struct {
	Name string
	Run  Handler
}

// Registry is a tagged-variant dispatch table: a flat map from command
// name to handler, built once at startup.
type Registry struct {
	commands map[string]Command
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds cmd to the registry. Panics on duplicate names: that is a
// programming error caught at startup, not a runtime condition.
func (r *Registry) Register(cmd Command) {
	if _, exists := r.commands[cmd.Name]; exists {
		panic(fmt.Sprintf("dispatch: command %q registered twice", cmd.Name))
	}
	r.commands[cmd.Name] = cmd
	r.order = append(r.order, cmd.Name)
}

// Names returns registered command names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Dispatch looks up name and runs its handler with args.
func (r *Registry) Dispatch(ctx context.Context, dc Context, name string, args []string) error {
	cmd, ok := r.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	return cmd.Run(ctx, dc, args)
}
