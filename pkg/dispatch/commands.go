package dispatch

import (
	"context"
	"flag"
	"fmt"

	"workbench/pkg/config"
	"workbench/pkg/display"
	"workbench/pkg/pathutil"
	"workbench/pkg/sessiondesc"
	"workbench/pkg/spec"
	"workbench/pkg/tmux"
	"workbench/pkg/tui"
	"workbench/pkg/worktree"
)

// Register populates r with every command named in the CLI surface.
func Register(r *Registry) {
	r.Register(Command{Name: "workspace.list", Run: workspaceList})
	r.Register(Command{Name: "workspace.find", Run: workspaceFind})
	r.Register(Command{Name: "workspace.find-tag", Run: workspaceFindTag})
	r.Register(Command{Name: "workspace.current", Run: workspaceCurrent})
	r.Register(Command{Name: "workspace.add", Run: workspaceAdd})
	r.Register(Command{Name: "workspace.tmux", Run: workspaceTmux})

	r.Register(Command{Name: "tmux.list", Run: tmuxList})
	r.Register(Command{Name: "tmux.start", Run: tmuxStart})
	r.Register(Command{Name: "tmux.switch", Run: tmuxSwitch})
	r.Register(Command{Name: "tmux.import-yaml", Run: tmuxImportYAML})

	r.Register(Command{Name: "worktree.start", Run: worktreeStart})
	r.Register(Command{Name: "worktree.complete", Run: worktreeComplete})

	r.Register(Command{Name: "option.get", Run: optionGet})
	r.Register(Command{Name: "option.set", Run: optionSet})

	r.Register(Command{Name: "command-palette.show", Run: commandPaletteShow})
	r.Register(Command{Name: "popup.show", Run: popupShow})
}

func workspaceViews(workspaces []config.Workspace) []display.Displayable {
	out := make([]display.Displayable, 0, len(workspaces))
	for _, w := range workspaces {
		out = append(out, display.WorkspaceView{Workspace: w})
	}
	return out
}

// workspace list
func workspaceList(ctx context.Context, dc Context, args []string) error {
	doc, err := dc.ConfigStore.Load()
	if err != nil {
		return err
	}
	return dc.Display.PrintAll(workspaceViews(doc.Workspaces))
}

// workspace find <query>: substring match over name, id, and root.
func workspaceFind(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("workspace find", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: workspace find <query>")
	}
	query := fs.Arg(0)

	doc, err := dc.ConfigStore.Load()
	if err != nil {
		return err
	}
	var matches []config.Workspace
	for _, w := range doc.Workspaces {
		if fuzzyContains(w.Name, query) || fuzzyContains(w.ID, query) || fuzzyContains(w.Root, query) {
			matches = append(matches, w)
		}
	}
	return dc.Display.PrintAll(workspaceViews(matches))
}

// workspace find-tag <tag>
func workspaceFindTag(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("workspace find-tag", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: workspace find-tag <tag>")
	}
	tag := fs.Arg(0)

	doc, err := dc.ConfigStore.Load()
	if err != nil {
		return err
	}
	var matches []config.Workspace
	for _, w := range doc.Workspaces {
		for _, t := range w.Tags {
			if t == tag {
				matches = append(matches, w)
				break
			}
		}
	}
	return dc.Display.PrintAll(workspaceViews(matches))
}

// workspace current: resolve the workspace containing the process cwd via
// the most-specific-prefix rule.
func workspaceCurrent(ctx context.Context, dc Context, args []string) error {
	cwd, err := cwdOrEnv()
	if err != nil {
		return err
	}
	doc, err := dc.ConfigStore.Load()
	if err != nil {
		return err
	}
	var candidates []pathutil.WorkspacePath
	for _, w := range doc.Workspaces {
		candidates = append(candidates, pathutil.WorkspacePath{ID: w.ID, Path: pathutil.Expand(w.Root)})
	}
	id, ok := pathutil.MostSpecificWorkspace(pathutil.Expand(cwd), candidates)
	if !ok {
		return fmt.Errorf("cwd %q is not inside any registered workspace", cwd)
	}
	ws, _ := doc.WorkspaceByID(id)
	return dc.Display.Print(display.WorkspaceView{Workspace: ws})
}

// workspace add <name> <root> [tag...]
func workspaceAdd(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("workspace add", flag.ContinueOnError)
	id := fs.String("id", "", "explicit workspace id (defaults to the name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: workspace add [--id ID] <name> <root> [tag...]")
	}
	name, root := fs.Arg(0), fs.Arg(1)
	tags := fs.Args()[2:]

	workspaceID := *id
	if workspaceID == "" {
		workspaceID = name
	}

	doc, err := dc.ConfigStore.Load()
	if err != nil {
		return err
	}
	doc.Workspaces = append(doc.Workspaces, config.Workspace{
		ID:   workspaceID,
		Name: name,
		Root: root,
		Tags: tags,
	})
	saved, err := dc.ConfigStore.Save(doc)
	if err != nil {
		return err
	}
	ws, _ := saved.WorkspaceByID(workspaceID)
	return dc.Display.Print(display.WorkspaceView{Workspace: ws})
}

// workspace tmux: print the workspace of the currently running session,
// looked up by the id recovered from RAFAELTAB_WORKSPACE.
func workspaceTmux(ctx context.Context, dc Context, args []string) error {
	keys := config.DefaultEnvKeys()
	id, ok := keys.CurrentWorkspaceID()
	if !ok {
		return fmt.Errorf("%s is not set; not running inside a workspace session", "RAFAELTAB_WORKSPACE")
	}
	doc, err := dc.ConfigStore.Load()
	if err != nil {
		return err
	}
	ws, found := doc.WorkspaceByID(id)
	if !found {
		return fmt.Errorf("workspace %q (from environment) is no longer registered", id)
	}
	return dc.Display.Print(display.WorkspaceView{Workspace: ws})
}

// tmux list: session-description pipeline, reconciled against the live
// server.
func tmuxList(ctx context.Context, dc Context, args []string) error {
	descriptions, err := buildDescriptions(ctx, dc)
	if err != nil {
		return err
	}
	out := make([]display.Displayable, 0, len(descriptions))
	for _, d := range descriptions {
		out = append(out, display.DescriptionView{Description: d})
	}
	return dc.Display.PrintAll(out)
}

// tmux start [name]: materializes any unmaterialized descriptions (or just
// the one matching name, if given).
func tmuxStart(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("tmux start", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	name := fs.Arg(0)

	descriptions, err := buildDescriptions(ctx, dc)
	if err != nil {
		return err
	}
	pending := sessiondesc.Unmaterialized(descriptions)
	if name != "" {
		var filtered []sessiondesc.Description
		for _, d := range pending {
			if d.Name == name {
				filtered = append(filtered, d)
			}
		}
		pending = filtered
	}

	var started []display.Displayable
	for _, d := range pending {
		windows := make([]tmux.WindowSpec, 0, len(d.Windows))
		for _, w := range d.Windows {
			windows = append(windows, tmux.WindowSpec{Name: w.Name, Command: w.Command})
		}
		session, err := dc.Sessions.NewSession(ctx, tmux.NewSessionRequest{
			ID:      d.ID,
			Name:    d.Name,
			Path:    d.WorkingDir,
			Windows: windows,
		})
		if err != nil {
			return fmt.Errorf("start session %q: %w", d.Name, err)
		}
		started = append(started, display.SessionView{Session: session})
	}
	return dc.Display.PrintAll(started)
}

// tmux switch <name>: resolve a session by name and switch-client to it.
func tmuxSwitch(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("tmux switch", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tmux switch <session-name>")
	}
	name := fs.Arg(0)

	sessions, err := dc.Sessions.GetSessions(ctx, nil, tmux.SessionIncludes{})
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if s.Name == name {
			return dc.Clients.SwitchClient(ctx, "", tmux.Target{Kind: tmux.TargetSession, ID: s.ID})
		}
	}
	return fmt.Errorf("no session named %q", name)
}

// tmux import-yaml <path> [name]: a thin convenience that reads a
// project-local .tmux-session.{yaml,yml,json} spec file and registers it as
// a path-bound session template, for teams migrating existing specs in
// rather than hand-writing config.Document entries.
func tmuxImportYAML(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("tmux import-yaml", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tmux import-yaml <path> [name]")
	}
	specPath := fs.Arg(0)
	name := fs.Arg(1)

	loaded, err := spec.LoadFile(specPath)
	if err != nil {
		return fmt.Errorf("load spec %q: %w", specPath, err)
	}

	template, warnings := spec.ToSessionTemplate(loaded, specPath, name)
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}

	doc, err := dc.ConfigStore.Load()
	if err != nil {
		return err
	}
	doc.Tmux.Sessions = append(doc.Tmux.Sessions, template)
	_, err = dc.ConfigStore.Save(doc)
	return err
}

// worktree start <branch>
func worktreeStart(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("worktree start", flag.ContinueOnError)
	force := fs.Bool("force", false, "create even outside any registered workspace")
	base := fs.String("base", "", "base ref for the new branch (defaults to HEAD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: worktree start [--force] [--base REF] <branch>")
	}
	branch := fs.Arg(0)

	result, err := dc.Worktrees.Create(ctx, branch, worktree.CreateOptions{Force: *force, Base: *base})
	if err != nil {
		return err
	}
	fmt.Printf("created worktree %q at %s\n", result.Branch, result.Path)
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	return nil
}

// worktree complete <branch>
func worktreeComplete(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("worktree complete", flag.ContinueOnError)
	force := fs.Bool("force", false, "remove even with uncommitted, staged, untracked, or unpushed changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: worktree complete [--force] <branch>")
	}
	branch := fs.Arg(0)
	return dc.Worktrees.Complete(ctx, branch, worktree.CompleteOptions{Force: *force})
}

// popup show <command>: runs command inside a tmux display-popup.
func popupShow(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("popup show", flag.ContinueOnError)
	title := fs.String("title", "", "popup title")
	width := fs.String("width", "80%", "popup width")
	height := fs.String("height", "60%", "popup height")
	closeOnExit := fs.Bool("close-on-exit", true, "close the popup when command exits")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: popup show [flags] <command>")
	}
	return dc.Popups.DisplayPopup(ctx, tmux.PopupOptions{
		Title:       *title,
		Width:       *width,
		Height:      *height,
		Command:     fs.Arg(0),
		CloseOnExit: *closeOnExit,
	})
}

// option get <name>: reads a global tmux option. Gated by Safety, since
// reading server-wide options is still passthrough surface.
func optionGet(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("option get", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: option get <name>")
	}
	if !dc.Safety.IsTmuxCommandAllowed("show-options") {
		return fmt.Errorf("tmux passthrough is not enabled; pass --allow-tmux-passthrough")
	}
	value, err := dc.Options.GetGlobal(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

// option set <name> <value>
func optionSet(ctx context.Context, dc Context, args []string) error {
	fs := flag.NewFlagSet("option set", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: option set <name> <value>")
	}
	if !dc.Safety.IsTmuxCommandAllowed("set-option") {
		return fmt.Errorf("tmux passthrough is not enabled; pass --allow-tmux-passthrough")
	}
	return dc.Options.SetGlobal(ctx, fs.Arg(0), fs.Arg(1))
}

// command-palette show: runs the interactive picker over a fixed list of
// workspace, tmux, and worktree command names (not every registered
// command), then dispatches the chosen one with no further arguments.
func commandPaletteShow(ctx context.Context, dc Context, args []string) error {
	if !tui.IsInteractive() {
		return fmt.Errorf("command palette requires an interactive terminal")
	}
	names := []string{
		"workspace.list", "workspace.find", "workspace.find-tag", "workspace.current",
		"tmux.list", "tmux.start", "tmux.switch", "worktree.start", "worktree.complete",
	}
	commands := make([]tui.PaletteCommand, 0, len(names))
	for _, name := range names {
		n := name
		commands = append(commands, tui.PaletteCommand{
			Name: n,
			Run: func() error {
				r := NewRegistry()
				Register(r)
				return r.Dispatch(ctx, dc, n, nil)
			},
		})
	}
	return tui.ShowPalette(commands)
}

func buildDescriptions(ctx context.Context, dc Context) ([]sessiondesc.Description, error) {
	doc, err := dc.ConfigStore.Load()
	if err != nil {
		return nil, err
	}

	worktreesByWorkspace := make(map[string][]sessiondesc.WorktreeRef)
	for _, ws := range doc.Workspaces {
		root := pathutil.Expand(ws.Root)
		if !dc.Git.IsGitRepo(ctx, root) {
			continue
		}
		worktrees, err := dc.Git.ListWorktrees(ctx, root)
		if err != nil {
			continue
		}
		for i, wt := range worktrees {
			if i == 0 || wt.Branch == "" {
				continue // skip the main worktree itself
			}
			worktreesByWorkspace[ws.ID] = append(worktreesByWorkspace[ws.ID], sessiondesc.WorktreeRef{Branch: wt.Branch, Path: wt.Path})
		}
	}

	descriptions := sessiondesc.Build(doc, worktreesByWorkspace)

	sessions, err := dc.Sessions.GetSessions(ctx, nil, tmux.SessionIncludes{})
	if err != nil {
		return nil, err
	}
	return sessiondesc.AttachLiveSessions(descriptions, sessions), nil
}
