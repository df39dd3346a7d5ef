// Command devstation is the CLI entrypoint: it wires the repositories,
// config store, and worktree service once at startup, then hands argv off
// to the command registry.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"workbench/pkg/config"
	"workbench/pkg/dispatch"
	"workbench/pkg/display"
	"workbench/pkg/errkind"
	"workbench/pkg/gitdriver"
	"workbench/pkg/tmux"
	"workbench/pkg/worktree"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("devstation", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the config document (defaults to ~/.rafaeltab.json)")
	jsonFlag := fs.Bool("json", false, "print output as compact JSON")
	jsonPrettyFlag := fs.Bool("json-pretty", false, "print output as indented JSON")
	allowShell := fs.Bool("allow-shell", false, "allow worktree onCreate shell hooks to run")
	allowTmuxPassthrough := fs.Bool("allow-tmux-passthrough", false, "allow raw tmux passthrough commands")
	debug := fs.Bool("debug", false, "log every tmux/git subprocess invocation to stderr")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(argv); err != nil {
		return 2
	}
	args := fs.Args()
	if len(args) < 2 {
		printUsage(fs)
		return 2
	}
	commandName := args[0] + "." + args[1]
	commandArgs := args[2:]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: resolveLogLevel(config.DefaultEnvKeys().LogLevelOrDefault(), *jsonFlag || *jsonPrettyFlag, *debug),
	}))

	path, err := config.ResolvePath(*configPath)
	if err != nil {
		return reportErr(err)
	}
	store := config.NewStore(path)

	safety := config.DefaultSafety()
	safety.AllowShell = *allowShell
	safety.AllowTmuxPassthrough = *allowTmuxPassthrough

	conn := &tmux.Connection{Bin: "tmux", Logger: logger}
	panes := tmux.NewPaneRepository(conn)
	windows := tmux.NewWindowRepository(conn, panes)
	sessions := tmux.NewSessionRepository(conn, windows)
	clients := tmux.NewClientRepository(conn, sessions)
	popups := tmux.NewPopupRepository(conn)
	options := tmux.NewOptionsRepository(conn)

	git := &gitdriver.Driver{Bin: "git", Logger: logger}
	wt := worktree.NewService(git, sessions, store, safety, logger)

	adapter := display.NewAdapter(display.ShapeFromFlags(*jsonFlag, *jsonPrettyFlag), os.Stdout)

	dc := dispatch.Context{
		ConfigStore: store,
		Sessions:    sessions,
		Windows:     windows,
		Panes:       panes,
		Clients:     clients,
		Popups:      popups,
		Options:     options,
		Safety:      safety,
		Git:         git,
		Worktrees:   wt,
		Display:     adapter,
		Logger:      logger,
	}

	registry := dispatch.NewRegistry()
	dispatch.Register(registry)

	if err := registry.Dispatch(context.Background(), dc, commandName, commandArgs); err != nil {
		return reportErr(err)
	}
	return 0
}

func reportErr(err error) int {
	fmt.Fprintf(os.Stderr, "devstation: %v\n", err)
	var e *errkind.Error
	if errors.As(err, &e) && e.Hint != "" {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", e.Hint)
	}
	return errkind.KindOf(err).ExitCode()
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// resolveLogLevel folds --debug and the JSON output modes into the
// configured level. --debug always wins; otherwise JSON output modes are
// clamped to error so stdout/stderr stay parseable by a consumer reading
// --json/--json-pretty output.
func resolveLogLevel(envLevel string, jsonMode, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	if jsonMode {
		return slog.LevelError
	}
	return logLevel(envLevel)
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, `devstation - tmux session and git worktree orchestrator

Usage:
  devstation [flags] <noun> <verb> [args...]

Nouns and verbs:
  workspace list
  workspace find <query>
  workspace find-tag <tag>
  workspace current
  workspace add [--id ID] <name> <root> [tag...]
  workspace tmux
  tmux list
  tmux start [name]
  tmux switch <name>
  tmux import-yaml <path> [name]
  worktree start [--force] [--base REF] <branch>
  worktree complete [--force] <branch>
  option get <name>
  option set <name> <value>
  popup show [--title T] [--width W] [--height H] [--close-on-exit] <command>
  command-palette show

Flags:`)
	fs.PrintDefaults()
}
