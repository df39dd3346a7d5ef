package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"workbench/pkg/config"
	"workbench/pkg/gitdriver"
	"workbench/pkg/pathutil"
	"workbench/pkg/tmux"
)

// expectedWorktreePath mirrors Service.Create's sibling-directory naming so
// tests can assert on it without duplicating path-expansion edge cases.
func expectedWorktreePath(mainPath, branch string) string {
	expanded := pathutil.Expand(mainPath)
	base := filepath.Base(strings.TrimRight(expanded, string(filepath.Separator)))
	return filepath.Join(filepath.Dir(expanded), fmt.Sprintf("%s-%s", base, strings.ReplaceAll(branch, "/", "-")))
}

// fakeTmuxRunner is a scripted tmux.Runner: it always reports the single
// session described by its fields, regardless of the filter tmux would
// have applied server-side, which is sufficient for exercising
// Service.Create/Complete without a real tmux server.
type fakeTmuxRunner struct {
	mu          sync.Mutex
	calls       [][]string
	sessionID   string
	sessionName string
	sessionPath string
}

func (f *fakeTmuxRunner) Run(_ context.Context, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{}, args...))
	f.mu.Unlock()

	if len(args) == 0 {
		return "", fmt.Errorf("fakeTmuxRunner: empty args")
	}
	switch args[0] {
	case "new-session":
		return f.sessionID, nil
	case "new-window":
		return "@1", nil
	case "list-sessions":
		return fmt.Sprintf(`{"id":"%s","name":"%s","path":"%s"}`+"\n", f.sessionID, f.sessionName, f.sessionPath), nil
	case "list-windows":
		return "", nil
	case "kill-session":
		return "", nil
	default:
		return "", fmt.Errorf("fakeTmuxRunner: unhandled args %v", args)
	}
}

func (f *fakeTmuxRunner) sawSubcommand(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.calls {
		if len(call) > 0 && call[0] == name {
			return true
		}
	}
	return false
}

// newFakeGitDriver points a gitdriver.Driver at a temporary shell script
// standing in for the real git binary: Driver has no interface seam, so
// this substitutes at the subprocess boundary instead. The script reads
// its canned behavior from environment variables, set per test via
// t.Setenv, which exec.Cmd inherits since Driver.Run leaves cmd.Env nil.
func newFakeGitDriver(t *testing.T) *gitdriver.Driver {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "git")
	const body = `#!/bin/sh
case "$1 $2" in
  "rev-parse --is-inside-work-tree")
    if [ "$FAKE_GIT_NOT_A_REPO" = "1" ]; then
      echo "fatal: not a git repository" >&2
      exit 128
    fi
    echo true
    ;;
  "worktree list")
    printf '%s' "$FAKE_GIT_WORKTREES"
    ;;
  "worktree add")
    if [ "$FAKE_GIT_ADD_FAIL" = "1" ]; then
      echo "fake worktree add failure" >&2
      exit 1
    fi
    mkdir -p "$5"
    ;;
  "worktree remove")
    if [ "$FAKE_GIT_REMOVE_FAIL" = "1" ]; then
      echo "fake worktree remove failure" >&2
      exit 1
    fi
    ;;
  "status --porcelain")
    printf '%s' "$FAKE_GIT_STATUS"
    ;;
  "diff --cached")
    printf '%s' "$FAKE_GIT_STAGED"
    ;;
  "ls-files --others")
    printf '%s' "$FAKE_GIT_UNTRACKED"
    ;;
  "rev-list --count")
    if [ "$FAKE_GIT_NO_UPSTREAM" = "1" ]; then
      echo "fatal: no upstream configured" >&2
      exit 128
    fi
    printf '%s' "${FAKE_GIT_AHEAD_COUNT:-0}"
    ;;
  *)
    echo "fake git: unhandled invocation: $*" >&2
    exit 1
    ;;
esac
`
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write fake git script: %v", err)
	}
	return &gitdriver.Driver{Bin: script}
}

func newTestService(t *testing.T, doc config.Document, git *gitdriver.Driver, runner tmux.Runner) *Service {
	t.Helper()
	store := config.NewStore(filepath.Join(t.TempDir(), "config.json"))
	if _, err := store.Save(doc); err != nil {
		t.Fatalf("seed config: %v", err)
	}
	panes := tmux.NewPaneRepository(runner)
	windows := tmux.NewWindowRepository(runner, panes)
	sessions := tmux.NewSessionRepository(runner, windows)
	safety := config.Safety{AllowShell: true}
	svc := NewService(git, sessions, store, safety, nil)
	svc.Shell = "/bin/sh"
	return svc
}

func worktreePorcelain(mainPath string, extra ...gitdriver.Worktree) string {
	var b strings.Builder
	fmt.Fprintf(&b, "worktree %s\nHEAD 0000000000000000000000000000000000000000\nbranch refs/heads/main\n\n", mainPath)
	for _, wt := range extra {
		fmt.Fprintf(&b, "worktree %s\nHEAD 0000000000000000000000000000000000000000\nbranch refs/heads/%s\n\n", wt.Path, wt.Branch)
	}
	return b.String()
}

func TestServiceCreateHappyPath(t *testing.T) {
	mainPath := t.TempDir()
	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "proj", Name: "proj", Root: mainPath}},
	}
	git := newFakeGitDriver(t)
	t.Setenv("FAKE_GIT_WORKTREES", worktreePorcelain(mainPath))

	runner := &fakeTmuxRunner{sessionID: "$1", sessionName: "proj-feature", sessionPath: mainPath}
	svc := newTestService(t, doc, git, runner)

	result, err := svc.Create(context.Background(), "feature", CreateOptions{Cwd: mainPath})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.Branch != "feature" {
		t.Fatalf("got branch %q, want %q", result.Branch, "feature")
	}
	if result.SessionID != "$1" {
		t.Fatalf("got session id %q, want %q", result.SessionID, "$1")
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	wantPath := expectedWorktreePath(mainPath, "feature")
	if result.Path != wantPath {
		t.Fatalf("got path %q, want %q", result.Path, wantPath)
	}
	if !runner.sawSubcommand("new-session") {
		t.Fatal("expected Create to bring up a tmux session")
	}
}

func TestServiceCreateOnCreateHookNonZeroExitIsReportedAsWarning(t *testing.T) {
	mainPath := t.TempDir()
	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "proj", Name: "proj", Root: mainPath}},
		Worktree:   &config.WorktreeConfig{OnCreate: []string{"exit 7"}},
	}
	git := newFakeGitDriver(t)
	t.Setenv("FAKE_GIT_WORKTREES", worktreePorcelain(mainPath))

	runner := &fakeTmuxRunner{sessionID: "$2", sessionName: "proj-feature", sessionPath: mainPath}
	svc := newTestService(t, doc, git, runner)

	result, err := svc.Create(context.Background(), "feature", CreateOptions{Cwd: mainPath})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "onCreate") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning about the failing onCreate hook, got %v", result.Warnings)
	}
}

func TestServiceCreateRefusesExistingPath(t *testing.T) {
	mainPath := t.TempDir()
	worktreePath := expectedWorktreePath(mainPath, "feature")
	if err := os.MkdirAll(worktreePath, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(worktreePath) })

	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "proj", Name: "proj", Root: mainPath}},
	}
	git := newFakeGitDriver(t)
	runner := &fakeTmuxRunner{}
	svc := newTestService(t, doc, git, runner)

	if _, err := svc.Create(context.Background(), "feature", CreateOptions{Cwd: mainPath}); err == nil {
		t.Fatal("expected an error when the destination worktree path already exists")
	}
}

func TestServiceCompleteDirtyWorktreeRefusedWithoutForce(t *testing.T) {
	mainPath := t.TempDir()
	targetPath := expectedWorktreePath(mainPath, "feature")
	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "proj", Name: "proj", Root: mainPath}},
	}
	git := newFakeGitDriver(t)
	if err := os.MkdirAll(targetPath, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FAKE_GIT_WORKTREES", worktreePorcelain(mainPath, gitdriver.Worktree{Path: targetPath, Branch: "feature"}))
	t.Setenv("FAKE_GIT_STATUS", " M dirty.txt\n")

	runner := &fakeTmuxRunner{}
	svc := newTestService(t, doc, git, runner)

	err := svc.Complete(context.Background(), "feature", CompleteOptions{Cwd: mainPath})
	if err == nil {
		t.Fatal("expected Complete to refuse a dirty worktree without --force")
	}
	if runner.sawSubcommand("kill-session") {
		t.Fatal("did not expect a tmux session kill when the remove was refused")
	}
}

func TestServiceCompleteForceOverridesDirtyRefusal(t *testing.T) {
	mainPath := t.TempDir()
	targetPath := expectedWorktreePath(mainPath, "feature")
	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "proj", Name: "proj", Root: mainPath}},
	}
	git := newFakeGitDriver(t)
	t.Setenv("FAKE_GIT_WORKTREES", worktreePorcelain(mainPath, gitdriver.Worktree{Path: targetPath, Branch: "feature"}))
	t.Setenv("FAKE_GIT_STATUS", " M dirty.txt\n")

	runner := &fakeTmuxRunner{sessionID: "$3", sessionName: "proj-feature", sessionPath: targetPath}
	svc := newTestService(t, doc, git, runner)

	if err := svc.Complete(context.Background(), "feature", CompleteOptions{Cwd: mainPath, Force: true}); err != nil {
		t.Fatalf("Complete with --force: %v", err)
	}
	if !runner.sawSubcommand("kill-session") {
		t.Fatal("expected --force completion to kill the matching tmux session")
	}
}

func TestServiceCompleteCleanWorktreeRemovedWithoutForce(t *testing.T) {
	mainPath := t.TempDir()
	targetPath := expectedWorktreePath(mainPath, "feature")
	doc := config.Document{
		Workspaces: []config.Workspace{{ID: "proj", Name: "proj", Root: mainPath}},
	}
	git := newFakeGitDriver(t)
	if err := os.MkdirAll(targetPath, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FAKE_GIT_WORKTREES", worktreePorcelain(mainPath, gitdriver.Worktree{Path: targetPath, Branch: "feature"}))
	t.Setenv("FAKE_GIT_AHEAD_COUNT", "0")

	runner := &fakeTmuxRunner{sessionID: "$4", sessionName: "proj-feature", sessionPath: targetPath}
	svc := newTestService(t, doc, git, runner)

	if err := svc.Complete(context.Background(), "feature", CompleteOptions{Cwd: mainPath}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
}
