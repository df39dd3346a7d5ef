// Package gitdriver wraps git subprocess invocation: worktree
// enumerate/add/remove and the targeted status checks the worktree service
// uses to detect uncommitted or unpushed work.
package gitdriver

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"workbench/pkg/errkind"
)

// Driver owns git subprocess construction, mirroring tmux.Connection's
// shape applied to a second binary.
type Driver struct {
	Bin     string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewDriver() *Driver {
	return &Driver{Bin: "git", Timeout: 15 * time.Second}
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Driver) bin() string {
	if strings.TrimSpace(d.Bin) != "" {
		return d.Bin
	}
	return "git"
}

// Run executes "git <args...>" with cwd dir and returns combined stdout;
// stderr is captured into the returned error on non-zero exit.
func (d *Driver) Run(ctx context.Context, dir string, args ...string) (string, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, d.bin(), args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.logger().Debug("git exec", "bin", d.bin(), "dir", dir, "args", args)

	err := cmd.Run()
	if runCtx.Err() != nil {
		d.logger().Warn("git exec timed out", "args", args, "timeout", timeout)
		return "", errkind.Subprocessf(stderr.String(), fmt.Errorf("git %s: timed out", strings.Join(args, " ")))
	}
	if err != nil {
		d.logger().Debug("git exec failed", "args", args, "err", err)
		return "", errkind.Subprocessf(stderr.String(), fmt.Errorf("git %s: %w", strings.Join(args, " "), err))
	}
	return stdout.String(), nil
}

// IsGitRepo reports whether dir is inside a git working tree.
func (d *Driver) IsGitRepo(ctx context.Context, dir string) bool {
	_, err := d.Run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// Worktree mirrors one entry of "git worktree list --porcelain".
type Worktree struct {
	Path   string
	Branch string
	Head   string
}

// ListWorktrees enumerates the worktrees of the repository containing dir.
func (d *Driver) ListWorktrees(ctx context.Context, dir string) ([]Worktree, error) {
	out, err := d.Run(ctx, dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	return parseWorktreePorcelain(out), nil
}

func parseWorktreePorcelain(out string) []Worktree {
	var worktrees []Worktree
	var current *Worktree
	flush := func() {
		if current != nil {
			worktrees = append(worktrees, *current)
			current = nil
		}
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "HEAD "):
			if current != nil {
				current.Head = strings.TrimPrefix(line, "HEAD ")
			}
		case strings.HasPrefix(line, "branch "):
			if current != nil {
				ref := strings.TrimPrefix(line, "branch ")
				current.Branch = strings.TrimPrefix(ref, "refs/heads/")
			}
		case line == "":
			flush()
		}
	}
	flush()
	return worktrees
}

// AddWorktree invokes "git worktree add -b <branch> <path> <base>".
func (d *Driver) AddWorktree(ctx context.Context, repoDir, branch, path, base string) error {
	_, err := d.Run(ctx, repoDir, "worktree", "add", "-b", branch, path, base)
	if err != nil {
		return fmt.Errorf("add worktree for branch %q: %w", branch, err)
	}
	return nil
}

// RemoveWorktree invokes "git worktree remove [--force] <path>".
func (d *Driver) RemoveWorktree(ctx context.Context, repoDir, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := d.Run(ctx, repoDir, args...)
	if err != nil {
		return fmt.Errorf("remove worktree %q: %w", path, err)
	}
	return nil
}

// StatusPorcelain returns "git status --porcelain" output for dir;
// non-empty output means the working tree has uncommitted changes
// (staged or unstaged).
func (d *Driver) StatusPorcelain(ctx context.Context, dir string) (string, error) {
	return d.Run(ctx, dir, "status", "--porcelain")
}

// StagedFiles returns "git diff --cached --name-only"; non-empty output
// means there are staged changes.
func (d *Driver) StagedFiles(ctx context.Context, dir string) (string, error) {
	return d.Run(ctx, dir, "diff", "--cached", "--name-only")
}

// UntrackedFiles returns "git ls-files --others --exclude-standard";
// non-empty output means there are untracked files.
func (d *Driver) UntrackedFiles(ctx context.Context, dir string) (string, error) {
	return d.Run(ctx, dir, "ls-files", "--others", "--exclude-standard")
}

// CommitsAheadOfUpstream returns "git rev-list --count @{upstream}..HEAD".
// hasUpstream is false when no upstream is configured for the current
// branch (git exits non-zero with a "no upstream" message in that case).
func (d *Driver) CommitsAheadOfUpstream(ctx context.Context, dir string) (count int, hasUpstream bool, err error) {
	out, runErr := d.Run(ctx, dir, "rev-list", "--count", "@{upstream}..HEAD")
	if runErr != nil {
		return 0, false, nil
	}
	n, parseErr := strconv.Atoi(strings.TrimSpace(out))
	if parseErr != nil {
		return 0, true, errkind.New(errkind.Parse, fmt.Errorf("parse rev-list count %q: %w", out, parseErr))
	}
	return n, true, nil
}
