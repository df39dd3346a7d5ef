// Package worktree orchestrates the git worktree lifecycle: merging global
// and per-workspace worktree config, creating and removing worktrees with
// safety preconditions, applying symlink and onCreate hooks, and bringing
// the matching tmux session up or down.
package worktree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"workbench/pkg/config"
	"workbench/pkg/errkind"
	"workbench/pkg/gitdriver"
	"workbench/pkg/pathutil"
	"workbench/pkg/sessiondesc"
	"workbench/pkg/tmux"
)

// Service is the worktree orchestration layer. Its in-flight tracking
// (guarded by mu) prevents one process from racing a create against a
// remove of the same branch; cross-process coordination is explicitly out
// of scope.
type Service struct {
	Git         *gitdriver.Driver
	Sessions    *tmux.SessionRepository
	ConfigStore *config.Store
	Safety      config.Safety
	Shell       string
	Logger      *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewService(git *gitdriver.Driver, sessions *tmux.SessionRepository, store *config.Store, safety config.Safety, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Git:         git,
		Sessions:    sessions,
		ConfigStore: store,
		Safety:      safety,
		Shell:       shellOrDefault(),
		Logger:      logger,
		inFlight:    make(map[string]bool),
	}
}

func shellOrDefault() string {
	if s := strings.TrimSpace(os.Getenv("SHELL")); s != "" {
		return s
	}
	return "/bin/sh"
}

func (s *Service) lockBranch(branch string) (unlock func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[branch] {
		return nil, errkind.Preconditionf("wait for the in-progress operation on this branch to finish", fmt.Errorf("branch %q already has an in-flight worktree operation", branch))
	}
	s.inFlight[branch] = true
	return func() {
		s.mu.Lock()
		delete(s.inFlight, branch)
		s.mu.Unlock()
	}, nil
}

// CreateOptions configures Service.Create.
type CreateOptions struct {
	Cwd   string
	Force bool
	Base  string // base branch/ref for "git worktree add -b <branch> <path> <base>"; defaults to "HEAD"
}

// CreateResult reports what Create did.
type CreateResult struct {
	Branch     string
	Path       string
	Warnings   []string
	SessionID  string
}

// Create runs the 8-step worktree create flow: resolve workspace, merge
// config, compute the sibling path, fail fast on conflicts, add the git
// worktree, apply symlinks and onCreate hooks, then bring up tmux.
func (s *Service) Create(ctx context.Context, branch string, opts CreateOptions) (CreateResult, error) {
	unlock, err := s.lockBranch(branch)
	if err != nil {
		return CreateResult{}, err
	}
	defer unlock()

	s.Logger.Info("worktree create starting", "branch", branch, "base", opts.Base, "force", opts.Force)

	cwd := opts.Cwd
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return CreateResult{}, errkind.New(errkind.IO, fmt.Errorf("getwd: %w", err))
		}
	}
	cwd = pathutil.Expand(cwd)

	doc, err := s.ConfigStore.Load()
	if err != nil {
		return CreateResult{}, err
	}

	// Step 1: resolve the workspace containing cwd.
	var candidates []pathutil.WorkspacePath
	for _, ws := range doc.Workspaces {
		candidates = append(candidates, pathutil.WorkspacePath{ID: ws.ID, Path: pathutil.Expand(ws.Root)})
	}
	workspaceID, found := pathutil.MostSpecificWorkspace(cwd, candidates)
	if !found && !opts.Force {
		return CreateResult{}, errkind.Preconditionf("pass --force to create a worktree outside any registered workspace",
			fmt.Errorf("cwd %q is not inside any registered workspace", cwd))
	}

	workspace, _ := doc.WorkspaceByID(workspaceID)
	mainPath := pathutil.Expand(workspace.Root)
	if mainPath == "" {
		mainPath = cwd
	}
	s.Logger.Debug("worktree create resolved workspace", "workspace", workspace.ID, "mainPath", mainPath)

	// Step 2: merge global + workspace worktree config.
	global := doc.GlobalWorktree()
	var workspaceCfg config.WorktreeConfig
	if workspace.Worktree != nil {
		workspaceCfg = *workspace.Worktree
	}
	merged := config.Merge(global, workspaceCfg)

	// Step 3: compute worktree directory name, sibling to the main worktree.
	dirSuffix := strings.ReplaceAll(branch, "/", "-")
	base := filepath.Base(strings.TrimRight(mainPath, string(filepath.Separator)))
	worktreePath := filepath.Join(filepath.Dir(mainPath), fmt.Sprintf("%s-%s", base, dirSuffix))

	// Step 4: fail fast if the path exists or cwd is not in a git repo.
	if _, statErr := os.Stat(worktreePath); statErr == nil {
		return CreateResult{}, errkind.Preconditionf("remove or choose a different branch name",
			fmt.Errorf("worktree path %q already exists", worktreePath))
	}
	if !s.Git.IsGitRepo(ctx, cwd) {
		return CreateResult{}, errkind.Preconditionf("run this from inside a git repository",
			fmt.Errorf("%q is not inside a git repository", cwd))
	}

	baseRef := opts.Base
	if baseRef == "" {
		baseRef = "HEAD"
	}

	// Step 5.
	if err := s.Git.AddWorktree(ctx, cwd, branch, worktreePath, baseRef); err != nil {
		s.Logger.Error("worktree create failed adding git worktree", "branch", branch, "err", err)
		return CreateResult{}, err
	}
	s.Logger.Debug("worktree create added git worktree", "path", worktreePath, "base", baseRef)

	result := CreateResult{Branch: branch, Path: worktreePath}

	// Step 6: symlinks.
	result.Warnings = append(result.Warnings, LinkGlobs(mainPath, worktreePath, merged.SymlinkFiles)...)

	// Step 7: onCreate hooks.
	if s.Safety.IsShellCommandAllowed() {
		for _, command := range merged.OnCreate {
			if err := s.runHook(ctx, worktreePath, command); err != nil {
				s.Logger.Warn("worktree onCreate hook failed", "branch", branch, "command", command, "err", err)
				result.Warnings = append(result.Warnings, fmt.Sprintf("onCreate %q: %v", command, err))
			}
		}
	} else if len(merged.OnCreate) > 0 {
		result.Warnings = append(result.Warnings, "onCreate hooks configured but shell execution is not enabled")
	}

	// Step 8: bring up the matching tmux session.
	desc := sessiondesc.Description{
		ID:          fmt.Sprintf("worktree:%s:%s", workspace.ID, branch),
		Name:        fmt.Sprintf("%s-%s", workspace.Name, branch),
		Kind:        sessiondesc.KindWorkspace,
		WorkspaceID: workspace.ID,
		WorkingDir:  worktreePath,
		Windows:     resolveWindows(doc, workspace.ID),
	}
	session, err := s.materialize(ctx, desc)
	if err != nil {
		s.Logger.Warn("worktree create could not start tmux session", "branch", branch, "err", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("tmux session not started: %v", err))
	} else {
		result.SessionID = session.ID
	}

	s.Logger.Info("worktree create finished", "branch", branch, "path", result.Path, "sessionID", result.SessionID, "warnings", len(result.Warnings))
	return result, nil
}

func resolveWindows(doc config.Document, workspaceID string) []config.Window {
	for _, tpl := range doc.Tmux.Sessions {
		if tpl.Kind == config.TemplateWorkspace && tpl.Workspace == workspaceID {
			return tpl.Windows
		}
	}
	return doc.Tmux.DefaultWindows
}

func (s *Service) materialize(ctx context.Context, desc sessiondesc.Description) (tmux.Session, error) {
	windows := make([]tmux.WindowSpec, 0, len(desc.Windows))
	for _, w := range desc.Windows {
		windows = append(windows, tmux.WindowSpec{Name: w.Name, Command: w.Command})
	}
	return s.Sessions.NewSession(ctx, tmux.NewSessionRequest{
		ID:      desc.ID,
		Name:    desc.Name,
		Path:    desc.WorkingDir,
		Windows: windows,
	})
}

func (s *Service) runHook(ctx context.Context, dir, command string) error {
	cmd := exec.CommandContext(ctx, s.Shell, "-c", command)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s (output: %s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CompleteOptions configures Service.Complete.
type CompleteOptions struct {
	Cwd   string
	Force bool
}

// Complete runs the 5-step worktree remove flow: locate the worktree for
// branch, refuse to touch the main worktree, refuse a dirty worktree unless
// forced, remove it, then kill the matching tmux session if one exists.
func (s *Service) Complete(ctx context.Context, branch string, opts CompleteOptions) error {
	unlock, err := s.lockBranch(branch)
	if err != nil {
		return err
	}
	defer unlock()

	s.Logger.Info("worktree complete starting", "branch", branch, "force", opts.Force)

	cwd := opts.Cwd
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return errkind.New(errkind.IO, fmt.Errorf("getwd: %w", err))
		}
	}

	doc, err := s.ConfigStore.Load()
	if err != nil {
		return err
	}

	worktrees, err := s.Git.ListWorktrees(ctx, cwd)
	if err != nil {
		return err
	}

	var target *gitdriver.Worktree
	var mainPath string
	for i, wt := range worktrees {
		if i == 0 {
			mainPath = wt.Path
		}
		if wt.Branch == branch {
			target = &worktrees[i]
		}
	}
	if target == nil {
		return errkind.New(errkind.Precondition, fmt.Errorf("no worktree found for branch %q", branch))
	}

	// Step 2: refuse if the path is the main repo.
	if target.Path == mainPath {
		return errkind.Preconditionf("the main worktree cannot be removed", fmt.Errorf("branch %q is checked out in the main worktree", branch))
	}

	// Step 3: refuse unless --force when dirty/unpushed.
	if !opts.Force {
		state, err := s.Git.Inspect(ctx, target.Path)
		if err != nil {
			return err
		}
		if state.Dirty() {
			s.Logger.Warn("worktree complete refused, worktree has unmerged work", "branch", branch, "path", target.Path)
			return errkind.Preconditionf("pass --force to remove a worktree with uncommitted, staged, untracked, or unpushed changes",
				fmt.Errorf("worktree for branch %q has unmerged work", branch))
		}
	}

	// Step 4.
	if err := s.Git.RemoveWorktree(ctx, cwd, target.Path, opts.Force); err != nil {
		s.Logger.Error("worktree complete failed removing git worktree", "branch", branch, "err", err)
		return err
	}
	s.Logger.Debug("worktree complete removed git worktree", "path", target.Path)

	// Step 5: kill the matching tmux session, if any.
	for _, ws := range doc.Workspaces {
		if wsPath := pathutil.Expand(ws.Root); strings.HasPrefix(target.Path, filepath.Dir(wsPath)) {
			sessionName := fmt.Sprintf("%s-%s", ws.Name, branch)
			sessions, err := s.Sessions.GetSessions(ctx, nil, tmux.SessionIncludes{})
			if err != nil {
				return err
			}
			for _, sess := range sessions {
				if sess.Name == sessionName {
					s.Logger.Info("worktree complete killing tmux session", "branch", branch, "sessionID", sess.ID)
					return s.Sessions.KillSession(ctx, sess.ID)
				}
			}
		}
	}
	s.Logger.Info("worktree complete finished", "branch", branch)
	return nil
}
