package gitdriver

import "context"

// WorkState summarizes why a worktree might be unsafe to remove without
// --force, from four targeted git invocations.
type WorkState struct {
	Uncommitted   bool
	Staged        bool
	Untracked     bool
	AheadCount    int
	HasUpstream   bool
	AheadOfStream bool
}

// Dirty reports whether any condition that would block a non-forced
// worktree removal is present.
func (s WorkState) Dirty() bool {
	return s.Uncommitted || s.Staged || s.Untracked || s.AheadOfStream || !s.HasUpstream
}

// Inspect runs the four targeted git invocations and interprets each by
// presence/absence of output.
func (d *Driver) Inspect(ctx context.Context, dir string) (WorkState, error) {
	status, err := d.StatusPorcelain(ctx, dir)
	if err != nil {
		return WorkState{}, err
	}
	staged, err := d.StagedFiles(ctx, dir)
	if err != nil {
		return WorkState{}, err
	}
	untracked, err := d.UntrackedFiles(ctx, dir)
	if err != nil {
		return WorkState{}, err
	}
	ahead, hasUpstream, err := d.CommitsAheadOfUpstream(ctx, dir)
	if err != nil {
		return WorkState{}, err
	}

	return WorkState{
		Uncommitted:   trimmedNonEmpty(status),
		Staged:        trimmedNonEmpty(staged),
		Untracked:     trimmedNonEmpty(untracked),
		AheadCount:    ahead,
		HasUpstream:   hasUpstream,
		AheadOfStream: hasUpstream && ahead > 0,
	}, nil
}

func trimmedNonEmpty(s string) bool {
	for _, r := range s {
		if r != '\n' && r != '\r' && r != ' ' && r != '\t' {
			return true
		}
	}
	return false
}
