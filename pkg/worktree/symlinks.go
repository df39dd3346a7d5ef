package worktree

import (
	"fmt"
	"os"
	"path/filepath"
)

// LinkGlobs resolves each glob in patterns relative to mainPath and creates
// a symlink at the same relative path under newPath for every match.
//
// Relative globs are rooted at the main worktree, and each match is
// symlinked into the identical relative path inside the new worktree.
// Failure on any single symlink is reported as a warning string but does
// not undo prior symlinks or abort remaining globs.
func LinkGlobs(mainPath, newPath string, patterns []string) []string {
	var warnings []string
	for _, pattern := range patterns {
		rooted := pattern
		if !filepath.IsAbs(pattern) {
			rooted = filepath.Join(mainPath, pattern)
		}
		matches, err := filepath.Glob(rooted)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("symlink glob %q: %v", pattern, err))
			continue
		}
		for _, match := range matches {
			rel, err := filepath.Rel(mainPath, match)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("symlink %q: %v", match, err))
				continue
			}
			dest := filepath.Join(newPath, rel)
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				warnings = append(warnings, fmt.Sprintf("symlink %q: create parent dir: %v", rel, err))
				continue
			}
			if err := os.Symlink(match, dest); err != nil {
				warnings = append(warnings, fmt.Sprintf("symlink %q: %v", rel, err))
			}
		}
	}
	return warnings
}
