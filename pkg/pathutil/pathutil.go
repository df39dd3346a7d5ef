// Package pathutil provides the single expansion and comparison point for
// filesystem paths used throughout the orchestrator: "~" and environment
// variable expansion, symlink-resolving canonicalization, and the
// most-specific-workspace resolution rule used by "workspace current".
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand applies "~" and environment-variable expansion, then attempts
// symlink-resolving canonicalization. If canonicalization fails (most
// commonly because the path does not exist yet), the expanded-but-
// uncanonicalized string is returned unchanged so that paths-to-be-created
// are preserved verbatim.
//
// Existing paths must compare byte-equal across spellings (e.g. /tmp vs
// /private/tmp on macOS) so that "am I inside this workspace?" checks are
// reliable; Expand is idempotent for that reason — calling it twice on an
// already-expanded existing path returns the same string.
func Expand(path string) string {
	expanded := expandEnvAndHome(path)
	resolved, err := filepath.EvalSymlinks(expanded)
	if err != nil {
		return expanded
	}
	return resolved
}

func expandEnvAndHome(path string) string {
	path = os.Expand(path, os.Getenv)
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// WorkspacePath pairs a workspace id with its already-expanded root path.
type WorkspacePath struct {
	ID   string
	Path string
}

// MostSpecificWorkspace picks the workspace whose path is the longest
// prefix of cwd, breaking ties in favor of the longer path (which, for
// equal-length prefixes, means an exact string match). Returns ok=false if
// no candidate's path prefixes cwd.
func MostSpecificWorkspace(cwd string, candidates []WorkspacePath) (id string, ok bool) {
	cwd = filepath.Clean(cwd)

	bestLen := -1
	for _, c := range candidates {
		p := filepath.Clean(c.Path)
		if !isPrefix(p, cwd) {
			continue
		}
		if len(p) > bestLen {
			bestLen = len(p)
			id = c.ID
			ok = true
		}
	}
	return id, ok
}

// isPrefix reports whether prefix is cwd itself or a path-component
// prefix of cwd (so "/tmp/foo" is a prefix of "/tmp/foo/bar" but not of
// "/tmp/foobar").
func isPrefix(prefix, cwd string) bool {
	if prefix == cwd {
		return true
	}
	if prefix == string(filepath.Separator) {
		return strings.HasPrefix(cwd, prefix)
	}
	return strings.HasPrefix(cwd, prefix+string(filepath.Separator))
}
