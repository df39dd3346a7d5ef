package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandIdempotentOnExistingPath(t *testing.T) {
	dir := t.TempDir()
	first := Expand(dir)
	second := Expand(first)
	if first != second {
		t.Fatalf("expand not idempotent: %q then %q", first, second)
	}
}

func TestExpandPreservesNonexistentPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := Expand("~/definitely-does-not-exist-xyz")
	want := filepath.Join(home, "definitely-does-not-exist-xyz")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestMostSpecificWorkspace(t *testing.T) {
	candidates := []WorkspacePath{
		{ID: "root", Path: "/home/dev"},
		{ID: "proj", Path: "/home/dev/proj"},
		{ID: "sub", Path: "/home/dev/proj/sub"},
		{ID: "other", Path: "/var/other"},
	}

	id, ok := MostSpecificWorkspace("/home/dev/proj/sub/file.go", candidates)
	if !ok || id != "sub" {
		t.Fatalf("got id=%q ok=%v, want sub", id, ok)
	}

	id, ok = MostSpecificWorkspace("/home/dev/proj/other-dir", candidates)
	if !ok || id != "proj" {
		t.Fatalf("got id=%q ok=%v, want proj", id, ok)
	}

	_, ok = MostSpecificWorkspace("/unrelated/path", candidates)
	if ok {
		t.Fatalf("expected no match for unrelated path")
	}
}

func TestMostSpecificWorkspaceExactMatch(t *testing.T) {
	candidates := []WorkspacePath{
		{ID: "a", Path: "/x/y"},
	}
	id, ok := MostSpecificWorkspace("/x/y", candidates)
	if !ok || id != "a" {
		t.Fatalf("got id=%q ok=%v", id, ok)
	}
}
