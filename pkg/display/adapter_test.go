package display

import (
	"bytes"
	"strings"
	"testing"

	"workbench/pkg/config"
)

func TestWorkspaceListFourEntriesPretty(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(Pretty, &buf)

	workspaces := []config.Workspace{
		{ID: "a", Name: "Alpha", Root: "~/alpha", Tags: []string{"go"}},
		{ID: "b", Name: "Beta", Root: "~/beta", Tags: []string{"rust"}},
		{ID: "c", Name: "Gamma", Root: "~/gamma"},
		{ID: "d", Name: "Delta", Root: "~/delta", Tags: []string{"docs", "wip"}},
	}

	var items []Displayable
	for _, w := range workspaces {
		items = append(items, WorkspaceView{Workspace: w})
	}
	if err := adapter.PrintAll(items); err != nil {
		t.Fatalf("PrintAll: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Alpha (a): ") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}

func TestPrintAllJSONIsOneArray(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewAdapter(JSONCompact, &buf)
	items := []Displayable{
		WorkspaceView{Workspace: config.Workspace{ID: "x", Name: "X", Root: "/x"}},
	}
	if err := adapter.PrintAll(items); err != nil {
		t.Fatalf("PrintAll: %v", err)
	}
	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "[") || !strings.HasSuffix(out, "]") {
		t.Fatalf("expected a single JSON array, got %q", out)
	}
}
