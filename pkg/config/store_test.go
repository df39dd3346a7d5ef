package config

import (
	"path/filepath"
	"testing"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "config.json"))

	doc := Document{
		Workspaces: []Workspace{
			{ID: "ws1", Name: "Project One", Root: "~/proj1"},
		},
		Tmux: TmuxConfig{DefaultWindows: []Window{{Name: "shell"}}},
	}

	saved, err := store.Save(doc)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(saved.Workspaces) != 1 || saved.Workspaces[0].ID != "ws1" {
		t.Fatalf("unexpected saved document: %+v", saved)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Workspaces[0].Root != "~/proj1" {
		t.Fatalf("root not preserved verbatim: %q", loaded.Workspaces[0].Root)
	}
}

func TestConfigIsolationBetweenTwoDocuments(t *testing.T) {
	dir := t.TempDir()
	storeA := NewStore(filepath.Join(dir, "a.json"))
	storeB := NewStore(filepath.Join(dir, "b.json"))

	if _, err := storeA.Save(Document{Workspaces: []Workspace{{ID: "a-ws", Name: "A", Root: "/a"}}}); err != nil {
		t.Fatalf("save A: %v", err)
	}
	if _, err := storeB.Save(Document{Workspaces: []Workspace{{ID: "b-ws", Name: "B", Root: "/b"}}}); err != nil {
		t.Fatalf("save B: %v", err)
	}

	docA, err := storeA.Load()
	if err != nil {
		t.Fatalf("load A: %v", err)
	}
	if len(docA.Workspaces) != 1 || docA.Workspaces[0].ID != "a-ws" {
		t.Fatalf("config A leaked or malformed: %+v", docA.Workspaces)
	}
}

func TestLoadMissingFileIsConfigurationFailure(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "missing.json"))
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
