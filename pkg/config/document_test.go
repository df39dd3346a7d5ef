package config

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMergeConcatenatesPreservingOrder(t *testing.T) {
	global := WorktreeConfig{SymlinkFiles: []string{".env", ".envrc"}, OnCreate: []string{"npm install"}}
	workspace := WorktreeConfig{SymlinkFiles: []string{".envrc", "secrets.json"}, OnCreate: []string{"make setup"}}

	got := Merge(global, workspace)

	wantSymlinks := []string{".env", ".envrc", "secrets.json"}
	if !reflect.DeepEqual(got.SymlinkFiles, wantSymlinks) {
		t.Fatalf("got %v want %v", got.SymlinkFiles, wantSymlinks)
	}
	wantOnCreate := []string{"npm install", "make setup"}
	if !reflect.DeepEqual(got.OnCreate, wantOnCreate) {
		t.Fatalf("got %v want %v", got.OnCreate, wantOnCreate)
	}
}

func TestValidateUniqueRejectsDuplicateIDs(t *testing.T) {
	doc := Document{Workspaces: []Workspace{{ID: "a"}, {ID: "a"}}}
	if err := doc.ValidateUnique(); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestSessionTemplateRoundTripsWorkspaceAndPathVariants(t *testing.T) {
	cmd := "nvim ."
	templates := []SessionTemplate{
		{Kind: TemplateWorkspace, Workspace: "proj", Windows: []Window{{Name: "editor", Command: &cmd}}},
		{Kind: TemplatePath, Path: "/tmp/scratch", Name: "scratch", Windows: []Window{{Name: "shell"}}},
	}

	for _, tpl := range templates {
		data, err := json.Marshal(tpl)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got SessionTemplate
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Kind != tpl.Kind || got.Workspace != tpl.Workspace || got.Path != tpl.Path {
			t.Fatalf("round-trip mismatch: got %+v want %+v", got, tpl)
		}
	}
}
