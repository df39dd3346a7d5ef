package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"workbench/pkg/errkind"
	"workbench/pkg/pathutil"
)

// DefaultConfigFileName is consulted when no explicit --config path is
// given: "~/.rafaeltab.json".
const DefaultConfigFileName = ".rafaeltab.json"

// ResolvePath implements the documented discovery order: an explicit path
// wins; otherwise "~/.rafaeltab.json".
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return pathutil.Expand(explicit), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errkind.New(errkind.Configuration, fmt.Errorf("resolve home directory: %w", err))
	}
	return filepath.Join(home, DefaultConfigFileName), nil
}

// Store loads and persists the Document at Path.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads and parses the document. A missing file is a configuration
// failure, not an empty document: the external interface requires an
// explicit document to exist (callers that want to bootstrap one use
// Save on a zero-value Document first).
func (s *Store) Load() (Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errkind.Newf(errkind.Configuration,
				"create one with a default document, or pass --config pointing at an existing file",
				fmt.Errorf("config file %q does not exist", s.Path))
		}
		return Document{}, errkind.New(errkind.Configuration, fmt.Errorf("read config %q: %w", s.Path, err))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errkind.New(errkind.Configuration, fmt.Errorf("parse config %q: %w", s.Path, err))
	}
	if err := doc.ValidateUnique(); err != nil {
		return Document{}, errkind.New(errkind.Configuration, fmt.Errorf("config %q: %w", s.Path, err))
	}
	return doc, nil
}

// Save pretty-prints doc to Path, then reloads it from disk so in-memory
// state is normalized against the on-disk JSON representation. There is no
// multi-writer coordination; a concurrent CLI invocation can lose a write.
func (s *Store) Save(doc Document) (Document, error) {
	if err := doc.ValidateUnique(); err != nil {
		return Document{}, errkind.New(errkind.Configuration, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Document{}, errkind.New(errkind.IO, fmt.Errorf("marshal config: %w", err))
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return Document{}, errkind.New(errkind.IO, fmt.Errorf("create config directory: %w", err))
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return Document{}, errkind.New(errkind.IO, fmt.Errorf("write config %q: %w", s.Path, err))
	}

	return s.Load()
}
