package storage

import (
	"maps"
	"path/filepath"
)

// AliasStore maps alias names to command expansions. The table is loaded on
// first use and written back on every change.
type AliasStore struct {
	path    string
	aliases map[string]string
}

// NewAliasStore returns a store backed by <base>/aliases.json.
func NewAliasStore(base string) *AliasStore {
	return &AliasStore{path: filepath.Join(base, AliasesFile)}
}

func (s *AliasStore) load() error {
	if s.aliases != nil {
		return nil
	}
	aliases := map[string]string{}
	if _, err := loadJSON(s.path, &aliases); err != nil {
		return err
	}
	if aliases == nil {
		aliases = map[string]string{}
	}
	s.aliases = aliases
	return nil
}

// Get returns the expansion of name.
func (s *AliasStore) Get(name string) (string, bool, error) {
	if err := s.load(); err != nil {
		return "", false, err
	}
	expansion, ok := s.aliases[name]
	return expansion, ok, nil
}

// SetOrDelete stores expansion under name, or removes name when expansion
// is empty, and persists the table.
func (s *AliasStore) SetOrDelete(name, expansion string) error {
	if err := s.load(); err != nil {
		return err
	}

	next := maps.Clone(s.aliases)
	if expansion == "" {
		delete(next, name)
	} else {
		next[name] = expansion
	}
	if err := saveJSON(s.path, next); err != nil {
		return err
	}
	s.aliases = next
	return nil
}

// List returns a snapshot of the alias table.
func (s *AliasStore) List() (map[string]string, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return maps.Clone(s.aliases), nil
}
