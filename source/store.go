// Package source loads publishable content from a local directory. Each
// document is one JSON file named <id>.json; the ID doubles as the tag
// name when the document is published.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidID is returned for IDs that could escape the store directory.
var ErrInvalidID = errors.New("source: invalid content id")

// Store reads content documents from a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory does not need to
// exist until Load or List is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load returns the exact bytes of the document with the given ID. No
// normalization is applied: the bytes read here are the bytes that get
// digested and published.
func (s *Store) Load(id string) ([]byte, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", id, err)
	}
	return data, nil
}

// List returns the IDs of all documents in the store, in lexical order.
// A missing store directory lists as empty.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list store: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *Store) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}
