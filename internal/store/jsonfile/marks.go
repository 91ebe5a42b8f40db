// Package jsonfile implements stores that persist to plain JSON files.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/quizdeck/internal/core/quiz"
)

// MarkStore implements quiz.MarkStore as a JSON array of ids in one file.
type MarkStore struct {
	path string
	mu   sync.RWMutex
}

var _ quiz.MarkStore = (*MarkStore)(nil)

// NewMarkStore creates a new JSON file mark store at the given path.
func NewMarkStore(path string) *MarkStore {
	return &MarkStore{path: path}
}

// Load returns the stored ids. A missing or empty file is an empty list.
func (s *MarkStore) Load(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read marks file: %w", err)
	}

	if len(data) == 0 {
		return []string{}, nil
	}

	ids := []string{}
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse marks file %s: %w", s.path, err)
	}
	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

// Save replaces the file contents atomically.
func (s *MarkStore) Save(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ids == nil {
		ids = []string{}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create marks dir: %w", err)
	}

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write marks file: %w", err)
	}

	return os.Rename(tmp, s.path)
}

// Location describes where marks are kept, for diagnostics.
func (s *MarkStore) Location() string {
	return s.path
}
