package stores

import (
	"context"
	"fmt"

	"github.com/colonyops/quizdeck/internal/core/kv"
	"github.com/colonyops/quizdeck/internal/core/quiz"
)

// MarkNamespace scopes quizdeck's keys in the KV store.
const MarkNamespace = "quizdeck"

// MarkStore implements quiz.MarkStore as a single JSON list in the KV store
// under "quizdeck:marked-questions".
type MarkStore struct {
	list *kv.TypedKV[[]string]
}

var _ quiz.MarkStore = (*MarkStore)(nil)

// NewMarkStore creates a mark store on top of any KV implementation.
func NewMarkStore(store kv.KV) *MarkStore {
	return &MarkStore{list: kv.Scoped[[]string](store, MarkNamespace)}
}

// Load returns the stored ids, or an empty list when nothing is stored.
func (s *MarkStore) Load(ctx context.Context) ([]string, error) {
	ids, err := s.list.Get(ctx, quiz.MarkStorageKey)
	if IsNotFoundError(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load marks: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Save replaces the stored list.
func (s *MarkStore) Save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	if err := s.list.Set(ctx, quiz.MarkStorageKey, ids); err != nil {
		return fmt.Errorf("save marks: %w", err)
	}
	return nil
}

// Location describes where marks are kept, for diagnostics.
func (s *MarkStore) Location() string {
	return "sqlite key " + s.list.Key(quiz.MarkStorageKey)
}
