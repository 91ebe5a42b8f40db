package quiz

import (
	"context"
	"maps"
	"slices"
)

// MarkStorageKey is the fixed key the mark list is persisted under.
const MarkStorageKey = "marked-questions"

// MarkStore persists the mark list. Implementations return an empty list
// and no error when nothing has been stored yet.
type MarkStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}

// Marks is an immutable set of marked question ids. The zero value is an
// empty set. Ids that are not in the dataset are kept and ignored.
type Marks struct {
	ids map[string]struct{}
}

// NewMarks builds a set from ids; duplicates collapse.
func NewMarks(ids ...string) Marks {
	m := Marks{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
	return m
}

// Has reports membership of id.
func (m Marks) Has(id string) bool {
	_, ok := m.ids[id]
	return ok
}

// Len returns the number of marked ids, stale ones included.
func (m Marks) Len() int {
	return len(m.ids)
}

// Toggle returns a copy of the set with id's membership flipped.
func (m Marks) Toggle(id string) Marks {
	next := Marks{ids: maps.Clone(m.ids)}
	if next.ids == nil {
		next.ids = make(map[string]struct{}, 1)
	}

	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// IDs returns the marked ids in sorted order.
func (m Marks) IDs() []string {
	ids := slices.Collect(maps.Keys(m.ids))
	slices.Sort(ids)
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// Stale returns sorted ids that do not belong to any of the given questions.
func (m Marks) Stale(questions []Question) []string {
	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	var stale []string
	for _, id := range m.IDs() {
		if !known[id] {
			stale = append(stale, id)
		}
	}
	return stale
}

// Prune returns a copy without ids that are absent from questions.
func (m Marks) Prune(questions []Question) Marks {
	next := Marks{ids: maps.Clone(m.ids)}
	for _, id := range m.Stale(questions) {
		delete(next.ids, id)
	}
	return next
}

// Equal reports whether both sets hold the same ids.
func (m Marks) Equal(other Marks) bool {
	return slices.Equal(m.IDs(), other.IDs())
}
