package deck

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/quizdeck/internal/core/logging"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/data/stores"
)

// MarkService loads and saves the mark set. Saves are single attempts; the
// caller's in-memory set stays authoritative when one fails.
type MarkService struct {
	store LocatedStore
	log   zerolog.Logger

	mu      sync.Mutex
	written uint64 // generation of the last SaveGeneration that reached the store
}

// NewMarkService creates a new MarkService.
func NewMarkService(store LocatedStore) *MarkService {
	return &MarkService{store: store, log: logging.Component("marks")}
}

// Store returns the underlying mark store.
func (s *MarkService) Store() quiz.MarkStore {
	return s.store
}

// Location describes where marks are written.
func (s *MarkService) Location() string {
	return s.store.Location()
}

// Load returns the persisted marks. An unreadable store yields an empty set
// and a logged warning.
func (s *MarkService) Load(ctx context.Context) quiz.Marks {
	marks, err := s.Read(ctx)
	if err != nil {
		s.log.Warn().Ctx(ctx).
			Err(err).
			Str("location", s.Location()).
			Msg("could not read marks, starting with none")
		return quiz.NewMarks()
	}
	return marks
}

// Read returns the persisted marks or the error that prevented reading them.
func (s *MarkService) Read(ctx context.Context) (quiz.Marks, error) {
	ids, err := s.store.Load(ctx)
	if err != nil {
		return quiz.Marks{}, fmt.Errorf("load marks: %w", err)
	}
	return quiz.NewMarks(ids...), nil
}

// Save writes the full mark set once.
func (s *MarkService) Save(ctx context.Context, marks quiz.Marks) error {
	if err := s.store.Save(ctx, marks.IDs()); err != nil {
		s.log.Warn().Ctx(ctx).
			Err(err).
			Bool("busy", stores.IsBusyError(err)).
			Int("count", marks.Len()).
			Msg("saving marks failed")
		return fmt.Errorf("save marks: %w", err)
	}

	s.log.Debug().Ctx(ctx).Int("count", marks.Len()).Msg("marks saved")
	return nil
}

// SaveGeneration writes marks unless a save with a higher generation has
// already been written, in which case it is dropped and reports false.
// Writes are serialized so the newest generation is the one left on disk.
func (s *MarkService) SaveGeneration(ctx context.Context, gen uint64, marks quiz.Marks) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.written {
		s.log.Debug().Ctx(ctx).Uint64("generation", gen).Msg("stale mark save dropped")
		return false, nil
	}
	// A failed attempt still supersedes older generations; saves are never retried.
	s.written = gen
	return true, s.Save(ctx, marks)
}

// Toggle flips each id in the persisted set and saves the result.
func (s *MarkService) Toggle(ctx context.Context, ids ...string) (quiz.Marks, error) {
	marks, err := s.Read(ctx)
	if err != nil {
		return quiz.Marks{}, err
	}
	for _, id := range ids {
		marks = marks.Toggle(id)
	}
	return marks, s.Save(ctx, marks)
}

// Reset clears the persisted set.
func (s *MarkService) Reset(ctx context.Context) error {
	return s.Save(ctx, quiz.NewMarks())
}

// Prune drops ids that match no question and returns the removed ids.
func (s *MarkService) Prune(ctx context.Context, questions []quiz.Question) ([]string, error) {
	marks, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}

	stale := marks.Stale(questions)
	if len(stale) == 0 {
		return nil, nil
	}
	return stale, s.Save(ctx, marks.Prune(questions))
}

// Import adds ids to the persisted set, or replaces it when replace is set.
func (s *MarkService) Import(ctx context.Context, ids []string, replace bool) (quiz.Marks, error) {
	var current []string
	if !replace {
		marks, err := s.Read(ctx)
		if err != nil {
			return quiz.Marks{}, err
		}
		current = marks.IDs()
	}

	marks := quiz.NewMarks(append(current, ids...)...)
	return marks, s.Save(ctx, marks)
}
