package quiz

import (
	"math/rand/v2"
	"slices"
)

// Rand is the random source used for shuffling.
type Rand interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Option configures a new State.
type Option func(*State)

// WithRand sets the shuffle source.
func WithRand(r Rand) Option {
	return func(s *State) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithTheme sets the startup theme.
func WithTheme(t Theme) Option {
	return func(s *State) {
		if t.IsValid() {
			s.theme = t
		}
	}
}

// State is a snapshot of a quiz session. Every transition returns a new
// State and leaves the receiver untouched, so a State can be shared freely.
//
// The derived list is always recomputed from the base order, the mark set,
// and the marked-only filter; it is never patched in place.
type State struct {
	questions []Question // dataset order, never modified
	order     []Question // base order: dataset or shuffled
	derived   []Question
	marks     Marks

	random      bool
	markedOnly  bool
	hideAnswers bool
	theme       Theme
	position    int

	interaction Interaction
	rng         Rand
}

// New creates a session over questions with startup defaults: original
// order, no filter, answers shown, light theme.
func New(questions []Question, marks Marks, opts ...Option) State {
	s := State{
		questions: questions,
		order:     questions,
		marks:     marks,
		theme:     ThemeLight,
		rng:       globalRand{},
	}
	for _, opt := range opts {
		opt(&s)
	}

	s.rederive()
	return s
}

// Questions returns the full dataset in original order.
func (s State) Questions() []Question { return s.questions }

// Order returns the base order (original or shuffled).
func (s State) Order() []Question { return slices.Clone(s.order) }

// Derived returns the navigable question list.
func (s State) Derived() []Question { return slices.Clone(s.derived) }

// Len returns the length of the derived list.
func (s State) Len() int { return len(s.derived) }

// Empty reports whether there is nothing to display.
func (s State) Empty() bool { return len(s.derived) == 0 }

// Position returns the index into the derived list. It is 0 and must not be
// dereferenced when the derived list is empty.
func (s State) Position() int { return s.position }

// Current returns the displayed question, or false when the list is empty.
func (s State) Current() (Question, bool) {
	if len(s.derived) == 0 {
		return Question{}, false
	}
	return s.derived[s.position], true
}

func (s State) Marks() Marks { return s.marks }
func (s State) IsMarked(id string) bool { return s.marks.Has(id) }
func (s State) Random() bool { return s.random }
func (s State) MarkedOnly() bool { return s.markedOnly }
func (s State) HideAnswers() bool { return s.hideAnswers }
func (s State) Theme() Theme { return s.theme }
func (s State) Interaction() Interaction { return s.interaction }
func (s State) AtFirst() bool { return s.position == 0 }
func (s State) AtLast() bool { return s.position >= len(s.derived)-1 }

// Lectures returns the sorted distinct lecture numbers of the derived list.
func (s State) Lectures() []int {
	var lectures []int
	for _, q := range s.derived {
		if !slices.Contains(lectures, q.Lecture) {
			lectures = append(lectures, q.Lecture)
		}
	}
	slices.Sort(lectures)
	return lectures
}

// ChoicesVisible reports whether the current question's choices are shown.
func (s State) ChoicesVisible() bool {
	return !s.hideAnswers || s.interaction.revealedLocally
}

// CanCheck reports whether "check answer" is actionable.
func (s State) CanCheck() bool {
	return !s.Empty() && s.ChoicesVisible() && !s.interaction.checked
}

// Outcome evaluates the current question.
func (s State) Outcome() Outcome {
	q, ok := s.Current()
	if !ok {
		return OutcomePending
	}
	return Evaluate(q, s.interaction)
}

// SetRandom switches between shuffled and original order. Turning random on
// always produces a fresh shuffle of the full dataset.
func (s State) SetRandom(on bool) State {
	if on == s.random {
		return s
	}

	s.random = on
	if on {
		s.order = Shuffle(s.questions, s.rng)
	} else {
		s.order = s.questions
	}
	s.rederive()
	return s
}

// ToggleRandom flips random order.
func (s State) ToggleRandom() State {
	return s.SetRandom(!s.random)
}

// SetMarkedOnly sets the marked-only filter.
func (s State) SetMarkedOnly(on bool) State {
	s.markedOnly = on
	s.rederive()
	return s
}

// ToggleMarkedOnly flips the marked-only filter.
func (s State) ToggleMarkedOnly() State {
	return s.SetMarkedOnly(!s.markedOnly)
}

// ToggleMark flips id in the mark set. The caller persists the new set.
func (s State) ToggleMark(id string) State {
	s.marks = s.marks.Toggle(id)
	s.rederive()
	return s
}

// ResetMarks clears the mark set. The caller persists the new set.
func (s State) ResetMarks() State {
	s.marks = NewMarks()
	s.rederive()
	return s
}

// Advance moves to the next question; no-op on the last one.
func (s State) Advance() State {
	if s.position+1 < len(s.derived) {
		s.position++
		s.settle()
	}
	return s
}

// Retreat moves to the previous question; no-op on the first one.
func (s State) Retreat() State {
	if s.position > 0 {
		s.position--
		s.settle()
	}
	return s
}

// JumpToLecture moves to the first derived question of lecture; no-op when
// the lecture is not in the derived list.
func (s State) JumpToLecture(lecture int) State {
	idx := slices.IndexFunc(s.derived, func(q Question) bool {
		return q.Lecture == lecture
	})
	if idx < 0 {
		return s
	}
	s.position = idx
	s.settle()
	return s
}

// NextLecture jumps to the first question of the lecture after the current
// one in sorted lecture order.
func (s State) NextLecture() State {
	return s.stepLecture(1)
}

// PrevLecture jumps to the first question of the lecture before the current
// one, or to the start of the current lecture when not already there.
func (s State) PrevLecture() State {
	return s.stepLecture(-1)
}

func (s State) stepLecture(dir int) State {
	q, ok := s.Current()
	if !ok {
		return s
	}

	lectures := s.Lectures()
	i := slices.Index(lectures, q.Lecture)
	if dir < 0 {
		start := s.JumpToLecture(q.Lecture)
		if start.position != s.position {
			return start
		}
	}

	j := i + dir
	if j < 0 || j >= len(lectures) {
		return s
	}
	return s.JumpToLecture(lectures[j])
}

// SetHideAnswers sets the global hide flag. The displayed question gets a
// fresh interaction.
func (s State) SetHideAnswers(on bool) State {
	s.hideAnswers = on
	s.settle()
	return s
}

// ToggleHideAnswers flips the global hide flag.
func (s State) ToggleHideAnswers() State {
	return s.SetHideAnswers(!s.hideAnswers)
}

// SetTheme sets the theme. The displayed question gets a fresh interaction.
func (s State) SetTheme(t Theme) State {
	if !t.IsValid() {
		return s
	}
	s.theme = t
	s.settle()
	return s
}

// ToggleTheme switches between light and dark.
func (s State) ToggleTheme() State {
	return s.SetTheme(s.theme.Toggle())
}

// RevealAnswers shows the choices of the current question while answers
// are hidden globally.
func (s State) RevealAnswers() State {
	if s.Empty() || !s.hideAnswers {
		return s
	}
	s.interaction.revealedLocally = true
	return s
}

// Select records choice as the selection. It is ignored once the answer is
// checked, while choices are hidden, or when choice is not on offer.
func (s State) Select(choice string) State {
	q, ok := s.Current()
	if !ok || s.interaction.checked || !s.ChoicesVisible() || !q.HasChoice(choice) {
		return s
	}
	s.interaction.selected = choice
	s.interaction.hasSelection = true
	return s
}

// SelectIndex selects the choice at index i of the current question.
func (s State) SelectIndex(i int) State {
	q, ok := s.Current()
	if !ok || i < 0 || i >= len(q.Choices) {
		return s
	}
	return s.Select(q.Choices[i])
}

// Check freezes the selection and reveals the outcome. A missing selection
// counts as incorrect. Not reachable while choices are hidden.
func (s State) Check() State {
	if !s.CanCheck() {
		return s
	}
	s.interaction.checked = true
	return s
}

// SetDescriptionOpen opens or closes the description overlay. Questions
// without a description never open it.
func (s State) SetDescriptionOpen(open bool) State {
	q, ok := s.Current()
	if !ok || (open && q.Description == "") {
		return s
	}
	s.interaction.descriptionOpen = open
	return s
}

// Reset restores startup defaults: original order, no filter, answers
// shown, first question. Marks and theme are kept.
func (s State) Reset() State {
	s.random = false
	s.order = s.questions
	s.markedOnly = false
	s.hideAnswers = false
	s.position = 0
	s.interaction = Interaction{}
	s.rederive()
	return s
}

// rederive recomputes the derived list in full and clamps the position.
func (s *State) rederive() {
	s.derived = Derive(s.order, s.marks, s.markedOnly)
	if s.position >= len(s.derived) || s.position < 0 {
		s.position = 0
	}
	s.settle()
}

// settle replaces the interaction when the displayed identity changed.
func (s *State) settle() {
	key := interactionKey{hideAnswers: s.hideAnswers, theme: s.theme}
	if q, ok := s.Current(); ok {
		key.questionID = q.ID
		key.position = s.position
	}

	if key != s.interaction.key {
		s.interaction = Interaction{key: key}
	}
}

// Derive returns order filtered to marked ids when markedOnly is set, or
// order unchanged. The result never aliases order.
func Derive(order []Question, marks Marks, markedOnly bool) []Question {
	if !markedOnly {
		return slices.Clone(order)
	}

	derived := make([]Question, 0, marks.Len())
	for _, q := range order {
		if marks.Has(q.ID) {
			derived = append(derived, q)
		}
	}
	return derived
}

// Shuffle returns a uniformly random permutation of questions using a
// Fisher–Yates pass from the last index down to 1.
func Shuffle(questions []Question, rng Rand) []Question {
	shuffled := slices.Clone(questions)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
