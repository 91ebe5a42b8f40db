// Package quiz holds the quiz domain: question records, the mark set, and the
// session state machine that derives the navigable question list.
package quiz

import "slices"

// Question is a single multiple-choice item loaded from a dataset.
// Questions are never mutated after load.
type Question struct {
	ID            string   `json:"id" yaml:"id"`
	Lecture       int      `json:"lecture" yaml:"lecture"`
	Prompt        string   `json:"question" yaml:"question"`
	Choices       []string `json:"choices" yaml:"choices"`
	CorrectAnswer *string  `json:"correctAnswer" yaml:"correctAnswer"`
	Explanation   string   `json:"explanation" yaml:"explanation"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasCorrectAnswer reports whether the question declares a canonical answer.
func (q Question) HasCorrectAnswer() bool {
	return q.CorrectAnswer != nil
}

// CorrectAnswerText returns the canonical answer, or "(none)" when the
// dataset does not declare one.
func (q Question) CorrectAnswerText() string {
	if q.CorrectAnswer == nil {
		return "(none)"
	}
	return *q.CorrectAnswer
}

// IsCorrect reports whether choice matches the canonical answer exactly.
// A question without a canonical answer is never answered correctly.
func (q Question) IsCorrect(choice string) bool {
	return q.CorrectAnswer != nil && *q.CorrectAnswer == choice
}

// HasChoice reports whether choice is one of the question's choices.
func (q Question) HasChoice(choice string) bool {
	return slices.Contains(q.Choices, choice)
}

// Theme is the color scheme of the session.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Ptr returns a pointer to s. Handy when building questions in code.
func Ptr(s string) *string {
	return &s
}
