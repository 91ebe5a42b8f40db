package quiz

// interactionKey is the identity of a displayed question. Any change to it
// discards the current Interaction.
type interactionKey struct {
	questionID  string
	position    int // tells apart questions that share an id
	hideAnswers bool
	theme       Theme
}

// Interaction is the transient state of the question currently on screen.
type Interaction struct {
	key             interactionKey
	selected        string
	hasSelection    bool
	checked         bool
	revealedLocally bool
	descriptionOpen bool
}

// Selected returns the selected choice, if any.
func (i Interaction) Selected() (string, bool) {
	return i.selected, i.hasSelection
}

// Checked reports whether the answer has been checked. Selection is frozen
// once it is.
func (i Interaction) Checked() bool {
	return i.checked
}

// RevealedLocally reports whether the user revealed the choices of this
// question while answers are hidden globally.
func (i Interaction) RevealedLocally() bool {
	return i.revealedLocally
}

// DescriptionOpen reports whether the description overlay is shown.
func (i Interaction) DescriptionOpen() bool {
	return i.descriptionOpen
}

// Outcome is the evaluation of a question's interaction.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCorrect
	OutcomeIncorrect
)

// String returns a lowercase name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// Evaluate returns the outcome of in for q. An unchecked interaction is
// pending; a checked one without a selection is incorrect.
func Evaluate(q Question, in Interaction) Outcome {
	if !in.checked {
		return OutcomePending
	}
	if in.hasSelection && q.IsCorrect(in.selected) {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

// Message returns the result line shown after checking.
func (o Outcome) Message(q Question) string {
	switch o {
	case OutcomeCorrect:
		return "Correct!"
	case OutcomeIncorrect:
		return "Incorrect! The correct answer is: " + q.CorrectAnswerText()
	default:
		return ""
	}
}
