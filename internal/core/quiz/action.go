package quiz

// ActionType names a state transition.
type ActionType string

const (
	ActionNext              ActionType = "next"
	ActionPrev              ActionType = "prev"
	ActionNextLecture       ActionType = "next_lecture"
	ActionPrevLecture       ActionType = "prev_lecture"
	ActionJumpLecture       ActionType = "jump_lecture"
	ActionToggleRandom      ActionType = "toggle_random"
	ActionToggleMarkedOnly  ActionType = "toggle_marked_only"
	ActionToggleMark        ActionType = "toggle_mark"
	ActionResetMarks        ActionType = "reset_marks"
	ActionToggleHideAnswers ActionType = "toggle_hide_answers"
	ActionRevealAnswers     ActionType = "reveal_answers"
	ActionSelectChoice      ActionType = "select_choice"
	ActionCheckAnswer       ActionType = "check_answer"
	ActionOpenDescription   ActionType = "open_description"
	ActionCloseDescription  ActionType = "close_description"
	ActionToggleTheme       ActionType = "toggle_theme"
	ActionResetQuiz         ActionType = "reset_quiz"
)

// Action is a user intent dispatched to Apply.
type Action struct {
	Type ActionType

	QuestionID string // toggle_mark; empty means the current question
	Choice     string // select_choice
	Lecture    int    // jump_lecture
}

// Effects lists the side effects a transition asks the caller to perform.
type Effects struct {
	// SaveMarks asks the caller to write the full mark set. Writes are
	// fire-and-forget; the in-memory set stays authoritative.
	SaveMarks bool
}

// Apply dispatches a to s and returns the next state. Unknown actions
// return s unchanged.
func Apply(s State, a Action) (State, Effects) {
	switch a.Type {
	case ActionNext:
		return s.Advance(), Effects{}
	case ActionPrev:
		return s.Retreat(), Effects{}
	case ActionNextLecture:
		return s.NextLecture(), Effects{}
	case ActionPrevLecture:
		return s.PrevLecture(), Effects{}
	case ActionJumpLecture:
		return s.JumpToLecture(a.Lecture), Effects{}
	case ActionToggleRandom:
		return s.ToggleRandom(), Effects{}
	case ActionToggleMarkedOnly:
		return s.ToggleMarkedOnly(), Effects{}
	case ActionToggleMark:
		id := a.QuestionID
		if id == "" {
			q, ok := s.Current()
			if !ok {
				return s, Effects{}
			}
			id = q.ID
		}
		return s.ToggleMark(id), Effects{SaveMarks: true}
	case ActionResetMarks:
		return s.ResetMarks(), Effects{SaveMarks: true}
	case ActionToggleHideAnswers:
		return s.ToggleHideAnswers(), Effects{}
	case ActionRevealAnswers:
		return s.RevealAnswers(), Effects{}
	case ActionSelectChoice:
		return s.Select(a.Choice), Effects{}
	case ActionCheckAnswer:
		return s.Check(), Effects{}
	case ActionOpenDescription:
		return s.SetDescriptionOpen(true), Effects{}
	case ActionCloseDescription:
		return s.SetDescriptionOpen(false), Effects{}
	case ActionToggleTheme:
		return s.ToggleTheme(), Effects{}
	case ActionResetQuiz:
		return s.Reset(), Effects{}
	default:
		return s, Effects{}
	}
}
