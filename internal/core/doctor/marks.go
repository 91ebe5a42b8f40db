package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/quizdeck/internal/core/quiz"
)

// MarksCheck verifies the mark store is readable and reports marked ids that
// no longer match a question. With autofix, stale ids are pruned.
type MarksCheck struct {
	store     quiz.MarkStore
	location  string
	questions []quiz.Question
	autofix   bool
}

// NewMarksCheck creates a new marks check. location is only used for display.
func NewMarksCheck(store quiz.MarkStore, location string, questions []quiz.Question, autofix bool) *MarksCheck {
	return &MarksCheck{store: store, location: location, questions: questions, autofix: autofix}
}

func (c *MarksCheck) Name() string {
	return "Marks"
}

func (c *MarksCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	ids, err := c.store.Load(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "store",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "store",
		Status: StatusPass,
		Detail: c.location,
	})

	marks := quiz.NewMarks(ids...)
	stale := marks.Stale(c.questions)

	result.Items = append(result.Items, CheckItem{
		Label:  "marked",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d of %d question(s)", marks.Len()-len(stale), len(c.questions)),
	})

	if len(stale) == 0 {
		return result
	}

	item := CheckItem{
		Label:   "stale ids",
		Status:  StatusWarn,
		Detail:  strings.Join(stale, ", "),
		Fixable: true,
	}

	if c.autofix {
		pruned := marks.Prune(c.questions)
		if err := c.store.Save(ctx, pruned.IDs()); err != nil {
			item.Detail = fmt.Sprintf("%s (prune failed: %v)", item.Detail, err)
		} else {
			item.Status = StatusPass
			item.Detail = fmt.Sprintf("pruned %d: %s", len(stale), item.Detail)
		}
	}

	result.Items = append(result.Items, item)
	return result
}
