package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/quizdeck/internal/core/quiz"
)

// DatasetCheck reports where questions came from and runs the dataset
// self-check over them. loadErr is the error, if any, from loading ds.
type DatasetCheck struct {
	dataset quiz.Dataset
	loadErr error
}

// NewDatasetCheck creates a new dataset check.
func NewDatasetCheck(ds quiz.Dataset, loadErr error) *DatasetCheck {
	return &DatasetCheck{dataset: ds, loadErr: loadErr}
}

func (c *DatasetCheck) Name() string {
	return "Dataset"
}

func (c *DatasetCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	source := c.dataset.Source
	if source == "" {
		source = quiz.SampleName
	}

	if c.loadErr != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  source,
			Status: StatusFail,
			Detail: c.loadErr.Error(),
		})
		return result
	}

	detail := fmt.Sprintf("%d question(s)", c.dataset.Len())
	if n := len(c.dataset.Files); n > 1 {
		detail = fmt.Sprintf("%s from %d files", detail, n)
	}
	result.Items = append(result.Items, CheckItem{
		Label:  source,
		Status: StatusPass,
		Detail: detail,
	})

	for _, f := range quiz.SelfCheck(c.dataset.Questions) {
		result.Items = append(result.Items, CheckItem{
			Label:  f.Check,
			Status: severityStatus(f.Severity),
			Detail: f.Detail,
		})
	}

	return result
}

// Notes are informational and count as passing.
func severityStatus(s quiz.Severity) Status {
	switch s {
	case quiz.SeverityFail:
		return StatusFail
	case quiz.SeverityWarn:
		return StatusWarn
	default:
		return StatusPass
	}
}
