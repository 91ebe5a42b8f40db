package quiz

import "fmt"

// Severity classifies a self-check finding.
type Severity string

const (
	SeverityPass Severity = "pass"
	SeverityNote Severity = "note"
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
)

// Finding is a single self-check result.
type Finding struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail"`
}

// SelfCheck runs the dataset sanity checks. It never fails loading; callers
// decide how to surface findings.
func SelfCheck(questions []Question) []Finding {
	var findings []Finding

	if len(questions) == 0 {
		return append(findings, Finding{
			Check:    "questions present",
			Severity: SeverityFail,
			Detail:   "no questions found in dataset",
		})
	}

	findings = append(findings, Finding{
		Check:    "questions present",
		Severity: SeverityPass,
		Detail:   fmt.Sprintf("found %d questions", len(questions)),
	})

	first := questions[0]
	if first.CorrectAnswer == nil || !first.HasChoice(*first.CorrectAnswer) {
		findings = append(findings, Finding{
			Check:    "first correct answer",
			Severity: SeverityFail,
			Detail:   fmt.Sprintf("question %q: correct answer %q is not one of its choices", first.ID, first.CorrectAnswerText()),
		})
	} else {
		findings = append(findings, Finding{
			Check:    "first correct answer",
			Severity: SeverityPass,
			Detail:   fmt.Sprintf("question %q has a valid correct answer", first.ID),
		})
	}

	findings = append(findings, checkUniqueIDs(questions)...)
	findings = append(findings, checkAnswers(questions)...)
	findings = append(findings, checkDistinctChoices(questions)...)

	hasDescription := false
	for _, q := range questions {
		if q.Description != "" {
			hasDescription = true
			break
		}
	}
	if hasDescription {
		findings = append(findings, Finding{
			Check:    "descriptions",
			Severity: SeverityPass,
			Detail:   "found question(s) with an optional description",
		})
	} else {
		findings = append(findings, Finding{
			Check:    "descriptions",
			Severity: SeverityNote,
			Detail:   "no question has a description",
		})
	}

	return findings
}

func checkUniqueIDs(questions []Question) []Finding {
	seen := make(map[string]bool, len(questions))
	var findings []Finding
	for _, q := range questions {
		if q.ID == "" {
			findings = append(findings, Finding{
				Check:    "unique ids",
				Severity: SeverityFail,
				Detail:   "question with empty id",
			})
			continue
		}
		if seen[q.ID] {
			findings = append(findings, Finding{
				Check:    "unique ids",
				Severity: SeverityFail,
				Detail:   fmt.Sprintf("duplicate id %q", q.ID),
			})
		}
		seen[q.ID] = true
	}

	if len(findings) == 0 {
		findings = append(findings, Finding{
			Check:    "unique ids",
			Severity: SeverityPass,
			Detail:   "all ids are unique",
		})
	}
	return findings
}

// checkAnswers skips the first question, which has its own stricter check.
func checkAnswers(questions []Question) []Finding {
	var findings []Finding
	for _, q := range questions[1:] {
		if q.CorrectAnswer != nil && !q.HasChoice(*q.CorrectAnswer) {
			findings = append(findings, Finding{
				Check:    "correct answers",
				Severity: SeverityWarn,
				Detail:   fmt.Sprintf("question %q: correct answer %q is not one of its choices", q.ID, *q.CorrectAnswer),
			})
		}
		if q.CorrectAnswer == nil {
			findings = append(findings, Finding{
				Check:    "correct answers",
				Severity: SeverityNote,
				Detail:   fmt.Sprintf("question %q has no correct answer", q.ID),
			})
		}
	}
	return findings
}

func checkDistinctChoices(questions []Question) []Finding {
	var findings []Finding
	for _, q := range questions {
		seen := make(map[string]bool, len(q.Choices))
		for _, c := range q.Choices {
			if seen[c] {
				findings = append(findings, Finding{
					Check:    "distinct choices",
					Severity: SeverityWarn,
					Detail:   fmt.Sprintf("question %q: duplicate choice %q", q.ID, c),
				})
			}
			seen[c] = true
		}
	}
	return findings
}

// Failed reports whether any finding is a failure.
func Failed(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityFail {
			return true
		}
	}
	return false
}
