package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quizdeck/internal/core/mathtext"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/deck"
	"github.com/colonyops/quizdeck/pkg/iojson"
)

const lsPromptWidth = 60

type LsCmd struct {
	flags *Flags
	app   *deck.App

	// flags
	lecture    int
	markedOnly bool
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *deck.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List questions in the dataset",
		UsageText: "quizdeck ls [--lecture N] [--marked] [--json]",
		Description: `Displays a table of questions with their lecture, mark and prompt.

Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "lecture",
				Usage:       "only list questions from this lecture",
				Destination: &cmd.lecture,
			},
			&cli.BoolFlag{
				Name:        "marked",
				Usage:       "only list marked questions",
				Destination: &cmd.markedOnly,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// questionInfo is the JSON output format for quizdeck ls --json.
type questionInfo struct {
	ID             string `json:"id"`
	Lecture        int    `json:"lecture"`
	Question       string `json:"question"`
	Choices        int    `json:"choices"`
	HasDescription bool   `json:"has_description"`
	Marked         bool   `json:"marked"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.app.DatasetErr != nil {
		return fmt.Errorf("load dataset: %w", cmd.app.DatasetErr)
	}

	marks := cmd.app.Marks.Load(ctx)

	var questions []quiz.Question
	for _, q := range quiz.Derive(cmd.app.Dataset.Questions, marks, cmd.markedOnly) {
		if cmd.lecture != 0 && q.Lecture != cmd.lecture {
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		if !cmd.jsonOutput {
			_, _ = fmt.Fprintln(stderr(c), "No questions found")
		}
		return nil
	}

	out := stdout(c)

	if cmd.jsonOutput {
		for _, q := range questions {
			info := questionInfo{
				ID:             q.ID,
				Lecture:        q.Lecture,
				Question:       q.Prompt,
				Choices:        len(q.Choices),
				HasDescription: q.Description != "",
				Marked:         marks.Has(q.ID),
			}
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode question: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLECTURE\tMARKED\tQUESTION")
	for _, q := range questions {
		mark := ""
		if marks.Has(q.ID) {
			mark = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", q.ID, q.Lecture, mark, summarize(q.Prompt))
	}
	return w.Flush()
}

// summarize flattens a prompt to one line of readable text.
func summarize(prompt string) string {
	line := strings.Join(strings.Fields(mathtext.Convert(prompt)), " ")
	return ansi.Truncate(line, lsPromptWidth, "…")
}
