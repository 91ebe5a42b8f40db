package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/quizdeck/internal/core/styles"
	"github.com/colonyops/quizdeck/internal/deck"
	"github.com/colonyops/quizdeck/pkg/iojson"
)

type MarksCmd struct {
	flags *Flags
	app   *deck.App

	// flags
	jsonOutput bool
	yes        bool
	replace    bool
	importFile iojson.FileReader[[]string]

	// isTerminal reports whether prompts can be shown; replaced in tests.
	isTerminal func() bool
	// confirm asks the user a yes/no question; replaced in tests.
	confirm func(title string) (bool, error)
}

// NewMarksCmd creates a new marks command
func NewMarksCmd(flags *Flags, app *deck.App) *MarksCmd {
	return &MarksCmd{
		flags:      flags,
		app:        app,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		confirm:    confirmPrompt,
	}
}

// Register adds the marks command to the application
func (cmd *MarksCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "marks",
		Usage:     "Inspect and edit marked questions",
		UsageText: "quizdeck marks <command> [options]",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List marked question ids",
				UsageText: "quizdeck marks ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as a JSON array",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "toggle",
				Usage:     "Mark or unmark questions by id",
				UsageText: "quizdeck marks toggle <id>...",
				Action:    cmd.runToggle,
			},
			{
				Name:      "reset",
				Usage:     "Clear all marks",
				UsageText: "quizdeck marks reset [--yes]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runReset,
			},
			{
				Name:      "prune",
				Usage:     "Drop marks for questions that are no longer in the dataset",
				UsageText: "quizdeck marks prune",
				Action:    cmd.runPrune,
			},
			{
				Name:      "import",
				Usage:     "Add marks from a JSON array of ids",
				UsageText: "quizdeck marks import [-f file] [--replace]",
				Description: `Reads a JSON array of question ids from --file or stdin and adds them
to the current marks. Use --replace to overwrite the marks instead.`,
				Flags: []cli.Flag{
					cmd.importFile.Flag(),
					&cli.BoolFlag{
						Name:        "replace",
						Usage:       "replace current marks instead of adding to them",
						Destination: &cmd.replace,
					},
				},
				Action: cmd.runImport,
			},
		},
	})

	return app
}

func (cmd *MarksCmd) runLs(ctx context.Context, c *cli.Command) error {
	marks, err := cmd.app.Marks.Read(ctx)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(stdout(c), stderr(c), marks.IDs())
	}

	if marks.Len() == 0 {
		_, _ = fmt.Fprintln(stderr(c), "No marked questions")
		return nil
	}

	stale := make(map[string]bool)
	for _, id := range marks.Stale(cmd.app.Dataset.Questions) {
		stale[id] = true
	}

	out := stdout(c)
	for _, id := range marks.IDs() {
		if stale[id] {
			_, _ = fmt.Fprintf(out, "%s %s\n", id, styles.TextMutedStyle.Render("(not in dataset)"))
			continue
		}
		_, _ = fmt.Fprintln(out, id)
	}
	return nil
}

func (cmd *MarksCmd) runToggle(ctx context.Context, c *cli.Command) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one question id is required")
	}

	for _, id := range ids {
		if _, ok := cmd.app.Dataset.Lookup(id); !ok {
			_, _ = fmt.Fprintln(stderr(c), styles.TextWarningStyle.Render(fmt.Sprintf("warning: %s is not in the dataset", id)))
		}
	}

	marks, err := cmd.app.Marks.Toggle(ctx, ids...)
	if err != nil {
		return err
	}

	out := stdout(c)
	for _, id := range ids {
		state := "unmarked"
		if marks.Has(id) {
			state = "marked"
		}
		_, _ = fmt.Fprintf(out, "%s %s\n", id, state)
	}
	return nil
}

func (cmd *MarksCmd) runReset(ctx context.Context, c *cli.Command) error {
	marks, err := cmd.app.Marks.Read(ctx)
	if err != nil {
		return err
	}
	if marks.Len() == 0 {
		_, _ = fmt.Fprintln(stderr(c), "No marked questions")
		return nil
	}

	if !cmd.yes {
		if !cmd.isTerminal() {
			return fmt.Errorf("refusing to clear %d mark(s) without a terminal; pass --yes to confirm", marks.Len())
		}

		ok, err := cmd.confirm(fmt.Sprintf("Clear %d marked question(s)?", marks.Len()))
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirm: %w", err)
		}
		if !ok {
			return nil
		}
	}

	if err := cmd.app.Marks.Reset(ctx); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stderr(c), styles.TextSuccessStyle.Render(fmt.Sprintf("Cleared %d mark(s)", marks.Len())))
	return nil
}

func (cmd *MarksCmd) runPrune(ctx context.Context, c *cli.Command) error {
	if cmd.app.DatasetErr != nil {
		return fmt.Errorf("load dataset: %w", cmd.app.DatasetErr)
	}

	removed, err := cmd.app.Marks.Prune(ctx, cmd.app.Dataset.Questions)
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		_, _ = fmt.Fprintln(stderr(c), "Nothing to prune")
		return nil
	}

	out := stdout(c)
	for _, id := range removed {
		_, _ = fmt.Fprintln(out, id)
	}
	_, _ = fmt.Fprintln(stderr(c), styles.TextSuccessStyle.Render(fmt.Sprintf("Pruned %d mark(s)", len(removed))))
	return nil
}

func (cmd *MarksCmd) runImport(ctx context.Context, c *cli.Command) error {
	ids, err := cmd.importFile.Read()
	if err != nil {
		return err
	}

	marks, err := cmd.app.Marks.Import(ctx, ids, cmd.replace)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stderr(c), styles.TextSuccessStyle.Render(fmt.Sprintf("%d question(s) marked", marks.Len())))
	return nil
}

func confirmPrompt(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Clear").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}
