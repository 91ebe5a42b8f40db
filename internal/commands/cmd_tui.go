package commands

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/deck"
	"github.com/colonyops/quizdeck/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *deck.App

	theme  string
	random bool
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *deck.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "theme",
			Usage:       "initial theme (light, dark); defaults to tui.theme",
			Sources:     cli.EnvVars("QUIZDECK_THEME"),
			Destination: &cmd.theme,
		},
		&cli.BoolFlag{
			Name:        "random",
			Usage:       "start in random order",
			Destination: &cmd.random,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	theme := quiz.Theme(cmd.theme)
	if cmd.theme != "" && !theme.IsValid() {
		return fmt.Errorf("invalid --theme %q: must be %q or %q", cmd.theme, quiz.ThemeLight, quiz.ThemeDark)
	}

	var warnings []string
	if cmd.app.DatasetErr != nil {
		warnings = append(warnings, fmt.Sprintf("Dataset unavailable: %v", cmd.app.DatasetErr))
	}
	if cmd.app.StorageErr != nil {
		warnings = append(warnings, fmt.Sprintf("Marks will not be saved: %v", cmd.app.StorageErr))
	}
	if findings := quiz.SelfCheck(cmd.app.Dataset.Questions); quiz.Failed(findings) && cmd.app.DatasetErr == nil {
		warnings = append(warnings, "Dataset failed its self-check; run 'quizdeck check' for details.")
	}

	deps := tui.Deps{
		Config:       cmd.app.Config,
		Marks:        cmd.app.Marks,
		Questions:    cmd.app.Dataset.Questions,
		InitialMarks: cmd.app.Marks.Load(ctx),
	}
	opts := tui.Opts{
		Theme:    theme,
		Random:   cmd.random,
		Warnings: warnings,
	}

	log.Info().Ctx(ctx).
		Int("questions", len(deps.Questions)).
		Int("marks", deps.InitialMarks.Len()).
		Str("marks_location", cmd.app.Marks.Location()).
		Msg("starting tui")

	p := tea.NewProgram(tui.New(deps, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
