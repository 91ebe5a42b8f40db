package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quizdeck/internal/commands"
	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/logging"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/core/styles"
	"github.com/colonyops/quizdeck/internal/deck"
	"github.com/colonyops/quizdeck/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	// A .env in the working directory may set QUIZDECK_* variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load .env: %v\n", err)
	}

	var (
		logCloser func()
		deckApp   = &deck.App{}
		storage   *deck.Storage
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "quizdeck",
		Usage:     "Study multiple-choice question decks in the terminal",
		UsageText: "quizdeck [global options] command [command options]",
		Description: `Quizdeck loads a deck of multiple-choice questions and lets you work
through them lecture by lecture, check answers, and mark questions to revisit.

Run 'quizdeck' with no arguments to open the interactive quiz.
Run 'quizdeck check' to verify the dataset and saved marks.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("QUIZDECK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/quizdeck.log)",
				Sources:     cli.EnvVars("QUIZDECK_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("QUIZDECK_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("QUIZDECK_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "dataset",
				Usage:       "dataset file or glob (overrides the config file; defaults to the bundled sample)",
				Sources:     cli.EnvVars("QUIZDECK_DATASET"),
				Destination: &flags.Dataset,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.Dataset != "" {
				cfg.Dataset = flags.Dataset
			}
			flags.Config = cfg

			// Always log to a file; use explicit path or default to <datadir>/quizdeck.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				if _, lerr := zerolog.ParseLevel(flags.LogLevel); lerr != nil {
					return ctx, fmt.Errorf("setup logger: %w", err)
				}
				// An unwritable log file does not stop the quiz.
				fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
				logger = zerolog.Nop()
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			ctx = logging.WithRunID(ctx, logging.NewRunID())
			log.Debug().Ctx(ctx).Str("version", build()).Msg("starting")

			theme := cfg.Theme()
			styles.SetTheme(styles.ResolvePalette(cfg.PaletteName(theme), theme == quiz.ThemeLight))

			storage, err = deck.OpenStorage(cfg)
			if err != nil {
				return ctx, fmt.Errorf("open storage: %w", err)
			}

			// A broken dataset is reported by each command rather than aborting here,
			// so 'quizdeck check' can still describe it.
			ds, dsErr := deck.LoadDataset(cfg.Dataset)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*deckApp = *deck.NewApp(cfg, ds, dsErr, storage)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if storage != nil {
				if err := storage.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close storage")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, deckApp)

	app = commands.NewLsCmd(flags, deckApp).Register(app)
	app = commands.NewMarksCmd(flags, deckApp).Register(app)
	app = commands.NewCheckCmd(flags, deckApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'quizdeck --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		var exitErr cli.ExitCoder
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			fmt.Println()
			fmt.Println(runErr.Error())
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}
