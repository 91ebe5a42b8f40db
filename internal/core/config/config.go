// Package config handles configuration loading and validation for quizdeck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/core/styles"
)

// Built-in action names for keybindings.
const (
	ActionNone              = "none"
	ActionQuit              = "quit"
	ActionHelp              = "help"
	ActionNext              = "next"
	ActionPrev              = "prev"
	ActionNextLecture       = "next_lecture"
	ActionPrevLecture       = "prev_lecture"
	ActionJumpLecture       = "jump_lecture"
	ActionCursorUp          = "cursor_up"
	ActionCursorDown        = "cursor_down"
	ActionSelect            = "select"
	ActionCheck             = "check"
	ActionReveal            = "reveal"
	ActionDescription       = "description"
	ActionToggleMark        = "toggle_mark"
	ActionToggleMarkedOnly  = "toggle_marked_only"
	ActionToggleRandom      = "toggle_random"
	ActionToggleHideAnswers = "toggle_hide_answers"
	ActionToggleTheme       = "toggle_theme"
	ActionResetQuiz         = "reset_quiz"
	ActionResetMarks        = "reset_marks"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

var actions = []string{
	ActionNone, ActionQuit, ActionHelp, ActionNext, ActionPrev,
	ActionNextLecture, ActionPrevLecture, ActionJumpLecture,
	ActionCursorUp, ActionCursorDown, ActionSelect, ActionCheck,
	ActionReveal, ActionDescription, ActionToggleMark, ActionToggleMarkedOnly,
	ActionToggleRandom, ActionToggleHideAnswers, ActionToggleTheme,
	ActionResetQuiz, ActionResetMarks,
}

// defaultKeybindings maps keys to actions. Users override per key; binding a
// key to "none" removes it.
var defaultKeybindings = map[string]string{
	"q":      ActionQuit,
	"ctrl+c": ActionQuit,
	"?":      ActionHelp,
	"right":  ActionNext,
	"n":      ActionNext,
	"left":   ActionPrev,
	"p":      ActionPrev,
	"]":      ActionNextLecture,
	"[":      ActionPrevLecture,
	"g":      ActionJumpLecture,
	"up":     ActionCursorUp,
	"k":      ActionCursorUp,
	"down":   ActionCursorDown,
	"j":      ActionCursorDown,
	"space":  ActionSelect,
	"enter":  ActionCheck,
	"c":      ActionCheck,
	"s":      ActionReveal,
	"d":      ActionDescription,
	"m":      ActionToggleMark,
	"f":      ActionToggleMarkedOnly,
	"r":      ActionToggleRandom,
	"a":      ActionToggleHideAnswers,
	"t":      ActionToggleTheme,
	"R":      ActionResetQuiz,
	"X":      ActionResetMarks,
}

// Config holds the application configuration.
type Config struct {
	Dataset     string            `yaml:"dataset"`
	Storage     StorageConfig     `yaml:"storage"`
	TUI         TUIConfig         `yaml:"tui"`
	Keybindings map[string]string `yaml:"keybindings"`
	DataDir     string            `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where marks are persisted.
type StorageConfig struct {
	Backend     string `yaml:"backend"`      // sqlite | json
	BusyTimeout int    `yaml:"busy_timeout"` // sqlite busy timeout in milliseconds
}

// TUIConfig holds terminal UI preferences.
type TUIConfig struct {
	Theme    string         `yaml:"theme"` // initial theme: light | dark
	Palettes PalettesConfig `yaml:"palettes"`
	Math     *bool          `yaml:"math"`      // render math markup, default true
	WordWrap int            `yaml:"word_wrap"` // max question text width
}

// PalettesConfig names the color palette used for each theme.
type PalettesConfig struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	math := true
	return Config{
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			BusyTimeout: 5000,
		},
		TUI: TUIConfig{
			Theme: string(quiz.ThemeLight),
			Palettes: PalettesConfig{
				Light: styles.DefaultLightPalette,
				Dark:  styles.DefaultDarkPalette,
			},
			Math:     &math,
			WordWrap: 80,
		},
		Keybindings: map[string]string{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
// A relative dataset path in the file is resolved against the file's directory.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir

			if cfg.Dataset != "" && !filepath.IsAbs(cfg.Dataset) {
				cfg.Dataset = filepath.Join(filepath.Dir(configPath), cfg.Dataset)
			}
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Storage.BusyTimeout == 0 {
		c.Storage.BusyTimeout = defaults.Storage.BusyTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.Palettes.Light == "" {
		c.TUI.Palettes.Light = defaults.TUI.Palettes.Light
	}
	if c.TUI.Palettes.Dark == "" {
		c.TUI.Palettes.Dark = defaults.TUI.Palettes.Dark
	}
	if c.TUI.Math == nil {
		c.TUI.Math = defaults.TUI.Math
	}
	if c.TUI.WordWrap == 0 {
		c.TUI.WordWrap = defaults.TUI.WordWrap
	}
	if c.Keybindings == nil {
		c.Keybindings = mergeKeybindings(defaultKeybindings, nil)
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]string) map[string]string {
	result := make(map[string]string, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}

	for k, v := range user {
		result[k] = v
	}

	return result
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendJSON:
	default:
		return fmt.Errorf("storage.backend %q must be %q or %q", c.Storage.Backend, BackendSQLite, BackendJSON)
	}

	if c.Storage.BusyTimeout < 0 {
		return fmt.Errorf("storage.busy_timeout must not be negative")
	}

	if !quiz.Theme(c.TUI.Theme).IsValid() {
		return fmt.Errorf("tui.theme %q must be %q or %q", c.TUI.Theme, quiz.ThemeLight, quiz.ThemeDark)
	}

	if c.TUI.WordWrap < 20 {
		return fmt.Errorf("tui.word_wrap must be at least 20")
	}

	for _, key := range sortedKeys(c.Keybindings) {
		if !isValidAction(c.Keybindings[key]) {
			return fmt.Errorf("keybinding %q has invalid action %q", key, c.Keybindings[key])
		}
	}

	return nil
}

// Theme returns the configured initial theme.
func (c *Config) Theme() quiz.Theme {
	return quiz.Theme(c.TUI.Theme)
}

// MathEnabled reports whether math markup should be rendered.
func (c *Config) MathEnabled() bool {
	return c.TUI.Math == nil || *c.TUI.Math
}

// PaletteName returns the palette configured for the given theme.
func (c *Config) PaletteName(theme quiz.Theme) string {
	if theme == quiz.ThemeDark {
		return c.TUI.Palettes.Dark
	}
	return c.TUI.Palettes.Light
}

// DatabaseFile returns the path to the SQLite database.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "quizdeck.db")
}

// MarksFile returns the path to the JSON marks file.
func (c *Config) MarksFile() string {
	return filepath.Join(c.DataDir, "marks.json")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "quizdeck.log")
}

// Actions returns every action name a keybinding may use.
func Actions() []string {
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}

func isValidAction(action string) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
