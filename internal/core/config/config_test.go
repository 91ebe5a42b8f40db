package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quizdeck/internal/core/quiz"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Empty(t, cfg.Dataset)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, quiz.ThemeLight, cfg.Theme())
	assert.True(t, cfg.MathEnabled())
	assert.Equal(t, 80, cfg.TUI.WordWrap)
	assert.Equal(t, ActionNext, cfg.Keybindings["n"])
	assert.Equal(t, ActionQuit, cfg.Keybindings["ctrl+c"])
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
dataset: questions/*.json
storage:
  backend: json
tui:
  theme: dark
  palettes:
    dark: gruvbox
  math: false
  word_wrap: 60
keybindings:
  x: next
  n: none
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "questions/*.json"), cfg.Dataset)
	assert.Equal(t, BackendJSON, cfg.Storage.Backend)
	assert.Equal(t, 5000, cfg.Storage.BusyTimeout, "unset values keep defaults")
	assert.Equal(t, quiz.ThemeDark, cfg.Theme())
	assert.Equal(t, "gruvbox", cfg.PaletteName(quiz.ThemeDark))
	assert.Equal(t, "tokyo-day", cfg.PaletteName(quiz.ThemeLight))
	assert.False(t, cfg.MathEnabled())
	assert.Equal(t, 60, cfg.TUI.WordWrap)

	assert.Equal(t, ActionNext, cfg.Keybindings["x"])
	assert.Equal(t, ActionNone, cfg.Keybindings["n"])
	assert.Equal(t, ActionPrev, cfg.Keybindings["p"], "defaults survive the merge")
}

func TestLoad_AbsoluteDatasetUnchanged(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "q.json")
	path := writeConfig(t, "dataset: "+abs+"\n")

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Dataset)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "tui: [", wantErr: "parse config file"},
		{name: "bad backend", content: "storage:\n  backend: redis\n", wantErr: "storage.backend"},
		{name: "bad theme", content: "tui:\n  theme: sepia\n", wantErr: "tui.theme"},
		{name: "narrow wrap", content: "tui:\n  word_wrap: 5\n", wantErr: "tui.word_wrap"},
		{name: "bad action", content: "keybindings:\n  z: explode\n", wantErr: `invalid action "explode"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RequiresDataDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestMergeKeybindings(t *testing.T) {
	defaults := map[string]string{"a": ActionNext, "b": ActionPrev}
	user := map[string]string{"b": ActionQuit, "c": ActionHelp}

	got := mergeKeybindings(defaults, user)

	assert.Equal(t, map[string]string{"a": ActionNext, "b": ActionQuit, "c": ActionHelp}, got)
	assert.Equal(t, ActionPrev, defaults["b"], "defaults are not mutated")
}

func TestPaths(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	assert.Equal(t, "/data/quizdeck.db", cfg.DatabaseFile())
	assert.Equal(t, "/data/marks.json", cfg.MarksFile())
	assert.Equal(t, "/data/quizdeck.log", cfg.LogFile())
}

func TestDefaultKeybindingsUseKnownActions(t *testing.T) {
	for key, action := range defaultKeybindings {
		assert.True(t, isValidAction(action), "key %q", key)
	}
	assert.Contains(t, Actions(), ActionResetMarks)
}
