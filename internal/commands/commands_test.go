package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/deck"
	"github.com/colonyops/quizdeck/pkg/tuitest"
)

type harness struct {
	flags *Flags
	app   *deck.App
	marks *MarksCmd
	out   bytes.Buffer
	err   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.Load("", dir)
	require.NoError(t, err)
	cfg.Storage.Backend = config.BackendJSON

	storage, err := deck.OpenStorage(cfg)
	require.NoError(t, err)

	ds := quiz.Dataset{
		Source: "test",
		Questions: []quiz.Question{
			{ID: "q1", Lecture: 1, Prompt: "What is $\\alpha$?", Choices: []string{"a", "b"}, CorrectAnswer: quiz.Ptr("a")},
			{ID: "q2", Lecture: 2, Prompt: "Second", Choices: []string{"a", "b"}, CorrectAnswer: quiz.Ptr("b")},
		},
	}

	h := &harness{flags: &Flags{Config: cfg}}
	h.app = deck.NewApp(cfg, ds, nil, storage)
	h.marks = NewMarksCmd(h.flags, h.app)
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	h.err.Reset()

	root := &cli.Command{
		Name:      "quizdeck",
		Writer:    &h.out,
		ErrWriter: &h.err,
		ExitErrHandler: func(context.Context, *cli.Command, error) {
			// keep cli.Exit from terminating the test binary
		},
	}
	root = NewCheckCmd(h.flags, h.app).Register(root)
	root = NewLsCmd(h.flags, h.app).Register(root)
	root = h.marks.Register(root)
	root = NewConfigValidateCmd(h.flags).Register(root)

	return root.Run(context.Background(), append([]string{"quizdeck"}, args...))
}

func TestLs_Table(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "marks", "toggle", "q2"))

	require.NoError(t, h.run(t, "ls"))
	out := h.out.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "What is α?")
	assert.Contains(t, out, "Second")

	require.NoError(t, h.run(t, "ls", "--marked"))
	assert.NotContains(t, h.out.String(), "What is")
	assert.Contains(t, h.out.String(), "Second")
}

func TestLs_JSONAndLectureFilter(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "ls", "--json", "--lecture", "1"))

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 1)

	var info questionInfo
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "q1", info.ID)
	assert.Equal(t, 2, info.Choices)
	assert.False(t, info.Marked)
}

func TestMarks_ToggleAndList(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "marks", "toggle", "q1", "gone"))
	assert.Contains(t, h.out.String(), "q1 marked")
	assert.Contains(t, tuitest.StripANSI(h.err.String()), "gone is not in the dataset")

	require.NoError(t, h.run(t, "marks", "ls"))
	assert.Contains(t, tuitest.StripANSI(h.out.String()), "gone (not in dataset)")

	require.NoError(t, h.run(t, "marks", "ls", "--json"))
	assert.JSONEq(t, `["gone","q1"]`, h.out.String())

	require.NoError(t, h.run(t, "marks", "prune"))
	assert.Equal(t, "gone\n", h.out.String())
	assert.Equal(t, []string{"q1"}, h.app.Marks.Load(context.Background()).IDs())
}

func TestMarks_ResetRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "marks", "toggle", "q1"))

	h.marks.isTerminal = func() bool { return false }
	err := h.run(t, "marks", "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Equal(t, 1, h.app.Marks.Load(context.Background()).Len())

	h.marks.isTerminal = func() bool { return true }
	h.marks.confirm = func(string) (bool, error) { return false, nil }
	require.NoError(t, h.run(t, "marks", "reset"))
	assert.Equal(t, 1, h.app.Marks.Load(context.Background()).Len())

	h.marks.confirm = func(string) (bool, error) { return true, nil }
	require.NoError(t, h.run(t, "marks", "reset"))
	assert.Equal(t, 0, h.app.Marks.Load(context.Background()).Len())
}

func TestMarks_ResetWithYes(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "marks", "toggle", "q1", "q2"))

	h.marks.isTerminal = func() bool { return false }
	require.NoError(t, h.run(t, "marks", "reset", "--yes"))
	assert.Contains(t, tuitest.StripANSI(h.err.String()), "Cleared 2 mark(s)")
	assert.Equal(t, 0, h.app.Marks.Load(context.Background()).Len())
}

func TestMarks_Import(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "marks", "toggle", "q1"))

	file := filepath.Join(t.TempDir(), "marks.json")
	require.NoError(t, os.WriteFile(file, []byte(`["q2"]`), 0o644))

	require.NoError(t, h.run(t, "marks", "import", "-f", file))
	assert.Equal(t, []string{"q1", "q2"}, h.app.Marks.Load(context.Background()).IDs())
}

func TestCheck_JSON(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "marks", "toggle", "gone"))

	require.NoError(t, h.run(t, "check", "--format", "json"))

	var out struct {
		Healthy bool        `json:"healthy"`
		Summary summaryJSON `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
	assert.True(t, out.Healthy)
	assert.Equal(t, 1, out.Summary.Warned)
}

func TestCheck_TextSuggestsAutofix(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "marks", "toggle", "gone"))

	require.NoError(t, h.run(t, "check"))
	out := tuitest.StripANSI(h.err.String())
	assert.Contains(t, out, "Quizdeck Check")
	assert.Contains(t, out, "stale ids")
	assert.Contains(t, out, "quizdeck check --autofix")

	require.NoError(t, h.run(t, "check", "--autofix"))
	assert.NotContains(t, tuitest.StripANSI(h.err.String()), "--autofix")
	assert.Empty(t, h.app.Marks.Load(context.Background()).IDs())
}

func TestConfigValidate(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "config", "validate"))
	assert.Contains(t, tuitest.StripANSI(h.err.String()), "Configuration is valid")

	h.flags.Config.Dataset = filepath.Join(t.TempDir(), "missing", "*.json")
	err := h.run(t, "config", "validate", "--format", "json")
	require.Error(t, err)

	var out struct {
		Valid  bool              `json:"valid"`
		Errors []validationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
	assert.False(t, out.Valid)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "dataset", out.Errors[0].Field)
}
