package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/data/db"
)

type staticCheck struct {
	name  string
	items []CheckItem
}

func (c staticCheck) Name() string { return c.name }

func (c staticCheck) Run(context.Context) Result {
	return Result{Name: c.name, Items: c.items}
}

// memMarks is an in-memory quiz.MarkStore.
type memMarks struct {
	ids     []string
	loadErr error
	saveErr error
	saves   int
}

func (m *memMarks) Load(context.Context) ([]string, error) {
	return m.ids, m.loadErr
}

func (m *memMarks) Save(_ context.Context, ids []string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.ids = ids
	return nil
}

func questions() []quiz.Question {
	return []quiz.Question{
		{ID: "q1", Lecture: 1, Prompt: "one", Choices: []string{"A", "B"}, CorrectAnswer: quiz.Ptr("A"), Description: "d"},
		{ID: "q2", Lecture: 1, Prompt: "two", Choices: []string{"A", "B"}, CorrectAnswer: quiz.Ptr("B")},
	}
}

func TestRunAllAndSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		staticCheck{name: "a", items: []CheckItem{{Status: StatusPass}, {Status: StatusWarn, Fixable: true}}},
		staticCheck{name: "b", items: []CheckItem{{Status: StatusFail}, {Status: StatusPass, Fixable: true}}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, CountFixable(results), "passing items are not fixable issues")
}

func TestDatasetCheck(t *testing.T) {
	ds := quiz.Dataset{Source: "q.json", Files: []string{"q.json"}, Questions: questions()}

	result := NewDatasetCheck(ds, nil).Run(context.Background())

	assert.Equal(t, "Dataset", result.Name)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "q.json", result.Items[0].Label)
	assert.Equal(t, "2 question(s)", result.Items[0].Detail)

	_, _, failed := Summary([]Result{result})
	assert.Zero(t, failed)
}

func TestDatasetCheck_Empty(t *testing.T) {
	result := NewDatasetCheck(quiz.Dataset{}, nil).Run(context.Background())

	assert.Equal(t, quiz.SampleName, result.Items[0].Label)
	_, _, failed := Summary([]Result{result})
	assert.Equal(t, 1, failed)
}

func TestDatasetCheck_LoadError(t *testing.T) {
	ds := quiz.Dataset{Source: "missing/*.json"}

	result := NewDatasetCheck(ds, errors.New("pattern matched no files")).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, "missing/*.json", result.Items[0].Label)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Equal(t, "pattern matched no files", result.Items[0].Detail)
}

func TestMarksCheck_Clean(t *testing.T) {
	store := &memMarks{ids: []string{"q1"}}

	result := NewMarksCheck(store, "mem", questions(), false).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, "mem", result.Items[0].Detail)
	assert.Equal(t, "1 of 2 question(s)", result.Items[1].Detail)
}

func TestMarksCheck_Stale(t *testing.T) {
	store := &memMarks{ids: []string{"q1", "gone", "old"}}

	result := NewMarksCheck(store, "mem", questions(), false).Run(context.Background())

	require.Len(t, result.Items, 3)
	stale := result.Items[2]
	assert.Equal(t, StatusWarn, stale.Status)
	assert.True(t, stale.Fixable)
	assert.Equal(t, "gone, old", stale.Detail)
	assert.Zero(t, store.saves)
}

func TestMarksCheck_Autofix(t *testing.T) {
	store := &memMarks{ids: []string{"q1", "gone"}}

	result := NewMarksCheck(store, "mem", questions(), true).Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, StatusPass, result.Items[2].Status)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{"q1"}, store.ids)
}

func TestMarksCheck_LoadError(t *testing.T) {
	store := &memMarks{loadErr: errors.New("disk on fire")}

	result := NewMarksCheck(store, "mem", questions(), false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Equal(t, "disk on fire", result.Items[0].Detail)
}

func TestConfigCheck(t *testing.T) {
	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)

	result := NewConfigCheck(cfg, "").Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "defaults", result.Items[0].Label)

	cfg.Dataset = filepath.Join(t.TempDir(), "missing.json")
	cfg.TUI.Palettes.Dark = "neon"

	result = NewConfigCheck(cfg, "").Run(context.Background())
	require.Len(t, result.Items, 2)
	assert.Equal(t, "dataset", result.Items[0].Label)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Equal(t, "Palettes dark", result.Items[1].Label)
	assert.Equal(t, StatusWarn, result.Items[1].Status)
}

func TestStorageCheck(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "quizdeck.db"), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	result := NewStorageCheck(database).Run(context.Background())
	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "version 1", result.Items[1].Detail)

	require.NoError(t, database.MigrateDown(context.Background(), 1))
	result = NewStorageCheck(database).Run(context.Background())
	assert.Equal(t, StatusWarn, result.Items[1].Status)
}
