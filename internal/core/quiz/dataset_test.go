package quiz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSample(t *testing.T) {
	ds, err := Sample()
	require.NoError(t, err)

	assert.Equal(t, SampleName, ds.Source)
	assert.NotZero(t, ds.Len())
	assert.False(t, Failed(SelfCheck(ds.Questions)))
}

func TestParse_JSONEnvelope(t *testing.T) {
	qs, err := Parse([]byte(`{"questions":[{"id":"q1","lecture":2,"question":"p","choices":["A","B"],"correctAnswer":"A","explanation":"e","description":"d"}]}`), ".json")
	require.NoError(t, err)
	require.Len(t, qs, 1)

	q := qs[0]
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, 2, q.Lecture)
	assert.Equal(t, "p", q.Prompt)
	assert.Equal(t, []string{"A", "B"}, q.Choices)
	require.NotNil(t, q.CorrectAnswer)
	assert.Equal(t, "A", *q.CorrectAnswer)
	assert.Equal(t, "d", q.Description)
}

func TestParse_JSONBareListWithNullAnswer(t *testing.T) {
	qs, err := Parse([]byte(`[{"id":"q1","choices":["A"],"correctAnswer":null}]`), ".JSON")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Nil(t, qs[0].CorrectAnswer)
}

func TestParse_YAML(t *testing.T) {
	envelope := `
questions:
  - id: q1
    lecture: 1
    question: "What is $x$?"
    choices: [A, B]
    correctAnswer: A
    explanation: because
`
	qs, err := Parse([]byte(envelope), ".yaml")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "What is $x$?", qs[0].Prompt)

	list := `
- id: q2
  choices: [A]
  correctAnswer: null
`
	qs, err = Parse([]byte(list), ".yml")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "q2", qs[0].ID)
	assert.Nil(t, qs[0].CorrectAnswer)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{}`), ".toml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse([]byte(`   `), ".json")
	require.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Parse([]byte(`{"questions": [`), ".json")
	require.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quiz.json", `{"questions":[{"id":"q1","choices":["A"],"correctAnswer":"A"}]}`)

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, ds.Files)
	assert.Equal(t, 1, ds.Len())

	q, ok := ds.Lookup("q1")
	assert.True(t, ok)
	assert.Equal(t, "q1", q.ID)

	_, ok = ds.Lookup("missing")
	assert.False(t, ok)
}

func TestLoad_GlobMergesInPathOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/lecture2.yaml", "- id: q2\n  lecture: 2\n  choices: [A]\n")
	writeFile(t, dir, "a/lecture1.json", `[{"id":"q1","lecture":1,"choices":["A"]}]`)
	writeFile(t, dir, "a/notes.txt", "ignored")

	ds, err := Load(filepath.Join(dir, "**", "*.{json,yaml}"))
	require.NoError(t, err)
	require.Len(t, ds.Files, 2)
	assert.Equal(t, []string{"q1", "q2"}, ids(ds.Questions))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	_, err = Load(filepath.Join(dir, "*.json"))
	require.Error(t, err)

	empty := writeFile(t, dir, "empty.json", `{"questions":[]}`)
	_, err = Load(empty)
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestLoad_EmptySourceUsesSample(t *testing.T) {
	ds, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SampleName, ds.Source)
}
