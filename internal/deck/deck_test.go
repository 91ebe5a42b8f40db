package deck

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quizdeck/internal/core/config"
	"github.com/colonyops/quizdeck/internal/core/doctor"
	"github.com/colonyops/quizdeck/internal/core/quiz"
	"github.com/colonyops/quizdeck/internal/store/jsonfile"
)

type failingStore struct {
	loadErr error
	saveErr error
	saved   [][]string
}

func (f *failingStore) Load(context.Context) ([]string, error) { return nil, f.loadErr }

func (f *failingStore) Save(_ context.Context, ids []string) error {
	f.saved = append(f.saved, ids)
	return f.saveErr
}

func (f *failingStore) Location() string { return "memory" }

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)
	cfg.Storage.Backend = backend
	return cfg
}

func testQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: "q1", Lecture: 1, Prompt: "one", Choices: []string{"a", "b"}, CorrectAnswer: quiz.Ptr("a")},
		{ID: "q2", Lecture: 2, Prompt: "two", Choices: []string{"a", "b"}, CorrectAnswer: quiz.Ptr("b")},
	}
}

func TestMarkService_LoadFallsBackToEmpty(t *testing.T) {
	svc := NewMarkService(&failingStore{loadErr: errors.New("corrupt")})

	marks := svc.Load(context.Background())
	assert.Equal(t, 0, marks.Len())

	_, err := svc.Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestMarkService_LogsFailuresUnderMarksComponent(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	svc := NewMarkService(&failingStore{loadErr: errors.New("corrupt"), saveErr: errors.New("disk full")})
	_ = svc.Load(context.Background())
	_ = svc.Save(context.Background(), quiz.NewMarks("q1"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `"cmp":"marks"`)
		assert.Contains(t, line, `"level":"warn"`)
	}
	assert.Contains(t, lines[1], "disk full")
}

func TestMarkService_SaveIsSingleAttempt(t *testing.T) {
	store := &failingStore{saveErr: errors.New("disk full")}
	svc := NewMarkService(store)

	err := svc.Save(context.Background(), quiz.NewMarks("q1"))
	require.Error(t, err)
	assert.Len(t, store.saved, 1)
	assert.Equal(t, []string{"q1"}, store.saved[0])
}

type slowStore struct {
	mu    sync.Mutex
	delay map[int]time.Duration // by length of the saved list
	ids   []string
}

func (s *slowStore) Load(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids, nil
}

func (s *slowStore) Save(_ context.Context, ids []string) error {
	time.Sleep(s.delay[len(ids)])
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = ids
	return nil
}

func (s *slowStore) Location() string { return "memory" }

func TestMarkService_SaveGenerationKeepsNewest(t *testing.T) {
	ctx := context.Background()
	store := &slowStore{delay: map[int]time.Duration{1: 50 * time.Millisecond}}
	svc := NewMarkService(store)

	// generation 1 marks q1 and is slow; generation 2 unmarks it
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.SaveGeneration(ctx, 1, quiz.NewMarks("q1"))
	}()
	go func() {
		defer wg.Done()
		time.Sleep(10 * time.Millisecond)
		_, _ = svc.SaveGeneration(ctx, 2, quiz.NewMarks())
	}()
	wg.Wait()

	assert.Empty(t, svc.Load(ctx).IDs())
}

func TestMarkService_SaveGenerationDropsStale(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{}
	svc := NewMarkService(store)

	written, err := svc.SaveGeneration(ctx, 2, quiz.NewMarks())
	require.NoError(t, err)
	assert.True(t, written)

	written, err = svc.SaveGeneration(ctx, 1, quiz.NewMarks("q1"))
	require.NoError(t, err)
	assert.False(t, written)
	assert.Len(t, store.saved, 1)
}

func TestMarkService_ToggleResetPrune(t *testing.T) {
	ctx := context.Background()
	svc := NewMarkService(jsonfile.NewMarkStore(filepath.Join(t.TempDir(), "marks.json")))

	marks, err := svc.Toggle(ctx, "q1", "gone", "q2")
	require.NoError(t, err)
	assert.Equal(t, []string{"gone", "q1", "q2"}, marks.IDs())

	marks, err = svc.Toggle(ctx, "q2")
	require.NoError(t, err)
	assert.Equal(t, []string{"gone", "q1"}, marks.IDs())

	removed, err := svc.Prune(ctx, testQuestions())
	require.NoError(t, err)
	assert.Equal(t, []string{"gone"}, removed)
	assert.Equal(t, []string{"q1"}, svc.Load(ctx).IDs())

	removed, err = svc.Prune(ctx, testQuestions())
	require.NoError(t, err)
	assert.Empty(t, removed)

	require.NoError(t, svc.Reset(ctx))
	assert.Equal(t, 0, svc.Load(ctx).Len())
}

func TestMarkService_Import(t *testing.T) {
	ctx := context.Background()
	svc := NewMarkService(jsonfile.NewMarkStore(filepath.Join(t.TempDir(), "marks.json")))
	require.NoError(t, svc.Save(ctx, quiz.NewMarks("q1")))

	marks, err := svc.Import(ctx, []string{"q2", "q2"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, marks.IDs())

	marks, err = svc.Import(ctx, []string{"q3"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"q3"}, marks.IDs())
	assert.Equal(t, []string{"q3"}, svc.Load(ctx).IDs())
}

func TestOpenStorage_JSON(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)

	storage, err := OpenStorage(cfg)
	require.NoError(t, err)
	defer func() { _ = storage.Close() }()

	assert.Nil(t, storage.DB)
	assert.Contains(t, storage.Store.Location(), "marks.json")
}

func TestOpenStorage_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	storage, err := OpenStorage(cfg)
	require.NoError(t, err)
	defer func() { _ = storage.Close() }()

	require.NotNil(t, storage.DB)
	require.NoError(t, storage.Store.Save(ctx, []string{"q1"}))

	ids, err := storage.Store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, ids)
}

func TestOpenStorage_RecoversCorruptDatabase(t *testing.T) {
	cfg := testConfig(t, config.BackendSQLite)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0o755))
	require.NoError(t, os.WriteFile(cfg.DatabaseFile(), []byte(strings.Repeat("not a database ", 512)), 0o644))

	storage, err := OpenStorage(cfg)
	require.NoError(t, err)
	defer func() { _ = storage.Close() }()

	ids, err := storage.Store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)

	backups, err := filepath.Glob(cfg.DatabaseFile() + ".corrupt.*")
	require.NoError(t, err)
	assert.NotEmpty(t, backups)
}

func TestOpenStorage_UnusableDataDirFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	// a regular file where the data directory should be
	notDir := filepath.Join(t.TempDir(), "notadir")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))
	cfg.DataDir = notDir

	storage, err := OpenStorage(cfg)
	require.NoError(t, err)
	defer func() { _ = storage.Close() }()

	require.Error(t, storage.Err)
	assert.Nil(t, storage.DB)

	app := NewApp(cfg, quiz.Dataset{Questions: testQuestions()}, nil, storage)
	require.Error(t, app.StorageErr)
	assert.Equal(t, 0, app.Marks.Load(ctx).Len())

	_, err = app.Marks.Toggle(ctx, "q1")
	require.Error(t, err)

	results := app.Doctor.RunChecks(ctx, "", false)
	_, _, failed := doctor.Summary(results)
	assert.Positive(t, failed)
}

func TestOpenStorage_UnknownBackend(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)
	cfg.Storage.Backend = "redis"

	_, err := OpenStorage(cfg)
	require.Error(t, err)
}

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset("")
	require.NoError(t, err)
	assert.Equal(t, quiz.SampleName, ds.Source)
	assert.NotZero(t, ds.Len())

	missing := filepath.Join(t.TempDir(), "missing.json")
	ds, err = LoadDataset(missing)
	require.Error(t, err)
	assert.Equal(t, missing, ds.Source)
	assert.Zero(t, ds.Len())
}

func TestDoctorService_RunChecks(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	storage, err := OpenStorage(cfg)
	require.NoError(t, err)
	defer func() { _ = storage.Close() }()

	ds := quiz.Dataset{Source: "test", Questions: testQuestions()}
	app := NewApp(cfg, ds, nil, storage)
	require.NoError(t, app.Marks.Save(ctx, quiz.NewMarks("q1", "gone")))

	results := app.Doctor.RunChecks(ctx, "", false)

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Configuration", "Dataset", "Marks", "Storage"}, names)
	assert.Equal(t, 1, doctor.CountFixable(results))

	results = app.Doctor.RunChecks(ctx, "", true)
	assert.Equal(t, 0, doctor.CountFixable(results))
	assert.Equal(t, []string{"q1"}, app.Marks.Load(ctx).IDs())
}

func TestDoctorService_JSONBackendSkipsStorage(t *testing.T) {
	cfg := testConfig(t, config.BackendJSON)

	storage, err := OpenStorage(cfg)
	require.NoError(t, err)

	app := NewApp(cfg, quiz.Dataset{}, quiz.ErrEmptyDataset, storage)
	results := app.Doctor.RunChecks(context.Background(), "", false)

	require.Len(t, results, 3)
	_, _, failed := doctor.Summary(results)
	assert.NotZero(t, failed)
}
