package stores

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/quizdeck/internal/data/db"
)

func newTestKVStore(t *testing.T) *KVStore {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "quizdeck.db"), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewKVStore(database)
}

func TestKVStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	type payload struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	require.NoError(t, store.Set(ctx, "test-key", payload{Name: "hello", Value: 42}))

	var got payload
	require.NoError(t, store.Get(ctx, "test-key", &got))
	assert.Equal(t, "hello", got.Name)
	assert.Equal(t, 42, got.Value)
}

func TestKVStore_GetNotFound(t *testing.T) {
	store := newTestKVStore(t)

	var v string
	err := store.Get(context.Background(), "nonexistent", &v)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.True(t, IsNotFoundError(err))
}

func TestKVStore_GetWrongType(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.Set(ctx, "key", "text"))

	var n int
	err := store.Get(ctx, "key", &n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestKVStore_SetOverwriteKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	first := time.Unix(1000, 0)
	second := time.Unix(2000, 0)

	store.now = func() time.Time { return first }
	require.NoError(t, store.Set(ctx, "key", "first"))

	store.now = func() time.Time { return second }
	require.NoError(t, store.Set(ctx, "key", "second"))

	var got string
	require.NoError(t, store.Get(ctx, "key", &got))
	assert.Equal(t, "second", got)

	entry, err := store.GetRaw(ctx, "key")
	require.NoError(t, err)
	assert.JSONEq(t, `"second"`, string(entry.Value))
	assert.True(t, entry.CreatedAt.Equal(first))
	assert.True(t, entry.UpdatedAt.Equal(second))
}

func TestKVStore_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.Set(ctx, "key", 1))

	has, err := store.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Delete(ctx, "key"))
	require.NoError(t, store.Delete(ctx, "key"), "deleting a missing key is fine")

	has, err = store.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestKVStore_ListKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	for _, k := range []string{"b:2", "a:1", "b:1", "bb:1"} {
		require.NoError(t, store.Set(ctx, k, true))
	}

	all, err := store.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a:1", "b:1", "b:2", "bb:1"}, all)

	b, err := store.ListKeys(ctx, "b:")
	require.NoError(t, err)
	assert.Equal(t, []string{"b:1", "b:2"}, b)

	none, err := store.ListKeys(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}
