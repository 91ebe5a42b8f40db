package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkStore_EmptyWhenUnset(t *testing.T) {
	store := NewMarkStore(newTestKVStore(t))

	ids, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestMarkStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kvs := newTestKVStore(t)
	store := NewMarkStore(kvs)

	require.NoError(t, store.Save(ctx, []string{"q2", "q1"}))

	ids, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"q2", "q1"}, ids)

	// stored as a JSON array under the well-known key
	entry, err := kvs.GetRaw(ctx, "quizdeck:marked-questions")
	require.NoError(t, err)
	assert.JSONEq(t, `["q2","q1"]`, string(entry.Value))
	assert.Equal(t, "sqlite key quizdeck:marked-questions", store.Location())
}

func TestMarkStore_SaveNilWritesEmptyList(t *testing.T) {
	ctx := context.Background()
	kvs := newTestKVStore(t)
	store := NewMarkStore(kvs)

	require.NoError(t, store.Save(ctx, []string{"q1"}))
	require.NoError(t, store.Save(ctx, nil))

	entry, err := kvs.GetRaw(ctx, "quizdeck:marked-questions")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(entry.Value))

	ids, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMarkStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kvs := newTestKVStore(t)
	require.NoError(t, kvs.Set(ctx, "quizdeck:marked-questions", map[string]int{"x": 1}))

	_, err := NewMarkStore(kvs).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load marks")
}
