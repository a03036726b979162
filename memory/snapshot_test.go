package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stmgo/core"
	"github.com/hupe1980/stmgo/internal/testutil"
)

func TestStore_SnapshotStateIsACopy(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 5, gen, nil)

	added, err := store.AddExchange(context.Background(), "q", "a", map[string]any{"tag": "x"})
	require.NoError(t, err)
	key := added.Key

	entries, order, counters := store.SnapshotState()
	require.Len(t, entries, 1)
	require.Equal(t, []string{key}, order)
	assert.Equal(t, int64(1), counters.TotalAdded)

	// Mutating the copy must not leak into the store.
	entries[key].Metadata["tag"] = "mutated"
	delete(entries, key)
	order[0] = "junk"

	fresh, freshOrder, _ := store.SnapshotState()
	require.Len(t, fresh, 1)
	assert.Equal(t, "x", fresh[key].Metadata["tag"])
	assert.Equal(t, []string{key}, freshOrder)
}

func TestStore_RestoreRepairsBijection(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 5, gen, nil)

	e1 := testutil.NewEntryBuilder("k1").Timestamp(10).Build()
	e2 := testutil.NewEntryBuilder("k2").Timestamp(20).Build()
	e3 := testutil.NewEntryBuilder("k3").Timestamp(30).Build()

	// Order references a vanished key and misses k2 and k3 entirely.
	store.Restore(map[string]core.Entry{"k1": e1, "k2": e2, "k3": e3},
		[]string{"gone", "k1"}, core.Counters{TotalAdded: 7})

	entries, order, counters := store.SnapshotState()
	assert.Len(t, entries, 3)
	assert.Equal(t, []string{"k1", "k2", "k3"}, order, "orphans re-queued by age after queued keys")
	assert.Equal(t, int64(7), counters.TotalAdded)
	assert.Equal(t, int64(1), counters.LoadRecoveries, "restore counts one recovery")
	assert.False(t, store.Dirty())
}

func TestStore_MarkSaved(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 5, gen, nil)

	_, err := store.AddExchange(context.Background(), "q", "a", nil)
	require.NoError(t, err)
	require.True(t, store.Dirty())

	store.MarkSaved(store.Generation())
	assert.False(t, store.Dirty())
	assert.Equal(t, int64(1), store.Counters().SavesCompleted)
}

func TestStore_MarkSavedKeepsLaterChangesDirty(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 5, gen, nil)
	ctx := context.Background()

	_, err := store.AddExchange(ctx, "captured by the snapshot", "a", nil)
	require.NoError(t, err)
	observed := store.Generation()

	// An add lands after the snapshot generation was sampled but before the
	// save completes. Marking that save done must not absorb it.
	_, err = store.AddExchange(ctx, "landed mid-save", "a", nil)
	require.NoError(t, err)

	store.MarkSaved(observed)
	assert.True(t, store.Dirty(), "mutation after the sampled generation stays unpersisted")
	assert.Equal(t, int64(1), store.Counters().SavesCompleted)

	store.MarkSaved(store.Generation())
	assert.False(t, store.Dirty())
}
