package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stmgo/core"
	"github.com/hupe1980/stmgo/internal/testutil"
)

// fakeLongTerm records promotions and can be scripted to fail.
type fakeLongTerm struct {
	mu      sync.Mutex
	stored  []map[string]any
	texts   []string
	err     error
	cleaned bool
	dialErr error
}

var _ core.LongTermStore = (*fakeLongTerm)(nil)

func (f *fakeLongTerm) Store(_ context.Context, text string, metadata map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.texts = append(f.texts, text)
	f.stored = append(f.stored, metadata)
	return fmt.Sprintf("ltm_%d", len(f.stored)), nil
}

func (f *fakeLongTerm) Cleanup() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = true
	return nil
}

func newTestStore(t *testing.T, maxEntries int, gen core.CoordinateGenerator, lt *fakeLongTerm) *Store {
	t.Helper()
	return NewStore(gen, func(o *Options) {
		o.MaxEntries = maxEntries
		if lt != nil {
			o.LongTerm = func() (core.LongTermStore, error) { return lt, lt.dialErr }
		}
	})
}

func exchangeText(user, ai string) string {
	return fmt.Sprintf("User: %s\nAI: %s", user, ai)
}

func TestStore_CapacityInvariant(t *testing.T) {
	gen := testutil.NewStubGenerator()
	lt := &fakeLongTerm{}
	store := newTestStore(t, 3, gen, lt)

	for i := 0; i < 10; i++ {
		_, err := store.AddExchange(context.Background(), fmt.Sprintf("question %d", i), "answer", nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, store.Len(), 3)
	}
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, int64(10), store.Counters().TotalAdded)
	assert.Equal(t, int64(7), store.Counters().TotalPromoted)
}

func TestStore_FIFOEviction(t *testing.T) {
	gen := testutil.NewStubGenerator().
		Map(exchangeText("first", "a"), "k1", core.Coordinates{X: 1}).
		Map(exchangeText("second", "a"), "k2", core.Coordinates{X: 2}).
		Map(exchangeText("third", "a"), "k3", core.Coordinates{X: 3})
	lt := &fakeLongTerm{}
	store := newTestStore(t, 2, gen, lt)

	for _, user := range []string{"first", "second", "third"} {
		_, err := store.AddExchange(context.Background(), user, "a", nil)
		require.NoError(t, err)
	}

	// Resident set is {k2, k3}; k1 was promoted with its full context.
	recent := store.GetRecent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "k2", recent[0].Key)
	assert.Equal(t, "k3", recent[1].Key)

	require.Len(t, lt.texts, 1)
	assert.Equal(t, exchangeText("first", "a"), lt.texts[0])
	require.Len(t, lt.stored, 1)
	assert.Equal(t, core.PromotionSource, lt.stored[0]["source"])
	assert.Equal(t, "k1", lt.stored[0]["original_coord_key"])
	assert.Equal(t, "first", lt.stored[0]["user_input"])
	assert.Equal(t, "a", lt.stored[0]["ai_response"])
}

func TestStore_BijectionInvariant(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 4, gen, &fakeLongTerm{})

	checkBijection := func() {
		entries, order, _ := store.SnapshotState()
		require.Equal(t, len(entries), len(order))
		seen := map[string]bool{}
		for _, key := range order {
			assert.False(t, seen[key], "duplicate key %q in order queue", key)
			seen[key] = true
			_, ok := entries[key]
			assert.True(t, ok, "order key %q missing from entry map", key)
		}
	}

	for i := 0; i < 9; i++ {
		_, err := store.AddExchange(context.Background(), fmt.Sprintf("q%d", i), "a", nil)
		require.NoError(t, err)
		checkBijection()
	}
	store.Clear()
	checkBijection()
}

func TestStore_DuplicateKeyReplacesAndRequeues(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 5, gen, &fakeLongTerm{})

	_, err := store.AddExchange(context.Background(), "same", "a", nil)
	require.NoError(t, err)
	_, err = store.AddExchange(context.Background(), "other", "a", nil)
	require.NoError(t, err)
	dup, err := store.AddExchange(context.Background(), "same", "a", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	recent := store.GetRecent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, dup.Key, recent[1].Key, "re-added exchange moves to the back of the queue")
}

func TestStore_GeneratorFailureLeavesNoPartialState(t *testing.T) {
	gen := testutil.NewStubGenerator()
	gen.Err = errors.New("embedding backend down")
	store := newTestStore(t, 3, gen, &fakeLongTerm{})

	_, err := store.AddExchange(context.Background(), "q", "a", nil)
	require.ErrorIs(t, err, core.ErrGenerator)
	assert.Zero(t, store.Len())
	assert.Zero(t, store.Counters().TotalAdded)
	assert.False(t, store.Dirty())
}

func TestStore_PromotionFailureIsNonFatal(t *testing.T) {
	gen := testutil.NewStubGenerator()
	lt := &fakeLongTerm{err: errors.New("archive unavailable")}
	store := newTestStore(t, 1, gen, lt)

	_, err := store.AddExchange(context.Background(), "one", "a", nil)
	require.NoError(t, err)
	e2, err := store.AddExchange(context.Background(), "two", "a", nil)
	require.NoError(t, err)

	// Eviction is final even though promotion failed: the entry is gone and
	// nothing was archived.
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, e2.Key, store.GetRecent(1)[0].Key)
	assert.Empty(t, lt.stored)
	assert.Zero(t, store.Counters().TotalPromoted)
}

func TestStore_LongTermDialedLazily(t *testing.T) {
	gen := testutil.NewStubGenerator()
	dials := 0
	store := NewStore(gen, func(o *Options) {
		o.MaxEntries = 1
		o.LongTerm = func() (core.LongTermStore, error) {
			dials++
			return &fakeLongTerm{}, nil
		}
	})

	_, err := store.AddExchange(context.Background(), "one", "a", nil)
	require.NoError(t, err)
	assert.Zero(t, dials, "no promotion yet, factory must not run")

	_, err = store.AddExchange(context.Background(), "two", "a", nil)
	require.NoError(t, err)
	_, err = store.AddExchange(context.Background(), "three", "a", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, dials, "factory runs exactly once")
}

func TestStore_GetRecent(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 10, gen, nil)

	for i := 0; i < 5; i++ {
		_, err := store.AddExchange(context.Background(), fmt.Sprintf("q%d", i), "a", nil)
		require.NoError(t, err)
	}

	recent := store.GetRecent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "q2", recent[0].UserInput)
	assert.Equal(t, "q4", recent[2].UserInput)

	assert.Len(t, store.GetRecent(100), 5)
	assert.Empty(t, store.GetRecent(0))
	assert.Empty(t, store.GetRecent(-1))
}

func TestStore_Clear(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 5, gen, nil)

	_, err := store.AddExchange(context.Background(), "q", "a", nil)
	require.NoError(t, err)
	store.MarkSaved(store.Generation())
	require.False(t, store.Dirty())

	store.Clear()
	assert.Zero(t, store.Len())
	assert.Empty(t, store.GetRecent(5))
	assert.True(t, store.Dirty())
}

func TestStore_CleanupLongTerm(t *testing.T) {
	gen := testutil.NewStubGenerator()
	lt := &fakeLongTerm{}
	store := newTestStore(t, 1, gen, lt)

	// Never instantiated: cleanup is a no-op.
	require.NoError(t, store.CleanupLongTerm())
	assert.False(t, lt.cleaned)

	_, err := store.AddExchange(context.Background(), "one", "a", nil)
	require.NoError(t, err)
	_, err = store.AddExchange(context.Background(), "two", "a", nil)
	require.NoError(t, err)

	require.NoError(t, store.CleanupLongTerm())
	assert.True(t, lt.cleaned)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	gen := testutil.NewStubGenerator()
	store := newTestStore(t, 8, gen, &fakeLongTerm{})

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.AddExchange(context.Background(), fmt.Sprintf("q%d", i), "a", nil); err != nil {
				t.Errorf("add error: %v", err)
			}
			store.GetRecent(3)
			store.SnapshotState()
			if _, err := store.Search(context.Background(), "q1", 3, 5); err != nil {
				t.Errorf("search error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, store.Len())
	entries, order, _ := store.SnapshotState()
	assert.Equal(t, len(entries), len(order))
}
