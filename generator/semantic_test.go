package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/stmgo/core"
)

func TestSemantic_Deterministic(t *testing.T) {
	gen := NewSemantic()
	ctx := context.Background()

	first, err := gen.Process(ctx, "How do goroutines communicate?")
	require.NoError(t, err)
	second, err := gen.Process(ctx, "How do goroutines communicate?")
	require.NoError(t, err)

	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.Coordinates, second.Coordinates)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestSemantic_SharedVocabularyClusters(t *testing.T) {
	gen := NewSemantic()
	ctx := context.Background()

	base, err := gen.Process(ctx, "goroutines channels select concurrency patterns")
	require.NoError(t, err)
	related, err := gen.Process(ctx, "goroutines channels select concurrency deadlock")
	require.NoError(t, err)
	unrelated, err := gen.Process(ctx, "sourdough hydration proofing oven scoring")
	require.NoError(t, err)

	dRelated := base.Coordinates.DistanceTo(related.Coordinates)
	dUnrelated := base.Coordinates.DistanceTo(unrelated.Coordinates)
	assert.Less(t, dRelated, dUnrelated,
		"texts sharing four of five tokens must land closer than disjoint texts")
}

func TestSemantic_EmptyText(t *testing.T) {
	gen := NewSemantic()

	res, err := gen.Process(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, core.Coordinates{}, res.Coordinates)
	assert.Empty(t, res.Summary)
	assert.NotEmpty(t, res.Key)
}

func TestSemantic_TokenizationIgnoresCaseAndPunctuation(t *testing.T) {
	gen := NewSemantic()
	ctx := context.Background()

	a, err := gen.Process(ctx, "Hello, World!")
	require.NoError(t, err)
	b, err := gen.Process(ctx, "hello world")
	require.NoError(t, err)

	// Same tokens, different raw text: coordinates agree, keys differ on the
	// content hash suffix.
	assert.Equal(t, a.Coordinates, b.Coordinates)
	assert.NotEqual(t, a.Key, b.Key)
}

func TestDeriveKey(t *testing.T) {
	coords := core.Coordinates{X: 1.2345, Y: -0.5}

	key := DeriveKey(coords, "some text")
	assert.True(t, strings.HasPrefix(key, coords.Fragment()+"_"))
	assert.Equal(t, key, DeriveKey(coords, "some text"))
	assert.NotEqual(t, key, DeriveKey(coords, "other text"))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "", Summarize("   "))
	assert.Equal(t, "short text", Summarize("short  text"))

	long := strings.Repeat("word ", 20)
	sum := Summarize(long)
	assert.True(t, strings.HasSuffix(sum, "..."))
	assert.Len(t, strings.Fields(sum), 12)
}
