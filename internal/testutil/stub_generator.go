package testutil

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/hupe1980/stmgo/core"
)

// StubGenerator is a scripted core.CoordinateGenerator. Texts registered via
// Map get fixed coordinates; unknown texts get zero coordinates and a key
// derived from the text. Set Err to make every call fail.
type StubGenerator struct {
	mu      sync.Mutex
	results map[string]core.GeneratorResult
	Err     error
	Calls   int
}

var _ core.CoordinateGenerator = (*StubGenerator)(nil)

// NewStubGenerator creates an empty scripted generator.
func NewStubGenerator() *StubGenerator {
	return &StubGenerator{results: make(map[string]core.GeneratorResult)}
}

// Map registers a fixed result for the exact text.
func (g *StubGenerator) Map(text, key string, coords core.Coordinates) *StubGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.results[text] = core.GeneratorResult{Key: key, Coordinates: coords, Summary: Truncate(text, 40)}
	return g
}

// Process returns the scripted result for the text.
func (g *StubGenerator) Process(_ context.Context, text string) (*core.GeneratorResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	if g.Err != nil {
		return nil, g.Err
	}
	if res, ok := g.results[text]; ok {
		r := res
		return &r, nil
	}
	h := fnv.New64a()
	h.Write([]byte(text))
	return &core.GeneratorResult{
		Key:     fmt.Sprintf("stub_%016x", h.Sum64()),
		Summary: Truncate(text, 40),
	}, nil
}

// Truncate shortens s to at most n bytes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
