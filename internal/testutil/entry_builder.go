package testutil

import (
	"time"

	"github.com/hupe1980/stmgo/core"
)

// EntryBuilder helps construct entries with fluent chaining for tests.
// Example:
//
//	e := NewEntryBuilder("k1").Coords(1, 0, 0).Texts("hi", "hello").Build()
type EntryBuilder struct {
	entry core.Entry
}

// NewEntryBuilder creates a builder for an entry with the given key.
func NewEntryBuilder(key string) *EntryBuilder {
	now := time.Now()
	return &EntryBuilder{entry: core.Entry{
		Key:       key,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		DateTime:  now.Format(time.RFC3339Nano),
	}}
}

// Coords sets the leading dimensions (X, Y, Z); remaining dimensions stay 0 (chainable).
func (b *EntryBuilder) Coords(x, y, z float64) *EntryBuilder {
	b.entry.Coordinates.X, b.entry.Coordinates.Y, b.entry.Coordinates.Z = x, y, z
	return b
}

// Coordinates sets the full coordinate point (chainable).
func (b *EntryBuilder) Coordinates(c core.Coordinates) *EntryBuilder {
	b.entry.Coordinates = c
	return b
}

// Texts sets both halves of the exchange and the derived full context (chainable).
func (b *EntryBuilder) Texts(userInput, aiResponse string) *EntryBuilder {
	b.entry.UserInput = userInput
	b.entry.AIResponse = aiResponse
	b.entry.FullContext = "User: " + userInput + "\nAI: " + aiResponse
	return b
}

// Summary sets the semantic summary (chainable).
func (b *EntryBuilder) Summary(s string) *EntryBuilder {
	b.entry.Summary = s
	return b
}

// Timestamp overrides the creation timestamp (chainable).
func (b *EntryBuilder) Timestamp(ts float64) *EntryBuilder {
	b.entry.Timestamp = ts
	return b
}

// Metadata sets one metadata key/value pair (chainable).
func (b *EntryBuilder) Metadata(key string, val any) *EntryBuilder {
	if b.entry.Metadata == nil {
		b.entry.Metadata = map[string]any{}
	}
	b.entry.Metadata[key] = val
	return b
}

// Build returns the constructed entry.
func (b *EntryBuilder) Build() core.Entry {
	return b.entry
}
