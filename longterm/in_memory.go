package longterm

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/stmgo/core"
)

// ErrNotFound is returned when an archived record does not exist.
var ErrNotFound = fmt.Errorf("archived record not found")

// ArchivedRecord is the internal representation persisted by InMemoryStore.
type ArchivedRecord struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// InMemoryStore is a volatile LongTermStore keeping promoted entries in a
// process-local map. Safe for concurrent use; best suited for tests and
// ephemeral setups where promotions only need to outlive the cache window.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]ArchivedRecord
}

var _ core.LongTermStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory long-term store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]ArchivedRecord)}
}

// Store archives the text with its metadata under a fresh archival id.
func (s *InMemoryStore) Store(_ context.Context, text string, metadata map[string]any) (string, error) {
	md := make(map[string]any, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}

	id := "ltm_" + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = ArchivedRecord{ID: id, Text: text, Metadata: md}
	return id, nil
}

// Get returns an archived record by id.
func (s *InMemoryStore) Get(id string) (ArchivedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return ArchivedRecord{}, ErrNotFound
	}
	return rec, nil
}

// Len returns the number of archived records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Cleanup releases the store. A no-op for the in-memory backend.
func (s *InMemoryStore) Cleanup() error { return nil }
