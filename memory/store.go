package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/stmgo/core"
	"github.com/hupe1980/stmgo/logging"
)

// DefaultMaxDistance is the relevance threshold used when a caller does not
// supply one, matching the coordinate space's typical cluster radius.
const DefaultMaxDistance = 2.0

// Options configure a Store.
type Options struct {
	// MaxEntries bounds the resident set. An add that would exceed it evicts
	// the oldest entry before returning.
	MaxEntries int

	// LongTerm constructs the promotion target on first eviction. Defaults
	// to a no-op nil store (promotions are dropped with a warning).
	LongTerm core.LongTermFactory

	// Logger receives promotion and eviction diagnostics.
	Logger logging.Logger
}

// Store is the memory-resident entry table. It is safe for concurrent use;
// a single RWMutex guards the entry map, the insertion-order queue, the
// counters and the change generation so background snapshot reads never
// observe a torn structure.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]core.Entry
	order    []string
	counters core.Counters

	// gen counts mutations; savedGen is the generation of the last completed
	// save. The store is dirty while they differ, so a mutation landing after
	// a snapshot was taken keeps the store dirty through that save's
	// completion.
	gen      uint64
	savedGen uint64

	maxEntries int
	generator  core.CoordinateGenerator
	logger     logging.Logger

	ltMu      sync.Mutex
	ltFactory core.LongTermFactory
	longTerm  core.LongTermStore
	ltErr     error
}

// NewStore creates a Store backed by the given coordinate generator.
func NewStore(generator core.CoordinateGenerator, optFns ...func(o *Options)) *Store {
	opts := Options{
		MaxEntries: 100,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		entries:    make(map[string]core.Entry),
		order:      make([]string, 0, opts.MaxEntries),
		maxEntries: opts.MaxEntries,
		generator:  generator,
		ltFactory:  opts.LongTerm,
		logger:     opts.Logger,
	}
}

// AddExchange stores one conversation exchange and returns a copy of the
// stored entry. The generator runs on the concatenated exchange text; a
// generator failure leaves the store untouched. If the insert pushes the
// store over capacity the single oldest entry is evicted and promoted before
// AddExchange returns. Persistence is never awaited here.
func (s *Store) AddExchange(ctx context.Context, userInput, aiResponse string, metadata map[string]any) (core.Entry, error) {
	fullContext := fmt.Sprintf("User: %s\nAI: %s", userInput, aiResponse)

	res, err := s.generator.Process(ctx, fullContext)
	if err != nil {
		return core.Entry{}, fmt.Errorf("%w: %v", core.ErrGenerator, err)
	}

	entry := core.NewEntry(res, userInput, aiResponse, fullContext, metadata)

	s.mu.Lock()
	if _, exists := s.entries[entry.Key]; exists {
		// Re-adding an identical exchange replaces the old entry and
		// refreshes its queue position, preserving the map/queue bijection.
		s.removeFromOrderLocked(entry.Key)
	}
	s.entries[entry.Key] = entry
	s.order = append(s.order, entry.Key)
	s.gen++
	s.counters.TotalAdded++

	var evicted *core.Entry
	if len(s.entries) > s.maxEntries {
		if e, ok := s.popOldestLocked(); ok {
			evicted = &e
		}
	}
	s.mu.Unlock()

	if evicted != nil {
		s.promote(ctx, *evicted)
	}

	return entry.Clone(), nil
}

// Search ranks resident entries by Euclidean distance to the query's
// coordinates, keeping those within maxDistance, closest first. Ties are
// broken by insertion order (earliest first). An empty store returns
// immediately without invoking the generator. A non-positive maxDistance
// yields no matches.
func (s *Store) Search(ctx context.Context, query string, topK int, maxDistance float64) ([]core.SearchMatch, error) {
	s.mu.RLock()
	empty := len(s.entries) == 0
	s.mu.RUnlock()
	if empty {
		return []core.SearchMatch{}, nil
	}

	if maxDistance <= 0 {
		s.mu.Lock()
		s.counters.TotalSearches++
		s.mu.Unlock()
		return []core.SearchMatch{}, nil
	}

	res, err := s.generator.Process(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrGenerator, err)
	}

	return s.searchCoordinates(res.Coordinates, topK, maxDistance), nil
}

// searchCoordinates is the scan core shared by Search and BuildContext.
// Iterating the order queue (not the map) makes equal-distance ranking
// deterministic.
func (s *Store) searchCoordinates(query core.Coordinates, topK int, maxDistance float64) []core.SearchMatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]core.SearchMatch, 0, len(s.order))
	for _, key := range s.order {
		entry, ok := s.entries[key]
		if !ok {
			continue
		}
		distance := query.DistanceTo(entry.Coordinates)
		if distance > maxDistance {
			continue
		}
		matches = append(matches, core.SearchMatch{
			Entry:          entry.Clone(),
			Distance:       distance,
			RelevanceScore: 1.0 - distance/maxDistance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if topK < 0 {
		topK = 0
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}

	s.counters.TotalSearches++
	s.counters.CacheHits += int64(len(matches))

	return matches
}

// GetRecent returns up to the last n inserted entries, oldest of the window
// first. A non-positive n yields an empty slice.
func (s *Store) GetRecent(n int) []core.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || len(s.order) == 0 {
		return []core.Entry{}
	}
	start := len(s.order) - n
	if start < 0 {
		start = 0
	}

	recent := make([]core.Entry, 0, len(s.order)-start)
	for _, key := range s.order[start:] {
		if entry, ok := s.entries[key]; ok {
			recent = append(recent, entry.Clone())
		}
	}
	return recent
}

// BuildContext combines the most recent exchanges with entries semantically
// relevant to userInput, dropping relevant entries that already appear in the
// recent window. The generator runs once; its summary becomes QuerySummary.
func (s *Store) BuildContext(ctx context.Context, userInput string, recentCount, relevantCount int) (*core.ContextBundle, error) {
	res, err := s.generator.Process(ctx, userInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrGenerator, err)
	}

	recent := s.GetRecent(recentCount)

	var matches []core.SearchMatch
	s.mu.RLock()
	empty := len(s.entries) == 0
	s.mu.RUnlock()
	if !empty {
		matches = s.searchCoordinates(res.Coordinates, relevantCount, DefaultMaxDistance)
	}

	seen := make(map[string]struct{}, len(recent))
	for _, e := range recent {
		seen[e.Key] = struct{}{}
	}

	relevant := make([]core.Entry, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m.Entry.Key]; dup {
			continue
		}
		relevant = append(relevant, m.Entry)
	}

	return &core.ContextBundle{
		Recent:       recent,
		Relevant:     relevant,
		TotalEntries: len(recent) + len(relevant),
		QuerySummary: res.Summary,
	}, nil
}

// Clear removes all entries and order records and marks the store dirty. It
// does not persist by itself.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]core.Entry)
	s.order = s.order[:0]
	s.gen++
}

// Len returns the resident entry count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// MaxEntries returns the configured capacity.
func (s *Store) MaxEntries() int { return s.maxEntries }

// Counters returns a copy of the operation counters.
func (s *Store) Counters() core.Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

// popOldestLocked removes the head of the order queue and its map entry.
// Caller must hold the write lock.
func (s *Store) popOldestLocked() (core.Entry, bool) {
	for len(s.order) > 0 {
		key := s.order[0]
		s.order = s.order[1:]
		if entry, ok := s.entries[key]; ok {
			delete(s.entries, key)
			return entry, true
		}
	}
	return core.Entry{}, false
}

func (s *Store) removeFromOrderLocked(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
