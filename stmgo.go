// Package stmgo provides a crash-safe semantic short-term memory cache for
// conversational systems. It keeps a bounded window of recent exchanges in
// RAM, indexes them by 9-dimensional semantic coordinates for
// distance-ranked retrieval, persists them through rolling A/B snapshot
// files that survive a crash mid-write, and promotes overflowing entries to
// a pluggable long-term store. Most applications interact with this package
// by:
//  1. Creating an STM via New() (optionally overriding the generator,
//     long-term store, codec or logger)
//  2. Recording exchanges with AddExchange as the conversation proceeds
//  3. Retrieving context with Search, GetRecent or BuildContext
//  4. Calling Shutdown at exit for a final durable save
//
// All defaults are safe for local development and testing; production
// deployments typically supply an embedding-backed generator, a durable
// long-term store and a structured logger.
package stmgo

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/stmgo/codec"
	"github.com/hupe1980/stmgo/core"
	"github.com/hupe1980/stmgo/generator"
	"github.com/hupe1980/stmgo/internal/fs"
	"github.com/hupe1980/stmgo/logging"
	"github.com/hupe1980/stmgo/memory"
	"github.com/hupe1980/stmgo/persist"
)

// Options configure an STM instance.
type Options struct {
	// MaxEntries bounds the resident cache window.
	MaxEntries int

	// SaveInterval is the minimum quiet period between background saves.
	SaveInterval time.Duration

	// Generator turns text into coordinates. Defaults to the deterministic
	// hash-projection generator.
	Generator core.CoordinateGenerator

	// LongTerm constructs the promotion target on first eviction. Defaults
	// to an in-process store factory supplied by the caller; when nil,
	// evicted entries are dropped with a warning.
	LongTerm core.LongTermFactory

	// Codec encodes snapshot files. Defaults to plain JSON.
	Codec codec.Codec

	// Logger receives background diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// STM is the high-level façade aggregating the resident store and the
// persistence engine.
type STM struct {
	opts   Options
	store  *memory.Store
	engine *persist.Engine
}

// DefaultDataDir is used when New is called with an empty directory.
const DefaultDataDir = "stm_data"

// New creates an STM persisting into dir (created if absent) and recovers any
// prior state from the newest valid snapshot slot. An empty dir selects
// DefaultDataDir.
func New(dir string, optFns ...func(o *Options)) (*STM, error) {
	opts := Options{
		MaxEntries:   100,
		SaveInterval: 30 * time.Second,
		Generator:    generator.NewSemantic(),
		Codec:        codec.Default,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if dir == "" {
		dir = DefaultDataDir
	}
	if err := fs.Default.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	store := memory.NewStore(opts.Generator, func(o *memory.Options) {
		o.MaxEntries = opts.MaxEntries
		o.LongTerm = opts.LongTerm
		o.Logger = opts.Logger
	})

	engine := persist.NewEngine(fs.Default, dir, store, func(o *persist.Options) {
		o.SaveInterval = opts.SaveInterval
		o.MaxEntries = opts.MaxEntries
		o.Codec = opts.Codec
		o.Logger = opts.Logger
	})

	if err := engine.Load(); err != nil && !errors.Is(err, persist.ErrNoSnapshot) {
		return nil, err
	}

	return &STM{opts: opts, store: store, engine: engine}, nil
}

// AddExchange records one conversation exchange and returns the stored entry
// (key, coordinates and summary included). The in-memory insert (and any
// capacity eviction) completes before returning; persistence happens in the
// background once the save interval elapses.
func (s *STM) AddExchange(ctx context.Context, userInput, aiResponse string, metadata map[string]any) (core.Entry, error) {
	entry, err := s.store.AddExchange(ctx, userInput, aiResponse, metadata)
	if err != nil {
		return core.Entry{}, err
	}
	s.engine.MaybeSave()
	return entry, nil
}

// Search returns up to topK resident entries within maxDistance of the
// query's coordinates, closest first.
func (s *STM) Search(ctx context.Context, query string, topK int, maxDistance float64) ([]core.SearchMatch, error) {
	return s.store.Search(ctx, query, topK, maxDistance)
}

// GetRecent returns up to the last n recorded exchanges in insertion order.
func (s *STM) GetRecent(n int) []core.Entry {
	return s.store.GetRecent(n)
}

// BuildContext combines recent and semantically relevant exchanges for the
// given input, de-duplicated against each other.
func (s *STM) BuildContext(ctx context.Context, userInput string, recentCount, relevantCount int) (*core.ContextBundle, error) {
	return s.store.BuildContext(ctx, userInput, recentCount, relevantCount)
}

// Stats reports counters and derived metrics for the cache.
func (s *STM) Stats() core.Stats {
	status := s.engine.Status()
	n := s.store.Len()
	return core.Stats{
		Counters:         s.store.Counters(),
		CurrentEntries:   n,
		MaxEntries:       s.store.MaxEntries(),
		SaveInterval:     s.opts.SaveInterval.Seconds(),
		CurrentTarget:    status.CurrentTarget,
		SecondsSinceSave: status.SecondsSinceSave,
		Dirty:            status.Dirty,
		MemoryUsageMB:    core.EstimateMemoryMB(n),
	}
}

// SaveStatus reports the persistence engine's view of the slot pair.
func (s *STM) SaveStatus() core.SaveStatus {
	return s.engine.Status()
}

// ForceSave performs a synchronous save if unsaved changes exist.
func (s *STM) ForceSave() error {
	return s.engine.ForceSave()
}

// Clear removes all resident entries. The cleared state is persisted on the
// next save.
func (s *STM) Clear() {
	s.store.Clear()
}

// Shutdown waits for any in-flight background save, performs a final
// synchronous save and releases the long-term store if it was ever
// instantiated.
func (s *STM) Shutdown() error {
	s.engine.Wait()
	saveErr := s.engine.ForceSave()
	cleanupErr := s.store.CleanupLongTerm()
	if saveErr != nil {
		return saveErr
	}
	return cleanupErr
}
