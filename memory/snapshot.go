package memory

import (
	"sort"

	"github.com/hupe1980/stmgo/core"
)

// SnapshotState returns a consistent copy of the entry map, order queue and
// counters for serialization. The copy is taken under the read lock, so a
// concurrent add observes either the pre- or post-insert state, never a torn
// structure. Snapshots are best-effort with respect to in-flight adds.
func (s *Store) SnapshotState() (map[string]core.Entry, []string, core.Counters) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make(map[string]core.Entry, len(s.entries))
	for k, v := range s.entries {
		entries[k] = v.Clone()
	}
	order := make([]string, len(s.order))
	copy(order, s.order)

	return entries, order, s.counters
}

// Generation returns the current change generation. Read it before
// SnapshotState so a mutation racing the snapshot can only make the observed
// generation stale, never ahead of the snapshot's content.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Dirty reports whether in-memory state changed since the last completed save.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen != s.savedGen
}

// MarkSaved records that the state as of generation gen reached durable
// storage and counts a completed save. Mutations after gen keep the store
// dirty. Called by the persistence engine.
func (s *Store) MarkSaved(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedGen = gen
	s.counters.SavesCompleted++
}

// Restore replaces the resident state with a recovered snapshot and counts a
// load recovery. Order keys without a matching entry are dropped so the
// map/queue bijection holds even for snapshots written by older versions.
func (s *Store) Restore(entries map[string]core.Entry, order []string, counters core.Counters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]core.Entry, len(entries))
	for k, v := range entries {
		s.entries[k] = v
	}
	s.order = s.order[:0]
	queued := make(map[string]struct{}, len(order))
	for _, key := range order {
		if _, dup := queued[key]; dup {
			continue
		}
		if _, ok := s.entries[key]; ok {
			s.order = append(s.order, key)
			queued[key] = struct{}{}
		}
	}
	// Entries the snapshot holds but never queued are re-queued by age so the
	// map and the queue stay a bijection.
	var orphans []string
	for key := range s.entries {
		if _, ok := queued[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	sort.Slice(orphans, func(i, j int) bool {
		return s.entries[orphans[i]].Timestamp < s.entries[orphans[j]].Timestamp
	})
	s.order = append(s.order, orphans...)

	s.counters = counters
	s.counters.LoadRecoveries++
	s.gen++
	s.savedGen = s.gen
}
