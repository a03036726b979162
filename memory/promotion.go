package memory

import (
	"context"

	"github.com/hupe1980/stmgo/core"
)

// promote forwards an evicted entry to the long-term store. The entry has
// already left the resident set; a failing promotion is logged and the data
// is lost. This lossy-eviction policy is deliberate: durability of promoted
// data is the long-term store's responsibility, not the cache's.
func (s *Store) promote(ctx context.Context, entry core.Entry) {
	lt, err := s.longTermStore()
	if err != nil {
		s.logger.Error("promotion skipped, long-term store unavailable",
			"key", entry.Key, "error", err)
		return
	}
	if lt == nil {
		s.logger.Warn("promotion dropped, no long-term store configured", "key", entry.Key)
		return
	}

	metadata := map[string]any{
		"source":             core.PromotionSource,
		"original_timestamp": entry.Timestamp,
		"original_coord_key": entry.Key,
		"user_input":         entry.UserInput,
		"ai_response":        entry.AIResponse,
		"semantic_summary":   entry.Summary,
	}

	archivalID, err := lt.Store(ctx, entry.FullContext, metadata)
	if err != nil {
		s.logger.Error("promotion failed, evicted entry lost",
			"key", entry.Key, "error", err)
		return
	}

	s.mu.Lock()
	s.counters.TotalPromoted++
	s.gen++
	s.mu.Unlock()

	s.logger.Debug("entry promoted to long-term store",
		"key", entry.Key, "archival_id", archivalID, "summary", entry.Summary)
}

// longTermStore dials the configured factory exactly once. Constructing the
// backend on first promotion keeps startup cheap when the cache never fills.
func (s *Store) longTermStore() (core.LongTermStore, error) {
	s.ltMu.Lock()
	defer s.ltMu.Unlock()
	if s.ltFactory == nil {
		return nil, nil
	}
	if s.longTerm == nil && s.ltErr == nil {
		s.longTerm, s.ltErr = s.ltFactory()
	}
	return s.longTerm, s.ltErr
}

// CleanupLongTerm releases the long-term store if a promotion ever
// instantiated it. Called from the shutdown path.
func (s *Store) CleanupLongTerm() error {
	s.ltMu.Lock()
	lt := s.longTerm
	s.ltMu.Unlock()
	if lt == nil {
		return nil
	}
	return lt.Cleanup()
}
