package core

import "context"

// PromotionSource is the metadata tag identifying entries that arrived in a
// long-term store through short-term cache eviction.
const PromotionSource = "stm_promotion"

// LongTermStore durably accepts entries promoted out of the short-term cache.
// Store may fail; the cache treats such failures as non-fatal (the evicted
// entry is already gone from the resident set). Cleanup is called once at
// shutdown if the store was ever instantiated.
type LongTermStore interface {
	Store(ctx context.Context, text string, metadata map[string]any) (string, error)
	Cleanup() error
}

// LongTermFactory constructs a LongTermStore on first use. Promotion dials
// the store lazily so that an idle cache never pays the backend's startup
// cost.
type LongTermFactory func() (LongTermStore, error)
