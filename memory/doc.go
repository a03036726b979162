// Package memory contains the resident short-term cache: a capacity-bounded
// map of conversation exchanges keyed by their coordinate key, ordered by
// insertion for FIFO eviction. Overflowing entries are promoted to a
// core.LongTermStore. Coordinate-distance search runs as a linear scan over
// the resident set; the set is capped by MaxEntries, so per-query cost stays
// bounded by construction.
//
// The store owns capacity, the change generation and the operation counters. The
// persistence engine in package persist reads consistent snapshots through
// the SnapshotState/Restore methods.
package memory
