// Package core provides the foundational domain types and interfaces used by
// stmgo. It defines the core abstractions for:
//
//   - Entries (stored conversation exchanges with 9D coordinates)
//   - Coordinates (the fixed 9-dimensional semantic coordinate space)
//   - Pluggable coordinate generators (text -> key, coordinates, summary)
//   - Pluggable long-term stores receiving promoted entries
//   - Statistics and save-status reporting
//
// The package intentionally keeps implementation concerns (persistence,
// eviction, concrete generators) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
