// Package generator contains concrete core.CoordinateGenerator
// implementations. The contract itself lives in the core package; select an
// implementation at wiring time:
//
//   - Semantic: deterministic, dependency-free hash projection. Identical
//     text always maps to identical coordinates, which makes it the default
//     for offline use and tests.
//   - generator/openai: projects OpenAI embeddings down to the 9-dimensional
//     coordinate space.
//   - generator/anthropic: an optional Summarizer producing model-written
//     summaries instead of the heuristic truncation.
package generator
