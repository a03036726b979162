package generator

import "context"

// Summarizer produces the human-readable summary attached to generator
// results. Implementations may call a model; Process wrappers fall back to
// the heuristic Summarize on failure so an add never dies on a cosmetic step.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
