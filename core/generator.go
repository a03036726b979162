package core

import "context"

// GeneratorResult is the output of processing a text through a coordinate
// generator: a unique key, a point in the 9D coordinate space and a short
// human-readable summary.
type GeneratorResult struct {
	Key         string
	Coordinates Coordinates
	Summary     string
}

// CoordinateGenerator turns raw text into semantic coordinates. Repeated
// calls on identical text must yield comparable coordinates; key uniqueness
// across distinct inputs is assumed by callers, not verified.
type CoordinateGenerator interface {
	Process(ctx context.Context, text string) (*GeneratorResult, error)
}
