package generator

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/hupe1980/stmgo/core"
)

// coordinateScale spreads token projections so that unrelated texts land a
// few units apart while overlapping texts cluster inside the default search
// threshold.
const coordinateScale = 2.0

// Semantic is a deterministic, process-local coordinate generator. Each token
// of the input is hashed into a point on the 9D hypercube and the text maps
// to the centroid of its token points, so texts sharing vocabulary land close
// together. No model calls, no network, identical input means identical
// output.
type Semantic struct{}

// NewSemantic creates the deterministic hash-projection generator.
func NewSemantic() *Semantic { return &Semantic{} }

var _ core.CoordinateGenerator = (*Semantic)(nil)

// Process maps text to a key, coordinates and a summary.
func (g *Semantic) Process(_ context.Context, text string) (*core.GeneratorResult, error) {
	tokens := tokenize(text)

	var dims [core.NumDimensions]float64
	if len(tokens) > 0 {
		for _, token := range tokens {
			for d := 0; d < core.NumDimensions; d++ {
				dims[d] += tokenProjection(token, d)
			}
		}
		for d := range dims {
			dims[d] = dims[d] / float64(len(tokens)) * coordinateScale
		}
	}

	coords := core.Coordinates{
		X: dims[0], Y: dims[1], Z: dims[2],
		A: dims[3], B: dims[4], C: dims[5],
		D: dims[6], E: dims[7], F: dims[8],
	}

	return &core.GeneratorResult{
		Key:         DeriveKey(coords, text),
		Coordinates: coords,
		Summary:     Summarize(text),
	}, nil
}

// tokenProjection maps a token to a value in [-1, 1] for one dimension.
func tokenProjection(token string, dim int) float64 {
	h := fnv.New64a()
	h.Write([]byte{byte(dim)})
	h.Write([]byte(token))
	return float64(h.Sum64())/float64(math.MaxUint64)*2 - 1
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
