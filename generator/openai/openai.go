// Package openai provides a core.CoordinateGenerator backed by the OpenAI
// Embeddings API. The high-dimensional embedding is projected down to the
// 9-dimensional coordinate space by chunked averaging, which preserves
// relative distances well enough for cluster-radius search while keeping the
// persisted format identical to the deterministic generator's.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/stmgo/core"
	"github.com/hupe1980/stmgo/generator"
)

// Options configure the OpenAI generator.
type Options struct {
	// Model is the embedding model identifier.
	Model openai.EmbeddingModel

	// Scale stretches the projected coordinates; larger values spread
	// unrelated texts further apart in the 9D space.
	Scale float64

	// Summarizer overrides the heuristic summary. Optional.
	Summarizer generator.Summarizer
}

// Generator implements core.CoordinateGenerator using OpenAI embeddings.
type Generator struct {
	client *openai.Client
	opts   Options
}

var _ core.CoordinateGenerator = (*Generator)(nil)

// New creates a generator using the default OpenAI client (credentials from
// the environment).
func New(optFns ...func(o *Options)) *Generator {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a generator from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Generator {
	opts := Options{
		Model: openai.EmbeddingModelTextEmbedding3Small,
		Scale: 4.0,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{client: client, opts: opts}
}

// Process embeds the text and projects the embedding into the coordinate space.
func (g *Generator) Process(ctx context.Context, text string) (*core.GeneratorResult, error) {
	resp, err := g.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: g.opts.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embeddings: empty response")
	}

	coords := project(resp.Data[0].Embedding, g.opts.Scale)

	summary := ""
	if g.opts.Summarizer != nil {
		summary, err = g.opts.Summarizer.Summarize(ctx, text)
		if err != nil {
			summary = ""
		}
	}
	if summary == "" {
		summary = generator.Summarize(text)
	}

	return &core.GeneratorResult{
		Key:         generator.DeriveKey(coords, text),
		Coordinates: coords,
		Summary:     summary,
	}, nil
}

// project folds an arbitrary-length embedding into 9 dimensions by averaging
// contiguous chunks. Embeddings from the same model keep their relative
// geometry under this projection.
func project(embedding []float64, scale float64) core.Coordinates {
	var dims [core.NumDimensions]float64
	n := len(embedding)
	chunk := n / core.NumDimensions
	if chunk == 0 {
		chunk = 1
	}
	for d := 0; d < core.NumDimensions; d++ {
		start := d * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if d == core.NumDimensions-1 || end > n {
			end = n
		}
		var sum float64
		for _, v := range embedding[start:end] {
			sum += v
		}
		dims[d] = sum / float64(end-start) * scale
	}
	return core.Coordinates{
		X: dims[0], Y: dims[1], Z: dims[2],
		A: dims[3], B: dims[4], C: dims[5],
		D: dims[6], E: dims[7], F: dims[8],
	}
}
