// Package anthropic provides a generator.Summarizer backed by the Anthropic
// Messages API. It produces model-written one-line summaries for stored
// exchanges; coordinate generation itself stays with the configured
// coordinate generator.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/stmgo/generator"
)

const summaryPrompt = "Summarize the following conversation exchange in one short sentence. Reply with the sentence only.\n\n"

// Options configure the summarizer.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
}

// Summarizer implements generator.Summarizer using the Anthropic Messages API.
type Summarizer struct {
	client *anthropic.Client
	opts   Options
}

var _ generator.Summarizer = (*Summarizer)(nil)

// New creates a summarizer using the default Anthropic client (credentials
// from the environment).
func New(optFns ...func(o *Options)) *Summarizer {
	client := anthropic.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a summarizer from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Summarizer {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 128,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Summarizer{client: client, opts: opts}
}

// Summarize asks the model for a one-line summary of the text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     s.opts.Model,
		MaxTokens: s.opts.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(summaryPrompt + text)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic summarize: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
