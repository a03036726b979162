package core

import "time"

// Entry is one stored conversation exchange together with its semantic
// coordinates. Entries are immutable after creation; they are removed only by
// capacity eviction (promotion to long-term storage) or an explicit clear.
//
// JSON field names match the persisted snapshot vocabulary so snapshots
// written by older deployments keep decoding.
type Entry struct {
	Key         string         `json:"coord_key"`
	Coordinates Coordinates    `json:"coordinates"`
	Summary     string         `json:"semantic_summary"`
	UserInput   string         `json:"user_input"`
	AIResponse  string         `json:"ai_response"`
	FullContext string         `json:"full_context"`
	Timestamp   float64        `json:"timestamp"`
	DateTime    string         `json:"datetime"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewEntry builds an Entry from a generator result and the two halves of the
// exchange, stamping it with the current wall-clock time.
func NewEntry(res *GeneratorResult, userInput, aiResponse, fullContext string, metadata map[string]any) Entry {
	now := time.Now()
	return Entry{
		Key:         res.Key,
		Coordinates: res.Coordinates,
		Summary:     res.Summary,
		UserInput:   userInput,
		AIResponse:  aiResponse,
		FullContext: fullContext,
		Timestamp:   float64(now.UnixNano()) / float64(time.Second),
		DateTime:    now.Format(time.RFC3339Nano),
		Metadata:    metadata,
	}
}

// Clone returns a copy of the entry with its metadata map duplicated so
// callers cannot mutate shared state.
func (e Entry) Clone() Entry {
	clone := e
	if e.Metadata != nil {
		clone.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
