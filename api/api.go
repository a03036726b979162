package api

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/stmgo"
	"github.com/hupe1980/stmgo/core"
)

// ErrConfirmRequired is reported when a destructive operation is invoked
// without explicit confirmation.
var ErrConfirmRequired = errors.New("must confirm to clear memory")

// Result is the uniform envelope carried by every API response.
type Result struct {
	Success   bool    `json:"success"`
	Error     string  `json:"error,omitempty"`
	Timestamp float64 `json:"timestamp"`
}

func okResult() Result {
	return Result{Success: true, Timestamp: nowSeconds()}
}

func errResult(err error) Result {
	return Result{Success: false, Error: err.Error(), Timestamp: nowSeconds()}
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// AddResponse is returned by AddConversation.
type AddResponse struct {
	Result
	CoordinateKey string           `json:"coordinate_key,omitempty"`
	Summary       string           `json:"semantic_summary,omitempty"`
	Coordinates   core.Coordinates `json:"coordinates,omitempty"`
	TotalEntries  int              `json:"total_entries"`
}

// SearchResponse is returned by SearchRelevant.
type SearchResponse struct {
	Result
	Query      string             `json:"query"`
	Results    []core.SearchMatch `json:"results"`
	TotalFound int                `json:"total_found"`
}

// ContextResponse is returned by GetContext.
type ContextResponse struct {
	Result
	UserInput string              `json:"user_input"`
	Context   *core.ContextBundle `json:"context,omitempty"`
}

// RecentResponse is returned by GetRecentConversations.
type RecentResponse struct {
	Result
	Conversations []core.Entry `json:"conversations"`
	Count         int          `json:"count"`
}

// StatsResponse is returned by GetStatistics.
type StatsResponse struct {
	Result
	Statistics core.Stats      `json:"statistics"`
	SaveStatus core.SaveStatus `json:"save_status"`
}

// API is the envelope wrapper around an STM instance.
type API struct {
	stm *stmgo.STM
}

// New wraps an existing STM.
func New(stm *stmgo.STM) *API {
	return &API{stm: stm}
}

// AddConversation records an exchange, reporting the stored key, summary and
// coordinates exactly as persisted, regardless of concurrent adds.
func (a *API) AddConversation(ctx context.Context, userMessage, aiResponse string, metadata map[string]any) AddResponse {
	entry, err := a.stm.AddExchange(ctx, userMessage, aiResponse, metadata)
	if err != nil {
		return AddResponse{Result: errResult(err)}
	}

	return AddResponse{
		Result:        okResult(),
		CoordinateKey: entry.Key,
		Summary:       entry.Summary,
		Coordinates:   entry.Coordinates,
		TotalEntries:  a.stm.Stats().CurrentEntries,
	}
}

// SearchRelevant runs a coordinate-distance search over the resident window.
func (a *API) SearchRelevant(ctx context.Context, query string, maxResults int, maxDistance float64) SearchResponse {
	matches, err := a.stm.Search(ctx, query, maxResults, maxDistance)
	if err != nil {
		return SearchResponse{Result: errResult(err), Query: query}
	}
	return SearchResponse{
		Result:     okResult(),
		Query:      query,
		Results:    matches,
		TotalFound: len(matches),
	}
}

// GetContext builds combined recent + relevant context for the input.
func (a *API) GetContext(ctx context.Context, userInput string, recentCount, relevantCount int) ContextResponse {
	bundle, err := a.stm.BuildContext(ctx, userInput, recentCount, relevantCount)
	if err != nil {
		return ContextResponse{Result: errResult(err), UserInput: userInput}
	}
	return ContextResponse{Result: okResult(), UserInput: userInput, Context: bundle}
}

// GetRecentConversations returns the last count exchanges in insertion order.
func (a *API) GetRecentConversations(count int) RecentResponse {
	recent := a.stm.GetRecent(count)
	return RecentResponse{Result: okResult(), Conversations: recent, Count: len(recent)}
}

// GetStatistics reports counters, derived metrics and the save-slot status.
func (a *API) GetStatistics() StatsResponse {
	return StatsResponse{
		Result:     okResult(),
		Statistics: a.stm.Stats(),
		SaveStatus: a.stm.SaveStatus(),
	}
}

// SaveNow forces an immediate synchronous save.
func (a *API) SaveNow() Result {
	if err := a.stm.ForceSave(); err != nil {
		return errResult(err)
	}
	return okResult()
}

// ClearMemory removes every resident conversation. Destructive; requires
// confirm to be true, and persists the emptied state immediately.
func (a *API) ClearMemory(confirm bool) Result {
	if !confirm {
		return errResult(ErrConfirmRequired)
	}
	a.stm.Clear()
	if err := a.stm.ForceSave(); err != nil {
		return errResult(err)
	}
	return okResult()
}

// Shutdown gracefully stops the cache: final save, then long-term store
// release.
func (a *API) Shutdown() Result {
	if err := a.stm.Shutdown(); err != nil {
		return errResult(err)
	}
	return okResult()
}
