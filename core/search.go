package core

// SearchMatch is one ranked result of a coordinate-distance search.
//
// RelevanceScore is threshold-relative, not absolute: it is computed as
// 1 - (distance / maxDistance) against the caller-chosen threshold, so the
// same entry can score differently across calls with different thresholds.
type SearchMatch struct {
	Entry          Entry   `json:"entry"`
	Distance       float64 `json:"distance"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ContextBundle combines the most recent exchanges with semantically relevant
// ones for a query, after removing relevant entries already present in the
// recent window.
type ContextBundle struct {
	Recent       []Entry `json:"recent_context"`
	Relevant     []Entry `json:"relevant_context"`
	TotalEntries int     `json:"total_context_entries"`
	QuerySummary string  `json:"query_summary"`
}
