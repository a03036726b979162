package api

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hupe1980/stmgo/core"
)

// ExportFormat selects the export rendering.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

// ExportInfo describes an export run.
type ExportInfo struct {
	ExportTimestamp     float64 `json:"export_timestamp"`
	ExportDatetime      string  `json:"export_datetime"`
	TotalConversations  int     `json:"total_conversations"`
	IncludesCoordinates bool    `json:"includes_coordinates"`
}

// ExportResponse carries all resident conversations sorted by timestamp.
// For JSON exports, Conversations is populated; for CSV exports, Headers and
// Rows hold a table ready for a csv writer.
type ExportResponse struct {
	Result
	Format        ExportFormat `json:"format"`
	Info          ExportInfo   `json:"export_info"`
	Conversations []core.Entry `json:"conversations,omitempty"`
	Headers       []string     `json:"headers,omitempty"`
	Rows          [][]string   `json:"rows,omitempty"`
}

// ExportConversations exports the resident window, oldest first.
func (a *API) ExportConversations(format ExportFormat, includeCoordinates bool) ExportResponse {
	entries := a.stm.GetRecent(a.stm.Stats().MaxEntries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp < entries[j].Timestamp
	})

	now := time.Now()
	info := ExportInfo{
		ExportTimestamp:     float64(now.UnixNano()) / float64(time.Second),
		ExportDatetime:      now.Format(time.RFC3339Nano),
		TotalConversations:  len(entries),
		IncludesCoordinates: includeCoordinates,
	}

	switch format {
	case ExportJSON:
		if !includeCoordinates {
			for i := range entries {
				entries[i].Coordinates = core.Coordinates{}
				entries[i].Key = ""
			}
		}
		return ExportResponse{
			Result:        okResult(),
			Format:        ExportJSON,
			Info:          info,
			Conversations: entries,
		}

	case ExportCSV:
		headers := []string{"timestamp", "datetime", "user_message", "ai_response", "semantic_summary"}
		if includeCoordinates {
			headers = append(headers, "coordinate_key",
				"coord_x", "coord_y", "coord_z", "coord_a", "coord_b",
				"coord_c", "coord_d", "coord_e", "coord_f")
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			row := []string{
				strconv.FormatFloat(e.Timestamp, 'f', -1, 64),
				e.DateTime,
				e.UserInput,
				e.AIResponse,
				e.Summary,
			}
			if includeCoordinates {
				row = append(row, e.Key)
				for _, v := range e.Coordinates.Slice() {
					row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
				}
			}
			rows = append(rows, row)
		}
		return ExportResponse{
			Result:  okResult(),
			Format:  ExportCSV,
			Info:    info,
			Headers: headers,
			Rows:    rows,
		}

	default:
		return ExportResponse{
			Result: errResult(fmt.Errorf("unsupported format %q: use %q or %q", format, ExportJSON, ExportCSV)),
			Format: format,
		}
	}
}
