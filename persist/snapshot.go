package persist

import "github.com/hupe1980/stmgo/core"

// Slot names one of the two rotating save targets.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

// Other returns the opposite slot.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Snapshot is the serialized image written to a slot file. Field names form
// the on-disk contract; SaveTimestamp is a pointer so recovery can tell a
// missing field from an explicit zero.
type Snapshot struct {
	SaveTimestamp *float64              `json:"save_timestamp,omitempty"`
	SaveDatetime  string                `json:"save_datetime"`
	SaveTarget    Slot                  `json:"save_target"`
	EntryCount    int                   `json:"entry_count"`
	MaxEntries    int                   `json:"max_entries"`
	SaveInterval  float64               `json:"save_interval"`
	Stats         core.Counters         `json:"stats"`
	Entries       map[string]core.Entry `json:"stm_entries"`
	EntryOrder    []string              `json:"entry_order"`
}

// Valid reports whether the snapshot carries the fields recovery requires.
// Anything else is treated as corrupt and skipped.
func (s *Snapshot) Valid() bool {
	return s != nil && s.SaveTimestamp != nil && s.Entries != nil && s.EntryOrder != nil
}
