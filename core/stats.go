package core

// entryMemoryEstimateKB is the fixed per-entry footprint estimate used for
// the derived memory usage metric.
const entryMemoryEstimateKB = 2

// Counters are the plain operation counters maintained by the cache. They are
// persisted inside snapshots and restored on recovery.
type Counters struct {
	TotalAdded     int64 `json:"total_added"`
	TotalPromoted  int64 `json:"total_promoted"`
	TotalSearches  int64 `json:"total_searches"`
	CacheHits      int64 `json:"cache_hits"`
	SavesCompleted int64 `json:"saves_completed"`
	LoadRecoveries int64 `json:"load_recoveries"`
}

// Stats combines the raw counters with derived metrics describing the current
// state of the cache. Read-only for callers; all mutation happens inside the
// cache as side effects of its operations.
type Stats struct {
	Counters
	CurrentEntries   int     `json:"current_entries"`
	MaxEntries       int     `json:"max_entries"`
	SaveInterval     float64 `json:"save_interval"`
	CurrentTarget    string  `json:"current_save_target"`
	SecondsSinceSave float64 `json:"seconds_since_save"`
	Dirty            bool    `json:"dirty"`
	MemoryUsageMB    float64 `json:"memory_usage_mb"`
}

// EstimateMemoryMB approximates the resident footprint of n entries.
func EstimateMemoryMB(n int) float64 {
	return float64(n*entryMemoryEstimateKB) / 1024
}

// SlotFile describes one on-disk snapshot slot file.
type SlotFile struct {
	Exists  bool    `json:"exists"`
	ModTime float64 `json:"mod_time,omitempty"`
	SizeKB  float64 `json:"size_kb,omitempty"`
}

// SaveStatus reports the persistence engine's view of the rolling slot pair.
type SaveStatus struct {
	CurrentTarget    string              `json:"current_target"`
	LastSaveTime     float64             `json:"last_save_time"`
	SecondsSinceSave float64             `json:"seconds_since_save"`
	Dirty            bool                `json:"dirty"`
	Files            map[string]SlotFile `json:"files"`
}

// FilesExist reports per-slot file existence keyed by slot name.
func (s SaveStatus) FilesExist() map[string]bool {
	exist := make(map[string]bool, len(s.Files))
	for name, f := range s.Files {
		exist[name] = f.Exists
	}
	return exist
}
