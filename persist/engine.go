package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/stmgo/codec"
	"github.com/hupe1980/stmgo/core"
	"github.com/hupe1980/stmgo/internal/fs"
	"github.com/hupe1980/stmgo/logging"
)

// ErrNoSnapshot is returned by Load when neither slot holds a valid snapshot.
var ErrNoSnapshot = errors.New("no valid snapshot found")

// slotFilePrefix names the slot files inside the data directory; the codec
// extension completes the file name.
const slotFilePrefix = "stm_cache_"

// StateSource is the cache state the engine serializes and restores. It is
// implemented by *memory.Store. Generation is sampled before SnapshotState
// and handed back through MarkSaved, so a mutation landing mid-save keeps the
// source dirty and triggers a follow-up save.
type StateSource interface {
	SnapshotState() (entries map[string]core.Entry, order []string, counters core.Counters)
	Generation() uint64
	Dirty() bool
	MarkSaved(gen uint64)
	Restore(entries map[string]core.Entry, order []string, counters core.Counters)
}

// Options configure an Engine.
type Options struct {
	// SaveInterval is the minimum quiet period between background saves.
	SaveInterval time.Duration

	// MaxEntries is echoed into snapshots for operational inspection.
	MaxEntries int

	// Codec encodes snapshots. Defaults to codec.Default.
	Codec codec.Codec

	// Logger receives save/recovery diagnostics.
	Logger logging.Logger
}

// Engine owns the two slot files and the save state machine. Background
// saves are coalesced through singleflight so at most one save of the pair is
// ever in flight.
type Engine struct {
	fsys   fs.FileSystem
	dir    string
	source StateSource

	saveInterval time.Duration
	maxEntries   int
	codec        codec.Codec
	logger       logging.Logger

	mu       sync.Mutex // guards target and lastSave
	target   Slot
	lastSave time.Time

	group singleflight.Group
	wg    sync.WaitGroup
}

// NewEngine creates a persistence engine over the given file system and data
// directory. Call Load once before the first save.
func NewEngine(fsys fs.FileSystem, dir string, source StateSource, optFns ...func(o *Options)) *Engine {
	opts := Options{
		SaveInterval: 30 * time.Second,
		MaxEntries:   100,
		Codec:        codec.Default,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		fsys:         fsys,
		dir:          dir,
		source:       source,
		saveInterval: opts.SaveInterval,
		maxEntries:   opts.MaxEntries,
		codec:        opts.Codec,
		logger:       opts.Logger,
		target:       SlotA,
		lastSave:     time.Now(),
	}
}

// SlotPath returns the file path of the given slot.
func (e *Engine) SlotPath(slot Slot) string {
	return filepath.Join(e.dir, slotFilePrefix+string(slot)+e.codec.Ext())
}

// Save serializes the current state to the active target slot and flips the
// target on success. The snapshot is written to a temp path first and moved
// into place with a rename so a reader never observes a partial file. On
// failure the dirty flag stays set and a later save retries.
func (e *Engine) Save() error {
	gen := e.source.Generation()
	entries, order, counters := e.source.SnapshotState()

	e.mu.Lock()
	target := e.target
	e.mu.Unlock()

	now := time.Now()
	ts := float64(now.UnixNano()) / float64(time.Second)
	snapshot := &Snapshot{
		SaveTimestamp: &ts,
		SaveDatetime:  now.Format(time.RFC3339Nano),
		SaveTarget:    target,
		EntryCount:    len(entries),
		MaxEntries:    e.maxEntries,
		SaveInterval:  e.saveInterval.Seconds(),
		Stats:         counters,
		Entries:       entries,
		EntryOrder:    order,
	}

	data, err := e.codec.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	path := e.SlotPath(target)
	tmp := path + ".tmp"

	if err := fs.WriteFile(e.fsys, tmp, data, 0o644); err != nil {
		e.fsys.Remove(tmp)
		return fmt.Errorf("write snapshot %s: %w", filepath.Base(tmp), err)
	}
	if _, statErr := e.fsys.Stat(path); statErr == nil {
		if err := e.fsys.Remove(path); err != nil {
			e.fsys.Remove(tmp)
			return fmt.Errorf("replace snapshot %s: %w", filepath.Base(path), err)
		}
	}
	if err := e.fsys.Rename(tmp, path); err != nil {
		e.fsys.Remove(tmp)
		return fmt.Errorf("rename snapshot %s: %w", filepath.Base(path), err)
	}

	e.source.MarkSaved(gen)

	e.mu.Lock()
	e.lastSave = time.Now()
	e.target = target.Other()
	e.mu.Unlock()

	e.logger.Debug("snapshot saved", "slot", string(target), "entries", len(entries))
	return nil
}

// MaybeSave triggers a background save when the state is dirty and the save
// interval has elapsed. The caller is never delayed by disk I/O; overlapping
// triggers coalesce into the single in-flight save.
func (e *Engine) MaybeSave() {
	if !e.source.Dirty() {
		return
	}
	e.mu.Lock()
	due := time.Since(e.lastSave) > e.saveInterval
	e.mu.Unlock()
	if !due {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if _, err, _ := e.group.Do("save", func() (any, error) {
			return nil, e.Save()
		}); err != nil {
			e.logger.Warn("background save failed, will retry", "error", err)
		}
	}()
}

// ForceSave performs a synchronous save if the state is dirty. Used at
// orderly shutdown and by explicit save requests.
func (e *Engine) ForceSave() error {
	if !e.source.Dirty() {
		return nil
	}
	_, err, _ := e.group.Do("save", func() (any, error) {
		return nil, e.Save()
	})
	return err
}

// Wait blocks until any in-flight background save has finished.
func (e *Engine) Wait() { e.wg.Wait() }

// Load recovers state from the newest valid slot file. Unreadable or
// incomplete candidates are skipped; if both slots fail the engine starts
// fresh targeting slot A and reports ErrNoSnapshot. On success the next save
// targets the slot opposite the recovered snapshot's, so the freshly
// recovered file is not the first one overwritten.
func (e *Engine) Load() error {
	var best *Snapshot
	var bestSlot Slot

	for _, slot := range []Slot{SlotA, SlotB} {
		path := e.SlotPath(slot)
		data, err := fs.ReadFile(e.fsys, path)
		if err != nil {
			if !os.IsNotExist(err) {
				e.logger.Warn("snapshot unreadable, skipping", "slot", string(slot), "error", err)
			}
			continue
		}
		var snapshot Snapshot
		if err := e.codec.Unmarshal(data, &snapshot); err != nil {
			e.logger.Warn("snapshot corrupt, skipping", "slot", string(slot), "error", err)
			continue
		}
		if !snapshot.Valid() {
			e.logger.Warn("snapshot incomplete, skipping", "slot", string(slot))
			continue
		}
		if best == nil || *snapshot.SaveTimestamp > *best.SaveTimestamp {
			best = &snapshot
			bestSlot = slot
		}
	}

	if best == nil {
		e.mu.Lock()
		e.target = SlotA
		e.mu.Unlock()
		return ErrNoSnapshot
	}

	e.source.Restore(best.Entries, best.EntryOrder, best.Stats)

	next := best.SaveTarget.Other()
	if best.SaveTarget != SlotA && best.SaveTarget != SlotB {
		next = bestSlot.Other()
	}
	e.mu.Lock()
	e.target = next
	e.mu.Unlock()

	e.logger.Info("snapshot recovered",
		"slot", string(bestSlot), "entries", len(best.Entries), "saved_at", best.SaveDatetime)
	return nil
}

// Status reports the engine's view of the slot pair, including per-slot file
// modification time and size.
func (e *Engine) Status() core.SaveStatus {
	e.mu.Lock()
	target := e.target
	last := e.lastSave
	e.mu.Unlock()

	files := make(map[string]core.SlotFile, 2)
	for _, slot := range []Slot{SlotA, SlotB} {
		info, err := e.fsys.Stat(e.SlotPath(slot))
		if err != nil {
			files[string(slot)] = core.SlotFile{}
			continue
		}
		files[string(slot)] = core.SlotFile{
			Exists:  true,
			ModTime: float64(info.ModTime().UnixNano()) / float64(time.Second),
			SizeKB:  float64(info.Size()) / 1024,
		}
	}

	return core.SaveStatus{
		CurrentTarget:    string(target),
		LastSaveTime:     float64(last.UnixNano()) / float64(time.Second),
		SecondsSinceSave: time.Since(last).Seconds(),
		Dirty:            e.source.Dirty(),
		Files:            files,
	}
}

// Target returns the slot the next save will write.
func (e *Engine) Target() Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}
