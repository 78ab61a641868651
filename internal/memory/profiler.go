package memory

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// AllocRecord is one live allocation's profiling metadata, per spec.md
// §4.9's `{size, function?, file?, line?, timestamp, type?}` shape. The
// optional fields are empty strings / zero when the caller did not
// supply them.
type AllocRecord struct {
	Size      int
	Function  string
	File      string
	Line      int
	Timestamp time.Time
	Type      string
}

// Profiler tracks every live allocation by Handle when enabled. The
// common disabled path takes a single atomic-bool check before doing
// any locking, per the concurrency model's profiler-maps guidance.
type Profiler struct {
	enabled atomic.Bool

	mu      sync.RWMutex
	records map[Handle]AllocRecord
}

// NewProfiler returns a disabled profiler; call SetEnabled(true) to
// start tracking.
func NewProfiler() *Profiler {
	return &Profiler{records: make(map[Handle]AllocRecord)}
}

// SetEnabled turns profiling on or off. Disabling does not clear
// already-recorded entries.
func (p *Profiler) SetEnabled(on bool) { p.enabled.Store(on) }

// Enabled reports the profiler's current on/off state.
func (p *Profiler) Enabled() bool { return p.enabled.Load() }

// Record inserts rec under h. A no-op when the profiler is disabled.
func (p *Profiler) Record(h Handle, rec AllocRecord) {
	if !p.enabled.Load() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records[h] = rec
}

// Remove drops h's entry, called on deallocation. A no-op when disabled
// or when h was never recorded (e.g. profiling was enabled after h was
// allocated).
func (p *Profiler) Remove(h Handle) {
	if !p.enabled.Load() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.records, h)
}

// Stats is get_stats()'s return shape: totals, a size histogram, and
// the top-N allocating functions by total bytes.
type Stats struct {
	LiveCount      int
	LiveBytes      int64
	SizeHistogram  map[string]int // bucket label -> count
	TopFunctions   []FuncTotal
}

// FuncTotal is one function's aggregate allocation total.
type FuncTotal struct {
	Function string
	Count    int
	Bytes    int64
}

// sizeBucket labels a size into the same coarse buckets a profiler
// dashboard would group a histogram by.
func sizeBucket(size int) string {
	switch {
	case size <= 16:
		return "0-16"
	case size <= 64:
		return "17-64"
	case size <= 256:
		return "65-256"
	case size <= 1024:
		return "257-1024"
	case size <= 4096:
		return "1025-4096"
	default:
		return "4096+"
	}
}

// GetStats computes totals, a size histogram, and the topN allocating
// functions by total live bytes, per spec.md §4.9.
func (p *Profiler) GetStats(topN int) Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := Stats{SizeHistogram: make(map[string]int)}
	byFunc := make(map[string]*FuncTotal)

	for _, rec := range p.records {
		stats.LiveCount++
		stats.LiveBytes += int64(rec.Size)
		stats.SizeHistogram[sizeBucket(rec.Size)]++

		key := rec.Function
		ft, ok := byFunc[key]
		if !ok {
			ft = &FuncTotal{Function: key}
			byFunc[key] = ft
		}
		ft.Count++
		ft.Bytes += int64(rec.Size)
	}

	totals := make([]FuncTotal, 0, len(byFunc))
	for _, ft := range byFunc {
		totals = append(totals, *ft)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Bytes > totals[j].Bytes })
	if topN > 0 && len(totals) > topN {
		totals = totals[:topN]
	}
	stats.TopFunctions = totals
	return stats
}

// DetectLeaks returns every currently-live record sorted by size
// descending — spec.md §4.9's leak-suspicion report is left to the
// caller to interpret against expected object lifetimes; this just
// surfaces what is still live.
func (p *Profiler) DetectLeaks() []AllocRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()

	leaks := make([]AllocRecord, 0, len(p.records))
	for _, rec := range p.records {
		leaks = append(leaks, rec)
	}
	sort.Slice(leaks, func(i, j int) bool { return leaks[i].Size > leaks[j].Size })
	return leaks
}
