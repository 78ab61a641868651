package memory

import (
	"sync"
	"sync/atomic"
	"time"
)

// StrategyKind names one of the four selectable strategies, the value
// a `--memory-strategy` flag or config field would carry.
type StrategyKind string

const (
	StrategyRefCounting StrategyKind = "ref_counting"
	StrategyMarkSweep   StrategyKind = "mark_sweep"
	StrategyHybrid      StrategyKind = "hybrid"
	StrategyNone        StrategyKind = "none"
)

// NewStrategy constructs the named Strategy. hybridInterval is only
// consulted for StrategyHybrid.
func NewStrategy(kind StrategyKind, hybridInterval int) Strategy {
	switch kind {
	case StrategyRefCounting:
		return NewRefCounting()
	case StrategyMarkSweep:
		return NewMarkSweep()
	case StrategyHybrid:
		return NewHybrid(hybridInterval)
	default:
		return NewNone()
	}
}

// AllocMeta is the optional provenance a caller may attach to an
// allocation for the profiler — spec.md §4.9's `function?`, `file?`,
// `line?`, `type?` fields.
type AllocMeta struct {
	Function string
	File     string
	Line     int
	Type     string
}

// Manager owns one global Strategy plus the optional Profiler, the
// object graph (outgoing references, for mark-sweep tracing), and
// Handle assignment — per spec.md §4.9's single-global-strategy model,
// generalized from the teacher's single-struct-holding-swappable-state
// style (internal/effects.EffContext).
type Manager struct {
	strategy Strategy
	profiler *Profiler

	nextHandle atomic.Uint64

	mu       sync.RWMutex
	outgoing map[Handle][]Handle
	roots    map[Handle]bool
}

// NewManager constructs a Manager running the given Strategy. Pass
// NewProfiler() (disabled by default) or nil to skip profiling
// entirely.
func NewManager(strategy Strategy, profiler *Profiler) *Manager {
	if profiler == nil {
		profiler = NewProfiler()
	}
	return &Manager{
		strategy: strategy,
		profiler: profiler,
		outgoing: make(map[Handle][]Handle),
		roots:    make(map[Handle]bool),
	}
}

// Strategy returns the active collection strategy.
func (m *Manager) Strategy() Strategy { return m.strategy }

// Profiler returns the allocation profiler (always non-nil).
func (m *Manager) Profiler() *Profiler { return m.profiler }

// Alloc allocates a new object of size bytes, assigning it a fresh
// Handle, registering it with the active Strategy, and recording it
// with the profiler if enabled.
func (m *Manager) Alloc(size int, meta AllocMeta) Handle {
	h := Handle(m.nextHandle.Add(1))
	m.strategy.OnAlloc(h, size)

	m.profiler.Record(h, AllocRecord{
		Size:      size,
		Function:  meta.Function,
		File:      meta.File,
		Line:      meta.Line,
		Timestamp: time.Now(),
		Type:      meta.Type,
	})

	if hy, ok := m.strategy.(*hybrid); ok {
		hy.maybeAutoCollect(m.rootList(), m.outgoingOf)
	}

	return h
}

// AddRef records a new live reference to h.
func (m *Manager) AddRef(h Handle) { m.strategy.AddRef(h) }

// Release drops one reference to h. When the strategy reports h was
// actually freed, the profiler entry and outgoing-edge registration are
// cleaned up too.
func (m *Manager) Release(h Handle) bool {
	freed := m.strategy.OnRelease(h)
	if freed {
		m.profiler.Remove(h)
		m.mu.Lock()
		delete(m.outgoing, h)
		delete(m.roots, h)
		m.mu.Unlock()
	}
	return freed
}

// SetOutgoing records h's current outgoing reference set, consulted by
// Collect for mark-sweep tracing. Callers re-set this whenever an
// object's fields are mutated to point elsewhere.
func (m *Manager) SetOutgoing(h Handle, refs []Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outgoing[h] = refs
}

// SetRoot marks or unmarks h as a root (e.g. a live stack slot or
// global binding) for mark-sweep/hybrid collection.
func (m *Manager) SetRoot(h Handle, isRoot bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if isRoot {
		m.roots[h] = true
	} else {
		delete(m.roots, h)
	}
}

func (m *Manager) rootList() []Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roots := make([]Handle, 0, len(m.roots))
	for h := range m.roots {
		roots = append(roots, h)
	}
	return roots
}

func (m *Manager) outgoingOf(h Handle) []Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.outgoing[h]
}

// Collect runs the active strategy's reclamation pass against the
// current root set and object graph, returning the number of objects
// freed. A no-op under ref-counting and none, per spec.md §4.9.
func (m *Manager) Collect() int {
	freed := m.strategy.Collect(m.rootList(), m.outgoingOf)
	return freed
}

// GetStats proxies to the profiler's get_stats(), per spec.md §4.9.
func (m *Manager) GetStats(topN int) Stats { return m.profiler.GetStats(topN) }

// DetectLeaks proxies to the profiler's detect_leaks(), per spec.md
// §4.9.
func (m *Manager) DetectLeaks() []AllocRecord { return m.profiler.DetectLeaks() }
