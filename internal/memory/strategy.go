// Package memory implements OtterLang's pluggable runtime memory
// strategies and allocation profiler, per spec.md §4.9: one global
// strategy selected at initialization (reference-counting, mark-sweep,
// a hybrid of the two, or none/manual), plus an optional profiler
// tracking every live allocation by a stand-in handle.
//
// Grounded on the teacher's internal/effects.EffContext: one struct
// holding swappable runtime state (Caps, Env, Clock, Net), generalized
// here to Manager holding a swappable Strategy plus the profiler.
package memory

import "sync"

// Handle stands in for a raw object pointer — Go's GC already owns real
// pointer lifetimes, so the memory manager tracks objects by this
// opaque, manager-assigned identity instead of an actual address.
type Handle uint64

// Strategy is one pluggable collection discipline. A Manager holds
// exactly one Strategy for its lifetime, selected at initialization per
// spec.md §4.9 ("one global, selectable at initialization").
type Strategy interface {
	Name() string

	// OnAlloc registers a freshly allocated object of size bytes.
	OnAlloc(h Handle, size int)

	// OnRelease drops one handle to h (a ref-counting decrement, or a
	// manual free under mark-sweep/none). It reports whether h was
	// actually freed as a result.
	OnRelease(h Handle) (freed bool)

	// AddRef records a new live handle to an already-allocated object,
	// a no-op under strategies without reference counting.
	AddRef(h Handle)

	// Collect runs the strategy's reclamation pass given the current
	// root set and an edge function reporting h's outgoing references.
	// It returns the number of objects freed. A no-op for None.
	Collect(roots []Handle, outgoing func(Handle) []Handle) int
}

// refCounting frees an object the instant its reference count reaches
// zero. Cycles leak, per spec.md §4.9.
type refCounting struct {
	mu     sync.Mutex
	counts map[Handle]int
	sizes  map[Handle]int
}

// NewRefCounting returns a fresh reference-counting Strategy.
func NewRefCounting() Strategy {
	return &refCounting{counts: make(map[Handle]int), sizes: make(map[Handle]int)}
}

func (r *refCounting) Name() string { return "ref-counting" }

func (r *refCounting) OnAlloc(h Handle, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[h] = 1
	r.sizes[h] = size
}

func (r *refCounting) AddRef(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[h]++
}

func (r *refCounting) OnRelease(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.counts[h]
	if !ok {
		return false
	}
	n--
	if n <= 0 {
		delete(r.counts, h)
		delete(r.sizes, h)
		return true
	}
	r.counts[h] = n
	return false
}

// Collect is a no-op for pure reference counting: there is no root set
// to trace, since every object's lifetime is governed entirely by its
// count.
func (r *refCounting) Collect(roots []Handle, outgoing func(Handle) []Handle) int { return 0 }

// markSweep requires an explicit root set and an explicit registry of
// every live object's outgoing references; Collect marks everything
// reachable from roots and frees the rest.
type markSweep struct {
	mu       sync.Mutex
	registry map[Handle]int // handle -> size, for freed-byte accounting
}

// NewMarkSweep returns a fresh mark-sweep Strategy.
func NewMarkSweep() Strategy {
	return &markSweep{registry: make(map[Handle]int)}
}

func (m *markSweep) Name() string { return "mark-sweep" }

func (m *markSweep) OnAlloc(h Handle, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[h] = size
}

// AddRef is a no-op: mark-sweep has no reference count, only
// reachability from the root set at collection time.
func (m *markSweep) AddRef(h Handle) {}

func (m *markSweep) OnRelease(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.registry[h]; !ok {
		return false
	}
	delete(m.registry, h)
	return true
}

func (m *markSweep) Collect(roots []Handle, outgoing func(Handle) []Handle) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	reachable := make(map[Handle]bool, len(roots))
	var stack []Handle
	for _, r := range roots {
		if _, ok := m.registry[r]; ok && !reachable[r] {
			reachable[r] = true
			stack = append(stack, r)
		}
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range outgoing(h) {
			if _, ok := m.registry[e]; ok && !reachable[e] {
				reachable[e] = true
				stack = append(stack, e)
			}
		}
	}

	freed := 0
	for h := range m.registry {
		if !reachable[h] {
			delete(m.registry, h)
			freed++
		}
	}
	return freed
}

// hybrid runs reference counting for the steady state and periodically
// falls back to a mark-sweep pass (every interval allocations) to
// reclaim the cycles pure ref-counting leaks, per spec.md §4.9.
type hybrid struct {
	rc       *refCounting
	ms       *markSweep
	interval int

	mu           sync.Mutex
	sinceCollect int
	collecting   bool // reentrancy guard: "the collector is never re-entered from within itself"
}

// NewHybrid returns a Strategy that runs mark-sweep every interval
// allocations to reclaim cycles between ref-counted collections.
func NewHybrid(interval int) Strategy {
	if interval < 1 {
		interval = 1
	}
	return &hybrid{
		rc:       NewRefCounting().(*refCounting),
		ms:       NewMarkSweep().(*markSweep),
		interval: interval,
	}
}

func (h *hybrid) Name() string { return "hybrid" }

func (h *hybrid) OnAlloc(handle Handle, size int) {
	h.rc.OnAlloc(handle, size)
	h.ms.OnAlloc(handle, size)
}

func (h *hybrid) AddRef(handle Handle) { h.rc.AddRef(handle) }

func (h *hybrid) OnRelease(handle Handle) bool {
	freed := h.rc.OnRelease(handle)
	if freed {
		h.ms.OnRelease(handle)
	}
	return freed
}

// Collect runs the underlying mark-sweep pass. A Manager normally
// calls this automatically every h.interval allocations via
// maybeAutoCollect; calling it directly is also safe and serves a
// manual `collect()` call from user code.
func (h *hybrid) Collect(roots []Handle, outgoing func(Handle) []Handle) int {
	h.mu.Lock()
	if h.collecting {
		h.mu.Unlock()
		return 0
	}
	h.collecting = true
	h.mu.Unlock()

	freed := h.ms.Collect(roots, outgoing)

	h.mu.Lock()
	h.collecting = false
	h.sinceCollect = 0
	h.mu.Unlock()
	return freed
}

// maybeAutoCollect runs a collection pass if interval allocations have
// elapsed since the last one, returning whether it ran.
func (h *hybrid) maybeAutoCollect(roots []Handle, outgoing func(Handle) []Handle) bool {
	h.mu.Lock()
	h.sinceCollect++
	due := h.sinceCollect >= h.interval
	h.mu.Unlock()
	if !due {
		return false
	}
	h.Collect(roots, outgoing)
	return true
}

// none performs no collection at all: allocations are tracked for
// accounting purposes only and never automatically freed, per spec.md
// §4.9's "Manual; collect is a no-op."
type none struct {
	mu    sync.Mutex
	sizes map[Handle]int
}

// NewNone returns the manual (no-collection) Strategy.
func NewNone() Strategy { return &none{sizes: make(map[Handle]int)} }

func (n *none) Name() string { return "none" }

func (n *none) OnAlloc(h Handle, size int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sizes[h] = size
}

func (n *none) AddRef(h Handle) {}

func (n *none) OnRelease(h Handle) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.sizes[h]; !ok {
		return false
	}
	delete(n.sizes, h)
	return true
}

func (n *none) Collect(roots []Handle, outgoing func(Handle) []Handle) int { return 0 }
