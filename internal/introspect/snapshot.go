// Package introspect provides OtterLang's runtime introspection
// snapshot, per spec.md §4.10: a point-in-time view of total compiled
// functions, counts by optimization tier, total memory in use, total
// time spent compiling, the hottest functions, and functions suspected
// of leaking — exported as a JSON-compatible structure for a CLI
// dashboard or language-server status view.
//
// Grounded on the teacher's internal/eval_harness struct-plus-
// encoding/json convention (spec.go, models.go): plain structs with
// JSON/YAML tags, loaded or produced through straightforward
// marshal/unmarshal calls rather than a bespoke serialization layer.
package introspect

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/otterlang/otter/internal/memory"
)

// Tier names which codegen backend last compiled a function, mirroring
// C7's OptimizingBackend/BaselineBackend split.
type Tier string

const (
	TierBaseline   Tier = "baseline"
	TierOptimizing Tier = "optimizing"
)

// FunctionUsage is one function's point-in-time activity record.
type FunctionUsage struct {
	Name          string `json:"name"`
	Tier          Tier   `json:"tier"`
	CallCount     uint64 `json:"call_count"`
	CompileTimeMs int64  `json:"compile_time_ms"`
}

// Snapshot is the JSON-compatible point-in-time view spec.md §4.10
// names explicitly.
type Snapshot struct {
	GeneratedAt        time.Time       `json:"generated_at"`
	TotalFunctions     int             `json:"total_functions"`
	FunctionsByTier    map[Tier]int    `json:"functions_by_tier"`
	MemoryInUseBytes   int64           `json:"memory_in_use_bytes"`
	TotalCompileTimeMs int64           `json:"total_compile_time_ms"`
	HottestFunctions   []FunctionUsage `json:"hottest_functions"`
	SuspectedLeaks     []memory.AllocRecord `json:"suspected_leaks"`
}

// ToJSON renders the snapshot as indented JSON, the shape a CLI
// dashboard or language-server status view would consume directly.
func (s Snapshot) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// functionState is a Recorder's mutable per-function bookkeeping.
type functionState struct {
	tier          Tier
	callCount     uint64
	compileTimeMs int64
}

// Recorder accumulates compile and call activity across a compilation
// session; Snapshot renders its current state. Every method takes a
// single mutex. The compiler driver (`otter profile build`) records
// compiles; nothing in the compiler or the generated program calls
// RecordCall, so call counts are whatever a caller records directly.
type Recorder struct {
	mu        sync.Mutex
	functions map[string]*functionState
	memory    *memory.Manager

	now func() time.Time // overridable for deterministic tests
}

// NewRecorder returns an empty Recorder. mgr may be nil if memory
// accounting is not wired in (MemoryInUseBytes then always reads 0).
func NewRecorder(mgr *memory.Manager) *Recorder {
	return &Recorder{
		functions: make(map[string]*functionState),
		memory:    mgr,
		now:       time.Now,
	}
}

func (r *Recorder) state(name string) *functionState {
	fs, ok := r.functions[name]
	if !ok {
		fs = &functionState{tier: TierBaseline}
		r.functions[name] = fs
	}
	return fs
}

// RecordCompile records that name finished compiling at tier after
// taking d.
func (r *Recorder) RecordCompile(name string, tier Tier, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fs := r.state(name)
	fs.tier = tier
	fs.compileTimeMs += d.Milliseconds()
}

// RecordCall increments name's call count by one.
func (r *Recorder) RecordCall(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state(name).callCount++
}

// Snapshot renders the Recorder's current state, including the topN
// hottest functions by call count and whatever the wired memory
// Manager's profiler currently reports as live (its "suspected leaks").
func (r *Recorder) Snapshot(topN int) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		GeneratedAt:     r.now(),
		TotalFunctions:  len(r.functions),
		FunctionsByTier: map[Tier]int{TierBaseline: 0, TierOptimizing: 0},
	}

	usages := make([]FunctionUsage, 0, len(r.functions))
	for name, fs := range r.functions {
		snap.FunctionsByTier[fs.tier]++
		snap.TotalCompileTimeMs += fs.compileTimeMs
		usages = append(usages, FunctionUsage{
			Name:          name,
			Tier:          fs.tier,
			CallCount:     fs.callCount,
			CompileTimeMs: fs.compileTimeMs,
		})
	}
	sort.Slice(usages, func(i, j int) bool {
		if usages[i].CallCount != usages[j].CallCount {
			return usages[i].CallCount > usages[j].CallCount
		}
		return usages[i].Name < usages[j].Name
	})
	if topN > 0 && len(usages) > topN {
		usages = usages[:topN]
	}
	snap.HottestFunctions = usages

	if r.memory != nil {
		stats := r.memory.GetStats(0)
		snap.MemoryInUseBytes = stats.LiveBytes
		snap.SuspectedLeaks = r.memory.DetectLeaks()
	}

	return snap
}
