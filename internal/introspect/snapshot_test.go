package introspect

import (
	"testing"
	"time"

	"github.com/otterlang/otter/internal/memory"
)

func TestRecorder_SnapshotCountsAndTiers(t *testing.T) {
	r := NewRecorder(nil)
	r.RecordCompile("main", TierOptimizing, 12*time.Millisecond)
	r.RecordCompile("helper", TierBaseline, 3*time.Millisecond)
	r.RecordCall("main")
	r.RecordCall("main")
	r.RecordCall("helper")

	snap := r.Snapshot(10)
	if snap.TotalFunctions != 2 {
		t.Fatalf("expected 2 functions, got %d", snap.TotalFunctions)
	}
	if snap.FunctionsByTier[TierOptimizing] != 1 || snap.FunctionsByTier[TierBaseline] != 1 {
		t.Fatalf("unexpected tier counts: %+v", snap.FunctionsByTier)
	}
	if snap.TotalCompileTimeMs != 15 {
		t.Fatalf("expected 15ms total compile time, got %d", snap.TotalCompileTimeMs)
	}
	if len(snap.HottestFunctions) != 2 || snap.HottestFunctions[0].Name != "main" {
		t.Fatalf("expected main to be hottest, got %+v", snap.HottestFunctions)
	}
}

func TestRecorder_SnapshotRespectsTopN(t *testing.T) {
	r := NewRecorder(nil)
	r.RecordCompile("a", TierBaseline, time.Millisecond)
	r.RecordCompile("b", TierBaseline, time.Millisecond)
	r.RecordCall("a")
	r.RecordCall("b")
	r.RecordCall("b")

	snap := r.Snapshot(1)
	if len(snap.HottestFunctions) != 1 || snap.HottestFunctions[0].Name != "b" {
		t.Fatalf("expected only b (higher call count), got %+v", snap.HottestFunctions)
	}
}

func TestRecorder_SnapshotWiresMemoryManager(t *testing.T) {
	mgr := memory.NewManager(memory.NewNone(), memory.NewProfiler())
	mgr.Profiler().SetEnabled(true)
	mgr.Alloc(100, memory.AllocMeta{Function: "f"})

	r := NewRecorder(mgr)
	snap := r.Snapshot(5)
	if snap.MemoryInUseBytes != 100 {
		t.Fatalf("expected 100 live bytes, got %d", snap.MemoryInUseBytes)
	}
	if len(snap.SuspectedLeaks) != 1 {
		t.Fatalf("expected 1 suspected leak, got %d", len(snap.SuspectedLeaks))
	}
}

func TestSnapshot_ToJSONRoundTripsShape(t *testing.T) {
	r := NewRecorder(nil)
	r.RecordCompile("main", TierOptimizing, time.Millisecond)
	raw, err := r.Snapshot(5).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected non-empty JSON output")
	}
}
