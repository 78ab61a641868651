package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/otterlang/otter/internal/codegen"
)

func tempStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, maxBytes)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestFingerprint_SameInputSameKey(t *testing.T) {
	in := FingerprintInput{RootPath: "a.ot", RootContent: []byte("fn main(): pass"), CompilerVer: "1", BackendVer: "1", OptLevel: codegen.OptDefault, Target: "x86_64-unknown-linux-gnu"}
	if RootFingerprint(in) != RootFingerprint(in) {
		t.Fatalf("expected identical inputs to fingerprint identically")
	}
}

func TestFingerprint_ContentChangeChangesKey(t *testing.T) {
	in1 := FingerprintInput{RootPath: "a.ot", RootContent: []byte("fn main(): pass"), CompilerVer: "1", BackendVer: "1"}
	in2 := in1
	in2.RootContent = []byte("fn main(): return 1")
	if RootFingerprint(in1) == RootFingerprint(in2) {
		t.Fatalf("expected a content change to change the fingerprint")
	}
}

func TestFingerprint_OptionsAffectKey(t *testing.T) {
	in1 := FingerprintInput{RootPath: "a.ot", RootContent: []byte("x"), OptLevel: codegen.OptNone}
	in2 := in1
	in2.OptLevel = codegen.OptAggressive
	if RootFingerprint(in1) == RootFingerprint(in2) {
		t.Fatalf("expected opt_level to affect the fingerprint")
	}
}

func TestFingerprint_EmitIRExcludedFromKey(t *testing.T) {
	// emit_ir affects only ancillary output per spec.md §4.7 and is
	// deliberately absent from FingerprintInput — there is no field to
	// vary, which is itself the behavior under test: two otherwise
	// identical builds differing only in whether IR text is requested
	// must land on the very same cache entry.
	in := FingerprintInput{RootPath: "a.ot", RootContent: []byte("x")}
	if RootFingerprint(in) != RootFingerprint(in) {
		t.Fatalf("expected stable fingerprint regardless of ancillary output requests")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := tempStore(t, 1<<20)
	key := Key("deadbeef")
	if err := s.Store(key, []byte("binary-contents"), Metadata{SourcePath: "a.ot"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	entry, ok, err := s.Lookup(key)
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	data, err := os.ReadFile(entry.BinaryPath)
	if err != nil || string(data) != "binary-contents" {
		t.Fatalf("unexpected binary contents: %v %q", err, data)
	}
}

func TestStore_MissReturnsFalse(t *testing.T) {
	s := tempStore(t, 1<<20)
	_, ok, err := s.Lookup(Key("missing"))
	if err != nil || ok {
		t.Fatalf("expected a clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestStore_EvictsOldestWhenOverCap(t *testing.T) {
	s := tempStore(t, 10) // tiny cap forces eviction on the second store
	if err := s.Store(Key("first"), []byte("0123456789"), Metadata{}); err != nil {
		t.Fatalf("Store first: %v", err)
	}
	if err := s.Store(Key("second"), []byte("abcdefghij"), Metadata{}); err != nil {
		t.Fatalf("Store second: %v", err)
	}
	if _, ok, _ := s.Lookup(Key("first")); ok {
		t.Fatalf("expected the oldest entry to have been evicted")
	}
	if _, ok, _ := s.Lookup(Key("second")); !ok {
		t.Fatalf("expected the newest entry to survive eviction")
	}
}

func TestResolve_RootHitSkipsDepsResolution(t *testing.T) {
	s := tempStore(t, 1<<20)
	root := FingerprintInput{RootPath: "a.ot", RootContent: []byte("x")}
	rootKey := RootFingerprint(root)
	if err := s.Store(rootKey, []byte("cached-binary"), Metadata{}); err != nil {
		t.Fatalf("Store: %v", err)
	}

	depsCalled := false
	entry, err := Resolve(s, root, func() (map[string][]byte, error) {
		depsCalled = true
		return nil, nil
	}, func() ([]byte, Metadata, error) {
		t.Fatalf("build should not be invoked on a root-level cache hit")
		return nil, Metadata{}, nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if depsCalled {
		t.Fatalf("expected deps resolution to be skipped on a root-fingerprint hit")
	}
	if filepath.Base(entry.BinaryPath) != string(rootKey)+".bin" {
		t.Fatalf("unexpected binary path: %s", entry.BinaryPath)
	}
}

func TestResolve_FullMissBuildsAndStores(t *testing.T) {
	s := tempStore(t, 1<<20)
	root := FingerprintInput{RootPath: "a.ot", RootContent: []byte("x")}

	buildCalled := false
	entry, err := Resolve(s, root, func() (map[string][]byte, error) {
		return map[string][]byte{"dep.ot": []byte("y")}, nil
	}, func() ([]byte, Metadata, error) {
		buildCalled = true
		return []byte("fresh-binary"), Metadata{}, nil
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !buildCalled {
		t.Fatalf("expected build to run on a full cache miss")
	}
	if len(entry.Metadata.DependencyPaths) != 1 || entry.Metadata.DependencyPaths[0] != "dep.ot" {
		t.Fatalf("expected dependency paths recorded in metadata, got %v", entry.Metadata.DependencyPaths)
	}

	// A second Resolve with the same inputs should now hit the full
	// fingerprint without invoking build again.
	buildCalled = false
	if _, err := Resolve(s, root, func() (map[string][]byte, error) {
		return map[string][]byte{"dep.ot": []byte("y")}, nil
	}, func() ([]byte, Metadata, error) {
		buildCalled = true
		return nil, Metadata{}, nil
	}); err != nil {
		t.Fatalf("Resolve (second): %v", err)
	}
	if buildCalled {
		t.Fatalf("expected the second Resolve to hit the cache without rebuilding")
	}
}
