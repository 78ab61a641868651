package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/errors"
)

// Metadata is the JSON sidecar recorded alongside every cached binary,
// per spec.md §4.3's cache-entry shape.
type Metadata struct {
	CompilerVersion string    `json:"compiler_version"`
	BackendVersion  string    `json:"backend_version"`
	SourcePath      string    `json:"source_path"`
	DependencyPaths []string  `json:"dependency_paths"`
	BinarySize      int64     `json:"binary_size"`
	BuildDuration   int64     `json:"build_duration_ms"`
	LastAccess      time.Time `json:"last_access"`
}

// Entry is what a successful Lookup returns.
type Entry struct {
	BinaryPath string
	Metadata   Metadata
}

// Store is a disk-backed, size-capped cache directory plus an in-memory
// index of last-access times for eviction, guarded the way the
// teacher's Loader guards its module memoization table.
type Store struct {
	dir      string
	maxBytes int64

	mu    sync.RWMutex
	index map[Key]Metadata
}

// Open creates or reuses a cache directory at dir, capped at maxBytes
// total on-disk size.
func Open(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, diag.New(errors.CACHE001, diag.Span{}, "could not create cache directory %q: %v", dir, err)
	}
	s := &Store{dir: dir, maxBytes: maxBytes, index: make(map[Key]Metadata)}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) binPath(k Key) string  { return filepath.Join(s.dir, string(k)+".bin") }
func (s *Store) metaPath(k Key) string { return filepath.Join(s.dir, string(k)+".json") }

// loadIndex reconstructs the in-memory index from whatever *.json
// sidecars already exist on disk, so a Store reopened in a later
// process still honors LRU ordering from before.
func (s *Store) loadIndex() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return diag.New(errors.CACHE001, diag.Span{}, "could not read cache directory %q: %v", s.dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		key := Key(name[:len(name)-len(".json")])
		raw, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(raw, &meta); err != nil {
			continue
		}
		s.index[key] = meta
	}
	return nil
}

// Lookup probes the cache for key, touching its last-access time on a
// hit. A miss returns ok == false with no error.
func (s *Store) Lookup(key Key) (*Entry, bool, error) {
	s.mu.RLock()
	meta, ok := s.index[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	binPath := s.binPath(key)
	if _, err := os.Stat(binPath); err != nil {
		// The sidecar exists but the binary is gone (e.g. manual
		// tampering); treat as a miss rather than a hard error.
		return nil, false, nil
	}

	meta.LastAccess = time.Now()
	s.mu.Lock()
	s.index[key] = meta
	s.mu.Unlock()
	if err := s.writeMeta(key, meta); err != nil {
		return nil, false, err
	}

	return &Entry{BinaryPath: binPath, Metadata: meta}, true, nil
}

// Store records a freshly built artifact under key, then evicts the
// least-recently-accessed entries until the directory is back within
// maxBytes.
func (s *Store) Store(key Key, binary []byte, meta Metadata) error {
	meta.BinarySize = int64(len(binary))
	meta.LastAccess = time.Now()

	if err := os.WriteFile(s.binPath(key), binary, 0o644); err != nil {
		return diag.New(errors.CACHE001, diag.Span{}, "could not write cache entry %q: %v", key, err)
	}
	if err := s.writeMeta(key, meta); err != nil {
		return err
	}

	s.mu.Lock()
	s.index[key] = meta
	s.mu.Unlock()

	return s.evict()
}

func (s *Store) writeMeta(key Key, meta Metadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return diag.New(errors.CACHE002, diag.Span{}, "could not encode metadata for %q: %v", key, err)
	}
	if err := os.WriteFile(s.metaPath(key), raw, 0o644); err != nil {
		return diag.New(errors.CACHE001, diag.Span{}, "could not write metadata for %q: %v", key, err)
	}
	return nil
}

func (s *Store) evict() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	type ordered struct {
		key  Key
		meta Metadata
	}
	all := make([]ordered, 0, len(s.index))
	for k, m := range s.index {
		total += m.BinarySize
		all = append(all, ordered{k, m})
	}
	if total <= s.maxBytes {
		return nil
	}

	sort.Slice(all, func(i, j int) bool { return all[i].meta.LastAccess.Before(all[j].meta.LastAccess) })

	for _, o := range all {
		if total <= s.maxBytes {
			break
		}
		if err := os.Remove(s.binPath(o.key)); err != nil && !os.IsNotExist(err) {
			return diag.New(errors.CACHE001, diag.Span{}, "could not evict cache entry %q: %v", o.key, err)
		}
		_ = os.Remove(s.metaPath(o.key))
		delete(s.index, o.key)
		total -= o.meta.BinarySize
	}
	return nil
}
