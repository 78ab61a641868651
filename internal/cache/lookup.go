package cache

// BuildFunc performs the actual compile-and-link work on a cache miss
// and returns the built binary plus the metadata to record alongside it.
type BuildFunc func() (binary []byte, meta Metadata, err error)

// DepsFunc resolves and reads every dependency module's canonical
// content, keyed by canonical path, once import resolution has run.
type DepsFunc func() (map[string][]byte, error)

// Resolve implements spec.md §4.7's four-step lookup protocol:
//  1. fingerprint the root source alone.
//  2. probe with that fingerprint; an early hit skips import resolution
//     entirely.
//  3. on a miss, resolve dependencies and recompute the fingerprint
//     including their content; probe again (the common hit case for an
//     unchanged multi-file build).
//  4. on a final miss, build and store.
func Resolve(store *Store, root FingerprintInput, deps DepsFunc, build BuildFunc) (*Entry, error) {
	rootKey := RootFingerprint(root)
	if entry, ok, err := store.Lookup(rootKey); err != nil {
		return nil, err
	} else if ok {
		return entry, nil
	}

	depContents, err := deps()
	if err != nil {
		return nil, err
	}
	full := root
	full.DepContents = depContents
	fullKey := FullFingerprint(full)

	if entry, ok, err := store.Lookup(fullKey); err != nil {
		return nil, err
	} else if ok {
		return entry, nil
	}

	binary, meta, err := build()
	if err != nil {
		return nil, err
	}
	meta.SourcePath = root.RootPath
	meta.DependencyPaths = sortedKeys(depContents)
	meta.CompilerVersion = root.CompilerVer
	meta.BackendVersion = root.BackendVer

	if err := store.Store(fullKey, binary, meta); err != nil {
		return nil, err
	}
	return &Entry{BinaryPath: store.binPath(fullKey), Metadata: meta}, nil
}
