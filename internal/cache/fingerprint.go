// Package cache implements OtterLang's content-addressed build cache,
// per spec.md §4.7: a stable fingerprint over source content, every
// dependency's content, and every output-affecting codegen option,
// backed by a two-file-per-entry disk store with size-capped eviction.
//
// Grounded on the teacher's internal/module.Loader memoization table
// (sync.RWMutex-guarded map keyed by canonical path) generalized into a
// two-tier cache: an in-memory RWMutex-guarded index plus the on-disk
// <key>.bin/<key>.json pair spec.md §4.7 names as the storage layout.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/otterlang/otter/internal/codegen"
)

// FingerprintInput is everything a fingerprint is computed over. Two
// Keys built from FingerprintInputs that compare equal by every field
// here must produce byte-identical artifacts — spec.md §4.7's central
// invariant.
type FingerprintInput struct {
	RootPath       string
	RootContent    []byte
	DepContents    map[string][]byte // canonical dependency path -> content
	CompilerVer    string
	BackendVer     string
	OptLevel       codegen.OptLevel
	EnableLTO      bool
	EnablePGO      bool
	Target         string
}

// Key is a hex-encoded sha256 digest identifying one cache entry.
type Key string

// RootFingerprint computes the fingerprint from the root source alone,
// before import resolution — spec.md §4.7's lookup protocol step 1,
// used for the pre-resolution cache probe.
func RootFingerprint(in FingerprintInput) Key {
	h := newHasher(in)
	h.writeString("root-only")
	return h.finish()
}

// FullFingerprint recomputes the fingerprint including every resolved
// dependency's content — step 3 of the lookup protocol, used once
// imports have been resolved.
func FullFingerprint(in FingerprintInput) Key {
	h := newHasher(in)
	for _, path := range sortedKeys(in.DepContents) {
		h.writeString(path)
		h.writeBytes(in.DepContents[path])
	}
	return h.finish()
}

func newHasher(in FingerprintInput) *fingerprintHasher {
	fh := &fingerprintHasher{sha: sha256.New()}
	fh.writeString(in.RootPath)
	fh.writeBytes(in.RootContent)
	fh.writeString(in.CompilerVer)
	fh.writeString(in.BackendVer)
	fh.writeString(fmt.Sprintf("opt=%d", in.OptLevel))
	fh.writeString(fmt.Sprintf("lto=%v", in.EnableLTO))
	fh.writeString(fmt.Sprintf("pgo=%v", in.EnablePGO))
	fh.writeString(fmt.Sprintf("target=%s", in.Target))
	return fh
}

type fingerprintHasher struct {
	sha interface {
		Write([]byte) (int, error)
		Sum([]byte) []byte
	}
}

func (fh *fingerprintHasher) writeString(s string) { fh.writeBytes([]byte(s)) }

func (fh *fingerprintHasher) writeBytes(b []byte) {
	// A length prefix keeps adjacent fields from colliding when one
	// field's suffix is another's prefix (e.g. two paths concatenated
	// without a delimiter could otherwise alias).
	var lenBuf [8]byte
	n := len(b)
	for i := 0; i < 8; i++ {
		lenBuf[i] = byte(n >> (8 * i))
	}
	fh.sha.Write(lenBuf[:])
	fh.sha.Write(b)
}

func (fh *fingerprintHasher) finish() Key {
	return Key(hex.EncodeToString(fh.sha.Sum(nil)))
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Insertion sort is fine here: dependency counts are small (single
	// modules).
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
