package module

import (
	"os"
	"path/filepath"
	"strings"
)

// SpecifierKind classifies an import specifier's surface form, per
// spec.md §4.4's "Import specifier taxonomy".
type SpecifierKind int

const (
	SpecRelative SpecifierKind = iota
	SpecAbsolute
	SpecUnqualified
	SpecStdlibQualified
	SpecForeign
)

func (k SpecifierKind) String() string {
	switch k {
	case SpecRelative:
		return "relative"
	case SpecAbsolute:
		return "absolute"
	case SpecUnqualified:
		return "unqualified"
	case SpecStdlibQualified:
		return "stdlib-qualified"
	case SpecForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// normalizeLegacy rewrites the legacy otterc_X naming convention to X,
// grounded on original_source's loader normalization pass.
func normalizeLegacy(spec string) string {
	return strings.TrimPrefix(spec, "otterc_")
}

// Classify determines which of the five specifier kinds spec applies to,
// after legacy-name normalization.
func Classify(spec string) SpecifierKind {
	spec = normalizeLegacy(spec)
	switch {
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		return SpecRelative
	case strings.HasPrefix(spec, "/"):
		return SpecAbsolute
	case strings.Contains(spec, ":"):
		return SpecStdlibQualified
	case strings.Contains(spec, "-"):
		return SpecForeign
	default:
		return SpecUnqualified
	}
}

// Resolver turns an import specifier plus the importing file's directory
// into a canonical, absolute file path on disk, or an error naming which
// search locations were tried.
type Resolver struct {
	// StdlibDir is searched for SpecUnqualified specifiers that are not
	// found relative to the source directory, and for every
	// SpecStdlibQualified specifier.
	StdlibDir string
	// SearchPaths are additional directories searched for SpecUnqualified
	// specifiers, in order, after the source directory and before StdlibDir.
	SearchPaths []string
}

// NewResolver builds a Resolver from the given stdlib directory and extra
// search paths (e.g. config.Manifest.StdlibDir, config.Env.StdlibDir).
func NewResolver(stdlibDir string, searchPaths []string) *Resolver {
	return &Resolver{StdlibDir: stdlibDir, SearchPaths: searchPaths}
}

const sourceExt = ".ot"

func withExt(path string) string {
	if strings.HasSuffix(path, sourceExt) {
		return path
	}
	return path + sourceExt
}

// Resolve maps spec (as written in a Use/PubUse statement) to an absolute
// file path, given the absolute path of the file containing the import.
func (r *Resolver) Resolve(spec string, fromFile string) (string, error) {
	spec = normalizeLegacy(spec)
	kind := Classify(spec)

	switch kind {
	case SpecRelative:
		dir := filepath.Dir(fromFile)
		candidate := withExt(filepath.Join(dir, spec))
		if fileExists(candidate) {
			return filepath.Abs(candidate)
		}
		return "", &Error{Message: "relative module not found: " + candidate}

	case SpecAbsolute:
		candidate := withExt(spec)
		if fileExists(candidate) {
			return candidate, nil
		}
		return "", &Error{Message: "absolute module not found: " + candidate}

	case SpecStdlibQualified:
		// "otter:core" -> <stdlib>/core.ot
		rest := spec
		if idx := strings.IndexByte(spec, ':'); idx >= 0 {
			rest = spec[idx+1:]
		}
		candidate := withExt(filepath.Join(r.StdlibDir, filepath.FromSlash(rest)))
		if fileExists(candidate) {
			return filepath.Abs(candidate)
		}
		return "", &Error{Message: "stdlib module not found: " + spec}

	case SpecForeign:
		// Passed through untouched: the module system records the
		// specifier itself as the "path" and leaves extraction to an
		// external FFI tool; no .ot file backs it.
		return "foreign:" + spec, nil

	default: // SpecUnqualified
		dir := filepath.Dir(fromFile)
		candidates := append([]string{dir}, r.SearchPaths...)
		candidates = append(candidates, r.StdlibDir)
		var tried []string
		for _, base := range candidates {
			if base == "" {
				continue
			}
			candidate := withExt(filepath.Join(base, filepath.FromSlash(spec)))
			tried = append(tried, candidate)
			if fileExists(candidate) {
				return filepath.Abs(candidate)
			}
		}
		return "", &Error{Message: "module not found: " + spec + " (tried " + strings.Join(tried, ", ") + ")"}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Canonicalize produces the stable identity a resolved file path is keyed
// under in the Loader's memoization table: an absolute path with its
// extension stripped and separators normalized to '/', so the same module
// reached via two different relative specifiers maps to one cache entry.
func Canonicalize(absPath string) string {
	p := strings.TrimSuffix(absPath, sourceExt)
	p = filepath.ToSlash(p)
	return p
}
