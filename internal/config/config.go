// Package config parses the project-level otter.yaml manifest and the
// OTTER_* environment variables, producing an immutable configuration that
// the rest of the pipeline reads from. Parsing follows the teacher's
// internal/eval_harness manifest convention: unmarshal into a plain struct
// with yaml.v3, then fill defaults.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OptLevel mirrors the codegen optimization levels named in spec.md §4.6.
type OptLevel string

const (
	OptNone       OptLevel = "none"
	OptDefault    OptLevel = "default"
	OptAggressive OptLevel = "aggressive"
)

// Manifest is the parsed shape of otter.yaml.
type Manifest struct {
	StdlibDir    string   `yaml:"stdlib_dir"`
	DefaultTarget string  `yaml:"target"`
	OptLevel     OptLevel `yaml:"opt_level"`
	Features     []string `yaml:"features"`
	CacheDir     string   `yaml:"cache_dir"`
	CacheSizeCap int64    `yaml:"cache_size_cap_bytes"`
}

// defaultManifest returns the manifest used when no otter.yaml is present.
func defaultManifest() Manifest {
	return Manifest{
		DefaultTarget: "host",
		OptLevel:      OptDefault,
		CacheDir:      ".otter-cache",
		CacheSizeCap:  512 * 1024 * 1024,
	}
}

// LoadManifest reads and parses otter.yaml at path, falling back to
// defaults for any field the file left unset or if the file is absent.
func LoadManifest(path string) (Manifest, error) {
	m := defaultManifest()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, err
	}

	parsed := defaultManifest()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return m, err
	}
	return parsed, nil
}

// Env is a snapshot of the OTTER_* environment variables. LoadEnv builds a
// fresh one on every call; callers read it, nothing caches it.
type Env struct {
	StdlibDir        string
	Features         []string
	TasksDiagnostics bool
	TasksDebug       bool
	TasksTrace       bool
	Debug            bool
	UpdateSnapshots  bool
}

// LoadEnv reads the OTTER_* environment variables described in spec.md §6.
func LoadEnv() Env {
	return Env{
		StdlibDir:        os.Getenv("OTTER_STDLIB_DIR"),
		Features:         splitFeatures(os.Getenv("OTTER_FEATURES")),
		TasksDiagnostics: envBool("OTTER_TASKS_DIAGNOSTICS"),
		TasksDebug:       envBool("OTTER_TASKS_DEBUG"),
		TasksTrace:       envBool("OTTER_TASKS_TRACE"),
		Debug:            envBool("OTTER_DEBUG"),
		UpdateSnapshots:  envBool("OTTER_UPDATE_SNAPSHOTS"),
	}
}

func envBool(name string) bool {
	v := strings.ToLower(os.Getenv(name))
	return v == "1" || v == "true" || v == "yes"
}

func splitFeatures(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// MergeFeatures combines manifest features, environment features, and
// --features CLI flags, de-duplicating while preserving first-seen order.
func MergeFeatures(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, f := range list {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// FeatureSet turns a merged feature-flag list into the lookup map the
// type checker gates feature-specific behavior on (e.g. whether
// Option/Result get sum-type exhaustiveness treatment).
func FeatureSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// KnownFeatures are the recognized feature-flag names from spec.md §6.
// Unknown flags produce a warning and are ignored by the caller.
var KnownFeatures = map[string]bool{
	"result_option_core":  true,
	"match_exhaustiveness": true,
	"newtype_aliases":      true,
}
