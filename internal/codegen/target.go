// Package codegen lowers a type-checked OtterLang program to a native
// artifact through one of two interchangeable backends, per spec.md
// §4.6. Grounded on original_source/src/codegen/target.rs (the target
// triple model, per-target linker/PIC policy, and the three C runtime
// shim variants) and original_source/src/codegen/{cranelift,llvm}/ for
// the two-backend split — since the example pack carries no Go LLVM or
// Cranelift bindings, both backends here lower the typed AST to C
// source and drive the host C toolchain (`cc`) as the "machine code
// emitter", the idiomatic Go substitute for a bindings-free native
// backend. The dual-backend contract (Options, Artifact, the lowering
// rules) is unchanged from the original; only the emission target is.
package codegen

import (
	"fmt"
	"strings"
)

// TargetTriple identifies a compilation target the way a GNU/LLVM
// triple does: architecture, vendor, OS, and an optional ABI/env.
type TargetTriple struct {
	Arch   string
	Vendor string
	OS     string
	Env    string // empty when absent
}

// ParseTarget parses a triple string such as "x86_64-unknown-linux-gnu".
// Arm64 is normalized to aarch64 to match common toolchain naming.
func ParseTarget(triple string) (TargetTriple, error) {
	parts := strings.Split(triple, "-")
	if len(parts) < 3 {
		return TargetTriple{}, fmt.Errorf("invalid target triple %q", triple)
	}
	arch := parts[0]
	if arch == "arm64" {
		arch = "aarch64"
	}
	t := TargetTriple{Arch: arch, Vendor: parts[1], OS: parts[2]}
	if len(parts) > 3 {
		t.Env = strings.Join(parts[3:], "-")
	}
	return t, nil
}

// String renders the triple back to its canonical dash-joined form.
func (t TargetTriple) String() string {
	if t.Env == "" {
		return fmt.Sprintf("%s-%s-%s", t.Arch, t.Vendor, t.OS)
	}
	return fmt.Sprintf("%s-%s-%s-%s", t.Arch, t.Vendor, t.OS, t.Env)
}

// IsWasm reports whether the target is WebAssembly (wasm32 or wasm64).
func (t TargetTriple) IsWasm() bool { return t.Arch == "wasm32" || t.Arch == "wasm64" }

// IsEmbedded reports whether the target has no host OS.
func (t TargetTriple) IsEmbedded() bool { return t.OS == "none" || t.OS == "elf" }

// IsWindows reports whether the target's OS is Windows.
func (t TargetTriple) IsWindows() bool { return t.OS == "windows" }

// IsUnix reports whether the target's OS is a Unix-family OS.
func (t TargetTriple) IsUnix() bool {
	switch t.OS {
	case "linux", "darwin", "freebsd", "openbsd", "netbsd":
		return true
	}
	return false
}

// Linker returns the linker executable name this target should use.
func (t TargetTriple) Linker() string {
	switch {
	case t.IsWasm():
		return "wasm-ld"
	case t.IsWindows():
		return "link.exe"
	default:
		return "cc"
	}
}

// LinkerFlags returns target-specific flags to pass to Linker().
func (t TargetTriple) LinkerFlags() []string {
	var flags []string
	switch {
	case t.IsWasm():
		flags = append(flags, "--no-entry", "--export-dynamic")
		if t.OS == "wasi" {
			flags = append(flags, "--allow-undefined")
		}
	case t.IsWindows():
		flags = append(flags, "/SUBSYSTEM:CONSOLE")
	case t.IsEmbedded():
		flags = append(flags, "-nostdlib")
	}
	return flags
}

// NeedsPIC reports whether object code for this target must be
// position-independent.
func (t TargetTriple) NeedsPIC() bool {
	if t.IsWasm() {
		return true
	}
	switch t.OS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return true
	}
	return false
}

// RuntimeShimSource returns the per-target C runtime shim source that
// gets compiled once per build and linked alongside the generated code.
func (t TargetTriple) RuntimeShimSource() string {
	switch {
	case t.IsWasm():
		return wasmShimSource
	case t.IsEmbedded():
		return embeddedShimSource
	default:
		return standardShimSource
	}
}

// HostTarget returns the triple for the machine running the compiler.
// Go's runtime.GOOS/GOARCH are trusted here rather than re-deriving a
// triple from an external toolchain query.
func HostTarget(goos, goarch string) TargetTriple {
	arch := goarch
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	}
	vendor := "unknown"
	if goos == "darwin" {
		vendor = "apple"
	}
	env := ""
	if goos == "linux" {
		env = "gnu"
	}
	return TargetTriple{Arch: arch, Vendor: vendor, OS: goos, Env: env}
}

// Wasm32WASI is the WebAssembly System Interface target.
func Wasm32WASI() TargetTriple { return TargetTriple{Arch: "wasm32", Vendor: "unknown", OS: "wasi"} }

// Wasm32Unknown is the bare (no-WASI) WebAssembly target.
func Wasm32Unknown() TargetTriple {
	return TargetTriple{Arch: "wasm32", Vendor: "unknown", OS: "unknown"}
}

// ThumbV7EMNoneEABI is a Cortex-M4 embedded target.
func ThumbV7EMNoneEABI() TargetTriple {
	return TargetTriple{Arch: "thumbv7em", Vendor: "none", OS: "none", Env: "eabi"}
}
