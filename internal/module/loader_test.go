package module

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	r := NewResolver(filepath.Join(dir, "stdlib"), nil)
	return NewLoader(r)
}

func TestLoader_LoadSimpleModule(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.ot")
	writeFile(t, mainPath, "pub fn add(a: int, b: int) -> int:\n    return a + b\n")

	l := newTestLoader(t, dir)
	mod, err := l.LoadFile(mainPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if l.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", l.Diagnostics.All())
	}
	if _, ok := mod.Exports.Functions["add"]; !ok {
		t.Errorf("expected 'add' in exports.Functions, got %#v", mod.Exports.Functions)
	}
}

func TestLoader_UseWithAlias(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math.ot"), "pub fn sin(x: float) -> float:\n    return x\n")
	mainPath := filepath.Join(dir, "main.ot")
	writeFile(t, mainPath, "use ./math as m\n")

	l := newTestLoader(t, dir)
	mod, err := l.LoadFile(mainPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(mod.Dependencies) != 1 {
		t.Fatalf("got %d dependencies, want 1", len(mod.Dependencies))
	}
	wantDep, _ := filepath.Abs(filepath.Join(dir, "math.ot"))
	if mod.Dependencies[0] != wantDep {
		t.Errorf("dependency = %q, want %q", mod.Dependencies[0], wantDep)
	}
}

func TestLoader_CircularImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ot"), "use ./b\n")
	writeFile(t, filepath.Join(dir, "b.ot"), "use ./a\n")

	l := newTestLoader(t, dir)
	_, err := l.LoadFile(filepath.Join(dir, "a.ot"))
	if err == nil {
		t.Fatalf("expected a circular-import error")
	}
	modErr, ok := err.(*Error)
	if !ok || modErr.Code != "MOD002" {
		t.Fatalf("err = %#v, want *Error{Code: MOD002}", err)
	}
}

func TestLoader_ReexportRename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math.ot"), "pub fn sin(x: float) -> float:\n    return x\n")
	writeFile(t, filepath.Join(dir, "facade.ot"), "pub use ./math.sin as sine\n")

	l := newTestLoader(t, dir)
	facade, err := l.LoadFile(filepath.Join(dir, "facade.ot"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	l.ResolveReexports()

	if _, ok := facade.Exports.Functions["sine"]; !ok {
		t.Fatalf("expected 'sine' in facade's exports, got %#v", facade.Exports.Functions)
	}
	if _, ok := facade.Exports.Functions["sin"]; ok {
		t.Errorf("'sin' should not appear under its original name in facade's exports")
	}
}

func TestLoader_ReexportTransitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ot"), "pub fn x() -> int:\n    return 1\n")
	writeFile(t, filepath.Join(dir, "b.ot"), "pub use ./a.x\n")
	writeFile(t, filepath.Join(dir, "c.ot"), "pub use ./b.x\n")

	l := newTestLoader(t, dir)
	c, err := l.LoadFile(filepath.Join(dir, "c.ot"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	l.ResolveReexports()

	if _, ok := c.Exports.Functions["x"]; !ok {
		t.Fatalf("expected transitive re-export 'x' in c's exports")
	}
}

func TestLoader_ReexportNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math.ot"), "fn hidden() -> int:\n    return 1\n")
	writeFile(t, filepath.Join(dir, "facade.ot"), "pub use ./math.hidden\n")

	l := newTestLoader(t, dir)
	_, err := l.LoadFile(filepath.Join(dir, "facade.ot"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	l.ResolveReexports()

	if !l.Diagnostics.HasErrors() {
		t.Fatalf("expected a re-export-not-found diagnostic")
	}
}

func TestLoader_MissingFile(t *testing.T) {
	dir := t.TempDir()
	l := newTestLoader(t, dir)
	_, err := l.LoadFile(filepath.Join(dir, "nope.ot"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoader_Memoization(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math.ot"), "pub fn sin(x: float) -> float:\n    return x\n")
	mainPath := filepath.Join(dir, "main.ot")
	writeFile(t, mainPath, "use ./math\nuse ./math\n")

	l := newTestLoader(t, dir)
	_, err := l.LoadFile(mainPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(l.cache) != 2 {
		t.Fatalf("got %d cached modules, want 2 (main + math loaded once)", len(l.cache))
	}
}

func ensureDir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
}
