package module

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		spec string
		want SpecifierKind
	}{
		{"./math", SpecRelative},
		{"../util", SpecRelative},
		{"/abs/path", SpecAbsolute},
		{"otter:core", SpecStdlibQualified},
		{"foreign-crate", SpecForeign},
		{"math", SpecUnqualified},
		{"otterc_math", SpecUnqualified},
	}
	for _, c := range cases {
		if got := Classify(c.spec); got != c.want {
			t.Errorf("Classify(%q) = %s, want %s", c.spec, got, c.want)
		}
	}
}

func TestNormalizeLegacy(t *testing.T) {
	if got := normalizeLegacy("otterc_math"); got != "math" {
		t.Errorf("normalizeLegacy = %q, want math", got)
	}
	if got := normalizeLegacy("math"); got != "math" {
		t.Errorf("normalizeLegacy unchanged = %q, want math", got)
	}
}

func TestResolve_Relative(t *testing.T) {
	dir := t.TempDir()
	mathPath := dir + "/math.ot"
	writeFile(t, mathPath, "pub fn sin(x: float) -> float:\n    return x\n")

	r := NewResolver(dir+"/stdlib", nil)
	resolved, err := r.Resolve("./math", dir+"/main.ot")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved != mathPath {
		t.Errorf("resolved = %q, want %q", resolved, mathPath)
	}
}

func TestResolve_Foreign(t *testing.T) {
	r := NewResolver("", nil)
	resolved, err := r.Resolve("foreign-crate", "/proj/src/main.ot")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved != "foreign:foreign-crate" {
		t.Errorf("resolved = %q, want foreign:foreign-crate", resolved)
	}
}

func TestResolve_StdlibQualified(t *testing.T) {
	dir := t.TempDir()
	stdlib := dir + "/stdlib"
	corePath := stdlib + "/core.ot"
	writeFile(t, corePath, "pub fn id(x: int) -> int:\n    return x\n")

	r := NewResolver(stdlib, nil)
	resolved, err := r.Resolve("otter:core", dir+"/main.ot")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved != corePath {
		t.Errorf("resolved = %q, want %q", resolved, corePath)
	}
}

func TestCanonicalize(t *testing.T) {
	if got := Canonicalize("/a/b/math.ot"); got != "/a/b/math" {
		t.Errorf("Canonicalize = %q, want /a/b/math", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile(%s): %v", path, err)
	}
}
