package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/otterlang/otter/internal/obslog"
)

// TestCompileFile_EndToEnd mirrors the teacher's whole-pipeline
// integration test style (cmd/test_integration/main_test.go): a table of
// small source snippets run through the real lex/parse/module/type-check
// stages, asserting only on success/failure rather than exact output.
func TestCompileFile_EndToEnd(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		expectError bool
	}{
		{
			name:        "simple function",
			source:      "fn add(a: int, b: int) -> int:\n  return a + b\n",
			expectError: false,
		},
		{
			name:        "let binding",
			source:      "let x = 1\nlet y = x + 2\n",
			expectError: false,
		},
		{
			name:        "type mismatch",
			source:      "fn add(a: int, b: int) -> int:\n  return a + \"oops\"\n",
			expectError: true,
		},
		{
			name:        "unterminated string",
			source:      "let s = \"unterminated\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "main.ot")
			if err := os.WriteFile(path, []byte(tt.source), 0o644); err != nil {
				t.Fatalf("writing source: %v", err)
			}

			log := obslog.New(false)
			_, err := compileFile(path, globalFlags{noCache: true}, log, true, "")
			if tt.expectError && err == nil {
				t.Fatalf("expected an error, got none")
			}
			if !tt.expectError && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestHotFunctionSet_EmptyUnlessAggressive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.ot")
	src := "fn a() -> int:\n  return 1\n\nfn b() -> int:\n  return 2\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	log := obslog.New(false)
	result, err := compileFile(path, globalFlags{noCache: true}, log, true, "")
	if err != nil {
		t.Fatalf("compileFile: %v", err)
	}
	if len(hotFunctionSet(result.mod.Program, 0)) != 0 {
		t.Fatalf("expected no hot functions without aggressive optimization")
	}
}

func TestDefaultBinaryName_StripsExtension(t *testing.T) {
	if got := defaultBinaryName("/tmp/prog.ot"); got != "prog" && got != "prog.exe" {
		t.Fatalf("unexpected binary name: %q", got)
	}
}
