package format

import (
	"strings"
	"testing"

	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/parser"
)

func TestProgram_LetAndReturnRoundTripsReadably(t *testing.T) {
	src := "fn add(a: int, b: int) -> int:\n  let total = a + b\n  return total\n"
	toks, lexDiags := lexer.Tokenize([]byte(src), "test.ot")
	if lexDiags.HasErrors() {
		t.Fatalf("lex errors: %v", lexDiags.All())
	}
	prog, diags := parser.Parse(toks, "test.ot")
	if diags.HasErrors() {
		t.Fatalf("parse errors: %v", diags.All())
	}

	out := Program(prog)
	for _, want := range []string{"fn add(a: int, b: int) -> int:", "let total = a + b", "return total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected formatted output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestProgram_IfElifElseIndents(t *testing.T) {
	src := "fn classify(n: int) -> int:\n  if n < 0:\n    return 0\n  elif n == 0:\n    return 1\n  else:\n    return 2\n"
	toks, _ := lexer.Tokenize([]byte(src), "test.ot")
	prog, diags := parser.Parse(toks, "test.ot")
	if diags.HasErrors() {
		t.Fatalf("parse errors: %v", diags.All())
	}
	out := Program(prog)
	if !strings.Contains(out, "if n < 0:") || !strings.Contains(out, "elif n == 0:") || !strings.Contains(out, "else:") {
		t.Fatalf("expected if/elif/else structure preserved, got:\n%s", out)
	}
}

func TestProgram_IsIdempotent(t *testing.T) {
	src := "pub fn identity(x: int) -> int:\n  return x\n"
	toks, _ := lexer.Tokenize([]byte(src), "test.ot")
	prog, diags := parser.Parse(toks, "test.ot")
	if diags.HasErrors() {
		t.Fatalf("parse errors: %v", diags.All())
	}
	first := Program(prog)

	toks2, _ := lexer.Tokenize([]byte(first), "test.ot")
	prog2, diags2 := parser.Parse(toks2, "test.ot")
	if diags2.HasErrors() {
		t.Fatalf("re-parse errors: %v", diags2.All())
	}
	second := Program(prog2)

	if first != second {
		t.Fatalf("expected formatting to be idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
