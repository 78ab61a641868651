package inline

import (
	"testing"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, diags := lexer.Tokenize([]byte(src), "test.ot")
	if diags.HasErrors() {
		t.Fatalf("lex errors: %v", diags.All())
	}
	prog, pdiags := parser.Parse(toks, "test.ot")
	if pdiags.HasErrors() {
		t.Fatalf("parse errors: %v", pdiags.All())
	}
	return prog
}

func countCalls(prog *ast.Program, name string) int {
	n := 0
	for _, stmt := range prog.Statements {
		f, ok := stmt.(*ast.FuncDecl)
		if !ok {
			continue
		}
		walkBlockExprs(f.Body, func(e ast.Expr) {
			if call, ok := e.(*ast.CallExpr); ok {
				if id, ok := call.Fn.(*ast.Ident); ok && id.Name == name {
					n++
				}
			}
		})
	}
	return n
}

func TestBuildCallGraph_DirectCallees(t *testing.T) {
	prog := mustParse(t, "fn helper(x: int) -> int:\n    return x + 1\n\nfn main() -> int:\n    return helper(helper(1))\n")
	g := BuildCallGraph(prog)
	callees := g.Callees("main")
	if len(callees) != 2 || callees[0] != "helper" || callees[1] != "helper" {
		t.Fatalf("expected two helper callees, got %v", callees)
	}
}

func TestInliner_SmallHotCalleeIsInlined(t *testing.T) {
	src := "fn helper(x: int) -> int:\n    return x + 1\n\nfn main() -> int:\n    return helper(41)\n"
	prog := mustParse(t, src)

	in := NewInliner()
	hot := map[string]bool{"main": true, "helper": true}
	graph := BuildCallGraph(prog)
	stats := in.InlineProgram(prog, hot, graph)

	if stats.Applied != 1 {
		t.Fatalf("expected 1 applied inline, got %+v", stats)
	}
	if n := countCalls(prog, "helper"); n != 0 {
		t.Fatalf("expected helper call site to be gone, found %d remaining", n)
	}
}

func TestInliner_ColdCalleeSkippedWhenHotOnly(t *testing.T) {
	src := "fn helper(x: int) -> int:\n    return x + 1\n\nfn main() -> int:\n    return helper(41)\n"
	prog := mustParse(t, src)

	in := NewInliner()
	graph := BuildCallGraph(prog)
	stats := in.InlineProgram(prog, map[string]bool{}, graph)

	if stats.Applied != 0 || stats.SkippedCold != 1 {
		t.Fatalf("expected the cold callee to be skipped, got %+v", stats)
	}
	if n := countCalls(prog, "helper"); n != 1 {
		t.Fatalf("expected helper call site to remain, found %d", n)
	}
}

func TestInliner_RecursiveCalleeNeverInlinesItself(t *testing.T) {
	src := "fn fact(n: int) -> int:\n    return fact(n - 1)\n\nfn main() -> int:\n    return fact(5)\n"
	prog := mustParse(t, src)

	in := NewInliner()
	hot := map[string]bool{"main": true, "fact": true}
	graph := BuildCallGraph(prog)
	stats := in.InlineProgram(prog, hot, graph)

	// The outer call site (main -> fact) is eligible and inlines once;
	// the self-call inside fact's own body must never be inlined since
	// fact is already on the active call stack at that point.
	if stats.SkippedRecursive == 0 {
		t.Fatalf("expected at least one recursive call to be skipped, got %+v", stats)
	}
}

func TestInliner_OversizedCalleeSkipped(t *testing.T) {
	in := NewInlinerWithConfig(InlineConfig{MaxInlineSize: 1, MaxDepth: 3, InlineHotOnly: false})
	src := "fn helper(x: int) -> int:\n    let a = x + 1\n    let b = a + 1\n    return b\n\nfn main() -> int:\n    return helper(1)\n"
	prog := mustParse(t, src)
	graph := BuildCallGraph(prog)
	stats := in.InlineProgram(prog, map[string]bool{}, graph)

	if stats.Applied != 0 || stats.SkippedSize != 1 {
		t.Fatalf("expected the oversized callee to be skipped, got %+v", stats)
	}
}

func TestInliner_ArityMismatchSkipped(t *testing.T) {
	in := NewInliner()
	src := "fn helper(x: int, y: int) -> int:\n    return x + y\n\nfn main() -> int:\n    return helper(1)\n"
	prog := mustParse(t, src)
	graph := BuildCallGraph(prog)
	stats := in.InlineProgram(prog, map[string]bool{"main": true, "helper": true}, graph)

	if stats.Applied != 0 || stats.SkippedComplex == 0 {
		t.Fatalf("expected the arity-mismatched call to be skipped, got %+v", stats)
	}
}

func TestInliner_InternalReturnSkipped(t *testing.T) {
	in := NewInliner()
	src := "fn helper(x: int) -> int:\n    if x > 0:\n        return 1\n    return 0\n\nfn main() -> int:\n    return helper(1)\n"
	prog := mustParse(t, src)
	graph := BuildCallGraph(prog)
	stats := in.InlineProgram(prog, map[string]bool{"main": true, "helper": true}, graph)

	if stats.Applied != 0 || stats.SkippedComplex == 0 {
		t.Fatalf("expected the early-return callee to be skipped, got %+v", stats)
	}
}
