package types

import (
	"testing"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/module"
	"github.com/otterlang/otter/internal/parser"
)

// exportsOf replicates the loader's pub-scan for tests that exercise the
// checker directly, without routing source files through a Loader.
func exportsOf(prog *ast.Program) *module.Exports {
	ex := &module.Exports{
		Functions: make(map[string]*ast.FuncDecl),
		Constants: make(map[string]*ast.LetStmt),
		Types:     make(map[string]ast.Stmt),
	}
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.FuncDecl:
			ex.Functions[s.Name] = s
		case *ast.LetStmt:
			ex.Constants[s.Name] = s
		case *ast.StructDecl:
			ex.Types[s.Name] = s
		case *ast.EnumDecl:
			ex.Types[s.Name] = s
		case *ast.TypeAliasDecl:
			ex.Types[s.Name] = s
		}
	}
	return ex
}

func mustCheck(t *testing.T, src string) (*module.Module, *Result, *diag.Bag) {
	t.Helper()
	toks, lexDiags := lexer.Tokenize([]byte(src), "test.ot")
	if lexDiags.HasErrors() {
		t.Fatalf("lex errors: %v", lexDiags.All())
	}
	prog, parDiags := parser.Parse(toks, "test.ot")
	if parDiags.HasErrors() {
		t.Fatalf("parse errors: %v", parDiags.All())
	}
	mod := &module.Module{Path: "test", FilePath: "test.ot", Program: prog}
	// collectExports isn't exported; replicate the pub-scan the loader
	// does, since these tests exercise the checker directly without a
	// Loader in the loop.
	mod.Exports = exportsOf(prog)
	result, diags := Check(mod, nil, nil)
	return mod, result, diags
}

func TestChecker_SimpleArithmetic(t *testing.T) {
	_, _, diags := mustCheck(t, "fn add(a: int, b: int) -> int:\n    return a + b\n")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
}

func TestChecker_TypeMismatchOnReturn(t *testing.T) {
	_, _, diags := mustCheck(t, "fn bad() -> int:\n    return \"oops\"\n")
	if !diags.HasErrors() {
		t.Fatalf("expected a type mismatch diagnostic")
	}
}

func TestChecker_UndefinedName(t *testing.T) {
	_, _, diags := mustCheck(t, "fn f() -> int:\n    return missing\n")
	assertHasCode(t, diags, "TYP001")
}

func TestChecker_ArityMismatch(t *testing.T) {
	src := "fn add(a: int, b: int) -> int:\n    return a + b\n\nfn main() -> int:\n    return add(1)\n"
	_, _, diags := mustCheck(t, src)
	assertHasCode(t, diags, "TYP003")
}

func TestChecker_StructFieldAccess(t *testing.T) {
	src := "struct Point:\n    x: int\n    y: int\n\nfn sum(p: Point) -> int:\n    return p.x + p.y\n"
	_, _, diags := mustCheck(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
}

func TestChecker_StructLitMissingField(t *testing.T) {
	src := "struct Point:\n    x: int\n    y: int\n\nfn f() -> Point:\n    return Point{x: 1}\n"
	_, _, diags := mustCheck(t, src)
	assertHasCode(t, diags, "TYP003")
}

func TestChecker_EnumMatchExhaustive(t *testing.T) {
	src := "enum Color:\n    Red\n    Green\n    Blue\n\nfn name(c: Color) -> string:\n    match c:\n        Color.Red => \"red\"\n        Color.Green => \"green\"\n        Color.Blue => \"blue\"\n"
	_, _, diags := mustCheck(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
}

func TestChecker_EnumMatchNonExhaustive(t *testing.T) {
	src := "enum Color:\n    Red\n    Green\n    Blue\n\nfn name(c: Color) -> string:\n    match c:\n        Color.Red => \"red\"\n"
	_, _, diags := mustCheck(t, src)
	assertHasCode(t, diags, "TYP004")
}

func TestChecker_OptionVariant(t *testing.T) {
	src := "fn wrap(x: int) -> Option<int>:\n    return Some(x)\n"
	_, _, diags := mustCheck(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
}

func checkWithFeatures(t *testing.T, src string, features map[string]bool) *diag.Bag {
	t.Helper()
	toks, lexDiags := lexer.Tokenize([]byte(src), "test.ot")
	if lexDiags.HasErrors() {
		t.Fatalf("lex errors: %v", lexDiags.All())
	}
	prog, parDiags := parser.Parse(toks, "test.ot")
	if parDiags.HasErrors() {
		t.Fatalf("parse errors: %v", parDiags.All())
	}
	mod := &module.Module{Path: "test", FilePath: "test.ot", Program: prog}
	mod.Exports = exportsOf(prog)
	_, diags := Check(mod, nil, features)
	return diags
}

func TestChecker_OptionMatchNonExhaustive_FlagDisabled(t *testing.T) {
	src := "fn unwrap(o: Option<int>) -> int:\n    match o:\n        Some(v) => v\n"
	diags := checkWithFeatures(t, src, nil)
	if diags.HasErrors() {
		t.Fatalf("expected no exhaustiveness error with result_option_core disabled: %v", diags.All())
	}
}

func TestChecker_OptionMatchNonExhaustive_FlagEnabled(t *testing.T) {
	src := "fn unwrap(o: Option<int>) -> int:\n    match o:\n        Some(v) => v\n"
	diags := checkWithFeatures(t, src, map[string]bool{"result_option_core": true})
	assertHasCode(t, diags, "TYP004")
}

func TestChecker_ArrayLiteralAndIndexElem(t *testing.T) {
	src := "fn nums() -> int[]:\n    return [1, 2, 3]\n"
	_, _, diags := mustCheck(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
}

func assertHasCode(t *testing.T, diags *diag.Bag, code string) {
	t.Helper()
	for _, d := range diags.All() {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected a %s diagnostic, got %v", code, diags.All())
}
