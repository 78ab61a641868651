package codegen

import (
	"strings"
	"testing"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/module"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/internal/types"
)

func checkedProgram(t *testing.T, src string) (*ast.Program, *types.Result) {
	t.Helper()
	toks, diags := lexer.Tokenize([]byte(src), "test.ot")
	if diags.HasErrors() {
		t.Fatalf("lex errors: %v", diags.All())
	}
	prog, pdiags := parser.Parse(toks, "test.ot")
	if pdiags.HasErrors() {
		t.Fatalf("parse errors: %v", pdiags.All())
	}
	mod := &module.Module{Path: "test", FilePath: "test.ot", Program: prog}
	mod.Exports = &module.Exports{
		Functions: make(map[string]*ast.FuncDecl),
		Constants: make(map[string]*ast.LetStmt),
		Types:     make(map[string]ast.Stmt),
	}
	for _, stmt := range prog.Statements {
		if f, ok := stmt.(*ast.FuncDecl); ok {
			mod.Exports.Functions[f.Name] = f
		}
	}
	result, tdiags := types.Check(mod, nil, nil)
	if tdiags.HasErrors() {
		t.Fatalf("type errors: %v", tdiags.All())
	}
	return prog, result
}

func TestParseTarget_LinuxGNU(t *testing.T) {
	tt, err := ParseTarget("x86_64-unknown-linux-gnu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.Arch != "x86_64" || tt.Vendor != "unknown" || tt.OS != "linux" || tt.Env != "gnu" {
		t.Fatalf("unexpected triple: %+v", tt)
	}
	if tt.Linker() != "cc" || !tt.NeedsPIC() {
		t.Fatalf("expected cc linker and PIC for linux-gnu, got %+v", tt)
	}
}

func TestParseTarget_Wasm(t *testing.T) {
	tt := Wasm32WASI()
	if !tt.IsWasm() {
		t.Fatalf("expected wasm target")
	}
	if tt.Linker() != "wasm-ld" {
		t.Fatalf("expected wasm-ld linker, got %s", tt.Linker())
	}
	flags := tt.LinkerFlags()
	found := false
	for _, f := range flags {
		if f == "--allow-undefined" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected --allow-undefined for wasi target, got %v", flags)
	}
}

func TestParseTarget_Embedded(t *testing.T) {
	tt := ThumbV7EMNoneEABI()
	if !tt.IsEmbedded() {
		t.Fatalf("expected embedded target")
	}
	if tt.RuntimeShimSource() != embeddedShimSource {
		t.Fatalf("expected embedded shim source")
	}
}

func TestParseTarget_InvalidTriple(t *testing.T) {
	if _, err := ParseTarget("bogus"); err == nil {
		t.Fatalf("expected an error for a malformed triple")
	}
}

func TestLowerProgram_SimpleFunction(t *testing.T) {
	prog, result := checkedProgram(t, "fn add(a: int, b: int) -> int:\n    return a + b\n")
	src := lowerProgram(prog, result)
	if !strings.Contains(src, "add(") {
		t.Fatalf("expected lowered source to contain the function name, got: %s", src)
	}
	if !strings.Contains(src, "int64_t") {
		t.Fatalf("expected int params/return to lower to int64_t, got: %s", src)
	}
}

func TestLowerProgram_StructLayout(t *testing.T) {
	prog, result := checkedProgram(t, "struct Point:\n    x: int\n    y: int\n\nfn sum(p: Point) -> int:\n    return p.x + p.y\n")
	src := lowerProgram(prog, result)
	if !strings.Contains(src, "struct Point {") {
		t.Fatalf("expected a Point struct definition, got: %s", src)
	}
	if !strings.Contains(src, "p->x") {
		t.Fatalf("expected field access to lower to pointer dereference, got: %s", src)
	}
}

func TestLowerProgram_RangeForLoop(t *testing.T) {
	prog, result := checkedProgram(t, "fn sum() -> int:\n    let total = 0\n    for i in 0..10:\n        total = total + i\n    return total\n")
	src := lowerProgram(prog, result)
	if !strings.Contains(src, "for (int64_t i = 0; i < 10; i++)") {
		t.Fatalf("expected a counted range loop with no array materialization, got: %s", src)
	}
	if strings.Contains(src, "/* unsupported expression */") {
		t.Fatalf("range expression lowered to an unsupported-expression placeholder: %s", src)
	}
}

func TestLowerProgram_RangeValueMaterializes(t *testing.T) {
	prog, result := checkedProgram(t, "fn make() -> Array<int>:\n    return 0..5\n")
	src := lowerProgram(prog, result)
	if !strings.Contains(src, "otter_range_new(0, 5)") {
		t.Fatalf("expected a standalone range value to materialize via otter_range_new, got: %s", src)
	}
}

func TestLowerProgram_IntDivisionIsChecked(t *testing.T) {
	prog, result := checkedProgram(t, "fn div(a: int, b: int) -> int:\n    return a / b\n")
	src := lowerProgram(prog, result)
	if !strings.Contains(src, "otter_checked_div(a, b)") {
		t.Fatalf("expected integer division to route through otter_checked_div, got: %s", src)
	}
}

func TestLowerProgram_IntModIsChecked(t *testing.T) {
	prog, result := checkedProgram(t, "fn mod(a: int, b: int) -> int:\n    return a % b\n")
	src := lowerProgram(prog, result)
	if !strings.Contains(src, "otter_checked_mod(a, b)") {
		t.Fatalf("expected integer modulo to route through otter_checked_mod, got: %s", src)
	}
}

func TestLowerProgram_FloatDivisionIsUnguarded(t *testing.T) {
	prog, result := checkedProgram(t, "fn div(a: float, b: float) -> float:\n    return a / b\n")
	src := lowerProgram(prog, result)
	if strings.Contains(src, "otter_checked_div") {
		t.Fatalf("float division should stay a plain C division, got: %s", src)
	}
	if !strings.Contains(src, "(a / b)") {
		t.Fatalf("expected plain float division, got: %s", src)
	}
}

func TestBuild_MissingMainFails(t *testing.T) {
	prog, result := checkedProgram(t, "fn helper() -> int:\n    return 1\n")
	var be OptimizingBackend
	_, err := be.Build(prog, result, "/tmp/should-not-exist", Options{Target: HostTarget("linux", "amd64")})
	if err == nil {
		t.Fatalf("expected an error for a program with no main function")
	}
}
