package parser

import (
	"testing"

	"github.com/otterlang/otter/internal/ast"
)

func parseExprHelper(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog := mustParse(t, src+"\n")
	es, ok := prog.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("want *ast.ExprStmt, got %T", prog.Statements[0])
	}
	return es.X
}

func TestParseExpr_Precedence_MulBeforeAdd(t *testing.T) {
	x := parseExprHelper(t, "1 + 2 * 3")
	bin, ok := x.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("want top-level Add, got %#v", x)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.OpMul {
		t.Fatalf("rhs should be Mul, got %#v", bin.Right)
	}
}

func TestParseExpr_Precedence_AndBeforeOr(t *testing.T) {
	x := parseExprHelper(t, "a or b and c")
	bin, ok := x.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpOr {
		t.Fatalf("want top-level Or, got %#v", x)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.OpAnd {
		t.Fatalf("rhs should be And, got %#v", bin.Right)
	}
}

func TestParseExpr_RangeExpr(t *testing.T) {
	x := parseExprHelper(t, "a..b")
	rng, ok := x.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("want *ast.RangeExpr, got %#v", x)
	}
	if _, ok := rng.Start.(*ast.Ident); !ok {
		t.Errorf("start = %#v", rng.Start)
	}
}

func TestParseExpr_IsIdentity(t *testing.T) {
	x := parseExprHelper(t, "a is not b")
	bin, ok := x.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpIsNot {
		t.Fatalf("want OpIsNot, got %#v", x)
	}
}

func TestParseExpr_UnaryNot(t *testing.T) {
	x := parseExprHelper(t, "not a")
	u, ok := x.(*ast.UnaryExpr)
	if !ok || u.Op != ast.OpNot {
		t.Fatalf("want UnaryExpr(Not), got %#v", x)
	}
}

func TestParseExpr_CallChain(t *testing.T) {
	x := parseExprHelper(t, "obj.method(1, 2).field")
	mem, ok := x.(*ast.MemberExpr)
	if !ok || mem.Field != "field" {
		t.Fatalf("want MemberExpr(field), got %#v", x)
	}
	call, ok := mem.X.(*ast.CallExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("want CallExpr with 2 args, got %#v", mem.X)
	}
	inner, ok := call.Fn.(*ast.MemberExpr)
	if !ok || inner.Field != "method" {
		t.Fatalf("want MemberExpr(method), got %#v", call.Fn)
	}
}

func TestParseExpr_ArrayLit(t *testing.T) {
	x := parseExprHelper(t, "[1, 2, 3]")
	arr, ok := x.(*ast.ArrayLit)
	if !ok || len(arr.Elems) != 3 {
		t.Fatalf("want ArrayLit with 3 elems, got %#v", x)
	}
}

func TestParseExpr_ListComprehension(t *testing.T) {
	x := parseExprHelper(t, "[y for y in items if y > 0]")
	comp, ok := x.(*ast.Comprehension)
	if !ok || comp.Kind != ast.CompList {
		t.Fatalf("want list Comprehension, got %#v", x)
	}
	if comp.Binding != "y" || comp.Filter == nil {
		t.Errorf("comp = %#v", comp)
	}
}

func TestParseExpr_DictLit(t *testing.T) {
	x := parseExprHelper(t, `{"a": 1, "b": 2}`)
	dict, ok := x.(*ast.DictLit)
	if !ok || len(dict.Entries) != 2 {
		t.Fatalf("want DictLit with 2 entries, got %#v", x)
	}
}

func TestParseExpr_StructLit(t *testing.T) {
	x := parseExprHelper(t, "Point{x: 1, y: 2}")
	sl, ok := x.(*ast.StructLit)
	if !ok || sl.Type != "Point" || len(sl.Fields) != 2 {
		t.Fatalf("want StructLit(Point) with 2 fields, got %#v", x)
	}
}

func TestParseExpr_IfExpr(t *testing.T) {
	x := parseExprHelper(t, "if a: 1 else: 2")
	ie, ok := x.(*ast.IfExpr)
	if !ok {
		t.Fatalf("want *ast.IfExpr, got %#v", x)
	}
	if ie.Else == nil {
		t.Errorf("expected Else branch")
	}
}

func TestParseExpr_InterpString(t *testing.T) {
	x := parseExprHelper(t, `f"pi ~ {x}"`)
	is, ok := x.(*ast.InterpString)
	if !ok {
		t.Fatalf("want *ast.InterpString, got %#v", x)
	}
	if len(is.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(is.Parts))
	}
	if is.Parts[0].Text != "pi ~ " {
		t.Errorf("part 0 text = %q", is.Parts[0].Text)
	}
	ident, ok := is.Parts[1].Expr.(*ast.Ident)
	if !ok || ident.Name != "x" {
		t.Errorf("part 1 expr = %#v", is.Parts[1].Expr)
	}
}

func TestParseExpr_SpawnAwait(t *testing.T) {
	x := parseExprHelper(t, "await spawn f()")
	aw, ok := x.(*ast.AwaitExpr)
	if !ok {
		t.Fatalf("want *ast.AwaitExpr, got %#v", x)
	}
	if _, ok := aw.X.(*ast.SpawnExpr); !ok {
		t.Errorf("await target = %#v, want SpawnExpr", aw.X)
	}
}
