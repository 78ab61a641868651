package parser

import (
	"testing"

	"github.com/otterlang/otter/internal/ast"
)

func TestParseMatch_WildcardAndLiteral(t *testing.T) {
	src := "match n:\n    0 => a\n    _ => b\n"
	prog := mustParse(t, src+"\n")
	es := prog.Statements[0].(*ast.ExprStmt)
	m, ok := es.X.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("want *ast.MatchExpr, got %T", es.X)
	}
	if len(m.Arms) != 2 {
		t.Fatalf("got %d arms, want 2", len(m.Arms))
	}
	if _, ok := m.Arms[0].Pattern.(ast.LiteralPattern); !ok {
		t.Errorf("arm 0 pattern = %#v, want LiteralPattern", m.Arms[0].Pattern)
	}
	if _, ok := m.Arms[1].Pattern.(ast.WildcardPattern); !ok {
		t.Errorf("arm 1 pattern = %#v, want WildcardPattern", m.Arms[1].Pattern)
	}
}

func TestParseMatch_EnumVariantWithGuard(t *testing.T) {
	src := "match shape:\n    Circle(r) if r > 0 => r\n    Square(s) => s\n"
	prog := mustParse(t, src+"\n")
	es := prog.Statements[0].(*ast.ExprStmt)
	m := es.X.(*ast.MatchExpr)
	arm0 := m.Arms[0]
	variant, ok := arm0.Pattern.(ast.EnumVariantPattern)
	if !ok || variant.Variant != "Circle" {
		t.Fatalf("arm 0 pattern = %#v, want EnumVariantPattern(Circle)", arm0.Pattern)
	}
	if len(variant.Tuple) != 1 {
		t.Fatalf("want 1 tuple sub-pattern, got %d", len(variant.Tuple))
	}
	if arm0.Guard == nil {
		t.Errorf("expected a guard on arm 0")
	}
}

func TestParseMatch_StructPattern(t *testing.T) {
	src := "match p:\n    Point{x: px, y: py} => px\n"
	prog := mustParse(t, src+"\n")
	es := prog.Statements[0].(*ast.ExprStmt)
	m := es.X.(*ast.MatchExpr)
	sp, ok := m.Arms[0].Pattern.(ast.StructPattern)
	if !ok || sp.Type != "Point" {
		t.Fatalf("want StructPattern(Point), got %#v", m.Arms[0].Pattern)
	}
	if len(sp.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(sp.Fields))
	}
}

func TestParseMatch_ArrayPatternWithRest(t *testing.T) {
	src := "match xs:\n    [a, b, ..rest] => a\n"
	prog := mustParse(t, src+"\n")
	es := prog.Statements[0].(*ast.ExprStmt)
	m := es.X.(*ast.MatchExpr)
	ap, ok := m.Arms[0].Pattern.(ast.ArrayPattern)
	if !ok {
		t.Fatalf("want ArrayPattern, got %#v", m.Arms[0].Pattern)
	}
	if len(ap.Head) != 2 || ap.Rest != "rest" {
		t.Fatalf("array pattern = %#v", ap)
	}
}

func TestParseMatch_IdentBinding(t *testing.T) {
	src := "match n:\n    other => other\n"
	prog := mustParse(t, src+"\n")
	es := prog.Statements[0].(*ast.ExprStmt)
	m := es.X.(*ast.MatchExpr)
	ip, ok := m.Arms[0].Pattern.(ast.IdentPattern)
	if !ok || ip.Name != "other" {
		t.Fatalf("want IdentPattern(other), got %#v", m.Arms[0].Pattern)
	}
}
