package parser

import (
	"testing"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, ldiags := lexer.Tokenize([]byte(src), "test.ot")
	if ldiags.Len() != 0 {
		t.Fatalf("lex diagnostics: %v", ldiags.All())
	}
	prog, pdiags := Parse(toks, "test.ot")
	if pdiags.Len() != 0 {
		t.Fatalf("parse diagnostics: %v", pdiags.All())
	}
	return prog
}

func TestParse_LetStmt(t *testing.T) {
	prog := mustParse(t, "let x = 1\n")
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}
	let, ok := prog.Statements[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("want *ast.LetStmt, got %T", prog.Statements[0])
	}
	if let.Name != "x" {
		t.Errorf("name = %q, want x", let.Name)
	}
	lit, ok := let.Value.(*ast.Literal)
	if !ok || lit.Raw != "1" {
		t.Errorf("value = %#v, want literal 1", let.Value)
	}
}

func TestParse_LetWithAnnotation(t *testing.T) {
	prog := mustParse(t, "let x: int = 1\n")
	let := prog.Statements[0].(*ast.LetStmt)
	simple, ok := let.Annotation.(ast.SimpleType)
	if !ok || simple.Name != "int" {
		t.Errorf("annotation = %#v, want SimpleType{int}", let.Annotation)
	}
}

func TestParse_IfElifElse(t *testing.T) {
	src := "if x:\n    let a = 1\nelif y:\n    let b = 2\nelse:\n    let c = 3\n"
	prog := mustParse(t, src)
	ifs, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("want *ast.IfStmt, got %T", prog.Statements[0])
	}
	if len(ifs.Elifs) != 1 {
		t.Fatalf("got %d elifs, want 1", len(ifs.Elifs))
	}
	if ifs.Else == nil {
		t.Fatalf("expected an else block")
	}
}

func TestParse_WhileLoop(t *testing.T) {
	prog := mustParse(t, "while x < 10:\n    x = x + 1\n")
	ws, ok := prog.Statements[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("want *ast.WhileStmt, got %T", prog.Statements[0])
	}
	if len(ws.Body.Statements) != 1 {
		t.Fatalf("got %d body statements, want 1", len(ws.Body.Statements))
	}
}

func TestParse_ForLoop(t *testing.T) {
	prog := mustParse(t, "for x in items:\n    pass\n")
	fs, ok := prog.Statements[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("want *ast.ForStmt, got %T", prog.Statements[0])
	}
	if fs.Binding != "x" {
		t.Errorf("binding = %q, want x", fs.Binding)
	}
}

func TestParse_FuncDecl(t *testing.T) {
	prog := mustParse(t, "fn add(a: int, b: int) -> int:\n    return a + b\n")
	fn, ok := prog.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("want *ast.FuncDecl, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Errorf("fn = %#v", fn)
	}
	ret, ok := fn.ReturnType.(ast.SimpleType)
	if !ok || ret.Name != "int" {
		t.Errorf("return type = %#v, want int", fn.ReturnType)
	}
}

func TestParse_PubFuncDecl(t *testing.T) {
	prog := mustParse(t, "pub fn add(a: int) -> int:\n    return a\n")
	fn := prog.Statements[0].(*ast.FuncDecl)
	if !fn.Pub {
		t.Errorf("expected Pub = true")
	}
}

func TestParse_StructDecl(t *testing.T) {
	src := "struct Point:\n    x: int\n    y: int\n\n    fn magnitude(self) -> int:\n        return self.x\n"
	prog := mustParse(t, src)
	sd, ok := prog.Statements[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("want *ast.StructDecl, got %T", prog.Statements[0])
	}
	if len(sd.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(sd.Fields))
	}
	if len(sd.Methods) != 1 {
		t.Fatalf("got %d methods, want 1", len(sd.Methods))
	}
	if sd.Methods[0].Params[0].Name != "self" {
		t.Errorf("expected auto-injected self receiver param")
	}
}

func TestParse_EnumDecl(t *testing.T) {
	src := "enum Shape:\n    Circle(int)\n    Square(int)\n    Point\n"
	prog := mustParse(t, src)
	ed, ok := prog.Statements[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("want *ast.EnumDecl, got %T", prog.Statements[0])
	}
	if len(ed.Variants) != 3 {
		t.Fatalf("got %d variants, want 3", len(ed.Variants))
	}
	if len(ed.Variants[0].TuplePayload) != 1 {
		t.Errorf("Circle should have a 1-elem tuple payload")
	}
}

func TestParse_UseStmt(t *testing.T) {
	prog := mustParse(t, "use math, collections as coll\n")
	us, ok := prog.Statements[0].(*ast.UseStmt)
	if !ok {
		t.Fatalf("want *ast.UseStmt, got %T", prog.Statements[0])
	}
	if len(us.Imports) != 2 || us.Imports[1].Alias != "coll" {
		t.Errorf("imports = %#v", us.Imports)
	}
}

func TestParse_AssignStmt(t *testing.T) {
	prog := mustParse(t, "x = 1\n")
	as, ok := prog.Statements[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("want *ast.AssignStmt, got %T", prog.Statements[0])
	}
	if _, ok := as.Target.(*ast.Ident); !ok {
		t.Errorf("target = %#v, want *ast.Ident", as.Target)
	}
}
