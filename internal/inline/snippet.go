package inline

import (
	"fmt"

	"github.com/otterlang/otter/internal/ast"
)

// nameGen mirrors the original InlineNameGenerator: it hands out fresh,
// collision-free names for a single call site's inlined copy of a
// callee, and remembers the original-to-renamed mapping so later
// references to the same local resolve to the same fresh name.
type nameGen struct {
	id      uint64
	counter int
	locals  map[string]string
}

func newNameGen(id uint64) *nameGen {
	return &nameGen{id: id, locals: make(map[string]string)}
}

// registerParam binds a callee parameter to its argument-holding local.
func (g *nameGen) registerParam(i int, original string) string {
	fresh := fmt.Sprintf("__inl%d_arg%d", g.id, i)
	g.locals[original] = fresh
	return fresh
}

// renameLocal introduces a fresh name for a let/for/pattern binding.
func (g *nameGen) renameLocal(original string) string {
	fresh := fmt.Sprintf("__inl%d_%s_%d", g.id, original, g.counter)
	g.counter++
	g.locals[original] = fresh
	return fresh
}

// resolveOrClone looks up a name's renamed form; names never bound
// inside the callee (globals, other top-level functions, enum/struct
// names) pass through unchanged.
func (g *nameGen) resolveOrClone(name string) string {
	if renamed, ok := g.locals[name]; ok {
		return renamed
	}
	return name
}

type builtSnippet struct {
	block  *ast.Block
	result ast.Expr
}

// buildSnippet materializes one call site's inlined copy of callee:
// each argument is bound to a fresh local (preserving evaluation order
// and side effects), every local the callee's body declares is
// alpha-renamed to avoid colliding with the caller's own locals, and
// the body's trailing return (if any) is pulled out as the snippet's
// result expression rather than emitted as a statement.
func buildSnippet(callee *ast.FuncDecl, args []ast.Expr, id uint64) builtSnippet {
	gen := newNameGen(id)

	stmts := make([]ast.Stmt, 0, len(args)+len(callee.Body.Statements))
	for i, p := range callee.Params {
		fresh := gen.registerParam(i, p.Name)
		stmts = append(stmts, &ast.LetStmt{Name: fresh, Value: args[i]})
	}

	body := callee.Body.Statements
	var result ast.Expr
	for i, s := range body {
		if i == len(body)-1 {
			if ret, ok := s.(*ast.ReturnStmt); ok {
				if ret.Value != nil {
					result = renameExpr(ret.Value, gen)
				}
				continue
			}
		}
		stmts = append(stmts, renameStmt(s, gen))
	}
	return builtSnippet{block: &ast.Block{Statements: stmts}, result: result}
}

func renameBlock(b *ast.Block, gen *nameGen) *ast.Block {
	if b == nil {
		return nil
	}
	out := make([]ast.Stmt, len(b.Statements))
	for i, s := range b.Statements {
		out[i] = renameStmt(s, gen)
	}
	return &ast.Block{Sp: b.Sp, Statements: out}
}

func renameStmt(stmt ast.Stmt, gen *nameGen) ast.Stmt {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		val := renameExpr(s.Value, gen)
		fresh := gen.renameLocal(s.Name)
		return &ast.LetStmt{BaseStmt: s.BaseStmt, Name: fresh, Annotation: s.Annotation, Value: val}

	case *ast.AssignStmt:
		target := renameExpr(s.Target, gen)
		val := renameExpr(s.Value, gen)
		return &ast.AssignStmt{BaseStmt: s.BaseStmt, Target: target, Value: val}

	case *ast.ExprStmt:
		return &ast.ExprStmt{BaseStmt: s.BaseStmt, X: renameExpr(s.X, gen)}

	case *ast.ReturnStmt:
		if s.Value == nil {
			return s
		}
		return &ast.ReturnStmt{BaseStmt: s.BaseStmt, Value: renameExpr(s.Value, gen)}

	case *ast.IfStmt:
		elifs := make([]ast.ElifClause, len(s.Elifs))
		for i, e := range s.Elifs {
			elifs[i] = ast.ElifClause{Cond: renameExpr(e.Cond, gen), Body: renameBlock(e.Body, gen)}
		}
		return &ast.IfStmt{
			BaseStmt: s.BaseStmt,
			Cond:     renameExpr(s.Cond, gen),
			Then:     renameBlock(s.Then, gen),
			Elifs:    elifs,
			Else:     renameBlock(s.Else, gen),
		}

	case *ast.WhileStmt:
		return &ast.WhileStmt{BaseStmt: s.BaseStmt, Cond: renameExpr(s.Cond, gen), Body: renameBlock(s.Body, gen)}

	case *ast.ForStmt:
		iterable := renameExpr(s.Iterable, gen)
		fresh := gen.renameLocal(s.Binding)
		return &ast.ForStmt{BaseStmt: s.BaseStmt, Binding: fresh, Iterable: iterable, Body: renameBlock(s.Body, gen)}

	case *ast.BlockStmt:
		return &ast.BlockStmt{BaseStmt: s.BaseStmt, Block: renameBlock(s.Block, gen)}

	default:
		return stmt
	}
}

func renameExpr(e ast.Expr, gen *nameGen) ast.Expr {
	switch x := e.(type) {
	case nil:
		return nil

	case *ast.Ident:
		return &ast.Ident{BaseExpr: x.BaseExpr, Name: gen.resolveOrClone(x.Name)}

	case *ast.Literal:
		return x

	case *ast.BinaryExpr:
		return &ast.BinaryExpr{BaseExpr: x.BaseExpr, Op: x.Op, Left: renameExpr(x.Left, gen), Right: renameExpr(x.Right, gen)}

	case *ast.UnaryExpr:
		return &ast.UnaryExpr{BaseExpr: x.BaseExpr, Op: x.Op, X: renameExpr(x.X, gen)}

	case *ast.CallExpr:
		args := make([]ast.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = renameExpr(a, gen)
		}
		return &ast.CallExpr{BaseExpr: x.BaseExpr, Fn: renameExpr(x.Fn, gen), Args: args}

	case *ast.MemberExpr:
		return &ast.MemberExpr{BaseExpr: x.BaseExpr, X: renameExpr(x.X, gen), Field: x.Field}

	case *ast.IfExpr:
		elifs := make([]ast.ElifExprClause, len(x.Elifs))
		for i, e := range x.Elifs {
			elifs[i] = ast.ElifExprClause{Cond: renameExpr(e.Cond, gen), Then: renameExpr(e.Then, gen)}
		}
		return &ast.IfExpr{
			BaseExpr: x.BaseExpr,
			Cond:     renameExpr(x.Cond, gen),
			Then:     renameExpr(x.Then, gen),
			Elifs:    elifs,
			Else:     renameExpr(x.Else, gen),
		}

	case *ast.MatchExpr:
		arms := make([]ast.MatchArm, len(x.Arms))
		for i, arm := range x.Arms {
			pat := renamePattern(arm.Pattern, gen)
			var guard ast.Expr
			if arm.Guard != nil {
				guard = renameExpr(arm.Guard, gen)
			}
			arms[i] = ast.MatchArm{Pattern: pat, Guard: guard, Body: renameExpr(arm.Body, gen)}
		}
		return &ast.MatchExpr{BaseExpr: x.BaseExpr, Subject: renameExpr(x.Subject, gen), Arms: arms}

	case *ast.RangeExpr:
		return &ast.RangeExpr{BaseExpr: x.BaseExpr, Start: renameExpr(x.Start, gen), End: renameExpr(x.End, gen)}

	case *ast.ArrayLit:
		elems := make([]ast.Expr, len(x.Elems))
		for i, el := range x.Elems {
			elems[i] = renameExpr(el, gen)
		}
		return &ast.ArrayLit{BaseExpr: x.BaseExpr, Elems: elems}

	case *ast.DictLit:
		entries := make([]ast.DictEntry, len(x.Entries))
		for i, en := range x.Entries {
			entries[i] = ast.DictEntry{Key: renameExpr(en.Key, gen), Value: renameExpr(en.Value, gen)}
		}
		return &ast.DictLit{BaseExpr: x.BaseExpr, Entries: entries}

	case *ast.Comprehension:
		iterable := renameExpr(x.Iterable, gen)
		fresh := gen.renameLocal(x.Binding)
		var filter, key ast.Expr
		if x.Filter != nil {
			filter = renameExpr(x.Filter, gen)
		}
		if x.KeyExpr != nil {
			key = renameExpr(x.KeyExpr, gen)
		}
		return &ast.Comprehension{
			BaseExpr: x.BaseExpr,
			Kind:     x.Kind,
			KeyExpr:  key,
			ValExpr:  renameExpr(x.ValExpr, gen),
			Binding:  fresh,
			Iterable: iterable,
			Filter:   filter,
		}

	case *ast.InterpString:
		parts := make([]ast.InterpPart, len(x.Parts))
		for i, p := range x.Parts {
			np := ast.InterpPart{Text: p.Text}
			if p.Expr != nil {
				np.Expr = renameExpr(p.Expr, gen)
			}
			parts[i] = np
		}
		return &ast.InterpString{BaseExpr: x.BaseExpr, Parts: parts}

	case *ast.StructLit:
		fields := make([]ast.FieldInit, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = ast.FieldInit{Name: f.Name, Value: renameExpr(f.Value, gen)}
		}
		return &ast.StructLit{BaseExpr: x.BaseExpr, Type: x.Type, Fields: fields}

	case *ast.SpawnExpr:
		return &ast.SpawnExpr{BaseExpr: x.BaseExpr, X: renameExpr(x.X, gen)}

	case *ast.AwaitExpr:
		return &ast.AwaitExpr{BaseExpr: x.BaseExpr, X: renameExpr(x.X, gen)}

	default:
		return e
	}
}

func renamePattern(p ast.Pattern, gen *nameGen) ast.Pattern {
	switch pat := p.(type) {
	case ast.WildcardPattern:
		return pat

	case ast.LiteralPattern:
		return pat

	case ast.IdentPattern:
		return ast.IdentPattern{Sp: pat.Sp, Name: gen.renameLocal(pat.Name)}

	case ast.EnumVariantPattern:
		tuple := make([]ast.Pattern, len(pat.Tuple))
		for i, sub := range pat.Tuple {
			tuple[i] = renamePattern(sub, gen)
		}
		fields := renameFieldPatterns(pat.Fields, gen)
		return ast.EnumVariantPattern{Sp: pat.Sp, Enum: pat.Enum, Variant: pat.Variant, Tuple: tuple, Fields: fields}

	case ast.StructPattern:
		fields := renameFieldPatterns(pat.Fields, gen)
		return ast.StructPattern{Sp: pat.Sp, Type: pat.Type, Fields: fields}

	case ast.ArrayPattern:
		head := make([]ast.Pattern, len(pat.Head))
		for i, sub := range pat.Head {
			head[i] = renamePattern(sub, gen)
		}
		rest := pat.Rest
		if rest != "" {
			rest = gen.renameLocal(rest)
		}
		return ast.ArrayPattern{Sp: pat.Sp, Head: head, Rest: rest}

	default:
		return p
	}
}

func renameFieldPatterns(fields []ast.FieldPattern, gen *nameGen) []ast.FieldPattern {
	out := make([]ast.FieldPattern, len(fields))
	for i, fp := range fields {
		if fp.Sub != nil {
			out[i] = ast.FieldPattern{Name: fp.Name, Sub: renamePattern(fp.Sub, gen)}
			continue
		}
		// Shorthand binding `Field` implicitly declares a local named
		// Field; keep the declared field name but rename the shadow
		// binding by wrapping it as an explicit ident sub-pattern.
		fresh := gen.renameLocal(fp.Name)
		out[i] = ast.FieldPattern{Name: fp.Name, Sub: ast.IdentPattern{Name: fresh}}
	}
	return out
}
