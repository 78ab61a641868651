package types

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/errors"
)

// synth is the checker's single entry point for synthesizing an
// expression's type, dispatching by concrete AST node kind. Per-kind
// logic lives in the file matching its concern (operators, data access,
// function application, patterns).
func (c *Checker) synth(e ast.Expr) Type {
	switch x := e.(type) {
	case *ast.Literal:
		return c.synthLiteral(x)
	case *ast.Ident:
		return c.synthIdent(x)
	case *ast.MemberExpr:
		return c.synthMemberAccess(x)
	case *ast.CallExpr:
		return c.synthCall(x)
	case *ast.BinaryExpr:
		return c.synthBinary(x)
	case *ast.UnaryExpr:
		return c.synthUnary(x)
	case *ast.IfExpr:
		return c.synthIfExpr(x)
	case *ast.MatchExpr:
		return c.synthMatch(x)
	case *ast.RangeExpr:
		return c.synthRange(x)
	case *ast.ArrayLit:
		return c.synthArrayLit(x)
	case *ast.DictLit:
		return c.synthDictLit(x)
	case *ast.Comprehension:
		return c.synthComprehension(x)
	case *ast.InterpString:
		return c.synthInterpString(x)
	case *ast.StructLit:
		return c.synthStructLit(x)
	case *ast.SpawnExpr, *ast.AwaitExpr:
		return c.synthSpawnAwait(x)
	default:
		return Fresh()
	}
}

func (c *Checker) synthLiteral(l *ast.Literal) Type {
	switch l.Kind {
	case ast.LitInt:
		return c.record(l, TInt)
	case ast.LitFloat:
		return c.record(l, TFloat)
	case ast.LitBool:
		return c.record(l, TBool)
	case ast.LitString:
		return c.record(l, TString)
	default:
		return c.record(l, Fresh())
	}
}

func (c *Checker) synthIdent(id *ast.Ident) Type {
	if id.Name == "self" {
		if t, ok := c.env.Lookup("self"); ok {
			return c.record(id, t)
		}
	}
	t, ok := c.env.Lookup(id.Name)
	if !ok {
		c.errorAt(id.Span(), errors.TYP001, "undefined name %q", id.Name)
		return c.record(id, Fresh())
	}
	return c.record(id, t)
}

func (c *Checker) synthArrayLit(a *ast.ArrayLit) Type {
	elem := Type(Fresh())
	for _, e := range a.Elems {
		got := c.synth(e)
		elem = c.unify(elem, got, e.Span())
	}
	return c.record(a, &TArray{Elem: elem})
}

func (c *Checker) synthDictLit(d *ast.DictLit) Type {
	key := Type(Fresh())
	val := Type(Fresh())
	for _, entry := range d.Entries {
		kt := c.synth(entry.Key)
		vt := c.synth(entry.Value)
		key = c.unify(key, kt, entry.Key.Span())
		val = c.unify(val, vt, entry.Value.Span())
	}
	return c.record(d, &TMap{Key: key, Value: val})
}

func (c *Checker) synthComprehension(comp *ast.Comprehension) Type {
	iterT := c.synth(comp.Iterable)
	var elem Type = Fresh()
	switch it := ApplySubstitution(c.sub, iterT).(type) {
	case *TArray:
		elem = it.Elem
	case *TMap:
		elem = it.Key
	}

	prev := c.env
	c.env = prev.Child()
	c.env.Define(comp.Binding, elem)
	defer func() { c.env = prev }()

	if comp.Filter != nil {
		c.synth(comp.Filter)
	}

	if comp.Kind == ast.CompDict {
		kt := c.synth(comp.KeyExpr)
		vt := c.synth(comp.ValExpr)
		return c.record(comp, &TMap{Key: kt, Value: vt})
	}
	vt := c.synth(comp.ValExpr)
	return c.record(comp, &TArray{Elem: vt})
}

// synthInterpString checks every embedded expression independently; the
// overall result is always string regardless of the embedded types,
// which are converted via their runtime String representation.
func (c *Checker) synthInterpString(s *ast.InterpString) Type {
	for _, part := range s.Parts {
		if part.Expr != nil {
			c.synth(part.Expr)
		}
	}
	return c.record(s, TString)
}
