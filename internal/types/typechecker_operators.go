package types

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/errors"
)

func isNumeric(t Type) bool {
	c, ok := t.(*TCon)
	return ok && (c.Name == "int" || c.Name == "float")
}

// synthBinary types a binary operator application per spec.md §4.2's
// precedence table semantics: comparisons yield bool, arithmetic
// preserves the numeric operand type, `is`/`is not` compare any two
// values of the same type, and `..` (in expression position, handled
// separately by synthRange) is excluded here.
func (c *Checker) synthBinary(e *ast.BinaryExpr) Type {
	lt := c.synth(e.Left)
	rt := c.synth(e.Right)

	switch e.Op {
	case ast.OpOr, ast.OpAnd:
		c.unify(TBool, lt, e.Left.Span())
		c.unify(TBool, rt, e.Right.Span())
		return c.record(e, TBool)

	case ast.OpEq, ast.OpNeq, ast.OpIs, ast.OpIsNot:
		c.unify(lt, rt, e.Span())
		return c.record(e, TBool)

	case ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		if !isNumeric(ApplySubstitution(c.sub, lt)) {
			c.errorAt(e.Left.Span(), errors.TYP002, "comparison operand must be numeric, got %s", lt.String())
		}
		c.unify(lt, rt, e.Span())
		return c.record(e, TBool)

	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if e.Op == ast.OpAdd {
			if lc, ok := ApplySubstitution(c.sub, lt).(*TCon); ok && lc.Name == "string" {
				c.unify(TString, rt, e.Right.Span())
				return c.record(e, TString)
			}
		}
		result := c.unify(lt, rt, e.Span())
		if !isNumeric(ApplySubstitution(c.sub, result)) {
			c.errorAt(e.Span(), errors.TYP002, "arithmetic operand must be numeric, got %s", result.String())
		}
		return c.record(e, result)

	default:
		return c.record(e, Fresh())
	}
}

func (c *Checker) synthUnary(e *ast.UnaryExpr) Type {
	xt := c.synth(e.X)
	switch e.Op {
	case ast.OpNeg:
		if !isNumeric(ApplySubstitution(c.sub, xt)) {
			c.errorAt(e.Span(), errors.TYP002, "unary - requires a numeric operand, got %s", xt.String())
		}
		return c.record(e, xt)
	case ast.OpNot, ast.OpBang:
		c.unify(TBool, xt, e.Span())
		return c.record(e, TBool)
	default:
		return c.record(e, Fresh())
	}
}

// synthRange types `Start..End` as an array of the unified endpoint
// type, matching for-loop iteration over integer ranges.
func (c *Checker) synthRange(e *ast.RangeExpr) Type {
	st := c.synth(e.Start)
	et := c.synth(e.End)
	elem := c.unify(st, et, e.Span())
	return c.record(e, &TArray{Elem: elem})
}
