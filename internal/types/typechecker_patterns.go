package types

import (
	"sort"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/errors"
)

// synthMatch types a match expression: every arm's pattern is bound
// against the subject's type, its (optional) guard must be bool, and
// every arm's body must agree on a result type. Exhaustiveness is then
// checked per spec.md §4.4.
func (c *Checker) synthMatch(m *ast.MatchExpr) Type {
	subjectType := c.synth(m.Subject)

	var result Type
	hasCatchAll := false
	matchedVariants := make(map[string]bool)
	allLiteral := len(m.Arms) > 0

	for i, arm := range m.Arms {
		prev := c.env
		c.env = prev.Child()

		c.bindPattern(arm.Pattern, subjectType)
		if !isCatchAllPattern(arm.Pattern) {
			allLiteral = allLiteral && isLiteralPattern(arm.Pattern)
		} else {
			hasCatchAll = true
			allLiteral = false
		}
		if v, ok := arm.Pattern.(ast.EnumVariantPattern); ok {
			matchedVariants[v.Variant] = true
		}

		if arm.Guard != nil {
			c.unify(TBool, c.synth(arm.Guard), arm.Guard.Span())
		}
		bodyT := c.synth(arm.Body)
		c.env = prev

		if i == 0 {
			result = bodyT
		} else {
			result = c.unify(result, bodyT, arm.Body.Span())
		}
	}
	if result == nil {
		result = TUnit
	}

	c.checkExhaustiveness(m, subjectType, hasCatchAll, matchedVariants, allLiteral)
	return c.record(m, result)
}

func isCatchAllPattern(p ast.Pattern) bool {
	switch p.(type) {
	case ast.WildcardPattern, ast.IdentPattern:
		return true
	}
	return false
}

func isLiteralPattern(p ast.Pattern) bool {
	_, ok := p.(ast.LiteralPattern)
	return ok
}

func (c *Checker) checkExhaustiveness(m *ast.MatchExpr, subjectType Type, hasCatchAll bool, matched map[string]bool, allLiteral bool) {
	if hasCatchAll {
		return
	}
	if allLiteral {
		c.errorAt(m.Span(), errors.TYP007, "match on literal patterns alone is never exhaustive; add a wildcard arm")
		return
	}
	enumT, ok := ApplySubstitution(c.sub, subjectType).(*TEnum)
	if !ok {
		return
	}
	if (enumT.Name == "Option" || enumT.Name == "Result") && !c.featureEnabled("result_option_core") {
		// spec.md §4.4: Option/Result's exhaustiveness special-casing is
		// observable only when result_option_core is enabled. Disabled,
		// a match lacking a catch-all arm on one of these two built-ins
		// is accepted rather than reported missing-variant(s) — the same
		// leniency a user-defined enum never gets, since the flag is
		// specifically about these two built-ins, not enums generally.
		return
	}
	var missing []string
	for _, v := range enumT.Order {
		if !matched[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		c.errorAt(m.Span(), errors.TYP004, "non-exhaustive match on %s: missing variant(s) %v", enumT.Name, missing)
	}
}

// bindPattern binds the names a pattern introduces into the current
// (already-child) scope, recursing into tuple/struct/array sub-patterns.
// Mismatches between the pattern's shape and the subject type are
// reported but do not abort checking of the rest of the arm.
func (c *Checker) bindPattern(p ast.Pattern, subject Type) {
	switch pat := p.(type) {
	case ast.WildcardPattern:
		// binds nothing
	case ast.LiteralPattern:
		// no binding; literal compatibility is a lexical concern
	case ast.IdentPattern:
		c.env.Define(pat.Name, subject)
	case ast.EnumVariantPattern:
		c.bindEnumVariantPattern(pat, subject)
	case ast.StructPattern:
		c.bindStructPattern(pat, subject)
	case ast.ArrayPattern:
		c.bindArrayPattern(pat, subject)
	}
}

func (c *Checker) bindEnumVariantPattern(pat ast.EnumVariantPattern, subject Type) {
	enumT, ok := ApplySubstitution(c.sub, subject).(*TEnum)
	if !ok {
		c.errorAt(ast.PatternSpan(pat), errors.TYP002, "pattern expects an enum value, got %s", subject.String())
		return
	}
	tv, ok := enumT.Variants[pat.Variant]
	if !ok {
		c.errorAt(ast.PatternSpan(pat), errors.TYP001, "enum %s has no variant %q", enumT.Name, pat.Variant)
		return
	}
	for i, sub := range pat.Tuple {
		if i < len(tv.TuplePayload) {
			c.bindPattern(sub, tv.TuplePayload[i])
		}
	}
	for _, fp := range pat.Fields {
		ft, known := tv.StructPayload[fp.Name]
		if !known {
			c.errorAt(ast.PatternSpan(pat), errors.TYP001, "variant %s.%s has no field %q", enumT.Name, pat.Variant, fp.Name)
			continue
		}
		if fp.Sub != nil {
			c.bindPattern(fp.Sub, ft)
		} else {
			c.env.Define(fp.Name, ft)
		}
	}
}

func (c *Checker) bindStructPattern(pat ast.StructPattern, subject Type) {
	st, ok := ApplySubstitution(c.sub, subject).(*TStruct)
	if !ok {
		c.errorAt(ast.PatternSpan(pat), errors.TYP002, "pattern expects a struct value, got %s", subject.String())
		return
	}
	for _, fp := range pat.Fields {
		ft, known := st.Fields[fp.Name]
		if !known {
			c.errorAt(ast.PatternSpan(pat), errors.TYP001, "struct %s has no field %q", st.Name, fp.Name)
			continue
		}
		if fp.Sub != nil {
			c.bindPattern(fp.Sub, ft)
		} else {
			c.env.Define(fp.Name, ft)
		}
	}
}

func (c *Checker) bindArrayPattern(pat ast.ArrayPattern, subject Type) {
	arr, ok := ApplySubstitution(c.sub, subject).(*TArray)
	if !ok {
		c.errorAt(ast.PatternSpan(pat), errors.TYP002, "pattern expects an array value, got %s", subject.String())
		return
	}
	for _, sub := range pat.Head {
		c.bindPattern(sub, arr.Elem)
	}
	if pat.Rest != "" {
		c.env.Define(pat.Rest, arr)
	}
}
