package types

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/errors"
)

func (c *Checker) checkFuncDecl(f *ast.FuncDecl) {
	t, err := c.funcType(f)
	if err != nil {
		c.errorAt(f.Span(), errors.TYP008, "function %s: %s", f.Name, err)
		return
	}
	c.checkFuncBody(f, t, nil)
}

func (c *Checker) checkMethod(m *ast.FuncDecl, selfType Type) {
	t, err := c.funcType(m)
	if err != nil {
		c.errorAt(m.Span(), errors.TYP008, "method %s: %s", m.Name, err)
		return
	}
	c.checkFuncBody(m, t, selfType)
}

// checkFuncBody checks f's body against its already-resolved signature
// t, in a fresh child scope with every parameter bound. selfType, when
// non-nil, replaces the TVar{"Self"} placeholder the parser's
// auto-injected receiver parameter resolved to.
func (c *Checker) checkFuncBody(f *ast.FuncDecl, t *TFunc, selfType Type) {
	prev := c.env
	c.env = prev.Child()
	defer func() { c.env = prev }()

	for i, p := range f.Params {
		pt := t.Params[i]
		if selfType != nil && p.Name == "self" {
			pt = selfType
		}
		if !c.env.Define(p.Name, pt) {
			c.errorAt(f.Span(), errors.TYP006, "duplicate parameter name %q", p.Name)
		}
	}

	c.pushGenerics(genericSet(f.Generics))
	c.pushReturn(t.Return)
	c.checkBlock(f.Body)
	c.popReturn()
	c.popGenerics()
}

func (c *Checker) checkBlock(b *ast.Block) {
	prev := c.env
	c.env = prev.Child()
	defer func() { c.env = prev }()
	for _, stmt := range b.Statements {
		c.checkStmt(stmt)
	}
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		c.checkLet(s)
	case *ast.AssignStmt:
		c.checkAssign(s)
	case *ast.IfStmt:
		c.checkIfStmt(s)
	case *ast.WhileStmt:
		c.synth(s.Cond)
		c.checkBlock(s.Body)
	case *ast.ForStmt:
		c.checkFor(s)
	case *ast.ReturnStmt:
		if s.Value != nil {
			got := c.synth(s.Value)
			c.unify(c.currentReturn(), got, s.Span())
		} else {
			c.unify(c.currentReturn(), TUnit, s.Span())
		}
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.PassStmt:
		// no type obligations
	case *ast.BlockStmt:
		c.checkBlock(s.Block)
	case *ast.ExprStmt:
		c.synth(s.X)
	case *ast.FuncDecl:
		c.checkFuncDecl(s)
	default:
	}
}

func (c *Checker) checkLet(s *ast.LetStmt) {
	got := c.synth(s.Value)
	if s.Annotation != nil {
		want, err := c.registry.Resolve(s.Annotation, c.currentGenerics())
		if err != nil {
			c.errorAt(s.Span(), errors.TYP008, "let %s: %s", s.Name, err)
			want = got
		} else {
			got = c.unify(want, got, s.Span())
		}
	}
	if !c.env.Define(s.Name, got) {
		c.errorAt(s.Span(), errors.TYP006, "duplicate definition of %q", s.Name)
	}
}

func (c *Checker) checkAssign(s *ast.AssignStmt) {
	got := c.synth(s.Value)
	switch target := s.Target.(type) {
	case *ast.Ident:
		want, ok := c.env.Lookup(target.Name)
		if !ok {
			c.errorAt(s.Span(), errors.TYP001, "undefined name %q", target.Name)
			return
		}
		c.unify(want, got, s.Span())
	case *ast.MemberExpr:
		want := c.synth(target)
		c.unify(want, got, s.Span())
	default:
		c.synth(target)
	}
}

func (c *Checker) checkIfStmt(s *ast.IfStmt) {
	c.synth(s.Cond)
	c.checkBlock(s.Then)
	for _, elif := range s.Elifs {
		c.synth(elif.Cond)
		c.checkBlock(elif.Body)
	}
	if s.Else != nil {
		c.checkBlock(s.Else)
	}
}

func (c *Checker) checkFor(s *ast.ForStmt) {
	iterT := c.synth(s.Iterable)
	var elem Type
	switch it := ApplySubstitution(c.sub, iterT).(type) {
	case *TArray:
		elem = it.Elem
	case *TMap:
		elem = it.Key
	default:
		elem = Fresh()
	}
	prev := c.env
	c.env = prev.Child()
	c.env.Define(s.Binding, elem)
	c.checkBlock(s.Body)
	c.env = prev
}

// synthCall types a function application: enum-variant constructor call
// (`Variant(args...)` or `Enum.Variant(args...)`), or an ordinary call
// to a value of function type.
func (c *Checker) synthCall(e *ast.CallExpr) Type {
	if name, variant, enumName, ok := c.calleeAsVariant(e.Fn); ok {
		return c.synthVariantCall(e, name, variant, enumName)
	}

	fnType := c.synth(e.Fn)
	tf, ok := ApplySubstitution(c.sub, fnType).(*TFunc)
	if !ok {
		c.errorAt(e.Span(), errors.TYP001, "%s is not callable", fnType.String())
		return c.record(e, Fresh())
	}
	if len(tf.Params) != len(e.Args) {
		c.errorAt(e.Span(), errors.TYP003, "expected %d argument(s), got %d", len(tf.Params), len(e.Args))
	}
	n := len(tf.Params)
	if len(e.Args) < n {
		n = len(e.Args)
	}
	for i := 0; i < n; i++ {
		got := c.synth(e.Args[i])
		c.unify(tf.Params[i], got, e.Args[i].Span())
	}
	return c.record(e, tf.Return)
}

// calleeAsVariant recognizes the two enum-constructor call forms: a bare
// PascalCase identifier naming a variant of some enum uniquely in scope,
// or an explicit `Enum.Variant` qualification.
func (c *Checker) calleeAsVariant(fn ast.Expr) (fnName, variant, enumName string, ok bool) {
	switch f := fn.(type) {
	case *ast.MemberExpr:
		if ident, isIdent := f.X.(*ast.Ident); isIdent {
			if _, isEnum := c.registry.Enums[ident.Name]; isEnum {
				return ident.Name + "." + f.Field, f.Field, ident.Name, true
			}
		}
	case *ast.Ident:
		found := ""
		for enumName, decl := range c.registry.Enums {
			for _, v := range decl.Variants {
				if v.Name == f.Name {
					if found != "" {
						return "", "", "", false
					}
					found = enumName
				}
			}
		}
		if found != "" {
			return f.Name, f.Name, found, true
		}
	}
	return "", "", "", false
}

func (c *Checker) synthVariantCall(e *ast.CallExpr, fnName, variantName, enumName string) Type {
	decl := c.registry.Enums[enumName]
	et, err := c.registry.instantiateEnum(decl, nil)
	if err != nil {
		c.errorAt(e.Span(), errors.TYP008, "enum %s: %s", enumName, err)
		return c.record(e, Fresh())
	}
	enumType := et.(*TEnum)
	tv := enumType.Variants[variantName]
	if len(tv.TuplePayload) != len(e.Args) {
		c.errorAt(e.Span(), errors.TYP003, "%s expects %d argument(s), got %d", fnName, len(tv.TuplePayload), len(e.Args))
	}
	n := len(tv.TuplePayload)
	if len(e.Args) < n {
		n = len(e.Args)
	}
	for i := 0; i < n; i++ {
		got := c.synth(e.Args[i])
		c.unify(tv.TuplePayload[i], got, e.Args[i].Span())
	}
	return c.record(e, enumType)
}

// synthIfExpr types the expression form of if/elif*/else: every branch
// must agree on a result type, and Else is mandatory (enforced by the
// parser) since a value is always produced.
func (c *Checker) synthIfExpr(e *ast.IfExpr) Type {
	c.synth(e.Cond)
	result := c.synth(e.Then)
	for _, elif := range e.Elifs {
		c.synth(elif.Cond)
		branchT := c.synth(elif.Then)
		result = c.unify(result, branchT, elif.Then.Span())
	}
	elseT := c.synth(e.Else)
	result = c.unify(result, elseT, e.Else.Span())
	return c.record(e, result)
}

func (c *Checker) synthSpawnAwait(e ast.Expr) Type {
	switch s := e.(type) {
	case *ast.SpawnExpr:
		inner := c.synth(s.X)
		return c.record(e, &TStruct{Name: "JoinHandle", Args: []Type{inner}, Fields: map[string]Type{"result": inner}, Order: []string{"result"}})
	case *ast.AwaitExpr:
		handleT := c.synth(s.X)
		if st, ok := ApplySubstitution(c.sub, handleT).(*TStruct); ok && st.Name == "JoinHandle" {
			return c.record(e, st.Fields["result"])
		}
		c.errorAt(e.Span(), errors.TYP001, "await expects a join handle, got %s", handleT.String())
		return c.record(e, Fresh())
	}
	return Fresh()
}
