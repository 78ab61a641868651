package types

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/errors"
)

// checkTopLevel dispatches one top-level statement to the declaration or
// statement checker appropriate to its kind.
func (c *Checker) checkTopLevel(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.FuncDecl:
		c.checkFuncDecl(s)
	case *ast.StructDecl:
		c.checkStructMethods(s)
	case *ast.EnumDecl:
		// Variant payload types are resolved only when the enum is
		// instantiated (Registry.instantiateEnum); nothing is checked here.
	case *ast.TypeAliasDecl:
		// Resolved lazily by Registry.Resolve on first use.
	case *ast.LetStmt:
		c.checkStmt(s)
	case *ast.UseStmt, *ast.PubUseStmt:
		// Handled entirely by internal/module; nothing to type-check.
	default:
		c.checkStmt(stmt)
	}
}

func (c *Checker) checkStructMethods(decl *ast.StructDecl) {
	selfType, err := c.registry.instantiateStruct(decl, nil)
	if err != nil {
		c.errorAt(decl.Span(), errors.TYP008, "struct %s: %s", decl.Name, err)
		return
	}
	for _, m := range decl.Methods {
		c.checkMethod(m, selfType)
	}
}

// synthMemberAccess resolves `X.Field`: a struct field read, an enum
// constructor reference (`Enum.Variant`), or a cross-module export
// lookup when X is an identifier bound to an imported module alias.
func (c *Checker) synthMemberAccess(e *ast.MemberExpr) Type {
	if ident, ok := e.X.(*ast.Ident); ok {
		if imp, isImport := c.imports[ident.Name]; isImport {
			return c.synthImportedMember(e, imp)
		}
		if _, isEnum := c.registry.Enums[ident.Name]; isEnum {
			return c.synthEnumConstructorRef(e, ident.Name)
		}
	}

	xt := c.synth(e.X)
	st, ok := ApplySubstitution(c.sub, xt).(*TStruct)
	if !ok {
		c.errorAt(e.Span(), errors.TYP001, "%s is not a struct value, has no field %q", xt.String(), e.Field)
		return c.record(e, Fresh())
	}
	ft, ok := st.Fields[e.Field]
	if !ok {
		c.errorAt(e.Span(), errors.TYP001, "struct %s has no field %q", st.Name, e.Field)
		return c.record(e, Fresh())
	}
	return c.record(e, ft)
}

func (c *Checker) synthImportedMember(e *ast.MemberExpr, imp *importedModule) Type {
	if fn, ok := imp.exports.Functions[e.Field]; ok {
		t, err := c.funcType(fn)
		if err != nil {
			c.errorAt(e.Span(), errors.TYP008, "%s: %s", e.Field, err)
			return c.record(e, Fresh())
		}
		return c.record(e, t)
	}
	if _, ok := imp.exports.Constants[e.Field]; ok {
		return c.record(e, Fresh())
	}
	c.errorAt(e.Span(), errors.TYP005, "%q is not exported (or does not exist)", e.Field)
	return c.record(e, Fresh())
}

// synthEnumConstructorRef types a bare reference to a nullary enum
// variant used as a value, e.g. `Color.Red`. Variants carrying a payload
// must be invoked through CallExpr instead (handled in
// typechecker_functions.go's synthCall).
func (c *Checker) synthEnumConstructorRef(e *ast.MemberExpr, enumName string) Type {
	decl := c.registry.Enums[enumName]
	for _, v := range decl.Variants {
		if v.Name == e.Field {
			et, err := c.registry.instantiateEnum(decl, nil)
			if err != nil {
				c.errorAt(e.Span(), errors.TYP008, "enum %s: %s", enumName, err)
				return c.record(e, Fresh())
			}
			return c.record(e, et)
		}
	}
	c.errorAt(e.Span(), errors.TYP001, "enum %s has no variant %q", enumName, e.Field)
	return c.record(e, Fresh())
}

// synthStructLit checks a `Name{field: value, ...}` literal against the
// declared struct's field set.
func (c *Checker) synthStructLit(e *ast.StructLit) Type {
	decl, ok := c.registry.Structs[e.Type]
	if !ok {
		c.errorAt(e.Span(), errors.TYP001, "undefined struct %q", e.Type)
		return c.record(e, Fresh())
	}
	st, err := c.registry.instantiateStruct(decl, nil)
	if err != nil {
		c.errorAt(e.Span(), errors.TYP008, "struct %s: %s", e.Type, err)
		return c.record(e, Fresh())
	}
	structType := st.(*TStruct)
	seen := make(map[string]bool, len(e.Fields))
	for _, fi := range e.Fields {
		want, known := structType.Fields[fi.Name]
		if !known {
			c.errorAt(e.Span(), errors.TYP001, "struct %s has no field %q", e.Type, fi.Name)
			continue
		}
		got := c.synth(fi.Value)
		c.unify(want, got, fi.Value.Span())
		seen[fi.Name] = true
	}
	for _, name := range structType.Order {
		if !seen[name] {
			c.errorAt(e.Span(), errors.TYP003, "missing field %q in %s literal", name, e.Type)
		}
	}
	return c.record(e, structType)
}
