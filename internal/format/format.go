// Package format implements OtterLang's canonical source re-printer,
// backing the `otter fmt` subcommand from spec.md §6. It walks the same
// AST shapes internal/ast/print.go dumps for --dump-ast, but instead of a
// debug tree it reconstructs real Otter source: two-space indentation,
// one statement per line, operators and keywords spelled out the way the
// parser expects to re-read them.
//
// The teacher carries no analogous formatter (cmd/ailang has no `fmt`
// subcommand), so this package is new; it follows print.go's own
// recursive-type-switch style rather than introducing a visitor
// interface, since OtterLang's AST remains a closed set of concrete
// struct types.
package format

import (
	"fmt"
	"strings"

	"github.com/otterlang/otter/internal/ast"
)

const indentUnit = "  "

// Program renders prog as canonical Otter source text, ending in a single
// trailing newline.
func Program(prog *ast.Program) string {
	var sb strings.Builder
	for i, s := range prog.Statements {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeStmt(&sb, s, 0)
	}
	if len(prog.Statements) == 0 {
		sb.WriteByte('\n')
	}
	return sb.String()
}

func writeIndent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(indentUnit, depth))
}

func pubPrefix(pub bool) string {
	if pub {
		return "pub "
	}
	return ""
}

func writeStmt(sb *strings.Builder, s ast.Stmt, depth int) {
	writeIndent(sb, depth)
	switch v := s.(type) {
	case *ast.LetStmt:
		fmt.Fprintf(sb, "%slet %s", pubPrefix(v.Pub), v.Name)
		if v.Annotation != nil {
			fmt.Fprintf(sb, ": %s", typeString(v.Annotation))
		}
		fmt.Fprintf(sb, " = %s\n", exprString(v.Value))
	case *ast.AssignStmt:
		fmt.Fprintf(sb, "%s = %s\n", exprString(v.Target), exprString(v.Value))
	case *ast.IfStmt:
		fmt.Fprintf(sb, "if %s:\n", exprString(v.Cond))
		writeBlock(sb, v.Then, depth+1)
		for _, e := range v.Elifs {
			writeIndent(sb, depth)
			fmt.Fprintf(sb, "elif %s:\n", exprString(e.Cond))
			writeBlock(sb, e.Body, depth+1)
		}
		if v.Else != nil {
			writeIndent(sb, depth)
			sb.WriteString("else:\n")
			writeBlock(sb, v.Else, depth+1)
		}
	case *ast.WhileStmt:
		fmt.Fprintf(sb, "while %s:\n", exprString(v.Cond))
		writeBlock(sb, v.Body, depth+1)
	case *ast.ForStmt:
		fmt.Fprintf(sb, "for %s in %s:\n", v.Binding, exprString(v.Iterable))
		writeBlock(sb, v.Body, depth+1)
	case *ast.BreakStmt:
		sb.WriteString("break\n")
	case *ast.ContinueStmt:
		sb.WriteString("continue\n")
	case *ast.PassStmt:
		sb.WriteString("pass\n")
	case *ast.ReturnStmt:
		if v.Value != nil {
			fmt.Fprintf(sb, "return %s\n", exprString(v.Value))
		} else {
			sb.WriteString("return\n")
		}
	case *ast.FuncDecl:
		writeFuncDecl(sb, v, depth)
	case *ast.StructDecl:
		writeStructDecl(sb, v, depth)
	case *ast.EnumDecl:
		writeEnumDecl(sb, v, depth)
	case *ast.TypeAliasDecl:
		fmt.Fprintf(sb, "%stype %s = %s\n", pubPrefix(v.Pub), v.Name, typeString(v.Type))
	case *ast.UseStmt:
		writeUseStmt(sb, v)
	case *ast.PubUseStmt:
		writePubUseStmt(sb, v)
	case *ast.BlockStmt:
		sb.WriteString(":\n")
		writeBlock(sb, v.Block, depth+1)
	case *ast.ExprStmt:
		fmt.Fprintf(sb, "%s\n", exprString(v.X))
	default:
		fmt.Fprintf(sb, "# <unknown stmt %T>\n", s)
	}
}

func writeBlock(sb *strings.Builder, b *ast.Block, depth int) {
	if len(b.Statements) == 0 {
		writeIndent(sb, depth)
		sb.WriteString("pass\n")
		return
	}
	for _, s := range b.Statements {
		writeStmt(sb, s, depth)
	}
}

func genericsSuffix(generics []string) string {
	if len(generics) == 0 {
		return ""
	}
	return "<" + strings.Join(generics, ", ") + ">"
}

func writeFuncDecl(sb *strings.Builder, f *ast.FuncDecl, depth int) {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		ps := fmt.Sprintf("%s: %s", p.Name, typeString(p.Type))
		if p.HasDefault && p.Default != nil {
			ps += " = " + exprString(p.Default)
		}
		params = append(params, ps)
	}
	ret := ""
	if f.ReturnType != nil {
		ret = " -> " + typeString(f.ReturnType)
	}
	fmt.Fprintf(sb, "%sfn %s%s(%s)%s:\n", pubPrefix(f.Pub), f.Name, genericsSuffix(f.Generics), strings.Join(params, ", "), ret)
	writeBlock(sb, f.Body, depth+1)
}

func writeStructDecl(sb *strings.Builder, d *ast.StructDecl, depth int) {
	fmt.Fprintf(sb, "%sstruct %s%s:\n", pubPrefix(d.Pub), d.Name, genericsSuffix(d.Generics))
	if len(d.Fields) == 0 && len(d.Methods) == 0 {
		writeIndent(sb, depth+1)
		sb.WriteString("pass\n")
		return
	}
	for _, fld := range d.Fields {
		writeIndent(sb, depth+1)
		fmt.Fprintf(sb, "%s: %s\n", fld.Name, typeString(fld.Type))
	}
	for _, m := range d.Methods {
		writeFuncDecl(sb, m, depth+1)
	}
}

func writeEnumDecl(sb *strings.Builder, d *ast.EnumDecl, depth int) {
	fmt.Fprintf(sb, "%senum %s%s:\n", pubPrefix(d.Pub), d.Name, genericsSuffix(d.Generics))
	if len(d.Variants) == 0 {
		writeIndent(sb, depth+1)
		sb.WriteString("pass\n")
		return
	}
	for _, variant := range d.Variants {
		writeIndent(sb, depth+1)
		switch {
		case len(variant.TuplePayload) > 0:
			parts := make([]string, len(variant.TuplePayload))
			for i, t := range variant.TuplePayload {
				parts[i] = typeString(t)
			}
			fmt.Fprintf(sb, "%s(%s)\n", variant.Name, strings.Join(parts, ", "))
		case len(variant.StructPayload) > 0:
			parts := make([]string, len(variant.StructPayload))
			for i, f := range variant.StructPayload {
				parts[i] = fmt.Sprintf("%s: %s", f.Name, typeString(f.Type))
			}
			fmt.Fprintf(sb, "%s { %s }\n", variant.Name, strings.Join(parts, ", "))
		default:
			fmt.Fprintf(sb, "%s\n", variant.Name)
		}
	}
}

func writeUseStmt(sb *strings.Builder, u *ast.UseStmt) {
	parts := make([]string, len(u.Imports))
	for i, imp := range u.Imports {
		if imp.Alias != "" {
			parts[i] = fmt.Sprintf("%s as %s", imp.Module, imp.Alias)
		} else {
			parts[i] = imp.Module
		}
	}
	fmt.Fprintf(sb, "use %s\n", strings.Join(parts, ", "))
}

func writePubUseStmt(sb *strings.Builder, u *ast.PubUseStmt) {
	target := u.Module
	if u.Item != "" {
		target += "." + u.Item
	} else {
		target += ".*"
	}
	if u.Alias != "" {
		fmt.Fprintf(sb, "pub use %s as %s\n", target, u.Alias)
		return
	}
	fmt.Fprintf(sb, "pub use %s\n", target)
}

func typeString(t ast.Type) string {
	switch v := t.(type) {
	case ast.SimpleType:
		return v.Name
	case ast.GenericType:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = typeString(a)
		}
		return fmt.Sprintf("%s<%s>", v.Base, strings.Join(args, ", "))
	case ast.FuncType:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = typeString(p)
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), typeString(v.Return))
	case ast.TupleType:
		elems := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = typeString(e)
		}
		return "(" + strings.Join(elems, ", ") + ")"
	default:
		return fmt.Sprintf("<unknown type %T>", t)
	}
}

var binaryOpText = map[ast.BinaryOp]string{
	ast.OpOr: "or", ast.OpAnd: "and", ast.OpEq: "==", ast.OpNeq: "!=",
	ast.OpLt: "<", ast.OpGt: ">", ast.OpLte: "<=", ast.OpGte: ">=",
	ast.OpIs: "is", ast.OpIsNot: "is not", ast.OpRange: "..",
	ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/", ast.OpMod: "%",
}

var unaryOpText = map[ast.UnaryOp]string{
	ast.OpNeg: "-", ast.OpNot: "not ", ast.OpBang: "!",
}

func exprString(e ast.Expr) string {
	if e == nil {
		return ""
	}
	switch v := e.(type) {
	case *ast.Literal:
		if v.Kind == ast.LitString {
			return fmt.Sprintf("%q", v.Raw)
		}
		return v.Raw
	case *ast.Ident:
		return v.Name
	case *ast.MemberExpr:
		return exprString(v.X) + "." + v.Field
	case *ast.CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", exprString(v.Fn), strings.Join(args, ", "))
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", exprString(v.Left), binaryOpText[v.Op], exprString(v.Right))
	case *ast.UnaryExpr:
		op := unaryOpText[v.Op]
		if op == "not " {
			return op + exprString(v.X)
		}
		return op + exprString(v.X)
	case *ast.IfExpr:
		s := fmt.Sprintf("if %s: %s", exprString(v.Cond), exprString(v.Then))
		for _, el := range v.Elifs {
			s += fmt.Sprintf(" elif %s: %s", exprString(el.Cond), exprString(el.Then))
		}
		if v.Else != nil {
			s += " else: " + exprString(v.Else)
		}
		return s
	case *ast.MatchExpr:
		var sb strings.Builder
		fmt.Fprintf(&sb, "match %s: ", exprString(v.Subject))
		for i, arm := range v.Arms {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s => %s", patternString(arm.Pattern), exprString(arm.Body))
		}
		return sb.String()
	case *ast.RangeExpr:
		return exprString(v.Start) + ".." + exprString(v.End)
	case *ast.ArrayLit:
		elems := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = exprString(el)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *ast.DictLit:
		entries := make([]string, len(v.Entries))
		for i, en := range v.Entries {
			entries[i] = exprString(en.Key) + ": " + exprString(en.Value)
		}
		return "{" + strings.Join(entries, ", ") + "}"
	case *ast.Comprehension:
		if v.Kind == ast.CompDict {
			s := fmt.Sprintf("{%s: %s for %s in %s", exprString(v.KeyExpr), exprString(v.ValExpr), v.Binding, exprString(v.Iterable))
			if v.Filter != nil {
				s += " if " + exprString(v.Filter)
			}
			return s + "}"
		}
		s := fmt.Sprintf("[%s for %s in %s", exprString(v.ValExpr), v.Binding, exprString(v.Iterable))
		if v.Filter != nil {
			s += " if " + exprString(v.Filter)
		}
		return s + "]"
	case *ast.InterpString:
		var sb strings.Builder
		sb.WriteString(`f"`)
		for _, part := range v.Parts {
			if part.Expr != nil {
				sb.WriteString("{" + exprString(part.Expr) + "}")
			} else {
				sb.WriteString(part.Text)
			}
		}
		sb.WriteString(`"`)
		return sb.String()
	case *ast.StructLit:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = f.Name + ": " + exprString(f.Value)
		}
		return fmt.Sprintf("%s { %s }", v.Type, strings.Join(fields, ", "))
	case *ast.SpawnExpr:
		return "spawn " + exprString(v.X)
	case *ast.AwaitExpr:
		return "await " + exprString(v.X)
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func patternString(p ast.Pattern) string {
	switch v := p.(type) {
	case ast.WildcardPattern:
		return "_"
	case ast.LiteralPattern:
		if v.Kind == ast.LitString {
			return fmt.Sprintf("%q", v.Raw)
		}
		return v.Raw
	case ast.IdentPattern:
		return v.Name
	case ast.EnumVariantPattern:
		name := v.Variant
		if v.Enum != "" {
			name = v.Enum + "." + v.Variant
		}
		switch {
		case len(v.Tuple) > 0:
			parts := make([]string, len(v.Tuple))
			for i, sub := range v.Tuple {
				parts[i] = patternString(sub)
			}
			return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
		case len(v.Fields) > 0:
			return fmt.Sprintf("%s { %s }", name, fieldPatternsString(v.Fields))
		default:
			return name
		}
	case ast.StructPattern:
		return fmt.Sprintf("%s { %s }", v.Type, fieldPatternsString(v.Fields))
	case ast.ArrayPattern:
		parts := make([]string, len(v.Head))
		for i, sub := range v.Head {
			parts[i] = patternString(sub)
		}
		if v.Rest != "" {
			parts = append(parts, ".."+v.Rest)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("<unknown pattern %T>", p)
	}
}

func fieldPatternsString(fields []ast.FieldPattern) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f.Sub == nil {
			parts[i] = f.Name
		} else {
			parts[i] = f.Name + ": " + patternString(f.Sub)
		}
	}
	return strings.Join(parts, ", ")
}
