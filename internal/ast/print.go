package ast

import (
	"fmt"
	"strings"
)

// Dump produces a deterministic, indented text tree of a Program, used by
// the CLI's --dump-ast flag. It omits spans so the output is stable across
// re-formatting, mirroring the teacher's Print()'s intent (a reproducible,
// instance-metadata-free rendering for snapshot testing) expressed with a
// plain recursive type switch instead of JSON, since OtterLang's AST is a
// closed set of concrete struct types rather than an open interface tree.
func Dump(prog *Program) string {
	var sb strings.Builder
	sb.WriteString("Program\n")
	for _, s := range prog.Statements {
		dumpStmt(&sb, s, 1)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(sb *strings.Builder, s Stmt, depth int) {
	switch v := s.(type) {
	case *LetStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "Let(%s, pub=%v)\n", v.Name, v.Pub)
		dumpExpr(sb, v.Value, depth+1)
	case *AssignStmt:
		indent(sb, depth)
		sb.WriteString("Assign\n")
		dumpExpr(sb, v.Target, depth+1)
		dumpExpr(sb, v.Value, depth+1)
	case *IfStmt:
		indent(sb, depth)
		sb.WriteString("If\n")
		dumpExpr(sb, v.Cond, depth+1)
		dumpBlock(sb, v.Then, depth+1)
		for _, e := range v.Elifs {
			indent(sb, depth)
			sb.WriteString("Elif\n")
			dumpExpr(sb, e.Cond, depth+1)
			dumpBlock(sb, e.Body, depth+1)
		}
		if v.Else != nil {
			indent(sb, depth)
			sb.WriteString("Else\n")
			dumpBlock(sb, v.Else, depth+1)
		}
	case *WhileStmt:
		indent(sb, depth)
		sb.WriteString("While\n")
		dumpExpr(sb, v.Cond, depth+1)
		dumpBlock(sb, v.Body, depth+1)
	case *ForStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "For(%s)\n", v.Binding)
		dumpExpr(sb, v.Iterable, depth+1)
		dumpBlock(sb, v.Body, depth+1)
	case *BreakStmt:
		indent(sb, depth)
		sb.WriteString("Break\n")
	case *ContinueStmt:
		indent(sb, depth)
		sb.WriteString("Continue\n")
	case *PassStmt:
		indent(sb, depth)
		sb.WriteString("Pass\n")
	case *ReturnStmt:
		indent(sb, depth)
		sb.WriteString("Return\n")
		if v.Value != nil {
			dumpExpr(sb, v.Value, depth+1)
		}
	case *FuncDecl:
		indent(sb, depth)
		fmt.Fprintf(sb, "Function(%s, pub=%v, recv=%q)\n", v.Name, v.Pub, v.Receiver)
		dumpBlock(sb, v.Body, depth+1)
	case *StructDecl:
		indent(sb, depth)
		fmt.Fprintf(sb, "Struct(%s, pub=%v, fields=%d, methods=%d)\n", v.Name, v.Pub, len(v.Fields), len(v.Methods))
	case *EnumDecl:
		indent(sb, depth)
		fmt.Fprintf(sb, "Enum(%s, pub=%v, variants=%d)\n", v.Name, v.Pub, len(v.Variants))
	case *TypeAliasDecl:
		indent(sb, depth)
		fmt.Fprintf(sb, "TypeAlias(%s, pub=%v)\n", v.Name, v.Pub)
	case *UseStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "Use(%d imports)\n", len(v.Imports))
	case *PubUseStmt:
		indent(sb, depth)
		fmt.Fprintf(sb, "PubUse(%s.%s as %s)\n", v.Module, v.Item, v.Alias)
	case *BlockStmt:
		dumpBlock(sb, v.Block, depth)
	case *ExprStmt:
		indent(sb, depth)
		sb.WriteString("ExprStmt\n")
		dumpExpr(sb, v.X, depth+1)
	default:
		indent(sb, depth)
		fmt.Fprintf(sb, "<unknown stmt %T>\n", s)
	}
}

func dumpBlock(sb *strings.Builder, b *Block, depth int) {
	indent(sb, depth)
	sb.WriteString("Block\n")
	for _, s := range b.Statements {
		dumpStmt(sb, s, depth+1)
	}
}

func dumpExpr(sb *strings.Builder, e Expr, depth int) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *Literal:
		indent(sb, depth)
		fmt.Fprintf(sb, "Literal(%v)\n", v.Raw)
	case *Ident:
		indent(sb, depth)
		fmt.Fprintf(sb, "Ident(%s)\n", v.Name)
	case *MemberExpr:
		indent(sb, depth)
		fmt.Fprintf(sb, "Member(.%s)\n", v.Field)
		dumpExpr(sb, v.X, depth+1)
	case *CallExpr:
		indent(sb, depth)
		sb.WriteString("Call\n")
		dumpExpr(sb, v.Fn, depth+1)
		for _, a := range v.Args {
			dumpExpr(sb, a, depth+1)
		}
	case *BinaryExpr:
		indent(sb, depth)
		fmt.Fprintf(sb, "Binary(%d)\n", v.Op)
		dumpExpr(sb, v.Left, depth+1)
		dumpExpr(sb, v.Right, depth+1)
	case *UnaryExpr:
		indent(sb, depth)
		fmt.Fprintf(sb, "Unary(%d)\n", v.Op)
		dumpExpr(sb, v.X, depth+1)
	case *IfExpr:
		indent(sb, depth)
		sb.WriteString("IfExpr\n")
		dumpExpr(sb, v.Cond, depth+1)
		dumpExpr(sb, v.Then, depth+1)
		dumpExpr(sb, v.Else, depth+1)
	case *MatchExpr:
		indent(sb, depth)
		fmt.Fprintf(sb, "Match(%d arms)\n", len(v.Arms))
		dumpExpr(sb, v.Subject, depth+1)
	case *RangeExpr:
		indent(sb, depth)
		sb.WriteString("Range\n")
		dumpExpr(sb, v.Start, depth+1)
		dumpExpr(sb, v.End, depth+1)
	case *ArrayLit:
		indent(sb, depth)
		fmt.Fprintf(sb, "Array(%d)\n", len(v.Elems))
		for _, el := range v.Elems {
			dumpExpr(sb, el, depth+1)
		}
	case *DictLit:
		indent(sb, depth)
		fmt.Fprintf(sb, "Dict(%d)\n", len(v.Entries))
	case *Comprehension:
		indent(sb, depth)
		sb.WriteString("Comprehension\n")
	case *InterpString:
		indent(sb, depth)
		fmt.Fprintf(sb, "Interp(%d parts)\n", len(v.Parts))
	case *StructLit:
		indent(sb, depth)
		fmt.Fprintf(sb, "StructLit(%s)\n", v.Type)
	case *SpawnExpr:
		indent(sb, depth)
		sb.WriteString("Spawn\n")
		dumpExpr(sb, v.X, depth+1)
	case *AwaitExpr:
		indent(sb, depth)
		sb.WriteString("Await\n")
		dumpExpr(sb, v.X, depth+1)
	default:
		indent(sb, depth)
		fmt.Fprintf(sb, "<unknown expr %T>\n", e)
	}
}
