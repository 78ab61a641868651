package inline

import (
	"sync/atomic"

	"github.com/otterlang/otter/internal/ast"
)

// InlineConfig tunes the inliner's eligibility rules and recursion
// bound, mirroring the original Rust InlineConfig field-for-field.
type InlineConfig struct {
	// MaxInlineSize is the maximum recursive statement count a callee
	// may contain to be eligible.
	MaxInlineSize int
	// MaxDepth bounds recursive inlining of already-inlined bodies.
	MaxDepth int
	// InlineHotOnly restricts inlining to call sites where the caller
	// or callee is in the externally-supplied hot set.
	InlineHotOnly bool
}

// DefaultInlineConfig matches the original's Default impl.
func DefaultInlineConfig() InlineConfig {
	return InlineConfig{MaxInlineSize: 64, MaxDepth: 3, InlineHotOnly: true}
}

// InlineStats summarizes inline activity across one InlineProgram call.
type InlineStats struct {
	Attempted        int
	Applied          int
	SkippedMissing   int
	SkippedSize      int
	SkippedCold      int
	SkippedRecursive int
	SkippedComplex   int
}

// Inliner rewrites eligible calls in place across a program's functions.
type Inliner struct {
	config   InlineConfig
	inlineID atomic.Uint64
}

// NewInliner creates an Inliner with DefaultInlineConfig.
func NewInliner() *Inliner { return &Inliner{config: DefaultInlineConfig()} }

// NewInlinerWithConfig creates an Inliner with an explicit configuration.
func NewInlinerWithConfig(cfg InlineConfig) *Inliner { return &Inliner{config: cfg} }

// Config returns the inliner's active configuration.
func (in *Inliner) Config() InlineConfig { return in.config }

type inlineCtx struct {
	functions map[string]*ast.FuncDecl
	hot       map[string]bool
	graph     *CallGraph
}

// InlineProgram rewrites prog's function bodies in place, replacing
// eligible calls with the callee's body, and returns activity stats.
// hot names the functions the tiered compiler has observed as hot;
// graph is kept on the inliner's context but not consulted, and it is
// not updated by the rewrite, so its edges describe the program as it
// was before inlining.
func (in *Inliner) InlineProgram(prog *ast.Program, hot map[string]bool, graph *CallGraph) InlineStats {
	var stats InlineStats
	ctx := &inlineCtx{functions: indexFunctions(prog), hot: hot, graph: graph}

	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.FuncDecl:
			in.inlineFunction(s, ctx, []string{s.Name}, &stats, 0)
		case *ast.StructDecl:
			for _, m := range s.Methods {
				in.inlineFunction(m, ctx, []string{m.Name}, &stats, 0)
			}
		}
	}
	return stats
}

func indexFunctions(prog *ast.Program) map[string]*ast.FuncDecl {
	m := make(map[string]*ast.FuncDecl)
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.FuncDecl:
			m[s.Name] = s
		case *ast.StructDecl:
			for _, meth := range s.Methods {
				m[meth.Name] = meth
			}
		}
	}
	return m
}

func (in *Inliner) inlineFunction(f *ast.FuncDecl, ctx *inlineCtx, stack []string, stats *InlineStats, depth int) {
	if depth >= in.config.MaxDepth {
		return
	}
	currentHot := ctx.hot[f.Name]
	in.inlineBlock(f.Body, ctx, stack, stats, depth, currentHot, f.Name)
}

func (in *Inliner) inlineBlock(b *ast.Block, ctx *inlineCtx, stack []string, stats *InlineStats, depth int, currentHot bool, currentName string) {
	if b == nil {
		return
	}
	out := make([]ast.Stmt, 0, len(b.Statements))
	for _, stmt := range b.Statements {
		in.inlineStatement(stmt, ctx, stack, stats, depth, currentHot, currentName, &out)
	}
	b.Statements = out
}

func (in *Inliner) inlineStatement(stmt ast.Stmt, ctx *inlineCtx, stack []string, stats *InlineStats, depth int, currentHot bool, currentName string, out *[]ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		if snippet := in.tryInlineExpr(s.Value, true, ctx, stack, stats, depth, currentHot, currentName); snippet != nil {
			in.emitSnippet(snippet, ctx, stack, stats, depth, out)
			s.Value = snippet.result
			*out = append(*out, s)
			return
		}
		in.inlineExpr(s.Value, ctx, stack, stats, depth, currentHot, currentName)
		*out = append(*out, s)

	case *ast.AssignStmt:
		if snippet := in.tryInlineExpr(s.Value, true, ctx, stack, stats, depth, currentHot, currentName); snippet != nil {
			in.emitSnippet(snippet, ctx, stack, stats, depth, out)
			s.Value = snippet.result
			*out = append(*out, s)
			return
		}
		in.inlineExpr(s.Value, ctx, stack, stats, depth, currentHot, currentName)
		*out = append(*out, s)

	case *ast.ExprStmt:
		if snippet := in.tryInlineExpr(s.X, false, ctx, stack, stats, depth, currentHot, currentName); snippet != nil {
			in.emitSnippet(snippet, ctx, stack, stats, depth, out)
			return
		}
		in.inlineExpr(s.X, ctx, stack, stats, depth, currentHot, currentName)
		*out = append(*out, s)

	case *ast.ReturnStmt:
		if s.Value == nil {
			*out = append(*out, s)
			return
		}
		if snippet := in.tryInlineExpr(s.Value, true, ctx, stack, stats, depth, currentHot, currentName); snippet != nil {
			in.emitSnippet(snippet, ctx, stack, stats, depth, out)
			s.Value = snippet.result
			*out = append(*out, s)
			return
		}
		in.inlineExpr(s.Value, ctx, stack, stats, depth, currentHot, currentName)
		*out = append(*out, s)

	case *ast.IfStmt:
		in.inlineExpr(s.Cond, ctx, stack, stats, depth, currentHot, currentName)
		in.inlineBlock(s.Then, ctx, stack, stats, depth, currentHot, currentName)
		for i := range s.Elifs {
			in.inlineExpr(s.Elifs[i].Cond, ctx, stack, stats, depth, currentHot, currentName)
			in.inlineBlock(s.Elifs[i].Body, ctx, stack, stats, depth, currentHot, currentName)
		}
		if s.Else != nil {
			in.inlineBlock(s.Else, ctx, stack, stats, depth, currentHot, currentName)
		}
		*out = append(*out, s)

	case *ast.WhileStmt:
		in.inlineExpr(s.Cond, ctx, stack, stats, depth, currentHot, currentName)
		in.inlineBlock(s.Body, ctx, stack, stats, depth, currentHot, currentName)
		*out = append(*out, s)

	case *ast.ForStmt:
		in.inlineExpr(s.Iterable, ctx, stack, stats, depth, currentHot, currentName)
		in.inlineBlock(s.Body, ctx, stack, stats, depth, currentHot, currentName)
		*out = append(*out, s)

	case *ast.BlockStmt:
		in.inlineBlock(s.Block, ctx, stack, stats, depth, currentHot, currentName)
		*out = append(*out, s)

	default:
		*out = append(*out, stmt)
	}
}

// inlineExpr recurses into e's sub-expressions looking for further
// inlinable calls; it never replaces e itself (that only happens at
// statement granularity via tryInlineExpr, since a call in the middle
// of a larger expression can't be replaced by a multi-statement
// snippet without control-flow rewriting the inliner doesn't do).
func (in *Inliner) inlineExpr(e ast.Expr, ctx *inlineCtx, stack []string, stats *InlineStats, depth int, currentHot bool, currentName string) {
	switch x := e.(type) {
	case *ast.CallExpr:
		in.inlineExpr(x.Fn, ctx, stack, stats, depth, currentHot, currentName)
		for _, a := range x.Args {
			in.inlineExpr(a, ctx, stack, stats, depth, currentHot, currentName)
		}
	case *ast.BinaryExpr:
		in.inlineExpr(x.Left, ctx, stack, stats, depth, currentHot, currentName)
		in.inlineExpr(x.Right, ctx, stack, stats, depth, currentHot, currentName)
	case *ast.UnaryExpr:
		in.inlineExpr(x.X, ctx, stack, stats, depth, currentHot, currentName)
	case *ast.IfExpr:
		in.inlineExpr(x.Cond, ctx, stack, stats, depth, currentHot, currentName)
		in.inlineExpr(x.Then, ctx, stack, stats, depth, currentHot, currentName)
		for i := range x.Elifs {
			in.inlineExpr(x.Elifs[i].Cond, ctx, stack, stats, depth, currentHot, currentName)
			in.inlineExpr(x.Elifs[i].Then, ctx, stack, stats, depth, currentHot, currentName)
		}
		if x.Else != nil {
			in.inlineExpr(x.Else, ctx, stack, stats, depth, currentHot, currentName)
		}
	case *ast.MatchExpr:
		in.inlineExpr(x.Subject, ctx, stack, stats, depth, currentHot, currentName)
		for i := range x.Arms {
			if x.Arms[i].Guard != nil {
				in.inlineExpr(x.Arms[i].Guard, ctx, stack, stats, depth, currentHot, currentName)
			}
			in.inlineExpr(x.Arms[i].Body, ctx, stack, stats, depth, currentHot, currentName)
		}
	case *ast.ArrayLit:
		for _, el := range x.Elems {
			in.inlineExpr(el, ctx, stack, stats, depth, currentHot, currentName)
		}
	case *ast.DictLit:
		for i := range x.Entries {
			in.inlineExpr(x.Entries[i].Key, ctx, stack, stats, depth, currentHot, currentName)
			in.inlineExpr(x.Entries[i].Value, ctx, stack, stats, depth, currentHot, currentName)
		}
	case *ast.InterpString:
		for _, part := range x.Parts {
			if part.Expr != nil {
				in.inlineExpr(part.Expr, ctx, stack, stats, depth, currentHot, currentName)
			}
		}
	case *ast.SpawnExpr:
		in.inlineExpr(x.X, ctx, stack, stats, depth, currentHot, currentName)
	case *ast.AwaitExpr:
		in.inlineExpr(x.X, ctx, stack, stats, depth, currentHot, currentName)
	case *ast.StructLit:
		for i := range x.Fields {
			in.inlineExpr(x.Fields[i].Value, ctx, stack, stats, depth, currentHot, currentName)
		}
	}
}

type snippet struct {
	callee string
	block  *ast.Block
	result ast.Expr
}

func (in *Inliner) tryInlineExpr(e ast.Expr, needsResult bool, ctx *inlineCtx, stack []string, stats *InlineStats, depth int, currentHot bool, currentName string) *snippet {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return nil
	}
	ident, ok := call.Fn.(*ast.Ident)
	if !ok {
		return nil
	}
	return in.tryInlineCall(ident.Name, call.Args, ctx, stack, stats, currentHot, needsResult)
}

func (in *Inliner) tryInlineCall(calleeName string, args []ast.Expr, ctx *inlineCtx, stack []string, stats *InlineStats, currentHot bool, needsResult bool) *snippet {
	stats.Attempted++

	callee, ok := ctx.functions[calleeName]
	if !ok {
		stats.SkippedMissing++
		return nil
	}
	if len(args) != len(callee.Params) {
		stats.SkippedComplex++
		return nil
	}
	for _, s := range stack {
		if s == calleeName {
			stats.SkippedRecursive++
			return nil
		}
	}
	if in.config.InlineHotOnly && !currentHot && !ctx.hot[calleeName] {
		stats.SkippedCold++
		return nil
	}
	if recursiveStmtCount(callee.Body) > in.config.MaxInlineSize {
		stats.SkippedSize++
		return nil
	}
	if hasInternalReturn(callee.Body) {
		stats.SkippedComplex++
		return nil
	}

	id := in.inlineID.Add(1)
	built := buildSnippet(callee, args, id)
	if needsResult && built.result == nil {
		stats.SkippedComplex++
		return nil
	}

	stats.Applied++
	return &snippet{callee: calleeName, block: built.block, result: built.result}
}

func (in *Inliner) emitSnippet(sn *snippet, ctx *inlineCtx, stack []string, stats *InlineStats, depth int, out *[]ast.Stmt) {
	stack = append(stack, sn.callee)
	calleeHot := ctx.hot[sn.callee]
	in.inlineBlock(sn.block, ctx, stack, stats, depth+1, calleeHot, sn.callee)
	*out = append(*out, sn.block.Statements...)
}

// recursiveStmtCount counts every statement reachable from b, including
// statements nested inside if/while/for/block bodies, matching the
// original's Block::recursive_count.
func recursiveStmtCount(b *ast.Block) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, stmt := range b.Statements {
		n++
		switch s := stmt.(type) {
		case *ast.IfStmt:
			n += recursiveStmtCount(s.Then)
			for _, elif := range s.Elifs {
				n += recursiveStmtCount(elif.Body)
			}
			if s.Else != nil {
				n += recursiveStmtCount(s.Else)
			}
		case *ast.WhileStmt:
			n += recursiveStmtCount(s.Body)
		case *ast.ForStmt:
			n += recursiveStmtCount(s.Body)
		case *ast.BlockStmt:
			n += recursiveStmtCount(s.Block)
		}
	}
	return n
}

// hasInternalReturn reports whether b returns from anywhere other than
// a single trailing statement at its own top level. A return nested
// inside an if/while/for branch is "internal" even when it is the last
// statement of that branch, since the function can still fall through
// past the branch and keep executing — inlining can only replace a
// call with a single result expression when the callee has exactly
// one, unconditional, trailing return.
func hasInternalReturn(b *ast.Block) bool {
	if b == nil || len(b.Statements) == 0 {
		return false
	}
	_, lastIsReturn := b.Statements[len(b.Statements)-1].(*ast.ReturnStmt)
	total := countReturns(b)
	if !lastIsReturn {
		return total > 0
	}
	return total > 1
}

func countReturns(b *ast.Block) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			n++
		case *ast.IfStmt:
			n += countReturns(s.Then)
			for _, elif := range s.Elifs {
				n += countReturns(elif.Body)
			}
			n += countReturns(s.Else)
		case *ast.WhileStmt:
			n += countReturns(s.Body)
		case *ast.ForStmt:
			n += countReturns(s.Body)
		case *ast.BlockStmt:
			n += countReturns(s.Block)
		}
	}
	return n
}
