// Package module implements OtterLang's import resolution, memoized module
// loading, cycle detection, and pub-use re-export resolution, per spec.md
// §4.4. The Loader shape (cache map + sync.RWMutex + loadStack cycle guard)
// follows the teacher's internal/module/loader.go; the three-way exports
// partition and legacy otterc_X normalization are new, grounded on
// original_source's module loader.
package module

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diag"
)

// Exports partitions a module's public surface into functions, constants,
// and types, per spec.md §4.4's "exports contains only items declared pub
// plus those re-exported via PubUse" invariant.
type Exports struct {
	Functions map[string]*ast.FuncDecl
	Constants map[string]*ast.LetStmt
	Types     map[string]ast.Stmt // *StructDecl, *EnumDecl, or *TypeAliasDecl
}

func newExports() *Exports {
	return &Exports{
		Functions: make(map[string]*ast.FuncDecl),
		Constants: make(map[string]*ast.LetStmt),
		Types:     make(map[string]ast.Stmt),
	}
}

// lookup finds one exported item by name across all three partitions,
// returning the underlying AST node and whether it was found.
func (e *Exports) lookup(name string) (interface{}, bool) {
	if fn, ok := e.Functions[name]; ok {
		return fn, true
	}
	if c, ok := e.Constants[name]; ok {
		return c, true
	}
	if t, ok := e.Types[name]; ok {
		return t, true
	}
	return nil, false
}

// names returns every exported name across all three partitions.
func (e *Exports) names() []string {
	var out []string
	for n := range e.Functions {
		out = append(out, n)
	}
	for n := range e.Constants {
		out = append(out, n)
	}
	for n := range e.Types {
		out = append(out, n)
	}
	return out
}

// insert records name -> node in the right partition, based on the node's
// dynamic type. Returns false if name already exists in that partition
// (caller treats this as a duplicate-export diagnostic).
func (e *Exports) insert(name string, node interface{}) bool {
	switch v := node.(type) {
	case *ast.FuncDecl:
		if _, dup := e.Functions[name]; dup {
			return false
		}
		e.Functions[name] = v
	case *ast.LetStmt:
		if _, dup := e.Constants[name]; dup {
			return false
		}
		e.Constants[name] = v
	case *ast.StructDecl, *ast.EnumDecl, *ast.TypeAliasDecl:
		if _, dup := e.Types[name]; dup {
			return false
		}
		e.Types[name] = v.(ast.Stmt)
	default:
		return false
	}
	return true
}

// Module is one loaded, parsed OtterLang source file.
type Module struct {
	// Path is the canonicalized path this module is keyed under in the
	// Loader's memoization table.
	Path string

	// FilePath is the absolute filesystem path the module was read from.
	FilePath string

	Program *ast.Program

	// Dependencies are the canonicalized paths of every module this module
	// imports via Use or PubUse.
	Dependencies []string

	Exports *Exports

	// PendingReexports holds this module's PubUseStmt nodes until
	// ResolveReexports runs its dedicated pass over the whole loaded set.
	PendingReexports []*ast.PubUseStmt
}

// Error is a structured module-resolution failure, carrying both endpoints'
// spans where applicable per spec.md §4.4's failure-mode contract.
type Error struct {
	Code    string
	Message string
	Path    string
	Cycle   []string
	Span    diag.Span
}

func (e *Error) Error() string { return e.Message }
