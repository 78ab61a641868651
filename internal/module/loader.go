package module

import (
	"os"
	"sync"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/errors"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/parser"
)

// Loader owns the memoization table mapping canonical module path to
// *Module, and the load-stack used to detect cyclic imports via DFS, per
// spec.md §4.4. One Loader serves one compilation (one otter.yaml
// workspace).
type Loader struct {
	mu       sync.RWMutex
	cache    map[string]*Module
	resolver *Resolver

	loadStack []string // paths currently being loaded, for cycle detection

	Diagnostics *diag.Bag
}

// NewLoader creates a Loader backed by the given Resolver.
func NewLoader(resolver *Resolver) *Loader {
	return &Loader{
		cache:       make(map[string]*Module),
		resolver:    resolver,
		Diagnostics: &diag.Bag{},
	}
}

func (l *Loader) getCached(path string) (*Module, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.cache[path]
	return m, ok
}

func (l *Loader) store(m *Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[m.Path] = m
}

// Loaded returns every module this Loader has resolved so far, keyed by
// canonical path — the dependency map the type checker's Check wants for
// a whole compilation unit, and the set ResolveReexports and the build
// cache's dependency-content hashing both need to walk.
func (l *Loader) Loaded() map[string]*Module {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]*Module, len(l.cache))
	for k, v := range l.cache {
		out[k] = v
	}
	return out
}

func (l *Loader) pushStack(path string) { l.loadStack = append(l.loadStack, path) }
func (l *Loader) popStack()             { l.loadStack = l.loadStack[:len(l.loadStack)-1] }

// detectCycle runs a DFS back-edge check: path is a cycle iff it already
// appears on the current load stack.
func (l *Loader) detectCycle(path string) ([]string, bool) {
	for i, p := range l.loadStack {
		if p == path {
			cycle := append(append([]string{}, l.loadStack[i:]...), path)
			return cycle, true
		}
	}
	return nil, false
}

// LoadFile loads and parses the module at absPath (a root entry point or a
// resolved dependency), memoizing by canonical path and detecting cycles.
func (l *Loader) LoadFile(absPath string) (*Module, error) {
	path := Canonicalize(absPath)

	if m, ok := l.getCached(path); ok {
		return m, nil
	}
	if cycle, isCycle := l.detectCycle(path); isCycle {
		err := &Error{Code: errors.MOD002, Message: "circular import detected", Cycle: cycle, Path: path}
		l.Diagnostics.Add(diag.New(errors.MOD002, diag.Span{}, "circular import: %v", cycle))
		return nil, err
	}

	l.pushStack(path)
	defer l.popStack()

	content, err := os.ReadFile(absPath)
	if err != nil {
		e := &Error{Code: errors.MOD001, Message: "cannot read module file: " + absPath, Path: path}
		l.Diagnostics.Add(diag.New(errors.MOD001, diag.Span{}, "%s", e.Message))
		return nil, e
	}

	toks, lexDiags := lexer.Tokenize(content, absPath)
	for _, d := range lexDiags.All() {
		l.Diagnostics.Add(d)
	}
	prog, parDiags := parser.Parse(toks, absPath)
	for _, d := range parDiags.All() {
		l.Diagnostics.Add(d)
	}

	mod := &Module{Path: path, FilePath: absPath, Program: prog}
	mod.Exports = l.collectExports(mod)
	mod.Dependencies = l.collectDependencies(mod, absPath)

	for _, dep := range mod.Dependencies {
		if dep == "" {
			continue
		}
		if depAbs, foreign := foreignPath(dep); foreign {
			_ = depAbs
			continue
		}
		if _, err := l.LoadFile(dep); err != nil {
			return nil, err
		}
	}

	l.store(mod)
	return mod, nil
}

// Load resolves an import specifier relative to fromFile, then loads it
// (cache-memoized) via LoadFile.
func (l *Loader) Load(spec string, fromFile string) (*Module, error) {
	resolved, err := l.resolver.Resolve(spec, fromFile)
	if err != nil {
		e := &Error{Code: errors.MOD001, Message: err.Error(), Path: spec}
		l.Diagnostics.Add(diag.New(errors.MOD001, diag.Span{}, "%s", e.Message))
		return nil, e
	}
	if isForeign(resolved) {
		return &Module{Path: resolved, Exports: newExports()}, nil
	}
	return l.LoadFile(resolved)
}

func isForeign(path string) bool { return len(path) > 8 && path[:8] == "foreign:" }

func foreignPath(path string) (string, bool) {
	if isForeign(path) {
		return path, true
	}
	return path, false
}

// collectDependencies resolves every Use/PubUse import in mod's program to
// an absolute (or "foreign:"-prefixed) path, recording it as a dependency
// edge for the cycle-detecting loader walk above.
func (l *Loader) collectDependencies(mod *Module, fromFile string) []string {
	var deps []string
	for _, stmt := range mod.Program.Statements {
		switch s := stmt.(type) {
		case *ast.UseStmt:
			for _, imp := range s.Imports {
				if resolved, err := l.resolver.Resolve(imp.Module, fromFile); err == nil {
					deps = append(deps, resolved)
				}
			}
		case *ast.PubUseStmt:
			if resolved, err := l.resolver.Resolve(s.Module, fromFile); err == nil {
				deps = append(deps, resolved)
			}
			mod.PendingReexports = append(mod.PendingReexports, s)
		}
	}
	return deps
}

// collectExports walks mod's top-level statements and records every item
// declared pub, per spec.md §4.4 ("exports contains only items declared pub
// plus those re-exported via PubUse" — the PubUse half is completed by
// ResolveReexports once every module in the workspace has been loaded).
func (l *Loader) collectExports(mod *Module) *Exports {
	ex := newExports()
	for _, stmt := range mod.Program.Statements {
		var name string
		var pub bool
		var node interface{}

		switch s := stmt.(type) {
		case *ast.FuncDecl:
			name, pub, node = s.Name, s.Pub, s
		case *ast.LetStmt:
			name, pub, node = s.Name, s.Pub, s
		case *ast.StructDecl:
			name, pub, node = s.Name, s.Pub, s
		case *ast.EnumDecl:
			name, pub, node = s.Name, s.Pub, s
		case *ast.TypeAliasDecl:
			name, pub, node = s.Name, s.Pub, s
		default:
			continue
		}

		if !pub {
			continue
		}
		if !ex.insert(name, node) {
			l.Diagnostics.Add(diag.New(errors.MOD004, stmt.Span(), "duplicate top-level definition %q in module %s", name, mod.Path))
		}
	}
	return ex
}
