package module

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/errors"
)

// ResolveReexports runs the dedicated pub-use resolution pass described in
// spec.md §4.4: after every module reachable from the workspace roots has
// been loaded, walk each module's PendingReexports and splice the named (or
// entire) target export set into the re-exporting module's own Exports.
//
// Re-exports chain transitively (pub use A.x in B, then pub use B.x in C
// resolves to A's x), so this runs to a fixed point: repeated passes over
// every module until one pass makes no further progress, bounded by the
// number of loaded modules (a chain can be at most that long).
func (l *Loader) ResolveReexports() {
	l.mu.RLock()
	mods := make([]*Module, 0, len(l.cache))
	for _, m := range l.cache {
		mods = append(mods, m)
	}
	l.mu.RUnlock()

	unresolved := make(map[*Module][]*ast.PubUseStmt, len(mods))
	for _, mod := range mods {
		unresolved[mod] = mod.PendingReexports
	}

	for pass := 0; pass <= len(mods); pass++ {
		progressed := false
		for _, mod := range mods {
			var stillPending []*ast.PubUseStmt
			for _, reexp := range unresolved[mod] {
				if reexp.Item == "" {
					if l.applyReexportAll(mod, reexp) {
						progressed = true
						continue
					}
				} else if l.applyReexportOne(mod, reexp) {
					progressed = true
					continue
				}
				stillPending = append(stillPending, reexp)
			}
			unresolved[mod] = stillPending
		}
		if !progressed {
			break
		}
	}

	for _, mod := range mods {
		for _, reexp := range unresolved[mod] {
			l.Diagnostics.Add(diag.New(errors.MOD003, reexp.Span(),
				"pub use %s.%s: item not found or not public", reexp.Module, reexp.Item))
		}
		mod.PendingReexports = unresolved[mod]
	}
}

// targetModule resolves reexp.Module to an already-loaded *Module, relative
// to mod's own file. Returns nil if the target hasn't finished loading yet
// (shouldn't normally happen since collectDependencies loads it eagerly,
// but a fixed-point pass is cheap insurance against ordering differences).
func (l *Loader) targetModule(mod *Module, specModule string) *Module {
	resolved, err := l.resolver.Resolve(specModule, mod.FilePath)
	if err != nil {
		return nil
	}
	path := Canonicalize(resolved)
	if path == mod.Path {
		l.Diagnostics.Add(diag.New(errors.MOD005, diag.Span{}, "pub use self.%s is never reflexive", specModule))
		return nil
	}
	m, _ := l.getCached(path)
	return m
}

func (l *Loader) applyReexportOne(mod *Module, reexp *ast.PubUseStmt) bool {
	target := l.targetModule(mod, reexp.Module)
	if target == nil {
		return false
	}
	node, ok := target.Exports.lookup(reexp.Item)
	if !ok {
		return false
	}
	name := reexp.Item
	if reexp.Alias != "" {
		name = reexp.Alias
	}
	return mod.Exports.insert(name, node)
}

func (l *Loader) applyReexportAll(mod *Module, reexp *ast.PubUseStmt) bool {
	target := l.targetModule(mod, reexp.Module)
	if target == nil {
		return false
	}
	for _, name := range target.Exports.names() {
		node, _ := target.Exports.lookup(name)
		mod.Exports.insert(name, node)
	}
	return true
}
