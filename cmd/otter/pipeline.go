// cmd/otter is OtterLang's command-line driver: the thin external-facing
// shell around the compiler pipeline (internal/lexer through
// internal/cache), following cmd/ailang/main.go's role as the single
// entry point a user or script actually invokes.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/cache"
	"github.com/otterlang/otter/internal/codegen"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/inline"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/module"
	"github.com/otterlang/otter/internal/obslog"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/internal/types"
)

// globalFlags mirrors spec.md §6's flag surface, populated by cobra from
// the root command's persistent flags and read by every subcommand.
type globalFlags struct {
	dumpTokens bool
	dumpAST    bool
	dumpIR     bool
	showTime   bool
	profile    bool
	release    bool
	target     string
	noCache    bool
	features   []string
	debug      bool
	tasksDebug bool
	tasksTrace bool
}

// pipelineResult carries everything a later stage (codegen, the CLI's own
// reporting) might want from an earlier one, avoiding a re-walk of the
// AST to recover, say, the call graph a second time.
type pipelineResult struct {
	mod       *module.Module
	checked   *types.Result
	callGraph *inline.CallGraph
	artifact  *codegen.Artifact
	fromCache bool
	elapsed   time.Duration
}

// compileFile runs the full pipeline against path: lex, parse, resolve
// modules, type-check, inline, and (unless skipCodegen) emit a native
// artifact through the content-addressed build cache. Diagnostics are
// rendered to stderr as they're produced; a non-nil error means the
// caller should exit non-zero.
func compileFile(path string, flags globalFlags, log *obslog.Logger, skipCodegen bool, outputPath string) (*pipelineResult, error) {
	start := time.Now()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	toks, lexDiags := lexer.Tokenize(content, absPath)
	if flags.dumpTokens {
		for _, t := range toks {
			fmt.Println(t.String())
		}
	}
	if lexDiags.HasErrors() {
		renderAndReturn(lexDiags, string(content))
		return nil, fmt.Errorf("lexical errors in %s", path)
	}

	prog, parseDiags := parser.Parse(toks, absPath)
	if flags.dumpAST {
		fmt.Println(ast.Dump(prog))
	}
	if parseDiags.HasErrors() {
		renderAndReturn(parseDiags, string(content))
		return nil, fmt.Errorf("parse errors in %s", path)
	}

	manifest, err := config.LoadManifest(findManifest(absPath))
	if err != nil {
		log.Warn("config", "failed to load otter.yaml: %v", err)
	}
	if flags.profile {
		log.Info("profile", "use `otter profile build` for an allocation snapshot; --profile has no effect on run/build")
	}

	env := config.LoadEnv()
	features := config.MergeFeatures(manifest.Features, env.Features, flags.features)
	for _, f := range features {
		if !config.KnownFeatures[f] {
			log.Warn("config", "unknown feature flag %q ignored", f)
		}
	}

	stdlibDir := manifest.StdlibDir
	if env.StdlibDir != "" {
		stdlibDir = env.StdlibDir
	}
	resolver := module.NewResolver(stdlibDir, nil)
	loader := module.NewLoader(resolver)

	mod, err := loader.LoadFile(absPath)
	if err != nil {
		renderAndReturn(loader.Diagnostics, string(content))
		return nil, fmt.Errorf("module resolution failed: %w", err)
	}
	loader.ResolveReexports()

	deps := make(map[string]*module.Module)
	for canonicalPath, dep := range loader.Loaded() {
		if canonicalPath == mod.Path {
			continue
		}
		deps[filepath.Base(canonicalPath)] = dep
	}

	checked, typeDiags := types.Check(mod, deps, config.FeatureSet(features))
	if typeDiags.HasErrors() {
		renderAndReturn(typeDiags, string(content))
		return nil, fmt.Errorf("type errors in %s", path)
	}

	graph := inline.BuildCallGraph(mod.Program)
	opt := optLevelFor(flags, manifest)
	hot := hotFunctionSet(mod.Program, opt)
	inliner := inline.NewInliner()
	stats := inliner.InlineProgram(mod.Program, hot, graph)
	log.Trace("inline", "inlined %d of %d attempted call site(s) across %d hot function(s)", stats.Applied, stats.Attempted, len(hot))

	result := &pipelineResult{mod: mod, checked: checked, callGraph: graph}

	if skipCodegen {
		result.elapsed = time.Since(start)
		return result, nil
	}

	target, err := resolveTarget(flags.target)
	if err != nil {
		return nil, err
	}
	opts := codegen.Options{
		EmitIR:          flags.dumpIR,
		OptLevel:        opt,
		EnableLTO:       opt == codegen.OptAggressive,
		EnablePGO:       false,
		InlineThreshold: inliner.Config().MaxInlineSize,
		Target:          target,
	}

	if outputPath == "" {
		outputPath = defaultBinaryName(absPath)
	}

	artifact, fromCache, err := buildWithCache(mod, deps, checked, opts, manifest, flags, outputPath, log)
	if err != nil {
		return nil, err
	}
	if flags.dumpIR && artifact.IRText != "" {
		fmt.Println(artifact.IRText)
	}

	result.artifact = artifact
	result.fromCache = fromCache
	result.elapsed = time.Since(start)
	return result, nil
}

func buildWithCache(mod *module.Module, deps map[string]*module.Module, checked *types.Result, opts codegen.Options, manifest config.Manifest, flags globalFlags, outputPath string, log *obslog.Logger) (*codegen.Artifact, bool, error) {
	backend := backendFor(opts.OptLevel)

	build := func() (*codegen.Artifact, cache.Metadata, error) {
		t0 := time.Now()
		artifact, err := backend.Build(mod.Program, checked, outputPath, opts)
		if err != nil {
			return nil, cache.Metadata{}, err
		}
		meta := cache.Metadata{
			CompilerVersion: compilerVersion,
			BackendVersion:  backendVersion(opts.OptLevel),
			SourcePath:      mod.FilePath,
			BuildDuration:   time.Since(t0).Milliseconds(),
		}
		return artifact, meta, nil
	}

	if flags.noCache {
		artifact, _, err := build()
		return artifact, false, err
	}

	store, err := cache.Open(manifest.CacheDir, manifest.CacheSizeCap)
	if err != nil {
		log.Warn("cache", "opening build cache: %v; building without cache", err)
		artifact, _, buildErr := build()
		return artifact, false, buildErr
	}

	depContents := make(map[string][]byte)
	depPaths := make([]string, 0, len(deps))
	for _, dep := range deps {
		if dep.FilePath == "" {
			continue
		}
		b, readErr := os.ReadFile(dep.FilePath)
		if readErr != nil {
			continue
		}
		depContents[dep.Path] = b
		depPaths = append(depPaths, dep.FilePath)
	}
	rootContent, err := os.ReadFile(mod.FilePath)
	if err != nil {
		return nil, false, err
	}

	fpInput := cache.FingerprintInput{
		RootPath:    mod.FilePath,
		RootContent: rootContent,
		DepContents: depContents,
		CompilerVer: compilerVersion,
		BackendVer:  backendVersion(opts.OptLevel),
		OptLevel:    opts.OptLevel,
		EnableLTO:   opts.EnableLTO,
		EnablePGO:   opts.EnablePGO,
		Target:      opts.Target.String(),
	}

	var artifact *codegen.Artifact
	cached := true
	entry, err := cache.Resolve(store, fpInput,
		func() (map[string][]byte, error) { return depContents, nil },
		func() ([]byte, cache.Metadata, error) {
			cached = false
			a, meta, buildErr := build()
			if buildErr != nil {
				return nil, cache.Metadata{}, buildErr
			}
			artifact = a
			meta.DependencyPaths = depPaths
			bin, readErr := os.ReadFile(a.BinaryPath)
			if readErr != nil {
				return nil, cache.Metadata{}, readErr
			}
			meta.BinarySize = int64(len(bin))
			return bin, meta, nil
		},
	)
	if err != nil {
		return nil, false, err
	}
	if cached {
		artifact = &codegen.Artifact{BinaryPath: entry.BinaryPath}
	}
	return artifact, cached, nil
}

const compilerVersion = "otter-0.1"

func backendVersion(opt codegen.OptLevel) string {
	if opt == codegen.OptNone {
		return "baseline-1"
	}
	return "optimizing-1"
}

func backendFor(opt codegen.OptLevel) codegen.Backend {
	if opt == codegen.OptNone {
		return codegen.BaselineBackend{}
	}
	return codegen.OptimizingBackend{}
}

func optLevelFor(flags globalFlags, manifest config.Manifest) codegen.OptLevel {
	if flags.release {
		return codegen.OptAggressive
	}
	switch manifest.OptLevel {
	case config.OptAggressive:
		return codegen.OptAggressive
	case config.OptNone:
		return codegen.OptNone
	default:
		return codegen.OptDefault
	}
}

// hotFunctionSet decides which functions the inliner should treat as hot.
// OtterLang has no profile-guided-optimization input wired to the CLI
// yet (no `--pgo-profile` reader exists anywhere in the pipeline), so
// this is a deliberate stand-in: every function is hot under aggressive
// optimization (inline aggressively when asked to), none otherwise.
func hotFunctionSet(prog *ast.Program, opt codegen.OptLevel) map[string]bool {
	hot := make(map[string]bool)
	if opt != codegen.OptAggressive {
		return hot
	}
	for _, stmt := range prog.Statements {
		if f, ok := stmt.(*ast.FuncDecl); ok {
			hot[f.Name] = true
		}
	}
	return hot
}

func resolveTarget(triple string) (codegen.TargetTriple, error) {
	if triple == "" || triple == "host" {
		return codegen.HostTarget(runtime.GOOS, runtime.GOARCH), nil
	}
	return codegen.ParseTarget(triple)
}

func defaultBinaryName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func findManifest(sourcePath string) string {
	return filepath.Join(filepath.Dir(sourcePath), "otter.yaml")
}

func renderAndReturn(bag *diag.Bag, source string) {
	r := diag.NewRenderer(os.Stderr)
	r.RenderAll(bag, source)
}
