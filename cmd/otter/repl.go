package main

import (
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/diag"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/module"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/internal/types"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive lex/parse/type-check session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl()
		},
	}
}

// runRepl is a line-at-a-time lex/parse/type-check loop: there is no
// bytecode interpreter in this pipeline (every artifact is a compiled
// native binary), so the REPL's job is the same one cmd/ailang's
// check-only mode performs — immediate feedback on syntax and types,
// not execution. Line editing comes from peterh/liner rather than the
// teacher's plain bufio.NewReader, since a REPL is exactly where
// history/arrow-key editing earns its keep.
func runRepl() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("otter repl — type an expression or statement; Ctrl-D to exit")
	for {
		input, err := line.Prompt("otter> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		evalLine(input)
	}
}

func evalLine(src string) {
	toks, lexDiags := lexer.Tokenize([]byte(src), "<repl>")
	if lexDiags.HasErrors() {
		diag.NewRenderer(os.Stderr).RenderAll(lexDiags, src)
		return
	}
	prog, parseDiags := parser.Parse(toks, "<repl>")
	if parseDiags.HasErrors() {
		diag.NewRenderer(os.Stderr).RenderAll(parseDiags, src)
		return
	}

	mod := &module.Module{Path: "<repl>", FilePath: "<repl>", Program: prog, Exports: &module.Exports{}}
	env := config.LoadEnv()
	features := config.MergeFeatures(env.Features, flags.features)
	_, typeDiags := types.Check(mod, nil, config.FeatureSet(features))
	if typeDiags.HasErrors() {
		diag.NewRenderer(os.Stderr).RenderAll(typeDiags, src)
		return
	}
	fmt.Print(ast.Dump(prog))
}
