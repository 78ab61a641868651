package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otterlang/otter/internal/format"
	"github.com/otterlang/otter/internal/lexer"
	"github.com/otterlang/otter/internal/parser"
)

func newFmtCmd() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Reformat OtterLang source files to canonical style",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("fmt requires at least one file path")
			}
			for _, path := range args {
				if err := formatOne(path, write); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the formatted output back to the file instead of stdout")
	return cmd
}

func formatOne(path string, write bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	toks, lexDiags := lexer.Tokenize(content, path)
	if lexDiags.HasErrors() {
		return fmt.Errorf("lexical errors, not formatting")
	}
	prog, parseDiags := parser.Parse(toks, path)
	if parseDiags.HasErrors() {
		return fmt.Errorf("parse errors, not formatting")
	}
	out := format.Program(prog)
	if !write {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(path, []byte(out), 0o644)
}
