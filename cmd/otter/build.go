package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Compile an OtterLang program to a native artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			result, err := compileFile(args[0], flags, log, false, outputPath)
			if err != nil {
				return err
			}
			if flags.showTime {
				fmt.Printf("compiled in %s (cache hit: %v)\n", result.elapsed, result.fromCache)
			}
			if result.artifact != nil {
				fmt.Println(result.artifact.BinaryPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output binary path")
	return cmd
}
