package main

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Compile and immediately execute an OtterLang program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			result, err := compileFile(args[0], flags, log, false, "")
			if err != nil {
				return err
			}
			if flags.showTime {
				fmt.Printf("compiled in %s (cache hit: %v)\n", result.elapsed, result.fromCache)
			}
			if result.artifact == nil {
				return fmt.Errorf("no artifact produced for %s", args[0])
			}

			binCmd := exec.Command(result.artifact.BinaryPath)
			binCmd.Stdin = cmd.InOrStdin()
			binCmd.Stdout = cmd.OutOrStdout()
			binCmd.Stderr = cmd.ErrOrStderr()
			return binCmd.Run()
		},
	}
}
