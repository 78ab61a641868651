package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otterlang/otter/internal/obslog"
)

var flags globalFlags

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "otter",
		Short:         "OtterLang compiler and toolchain",
		Long:          "otter compiles, formats, and introspects OtterLang programs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&flags.dumpTokens, "dump-tokens", false, "print the token stream before parsing")
	pf.BoolVar(&flags.dumpAST, "dump-ast", false, "print the parsed AST before type-checking")
	pf.BoolVar(&flags.dumpIR, "dump-ir", false, "print the lowered IR produced by codegen")
	pf.BoolVar(&flags.showTime, "time", false, "print total compilation time after compilation")
	pf.BoolVar(&flags.profile, "profile", false, "point to `otter profile build`; does not enable the allocation profiler for run/build")
	pf.BoolVar(&flags.release, "release", false, "build with aggressive optimization and LTO")
	pf.StringVar(&flags.target, "target", "host", "target triple, or \"host\" for the running machine")
	pf.BoolVar(&flags.noCache, "no-cache", false, "bypass the build cache")
	pf.StringSliceVar(&flags.features, "features", nil, "comma-separated feature flags")
	pf.BoolVar(&flags.debug, "debug", false, "enable verbose diagnostic logging")
	pf.BoolVar(&flags.tasksDebug, "tasks-debug", false, "enable scheduler debug logging")
	pf.BoolVar(&flags.tasksTrace, "tasks-trace", false, "enable scheduler trace logging")

	root.AddCommand(
		newRunCmd(),
		newBuildCmd(),
		newFmtCmd(),
		newReplCmd(),
		newProfileCmd(),
	)
	return root
}

func newLogger() *obslog.Logger {
	verbose := flags.debug || flags.tasksDebug || flags.tasksTrace
	return obslog.New(verbose)
}
