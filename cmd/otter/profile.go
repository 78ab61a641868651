package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otterlang/otter/internal/codegen"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/introspect"
	"github.com/otterlang/otter/internal/memory"
)

func newProfileCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "profile",
		Short: "Inspect compile-time and memory activity for a build",
	}
	root.AddCommand(newProfileBuildCmd())
	return root
}

// newProfileBuildCmd compiles a file and prints an introspection snapshot
// as JSON — spec.md §4.10's get_snapshot(), surfaced through the CLI
// rather than only a library call. The snapshot records the compile's
// time and backend tier; its memory figures come from a fresh, profiled
// memory.Manager that the compile does not allocate through, so they
// read zero and list no leaks.
func newProfileBuildCmd() *cobra.Command {
	var topN int
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Compile a file and print its runtime introspection snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			mgr := memory.NewManager(memory.NewHybrid(64), memory.NewProfiler())
			mgr.Profiler().SetEnabled(true)
			recorder := introspect.NewRecorder(mgr)

			result, err := compileFile(args[0], flags, log, false, "")
			if err != nil {
				return err
			}
			manifest, _ := config.LoadManifest(findManifest(result.mod.FilePath))
			tier := introspect.TierOptimizing
			if _, baseline := backendFor(optLevelFor(flags, manifest)).(codegen.BaselineBackend); baseline {
				tier = introspect.TierBaseline
			}
			recorder.RecordCompile(result.mod.Path, tier, result.elapsed)

			snap := recorder.Snapshot(topN)
			raw, err := snap.ToJSON()
			if err != nil {
				return err
			}
			fmt.Println(string(raw))
			return nil
		},
	}
	cmd.Flags().IntVar(&topN, "top", 10, "number of hottest functions to report")
	return cmd
}
