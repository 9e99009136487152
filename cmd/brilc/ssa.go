package main

import (
	"encoding/json"

	"github.com/dofolin/brilc/cfg"
	"github.com/dofolin/brilc/internal/progress"
	"github.com/dofolin/brilc/ssa"
	"github.com/spf13/cobra"
)

var flagRoundtrip bool
var flagSSAOutput string

var ssaCmd = &cobra.Command{
	Use:   "ssa [file]",
	Short: "Convert an IL program to SSA form (or round-trip it back)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		reporter := progress.New(flagVerbose, flagQuiet)

		prog, err := loadProgram(path)
		if err != nil {
			return err
		}
		reporter.Verbose("loaded %d function(s)", len(prog.Functions))

		for i := range prog.Functions {
			fn := &prog.Functions[i]
			graph, gen, err := toSSA(fn)
			if err != nil {
				return err
			}
			reporter.Verbose("function %q: constructed SSA form", fn.Name)

			if flagRoundtrip {
				ssa.Destruct(graph, gen)
				reporter.Verbose("function %q: destructed SSA form", fn.Name)
			}
			fn.Instrs = cfg.FlattenGraph(graph)
		}

		out, closeOut, err := openOutput(flagSSAOutput)
		if err != nil {
			return err
		}
		defer closeOut()

		enc := json.NewEncoder(out)
		if err := enc.Encode(prog); err != nil {
			return err
		}
		reporter.Verbose("wrote program")
		return nil
	},
}

func init() {
	ssaCmd.Flags().BoolVar(&flagRoundtrip, "roundtrip", false, "destruct SSA form back to conventional form before emitting")
	ssaCmd.Flags().StringVarP(&flagSSAOutput, "output", "o", "", "output file (default stdout)")
}
