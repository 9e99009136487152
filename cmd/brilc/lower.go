package main

import (
	"github.com/dofolin/brilc/cfg"
	"github.com/dofolin/brilc/internal/progress"
	"github.com/dofolin/brilc/lower"
	"github.com/spf13/cobra"
)

var flagLowerOutput string

var lowerCmd = &cobra.Command{
	Use:   "lower [file]",
	Short: "Lower an IL program to a textual LLVM-dialect target assembly",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		sourceName := path
		if sourceName == "" {
			sourceName = "stdin"
		}
		reporter := progress.New(flagVerbose, flagQuiet)

		prog, err := loadProgram(path)
		if err != nil {
			return err
		}
		reporter.Verbose("loaded %d function(s)", len(prog.Functions))

		for i := range prog.Functions {
			fn := &prog.Functions[i]
			graph, _, err := toSSA(fn)
			if err != nil {
				return err
			}
			fn.Instrs = cfg.FlattenGraph(graph)
			reporter.Verbose("function %q: constructed SSA form for lowering", fn.Name)
		}

		out, closeOut, err := openOutput(flagLowerOutput)
		if err != nil {
			return err
		}
		defer closeOut()

		if err := lower.EmitProgram(out, prog, sourceName); err != nil {
			return err
		}
		reporter.Verbose("emitted target assembly")
		return nil
	},
}

func init() {
	lowerCmd.Flags().StringVarP(&flagLowerOutput, "output", "o", "", "output file (default stdout)")
}
