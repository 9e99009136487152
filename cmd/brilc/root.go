package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dofolin/brilc/internal/progress"
)

var (
	flagVerbose bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "brilc",
	Short: "SSA construction and LLVM-dialect lowering for a small IL",
	Long: `brilc converts IL programs between conventional and SSA form via the
dominance-frontier algorithm, and lowers SSA-form programs to a textual
LLVM-dialect target assembly.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "print elapsed-time progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "suppress progress lines entirely")
	rootCmd.AddCommand(ssaCmd, lowerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		progress.New(flagVerbose, flagQuiet).Error("%v", err)
		os.Exit(1)
	}
}
