package cmd

import (
	"fmt"
	"os"

	"github.com/jsengine/jsengine/internal/bytecode"
	"github.com/spf13/cobra"
)

var compileEvalExpr string

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a script to bytecode and print its disassembly",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileEvalExpr, "eval", "e", "", "compile inline code instead of reading from a file")
}

func runCompile(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(compileEvalExpr, args)
	if err != nil {
		return err
	}

	prog, errs := parseSource(source)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", filename, e.Error())
		}
		return fmt.Errorf("parsing %s failed with %d error(s)", filename, len(errs))
	}

	chunk, err := bytecode.Compile(prog)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", filename, err)
	}

	fmt.Print(bytecode.Disassemble(filename, chunk))
	return nil
}
