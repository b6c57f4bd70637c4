package cmd

import (
	"fmt"
	"os"

	"github.com/jsengine/jsengine/internal/object"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a JavaScript file or expression",
	Long: `Execute a script from a file, an inline expression, or stdin.

Examples:
  # Run a script file
  jsrun run script.js

  # Evaluate an inline expression
  jsrun run -e "1 + 2"

  # Run with the parsed AST dumped to stderr first
  jsrun run --dump-ast script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST to stderr before running")
}

func runScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	if dumpAST {
		if err := dumpProgramAST(source, filename); err != nil {
			return err
		}
	}

	engine, err := newEngineFromConfig()
	if err != nil {
		return err
	}

	result, err := engine.EvaluateString(source, filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("execution failed")
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "completion value: %s\n", object.ToString(result))
	}
	return nil
}

// readSource resolves the CLI's "inline expression, file argument, or
// stdin" input precedence shared by run/lex/parse/compile.
func readSource(eval string, args []string) (source, filename string, err error) {
	switch {
	case eval != "":
		return eval, "<eval>", nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		src, err := decodeSource(data)
		if err != nil {
			return "", "", fmt.Errorf("failed to decode %s: %w", args[0], err)
		}
		return src, args[0], nil
	default:
		src, err := readStdin()
		if err != nil {
			return "", "", err
		}
		return src, "<stdin>", nil
	}
}
