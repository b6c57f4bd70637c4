package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a script and print its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runParse(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(parseEvalExpr, args)
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
	fmt.Println(prog.String())
	return nil
}
