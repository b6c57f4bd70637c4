package cmd

import (
	"fmt"

	"github.com/jsengine/jsengine/internal/lexer"
	"github.com/spf13/cobra"
)

var lexEvalExpr string

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a script and print its token stream",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexEvalExpr, "eval", "e", "", "tokenize inline code instead of reading from a file")
}

func runLex(_ *cobra.Command, args []string) error {
	source, _, err := readSource(lexEvalExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(source, lexer.WithPreserveComments(true))
	for {
		tok := l.NextToken()
		fmt.Printf("%4d:%-3d %-12s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return nil
}
