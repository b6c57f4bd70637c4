package cmd

import (
	"fmt"
	"os"

	"github.com/jsengine/jsengine/internal/ast"
	"github.com/jsengine/jsengine/internal/lexer"
	"github.com/jsengine/jsengine/internal/parser"
)

// decodeSource normalizes raw file bytes to UTF-8, handling a BOM or UTF-16
// transcoding the way a host embedding the engine would before handing
// source text to the Context.
func decodeSource(raw []byte) (string, error) {
	return lexer.LoadSource(raw)
}

// readStdin decodes os.Stdin the same way decodeSource decodes a file,
// used when run/lex/parse are given no file argument and no --eval.
func readStdin() (string, error) {
	return lexer.LoadSourceReader(os.Stdin)
}

// parseSource runs the lexer and parser over source, returning the
// resulting Program and any syntax errors collected along the way.
func parseSource(source string) (*ast.Program, []*parser.ParseError) {
	l := lexer.New(source)
	p := parser.New(l)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

// dumpProgramAST parses source and writes the AST's textual form to
// stderr, a debugging aid used by run --dump-ast.
func dumpProgramAST(source, filename string) error {
	prog, errs := parseSource(source)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", filename, e.Error())
		}
		return fmt.Errorf("parsing %s failed", filename)
	}
	fmt.Fprintln(os.Stderr, prog.String())
	return nil
}
