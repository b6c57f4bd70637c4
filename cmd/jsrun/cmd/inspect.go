package cmd

import (
	"fmt"
	"os"

	"github.com/jsengine/jsengine/internal/ir"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	inspectEvalExpr string
	inspectQuery    string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print the lowered function tree as JSON",
	Long: `inspect lowers a script to its IR function tree (the per-function
metadata tree built by internal/ir) and prints it as JSON,
optionally filtered by a gjson query path.

Examples:
  jsrun inspect script.js
  jsrun inspect script.js --query "children.0.name"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectEvalExpr, "eval", "e", "", "inspect inline code instead of reading from a file")
	inspectCmd.Flags().StringVarP(&inspectQuery, "query", "q", "", "gjson path to extract from the resulting JSON document")
}

func runInspect(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(inspectEvalExpr, args)
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

	unit := ir.Lower(prog, ir.Env{
		LanguageVersion: "default",
		StrictMode:      prog.Strict,
		GenerateSource:  false,
	}, source)

	doc, err := funcNodeJSON(unit.Root)
	if err != nil {
		return fmt.Errorf("building inspect document: %w", err)
	}

	if inspectQuery != "" {
		result := gjson.Get(doc, inspectQuery)
		fmt.Println(result.String())
		return nil
	}
	fmt.Println(doc)
	return nil
}

// funcNodeJSON renders an *ir.FuncNode tree to JSON by building it up one
// sjson.Set call at a time rather than relying on struct tags, since
// FuncNode embeds *ast.FunctionLiteral (which isn't meant to round-trip
// through encoding/json) alongside the fields an inspector actually wants.
func funcNodeJSON(n *ir.FuncNode) (string, error) {
	doc := "{}"
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}

	set("name", n.Name)
	set("strict", n.Strict)
	set("hoistedVars", n.HoistedVars)
	for i, child := range n.Children {
		childDoc, cerr := funcNodeJSON(child)
		if cerr != nil {
			return "", cerr
		}
		set(fmt.Sprintf("children.%d", i), gjson.Parse(childDoc).Value())
	}
	return doc, err
}
