package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jsrun",
	Short: "Embeddable JavaScript engine command-line front end",
	Long: `jsrun exercises the jsengine core: a lexer/parser/IR/bytecode
compilation pipeline, a prototype-based object model, and a JS-flavor
RegExp engine, wrapped in a single embeddable Go module.

This CLI is not the engine itself — it is a thin driver over
pkg/jsengine, useful for running scripts, inspecting the parse tree, and
compiling ahead of time.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
