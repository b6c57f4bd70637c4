// Command jsrun is a command-line front end for the jsengine module: it
// runs, lexes, parses, compiles, and inspects JavaScript source through
// the embeddable engine in pkg/jsengine.
package main

import (
	"fmt"
	"os"

	"github.com/jsengine/jsengine/cmd/jsrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
