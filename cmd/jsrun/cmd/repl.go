package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jsengine/jsengine/internal/object"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	engine, err := newEngineFromConfig()
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stderr, "jsrun repl — Ctrl-D to exit")
	for line := 1; ; line++ {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		source := scanner.Text()
		if source == "" {
			continue
		}
		result, evalErr := engine.EvaluateString(source, fmt.Sprintf("<repl:%d>", line))
		if evalErr != nil {
			fmt.Fprintln(os.Stderr, evalErr)
			continue
		}
		if result != nil && result != object.Undefined {
			fmt.Println(object.ToString(result))
		}
	}
	return scanner.Err()
}
