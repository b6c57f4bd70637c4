package cmd

import (
	"os"
	"strings"
	"testing"
)

// withStdin redirects os.Stdin to a pipe pre-loaded with input for the
// duration of fn, mirroring captureStdout's os.Pipe swap idiom.
func withStdin(t *testing.T, input string, fn func()) {
	t.Helper()
	old := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdin = r
	defer func() { os.Stdin = old }()

	go func() {
		w.WriteString(input)
		w.Close()
	}()

	fn()
}

func TestRunReplEvaluatesEachLine(t *testing.T) {
	out := captureStdout(t, func() {
		withStdin(t, "1 + 2\nvar x = 10; x * 2\n", func() {
			if err := runRepl(replCmd, nil); err != nil {
				t.Fatalf("runRepl: %v", err)
			}
		})
	})
	if !strings.Contains(out, "3") {
		t.Errorf("expected REPL output to contain %q, got %q", "3", out)
	}
	if !strings.Contains(out, "20") {
		t.Errorf("expected REPL output to contain %q, got %q", "20", out)
	}
}
