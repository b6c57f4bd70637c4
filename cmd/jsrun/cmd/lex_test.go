package cmd

import (
	"strings"
	"testing"
)

func TestRunLexTokenizesEvalExpression(t *testing.T) {
	old := lexEvalExpr
	defer func() { lexEvalExpr = old }()

	lexEvalExpr = "var x = 1;"
	out := captureStdout(t, func() {
		if err := runLex(lexCmd, nil); err != nil {
			t.Fatalf("runLex: %v", err)
		}
	})
	for _, want := range []string{"VAR", "IDENT", "\"x\"", "EOF"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected token stream to contain %q, got %q", want, out)
		}
	}
}

func TestRunLexReportsErrorForMissingFile(t *testing.T) {
	old := lexEvalExpr
	defer func() { lexEvalExpr = old }()
	lexEvalExpr = ""

	if err := runLex(lexCmd, []string{"does-not-exist.js"}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
