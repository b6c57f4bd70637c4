package cmd

import (
	"strings"
	"testing"
)

func TestRunParsePrintsAST(t *testing.T) {
	old := parseEvalExpr
	defer func() { parseEvalExpr = old }()

	parseEvalExpr = "var x = 1 + 2;"
	out := captureStdout(t, func() {
		if err := runParse(parseCmd, nil); err != nil {
			t.Fatalf("runParse: %v", err)
		}
	})
	if !strings.Contains(out, "x") {
		t.Errorf("expected AST dump to mention the declared identifier, got %q", out)
	}
}

func TestRunParseReportsSyntaxError(t *testing.T) {
	old := parseEvalExpr
	defer func() { parseEvalExpr = old }()

	parseEvalExpr = "var = ;"
	if err := runParse(parseCmd, nil); err == nil {
		t.Fatal("expected a parse error for malformed source")
	}
}
