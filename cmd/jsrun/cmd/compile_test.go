package cmd

import (
	"strings"
	"testing"
)

func TestRunCompilePrintsDisassembly(t *testing.T) {
	old := compileEvalExpr
	defer func() { compileEvalExpr = old }()

	compileEvalExpr = "var x = 1 + 2;"
	out := captureStdout(t, func() {
		if err := runCompile(compileCmd, nil); err != nil {
			t.Fatalf("runCompile: %v", err)
		}
	})
	if !strings.Contains(out, "==") {
		t.Errorf("expected disassembly header, got %q", out)
	}
	if !strings.Contains(out, "LoadConst") {
		t.Errorf("expected a LoadConst instruction in the disassembly, got %q", out)
	}
}

func TestRunCompileReportsSyntaxError(t *testing.T) {
	old := compileEvalExpr
	defer func() { compileEvalExpr = old }()

	compileEvalExpr = "var = ;"
	if err := runCompile(compileCmd, nil); err == nil {
		t.Fatal("expected a parse error for malformed source")
	}
}
