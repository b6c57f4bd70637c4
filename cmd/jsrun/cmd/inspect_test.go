package cmd

import (
	"strings"
	"testing"
)

func TestRunInspectPrintsFunctionTreeJSON(t *testing.T) {
	oldEval, oldQuery := inspectEvalExpr, inspectQuery
	defer func() { inspectEvalExpr, inspectQuery = oldEval, oldQuery }()

	inspectEvalExpr = "function f() { var x = 1; }"
	inspectQuery = ""
	out := captureStdout(t, func() {
		if err := runInspect(inspectCmd, nil); err != nil {
			t.Fatalf("runInspect: %v", err)
		}
	})
	if !strings.Contains(out, `"<program>"`) {
		t.Errorf("expected the top-level function node name, got %q", out)
	}
	if !strings.Contains(out, `"f"`) {
		t.Errorf("expected the nested function's name, got %q", out)
	}
}

func TestRunInspectAppliesQuery(t *testing.T) {
	oldEval, oldQuery := inspectEvalExpr, inspectQuery
	defer func() { inspectEvalExpr, inspectQuery = oldEval, oldQuery }()

	inspectEvalExpr = "function f() {}"
	inspectQuery = "children.0.name"
	out := captureStdout(t, func() {
		if err := runInspect(inspectCmd, nil); err != nil {
			t.Fatalf("runInspect: %v", err)
		}
	})
	if strings.TrimSpace(out) != "f" {
		t.Errorf("expected query result %q, got %q", "f", out)
	}
}

func TestRunInspectReportsSyntaxError(t *testing.T) {
	oldEval, oldQuery := inspectEvalExpr, inspectQuery
	defer func() { inspectEvalExpr, inspectQuery = oldEval, oldQuery }()

	inspectEvalExpr = "function ("
	inspectQuery = ""
	if err := runInspect(inspectCmd, nil); err == nil {
		t.Fatal("expected a parse error for malformed source")
	}
}
