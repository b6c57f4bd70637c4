package jsengine

import (
	"testing"

	"github.com/jsengine/jsengine/internal/object"
)

func TestEvaluateStringArithmetic(t *testing.T) {
	e := NewEngine()
	v, err := e.EvaluateString(`var x = 6 * 7; x;`, "<test>")
	if err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	if n, ok := v.(object.Number); !ok || float64(n) != 42 {
		t.Fatalf("completion value = %v, want 42", v)
	}
}

func TestEvaluateStringReadsBackGlobal(t *testing.T) {
	e := NewEngine()
	if _, err := e.EvaluateString(`globalThing = 1 + 2;`, "<test>"); err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	v, ok := e.Global().Get("globalThing")
	if !ok {
		t.Fatal("expected globalThing to be defined on the global object")
	}
	n, ok := v.(object.Number)
	if !ok || float64(n) != 3 {
		t.Fatalf("got %v, want 3", v)
	}
}

func TestEvaluateStringUsesRegExpBuiltin(t *testing.T) {
	e := NewEngine()
	if _, err := e.EvaluateString(`
		var re = new RegExp("a+", "g");
		matched = re.test("baaab");
	`, "<test>"); err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	v, _ := e.Global().Get("matched")
	b, ok := v.(object.Bool)
	if !ok || !bool(b) {
		t.Fatalf("got %v, want true", v)
	}
}

func TestEvaluateStringRegExpProtocolMethods(t *testing.T) {
	e := NewEngine()
	if _, err := e.EvaluateString(`
		matched = "ab".match(/a*/g);
		matchedLen = matched.length;
		searched = "hello world".search(/world/);
		replaced = "hello world".replace(/o/g, "0");
		splitParts = "a1b2c3".split(/\d/);
	`, "<test>"); err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	if v, _ := e.Global().Get("matchedLen"); object.ToNumber(v) == 0 {
		t.Fatalf("matched.length = %v, want > 0", v)
	}
	if v, _ := e.Global().Get("searched"); object.ToNumber(v) != 6 {
		t.Fatalf("searched = %v, want 6", v)
	}
	if v, _ := e.Global().Get("replaced"); object.ToString(v) != "hell0 w0rld" {
		t.Fatalf("replaced = %v, want %q", v, "hell0 w0rld")
	}
	splitParts, _ := e.Global().Get("splitParts")
	arr, ok := splitParts.(*object.Object)
	if !ok || len(arr.Elements) != 4 {
		t.Fatalf("splitParts = %v, want 4 elements", splitParts)
	}
}

func TestCompileStringReportsSyntaxError(t *testing.T) {
	e := NewEngine()
	if _, err := e.CompileString(`var = ;`, "<test>"); err == nil {
		t.Fatal("expected a syntax error")
	}
}

func TestEvaluateStringArrayMethodsBindThis(t *testing.T) {
	e := NewEngine()
	if _, err := e.EvaluateString(`
		var a = [1, 2, 3];
		a.push(4);
		joined = a.join("-");
		found = a.indexOf(3);
	`, "<test>"); err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	joined, _ := e.Global().Get("joined")
	if s, ok := joined.(object.String); !ok || string(s) != "1-2-3-4" {
		t.Fatalf("joined = %v, want %q", joined, "1-2-3-4")
	}
	found, _ := e.Global().Get("found")
	if n, ok := found.(object.Number); !ok || float64(n) != 2 {
		t.Fatalf("found = %v, want 2", found)
	}
}

func TestEvaluateStringStringMethodsBindThis(t *testing.T) {
	e := NewEngine()
	if _, err := e.EvaluateString(`
		var s = "Hello";
		upper = s.toUpperCase();
		firstChar = s.charAt(0);
	`, "<test>"); err != nil {
		t.Fatalf("EvaluateString: %v", err)
	}
	upper, _ := e.Global().Get("upper")
	if s, ok := upper.(object.String); !ok || string(s) != "HELLO" {
		t.Fatalf("upper = %v, want %q", upper, "HELLO")
	}
	firstChar, _ := e.Global().Get("firstChar")
	if s, ok := firstChar.(object.String); !ok || string(s) != "H" {
		t.Fatalf("firstChar = %v, want %q", firstChar, "H")
	}
}

func TestStringIsCompilableUnitDetectsIncompleteInput(t *testing.T) {
	if StringIsCompilableUnit(`function f() {`) {
		t.Fatal("an unclosed function body should not be a compilable unit yet")
	}
	if !StringIsCompilableUnit(`function f() { return 1; }`) {
		t.Fatal("a complete function declaration should be a compilable unit")
	}
}
