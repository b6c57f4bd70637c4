package bytecode

import (
	"testing"

	"github.com/jsengine/jsengine/internal/lexer"
	"github.com/jsengine/jsengine/internal/object"
	"github.com/jsengine/jsengine/internal/parser"
)

func runLastExprStatement(t *testing.T, src string) object.Value {
	// Run evaluates the whole program and returns the value of its last
	// top-level expression statement, which is the value each test checks.
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	chunk, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	global := object.NewObject(nil)
	vm := NewVM(global)
	if _, err := vm.Run(chunk); err != nil {
		t.Fatalf("Run: %v", err)
	}
	v, _ := global.Get("__result")
	return v
}

func TestArithmeticAndVariables(t *testing.T) {
	v := runLastExprStatement(t, `var x = 2 + 3 * 4; __result = x;`)
	n, ok := v.(object.Number)
	if !ok || float64(n) != 14 {
		t.Fatalf("got %v, want 14", v)
	}
}

func TestIfElseBranching(t *testing.T) {
	v := runLastExprStatement(t, `
		var x = 10;
		if (x > 5) { __result = "big"; } else { __result = "small"; }
	`)
	s, ok := v.(object.String)
	if !ok || s != "big" {
		t.Fatalf("got %v, want \"big\"", v)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	v := runLastExprStatement(t, `
		var i = 0;
		var sum = 0;
		while (i < 5) { sum = sum + i; i = i + 1; }
		__result = sum;
	`)
	n, ok := v.(object.Number)
	if !ok || float64(n) != 10 {
		t.Fatalf("got %v, want 10", v)
	}
}

func TestFunctionCallAndClosure(t *testing.T) {
	v := runLastExprStatement(t, `
		function makeAdder(a) {
			return function(b) { return a + b; };
		}
		var add5 = makeAdder(5);
		__result = add5(3);
	`)
	n, ok := v.(object.Number)
	if !ok || float64(n) != 8 {
		t.Fatalf("got %v, want 8", v)
	}
}

func TestTryCatchCatchesThrow(t *testing.T) {
	v := runLastExprStatement(t, `
		var caught = "no";
		try {
			throw "boom";
		} catch (e) {
			caught = e;
		}
		__result = caught;
	`)
	s, ok := v.(object.String)
	if !ok || s != "boom" {
		t.Fatalf("got %v, want \"boom\"", v)
	}
}

func TestArrayAndObjectLiterals(t *testing.T) {
	v := runLastExprStatement(t, `
		var arr = [1, 2, 3];
		var obj = { a: 10, b: 20 };
		__result = arr[1] + obj.a + obj["b"];
	`)
	n, ok := v.(object.Number)
	if !ok || float64(n) != 32 {
		t.Fatalf("got %v, want 32", v)
	}
}

func TestForLoopBreakAndContinue(t *testing.T) {
	v := runLastExprStatement(t, `
		var sum = 0;
		for (var i = 0; i < 10; i = i + 1) {
			if (i === 3) { continue; }
			if (i === 6) { break; }
			sum = sum + i;
		}
		__result = sum;
	`)
	n, ok := v.(object.Number)
	if !ok || float64(n) != 12 {
		t.Fatalf("got %v, want 12 (0+1+2+4+5)", v)
	}
}

func TestNewExpressionLinksInstanceToConstructorPrototype(t *testing.T) {
	v := runLastExprStatement(t, `
		function Point(x, y) {
			this.x = x;
			this.y = y;
		}
		Point.prototype.sum = function() { return this.x + this.y; };
		var p = new Point(3, 4);
		__result = p.sum();
	`)
	n, ok := v.(object.Number)
	if !ok || float64(n) != 7 {
		t.Fatalf("got %v, want 7", v)
	}
}

func TestFunctionEqualsItself(t *testing.T) {
	v := runLastExprStatement(t, `
		function f() {}
		var g = f;
		__result = (f === g);
	`)
	b, ok := v.(object.Bool)
	if !ok || !bool(b) {
		t.Fatalf("got %v, want true", v)
	}
}

func TestUndefinedGlobalThrowsInsteadOfPanicking(t *testing.T) {
	l := lexer.New(`__result = missingGlobal;`)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	chunk, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	vm := NewVM(object.NewObject(nil))
	if _, err := vm.Run(chunk); err == nil {
		t.Fatal("expected an error referencing an undeclared global, got nil")
	}
}
