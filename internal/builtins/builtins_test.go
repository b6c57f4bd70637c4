package builtins

import (
	"testing"

	"github.com/jsengine/jsengine/internal/object"
)

func TestRegExpConstructorThreadsVersion12LeftContext(t *testing.T) {
	global := object.NewObject(nil)
	Init(global, false, "1.2")

	ctorVal, ok := global.Get("RegExp")
	if !ok {
		t.Fatal("RegExp not installed on global")
	}
	ctor, ok := ctorVal.(*object.Object)
	if !ok || ctor.Call == nil {
		t.Fatalf("RegExp = %v, want a callable object", ctorVal)
	}
	instVal, err := ctor.Call(object.Undefined, []object.Value{object.String("bye")})
	if err != nil {
		t.Fatalf("RegExp(...) call: %v", err)
	}
	inst, ok := instVal.(*object.Object)
	if !ok {
		t.Fatalf("RegExp(...) = %v, want an object", instVal)
	}
	re := regexpFromObject(inst)
	if re == nil {
		t.Fatal("expected a compiled RegExp backing the instance")
	}

	if _, err := re.Exec("hi there bye"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if re.LeftContext() != "hi there " {
		t.Fatalf("LeftContext() = %q, want %q", re.LeftContext(), "hi there ")
	}
	if _, err := re.Exec("nope"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if re.LeftContext() != "hi there " {
		t.Fatalf("LeftContext() after failed match = %q, want preserved %q", re.LeftContext(), "hi there ")
	}
}

func TestRegExpConstructorDoesNotSetQuirkForLaterVersions(t *testing.T) {
	global := object.NewObject(nil)
	Init(global, false, "default")

	ctorVal, _ := global.Get("RegExp")
	ctor := ctorVal.(*object.Object)
	instVal, err := ctor.Call(object.Undefined, []object.Value{object.String("bye")})
	if err != nil {
		t.Fatalf("RegExp(...) call: %v", err)
	}
	re := regexpFromObject(instVal.(*object.Object))
	if _, err := re.Exec("hi there bye"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if re.LeftContext() != "hi there " {
		t.Fatalf("LeftContext() = %q, want %q after a successful match", re.LeftContext(), "hi there ")
	}
	if _, err := re.Exec("nope"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if re.LeftContext() != "" {
		t.Fatalf("LeftContext() = %q, want empty after a failed match when the version-1.2 quirk is off", re.LeftContext())
	}
}

func TestStringMatchSearchReplaceSplitAreRegExpAware(t *testing.T) {
	global := object.NewObject(nil)
	Init(global, false, "default")

	stringProtoVal, ok := global.Get("String")
	if !ok {
		t.Fatal("String not installed on global")
	}
	ctor := stringProtoVal.(*object.Object)
	protoVal, ok := ctor.Get("prototype")
	if !ok {
		t.Fatal("String.prototype not installed")
	}
	proto := protoVal.(*object.Object)

	regexpCtorVal, _ := global.Get("RegExp")
	regexpCtor := regexpCtorVal.(*object.Object)
	newRegExp := func(pattern, flags string) object.Value {
		v, err := regexpCtor.Call(object.Undefined, []object.Value{object.String(pattern), object.String(flags)})
		if err != nil {
			t.Fatalf("RegExp(%q, %q): %v", pattern, flags, err)
		}
		return v
	}

	matchFn, _ := proto.Get("match")
	result, err := matchFn.(*object.Object).Call(object.String("ab"), []object.Value{newRegExp("a*", "g")})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	arr, ok := result.(*object.Object)
	if !ok || len(arr.Elements) == 0 {
		t.Fatalf("match result = %v, want a non-empty array", result)
	}

	searchFn, _ := proto.Get("search")
	idxVal, err := searchFn.(*object.Object).Call(object.String("hello world"), []object.Value{newRegExp("world", "")})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if n, ok := idxVal.(object.Number); !ok || float64(n) != 6 {
		t.Fatalf("search result = %v, want 6", idxVal)
	}

	replaceFn, _ := proto.Get("replace")
	replacedVal, err := replaceFn.(*object.Object).Call(object.String("hello world"), []object.Value{newRegExp("o", "g"), object.String("0")})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if s, ok := replacedVal.(object.String); !ok || string(s) != "hell0 w0rld" {
		t.Fatalf("replace result = %v, want %q", replacedVal, "hell0 w0rld")
	}

	splitFn, _ := proto.Get("split")
	splitVal, err := splitFn.(*object.Object).Call(object.String("a1b2c3"), []object.Value{newRegExp(`\d`, "")})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	splitArr, ok := splitVal.(*object.Object)
	if !ok || len(splitArr.Elements) != 4 {
		t.Fatalf("split result = %v, want 4 elements", splitVal)
	}
}
