// Package builtins wires the standard objects onto a fresh global scope:
// initStandardObjects per spec.md §4.1, installing the full RegExp engine
// (internal/jsregexp) plus the minimal Object/Function/Array/String/
// Boolean/Number/Error-family/Math/Symbol surface the core engine needs to
// run ordinary scripts. JSON, Date, Intl, and typed arrays are
// deliberately left unregistered — spec.md's Non-goals exclude them from
// this engine's core, and initStandardObjects simply never defines their
// globals rather than stubbing them with a panicking placeholder.
package builtins

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jsengine/jsengine/internal/jsregexp"
	"github.com/jsengine/jsengine/internal/object"
)

// Init populates global with the standard objects. When sealed is true
// (spec.md's `initStandardObjects(scope, sealed)`), Init seals the standard
// prototypes immediately after creating them so script code cannot tamper
// with them before first use.
// languageVersion is the Context's configured ECMAScript edition label
// (contextrt.Context.LanguageVersion); "1.2" threads the legacy RegExp
// leftContext quirk into every RegExp constructed through this global,
// per spec.md's version-1.2 left-context testable property.
func Init(global *object.Object, sealed bool, languageVersion string) {
	objectProto := object.NewObject(nil)
	functionProto := object.NewObject(objectProto)
	arrayProto := object.NewObject(objectProto)
	stringProto := object.NewObject(objectProto)
	numberProto := object.NewObject(objectProto)
	booleanProto := object.NewObject(objectProto)
	errorProto := object.NewObject(objectProto)
	regexpProto := object.NewObject(objectProto)

	installObjectProto(objectProto)
	installFunctionProto(functionProto)
	installArrayProto(arrayProto, objectProto)
	installStringProto(stringProto, arrayProto)
	installNumberProto(numberProto)
	installBooleanProto(booleanProto)
	installErrorProto(errorProto)
	installRegExpProto(regexpProto)

	installGlobalFunctions(global, functionProto, objectProto)
	installObjectConstructor(global, objectProto, functionProto, arrayProto)
	installArrayConstructor(global, arrayProto, functionProto)
	installStringConstructor(global, stringProto, functionProto)
	installNumberConstructor(global, numberProto, functionProto)
	installBooleanConstructor(global, booleanProto, functionProto)
	installErrorConstructors(global, errorProto, functionProto)
	installRegExpConstructor(global, regexpProto, functionProto, arrayProto, languageVersion)
	installMath(global, objectProto)
	installSymbol(global, objectProto, functionProto)
	installConsole(global, objectProto)

	if sealed {
		objectProto.Seal()
		functionProto.Seal()
		arrayProto.Seal()
		stringProto.Seal()
		numberProto.Seal()
		booleanProto.Seal()
		errorProto.Seal()
		regexpProto.Seal()
	}
}

func nativeFunc(proto *object.Object, name string, fn object.NativeFunc) *object.Object {
	o := object.NewObject(proto)
	o.Class = object.ClassFunction
	o.Call = fn
	o.DefineOwnProperty("name", object.String(name), object.PERMANENT|object.READONLY|object.DONTENUM)
	return o
}

func arg(args []object.Value, i int) object.Value {
	if i < len(args) {
		return args[i]
	}
	return object.Undefined
}

// ---- Object ----

func installObjectProto(proto *object.Object) {
	proto.DefineOwnProperty("toString", nativeFunc(nil, "toString", func(this object.Value, _ []object.Value) (object.Value, error) {
		return object.String(object.ToString(this)), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("hasOwnProperty", nativeFunc(nil, "hasOwnProperty", func(this object.Value, args []object.Value) (object.Value, error) {
		o, ok := this.(*object.Object)
		if !ok {
			return object.Bool(false), nil
		}
		_, found := o.GetOwnProperty(object.ToString(arg(args, 0)))
		return object.Bool(found), nil
	}), object.DONTENUM)
}

func installObjectConstructor(global, proto, fnProto, arrayProto *object.Object) {
	ctor := nativeFunc(fnProto, "Object", func(this object.Value, args []object.Value) (object.Value, error) {
		if len(args) > 0 {
			if o, ok := arg(args, 0).(*object.Object); ok {
				return o, nil
			}
		}
		return object.NewObject(proto), nil
	})
	ctor.DefineOwnProperty("prototype", proto, object.PERMANENT|object.READONLY|object.DONTENUM)
	ctor.DefineOwnProperty("keys", nativeFunc(fnProto, "keys", func(_ object.Value, args []object.Value) (object.Value, error) {
		o, ok := arg(args, 0).(*object.Object)
		if !ok {
			return makeArray(arrayProto, nil), nil
		}
		keys := o.Keys()
		vals := make([]object.Value, len(keys))
		for i, k := range keys {
			vals[i] = object.String(k)
		}
		return makeArray(arrayProto, vals), nil
	}), object.DONTENUM)
	ctor.DefineOwnProperty("getOwnPropertyNames", nativeFunc(fnProto, "getOwnPropertyNames", func(_ object.Value, args []object.Value) (object.Value, error) {
		o, ok := arg(args, 0).(*object.Object)
		if !ok {
			return makeArray(arrayProto, nil), nil
		}
		names := o.GetOwnPropertyNames()
		sort.Strings(names)
		vals := make([]object.Value, len(names))
		for i, n := range names {
			vals[i] = object.String(n)
		}
		return makeArray(arrayProto, vals), nil
	}), object.DONTENUM)
	ctor.DefineOwnProperty("freeze", nativeFunc(fnProto, "freeze", func(_ object.Value, args []object.Value) (object.Value, error) {
		if o, ok := arg(args, 0).(*object.Object); ok {
			o.Freeze()
		}
		return arg(args, 0), nil
	}), object.DONTENUM)
	ctor.DefineOwnProperty("seal", nativeFunc(fnProto, "seal", func(_ object.Value, args []object.Value) (object.Value, error) {
		if o, ok := arg(args, 0).(*object.Object); ok {
			o.Seal()
		}
		return arg(args, 0), nil
	}), object.DONTENUM)
	global.DefineOwnProperty("Object", ctor, object.DONTENUM)
}

// ---- Function ----

func installFunctionProto(proto *object.Object) {
	proto.DefineOwnProperty("toString", nativeFunc(nil, "toString", func(this object.Value, _ []object.Value) (object.Value, error) {
		if o, ok := this.(*object.Object); ok {
			return object.String(o.String()), nil
		}
		return object.String("function () { [native code] }"), nil
	}), object.DONTENUM)
}

func installGlobalFunctions(global, fnProto, _ *object.Object) {
	global.DefineOwnProperty("isNaN", nativeFunc(fnProto, "isNaN", func(_ object.Value, args []object.Value) (object.Value, error) {
		return object.Bool(math.IsNaN(float64(object.ToNumber(arg(args, 0))))), nil
	}), object.DONTENUM)
	global.DefineOwnProperty("isFinite", nativeFunc(fnProto, "isFinite", func(_ object.Value, args []object.Value) (object.Value, error) {
		f := float64(object.ToNumber(arg(args, 0)))
		return object.Bool(!math.IsNaN(f) && !math.IsInf(f, 0)), nil
	}), object.DONTENUM)
	global.DefineOwnProperty("parseInt", nativeFunc(fnProto, "parseInt", func(_ object.Value, args []object.Value) (object.Value, error) {
		s := strings.TrimSpace(object.ToString(arg(args, 0)))
		var n int64
		_, err := fmt.Sscanf(s, "%d", &n)
		if err != nil {
			return object.Number(math.NaN()), nil
		}
		return object.Number(float64(n)), nil
	}), object.DONTENUM)
	global.DefineOwnProperty("parseFloat", nativeFunc(fnProto, "parseFloat", func(_ object.Value, args []object.Value) (object.Value, error) {
		s := strings.TrimSpace(object.ToString(arg(args, 0)))
		var f float64
		_, err := fmt.Sscanf(s, "%g", &f)
		if err != nil {
			return object.Number(math.NaN()), nil
		}
		return object.Number(f), nil
	}), object.DONTENUM)
	global.DefineOwnProperty("undefined", object.Undefined, object.PERMANENT|object.READONLY|object.DONTENUM)
	global.DefineOwnProperty("NaN", object.Number(math.NaN()), object.PERMANENT|object.READONLY|object.DONTENUM)
	global.DefineOwnProperty("Infinity", object.Number(math.Inf(1)), object.PERMANENT|object.READONLY|object.DONTENUM)
}

// ---- Array ----

func makeArray(proto *object.Object, elems []object.Value) *object.Object {
	a := object.NewObject(proto)
	a.Class = object.ClassArray
	a.Elements = elems
	return a
}

func installArrayProto(proto, _ *object.Object) {
	proto.Class = object.ClassArray
	proto.DefineOwnProperty("push", nativeFunc(nil, "push", func(this object.Value, args []object.Value) (object.Value, error) {
		a, ok := this.(*object.Object)
		if !ok {
			return object.Undefined, fmt.Errorf("Array.prototype.push called on non-array")
		}
		a.Elements = append(a.Elements, args...)
		return object.Number(float64(len(a.Elements))), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("pop", nativeFunc(nil, "pop", func(this object.Value, _ []object.Value) (object.Value, error) {
		a, ok := this.(*object.Object)
		if !ok || len(a.Elements) == 0 {
			return object.Undefined, nil
		}
		n := len(a.Elements) - 1
		v := a.Elements[n]
		a.Elements = a.Elements[:n]
		return v, nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("join", nativeFunc(nil, "join", func(this object.Value, args []object.Value) (object.Value, error) {
		a, ok := this.(*object.Object)
		if !ok {
			return object.String(""), nil
		}
		sep := ","
		if len(args) > 0 {
			sep = object.ToString(args[0])
		}
		parts := make([]string, len(a.Elements))
		for i, e := range a.Elements {
			parts[i] = object.ToString(e)
		}
		return object.String(strings.Join(parts, sep)), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("slice", nativeFunc(nil, "slice", func(this object.Value, args []object.Value) (object.Value, error) {
		a, ok := this.(*object.Object)
		if !ok {
			return makeArray(proto, nil), nil
		}
		start, end := sliceBounds(len(a.Elements), args)
		out := make([]object.Value, end-start)
		copy(out, a.Elements[start:end])
		return makeArray(proto, out), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("indexOf", nativeFunc(nil, "indexOf", func(this object.Value, args []object.Value) (object.Value, error) {
		a, ok := this.(*object.Object)
		if !ok {
			return object.Number(-1), nil
		}
		target := arg(args, 0)
		for i, e := range a.Elements {
			if strictEqualValue(e, target) {
				return object.Number(float64(i)), nil
			}
		}
		return object.Number(-1), nil
	}), object.DONTENUM)
}

func sliceBounds(length int, args []object.Value) (int, int) {
	start, end := 0, length
	if len(args) > 0 {
		start = normalizeIndex(int(object.ToNumber(args[0])), length)
	}
	if len(args) > 1 {
		end = normalizeIndex(int(object.ToNumber(args[1])), length)
	}
	if end < start {
		end = start
	}
	return start, end
}

func normalizeIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func strictEqualValue(a, b object.Value) bool {
	if a.TypeOf() != b.TypeOf() {
		return false
	}
	return object.ToString(a) == object.ToString(b) && a.TypeOf() != "object"
}

func installArrayConstructor(global, proto, fnProto *object.Object) {
	ctor := nativeFunc(fnProto, "Array", func(_ object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 1 {
			if n, ok := args[0].(object.Number); ok {
				return makeArray(proto, make([]object.Value, int(n))), nil
			}
		}
		elems := make([]object.Value, len(args))
		copy(elems, args)
		return makeArray(proto, elems), nil
	})
	ctor.DefineOwnProperty("prototype", proto, object.PERMANENT|object.READONLY|object.DONTENUM)
	ctor.DefineOwnProperty("isArray", nativeFunc(fnProto, "isArray", func(_ object.Value, args []object.Value) (object.Value, error) {
		o, ok := arg(args, 0).(*object.Object)
		return object.Bool(ok && o.Class == object.ClassArray), nil
	}), object.DONTENUM)
	global.DefineOwnProperty("Array", ctor, object.DONTENUM)
}

// ---- String ----

func installStringProto(proto, arrayProto *object.Object) {
	proto.DefineOwnProperty("charAt", nativeFunc(nil, "charAt", func(this object.Value, args []object.Value) (object.Value, error) {
		s := []rune(object.ToString(this))
		i := int(object.ToNumber(arg(args, 0)))
		if i < 0 || i >= len(s) {
			return object.String(""), nil
		}
		return object.String(string(s[i])), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("toUpperCase", nativeFunc(nil, "toUpperCase", func(this object.Value, _ []object.Value) (object.Value, error) {
		return object.String(strings.ToUpper(object.ToString(this))), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("toLowerCase", nativeFunc(nil, "toLowerCase", func(this object.Value, _ []object.Value) (object.Value, error) {
		return object.String(strings.ToLower(object.ToString(this))), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("indexOf", nativeFunc(nil, "indexOf", func(this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(float64(strings.Index(object.ToString(this), object.ToString(arg(args, 0))))), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("slice", nativeFunc(nil, "slice", func(this object.Value, args []object.Value) (object.Value, error) {
		s := []rune(object.ToString(this))
		start, end := sliceBounds(len(s), args)
		return object.String(string(s[start:end])), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("split", nativeFunc(nil, "split", func(this object.Value, args []object.Value) (object.Value, error) {
		s := object.ToString(this)
		limit := -1
		if len(args) > 1 {
			limit = int(object.ToNumber(args[1]))
		}
		if re, ok := asRegExp(arg(args, 0)); ok {
			parts, err := jsregexp.Split(re, s, limit)
			if err != nil {
				return object.Undefined, err
			}
			vals := make([]object.Value, len(parts))
			for i, p := range parts {
				vals[i] = object.String(p)
			}
			return makeArray(arrayProto, vals), nil
		}
		sep := object.ToString(arg(args, 0))
		parts := strings.Split(s, sep)
		if limit >= 0 && limit < len(parts) {
			parts = parts[:limit]
		}
		vals := make([]object.Value, len(parts))
		for i, p := range parts {
			vals[i] = object.String(p)
		}
		return makeArray(arrayProto, vals), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("trim", nativeFunc(nil, "trim", func(this object.Value, _ []object.Value) (object.Value, error) {
		return object.String(strings.TrimSpace(object.ToString(this))), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("match", nativeFunc(nil, "match", func(this object.Value, args []object.Value) (object.Value, error) {
		s := object.ToString(this)
		re, err := coerceToRegExp(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		texts, m, err := jsregexp.MatchResult(re, s)
		if err != nil {
			return object.Null, err
		}
		if re.Flags.Global {
			if len(texts) == 0 {
				return object.Null, nil
			}
			elems := make([]object.Value, len(texts))
			for i, t := range texts {
				elems[i] = object.String(t)
			}
			return makeArray(arrayProto, elems), nil
		}
		if m == nil {
			return object.Null, nil
		}
		return matchToArray(arrayProto, m), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("matchAll", nativeFunc(nil, "matchAll", func(this object.Value, args []object.Value) (object.Value, error) {
		s := object.ToString(this)
		re, err := coerceToRegExp(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		matches, err := jsregexp.MatchAll(re, s)
		if err != nil {
			return object.Undefined, err
		}
		elems := make([]object.Value, len(matches))
		for i, m := range matches {
			elems[i] = matchToArray(arrayProto, m)
		}
		return makeArray(arrayProto, elems), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("search", nativeFunc(nil, "search", func(this object.Value, args []object.Value) (object.Value, error) {
		s := object.ToString(this)
		re, err := coerceToRegExp(arg(args, 0))
		if err != nil {
			return object.Number(-1), err
		}
		idx, err := jsregexp.Search(re, s)
		if err != nil {
			return object.Number(-1), err
		}
		return object.Number(float64(idx)), nil
	}), object.DONTENUM)
	proto.DefineOwnProperty("replace", nativeFunc(nil, "replace", func(this object.Value, args []object.Value) (object.Value, error) {
		s := object.ToString(this)
		replacement := object.ToString(arg(args, 1))
		if re, ok := asRegExp(arg(args, 0)); ok {
			return stringOrErr(jsregexp.Replace(re, s, replacement))
		}
		return object.String(strings.Replace(s, object.ToString(arg(args, 0)), replacement, 1)), nil
	}), object.DONTENUM)
}

// asRegExp reports whether v is a script-visible RegExp instance, returning
// its compiled jsregexp.RegExp if so.
func asRegExp(v object.Value) (*jsregexp.RegExp, bool) {
	o, ok := v.(*object.Object)
	if !ok || o.Class != object.ClassRegExp {
		return nil, false
	}
	re := regexpFromObject(o)
	return re, re != nil
}

// coerceToRegExp implements the ToRegExp step String.prototype.match and
// friends apply to a non-RegExp argument: it is compiled as a pattern with
// no flags, same as `new RegExp(arg)`.
func coerceToRegExp(v object.Value) (*jsregexp.RegExp, error) {
	if re, ok := asRegExp(v); ok {
		return re, nil
	}
	return jsregexp.Compile(object.ToString(v), "")
}

func stringOrErr(s string, err error) (object.Value, error) {
	if err != nil {
		return object.Undefined, err
	}
	return object.String(s), nil
}

func installStringConstructor(global, proto, fnProto *object.Object) {
	ctor := nativeFunc(fnProto, "String", func(_ object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.String(""), nil
		}
		return object.String(object.ToString(args[0])), nil
	})
	ctor.DefineOwnProperty("prototype", proto, object.PERMANENT|object.READONLY|object.DONTENUM)
	global.DefineOwnProperty("String", ctor, object.DONTENUM)
}

// ---- Number / Boolean ----

func installNumberProto(proto *object.Object) {
	proto.DefineOwnProperty("toFixed", nativeFunc(nil, "toFixed", func(this object.Value, args []object.Value) (object.Value, error) {
		digits := int(object.ToNumber(arg(args, 0)))
		return object.String(fmt.Sprintf("%.*f", digits, float64(object.ToNumber(this)))), nil
	}), object.DONTENUM)
}

func installNumberConstructor(global, proto, fnProto *object.Object) {
	ctor := nativeFunc(fnProto, "Number", func(_ object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.Number(0), nil
		}
		return object.ToNumber(args[0]), nil
	})
	ctor.DefineOwnProperty("prototype", proto, object.PERMANENT|object.READONLY|object.DONTENUM)
	ctor.DefineOwnProperty("isInteger", nativeFunc(fnProto, "isInteger", func(_ object.Value, args []object.Value) (object.Value, error) {
		n, ok := arg(args, 0).(object.Number)
		return object.Bool(ok && float64(n) == math.Trunc(float64(n))), nil
	}), object.DONTENUM)
	ctor.DefineOwnProperty("MAX_SAFE_INTEGER", object.Number(9007199254740991), object.PERMANENT|object.READONLY|object.DONTENUM)
	global.DefineOwnProperty("Number", ctor, object.DONTENUM)
}

func installBooleanProto(_ *object.Object) {}

func installBooleanConstructor(global, proto, fnProto *object.Object) {
	ctor := nativeFunc(fnProto, "Boolean", func(_ object.Value, args []object.Value) (object.Value, error) {
		return object.Bool(object.ToBoolean(arg(args, 0))), nil
	})
	ctor.DefineOwnProperty("prototype", proto, object.PERMANENT|object.READONLY|object.DONTENUM)
	global.DefineOwnProperty("Boolean", ctor, object.DONTENUM)
}

// ---- Error family ----

func installErrorProto(proto *object.Object) {
	proto.Class = object.ClassError
	proto.DefineOwnProperty("name", object.String("Error"), object.DONTENUM)
	proto.DefineOwnProperty("message", object.String(""), object.DONTENUM)
	proto.DefineOwnProperty("toString", nativeFunc(nil, "toString", func(this object.Value, _ []object.Value) (object.Value, error) {
		o, ok := this.(*object.Object)
		if !ok {
			return object.String("Error"), nil
		}
		name, _ := o.Get("name")
		msg, _ := o.Get("message")
		ms := object.ToString(msg)
		if ms == "" {
			return object.String(object.ToString(name)), nil
		}
		return object.String(object.ToString(name) + ": " + ms), nil
	}), object.DONTENUM)
}

// errorConstructorNames lists every Error subtype spec.md's built-in
// surface needs (TypeError, RangeError, etc.), each sharing errorProto's
// toString via its own prototype object chained onto it.
var errorConstructorNames = []string{"Error", "TypeError", "RangeError", "SyntaxError", "ReferenceError", "EvalError", "URIError"}

func installErrorConstructors(global, errorProto, fnProto *object.Object) {
	for _, name := range errorConstructorNames {
		name := name
		proto := errorProto
		if name != "Error" {
			proto = object.NewObject(errorProto)
			proto.DefineOwnProperty("name", object.String(name), object.DONTENUM)
		}
		ctor := nativeFunc(fnProto, name, func(_ object.Value, args []object.Value) (object.Value, error) {
			e := object.NewObject(proto)
			e.Class = object.ClassError
			if len(args) > 0 {
				e.DefineOwnProperty("message", object.String(object.ToString(args[0])), object.DONTENUM)
			}
			return e, nil
		})
		ctor.DefineOwnProperty("prototype", proto, object.PERMANENT|object.READONLY|object.DONTENUM)
		global.DefineOwnProperty(name, ctor, object.DONTENUM)
	}
}

// ---- RegExp ----

func installRegExpProto(proto *object.Object) {
	proto.Class = object.ClassRegExp
}

func regexpFromObject(o *object.Object) *jsregexp.RegExp {
	// Script-visible RegExp instances stash their compiled engine in a
	// DONTENUM own property so normal property enumeration never exposes
	// the Go pointer; WrapRegExp installs it.
	v, ok := o.Get("__compiled")
	if !ok {
		return nil
	}
	holder, ok := v.(*regexHolder)
	if !ok {
		return nil
	}
	return holder.re
}

// regexHolder lets a *jsregexp.RegExp ride through object.Value (which is
// an interface satisfied by any Go type implementing valueNode/TypeOf).
type regexHolder struct{ re *jsregexp.RegExp }

func (regexHolder) valueNode()     {}
func (regexHolder) TypeOf() string { return "object" }

// WrapRegExp builds the script-visible RegExp instance for re, installing
// lastIndex as a live, writable, non-enumerable own property and exec/test
// methods implementing spec.md §5's protocol.
func WrapRegExp(re *jsregexp.RegExp, proto, arrayProto *object.Object) *object.Object {
	o := re.ToObject(proto)
	o.DefineOwnProperty("__compiled", &regexHolder{re: re}, object.PERMANENT|object.READONLY|object.DONTENUM)
	o.DefineOwnProperty("exec", nativeFunc(nil, "exec", func(this object.Value, args []object.Value) (object.Value, error) {
		recv, ok := this.(*object.Object)
		if !ok {
			return object.Null, nil
		}
		rx := regexpFromObject(recv)
		if rx == nil {
			return object.Null, nil
		}
		if v, found := recv.Get("lastIndex"); found {
			if n := int(object.ToNumber(v)); n >= 0 {
				rx.LastIndex = n
			}
		}
		m, err := rx.Exec(object.ToString(arg(args, 0)))
		recv.Put("lastIndex", object.Number(float64(rx.LastIndex)))
		if err != nil {
			return object.Null, err
		}
		if m == nil {
			return object.Null, nil
		}
		return matchToArray(arrayProto, m), nil
	}), object.DONTENUM)
	o.DefineOwnProperty("test", nativeFunc(nil, "test", func(this object.Value, args []object.Value) (object.Value, error) {
		recv, ok := this.(*object.Object)
		if !ok {
			return object.Bool(false), nil
		}
		rx := regexpFromObject(recv)
		if rx == nil {
			return object.Bool(false), nil
		}
		if v, found := recv.Get("lastIndex"); found {
			if n := int(object.ToNumber(v)); n >= 0 {
				rx.LastIndex = n
			}
		}
		ok2, err := rx.Test(object.ToString(arg(args, 0)))
		recv.Put("lastIndex", object.Number(float64(rx.LastIndex)))
		return object.Bool(ok2), err
	}), object.DONTENUM)
	// @@match/@@matchAll/@@search are the well-known-symbol protocol methods
	// spec.md §4.4/§6 describes (installSymbol's Symbol.match and friends
	// resolve to these same "@@name" tag strings); String.prototype's
	// match/matchAll/search below call straight into jsregexp instead of
	// dispatching through these, but a script that calls re[Symbol.match](s)
	// directly needs them present on the instance too.
	o.DefineOwnProperty("@@match", nativeFunc(nil, "[Symbol.match]", func(this object.Value, args []object.Value) (object.Value, error) {
		recv, ok := this.(*object.Object)
		if !ok {
			return object.Null, nil
		}
		rx := regexpFromObject(recv)
		if rx == nil {
			return object.Null, nil
		}
		texts, m, err := jsregexp.MatchResult(rx, object.ToString(arg(args, 0)))
		recv.DefineOwnProperty("lastIndex", object.Number(float64(rx.LastIndex)), object.PERMANENT|object.DONTENUM)
		if err != nil {
			return object.Null, err
		}
		if rx.Flags.Global {
			if len(texts) == 0 {
				return object.Null, nil
			}
			elems := make([]object.Value, len(texts))
			for i, t := range texts {
				elems[i] = object.String(t)
			}
			return makeArray(arrayProto, elems), nil
		}
		if m == nil {
			return object.Null, nil
		}
		return matchToArray(arrayProto, m), nil
	}), object.DONTENUM)
	o.DefineOwnProperty("@@matchAll", nativeFunc(nil, "[Symbol.matchAll]", func(this object.Value, args []object.Value) (object.Value, error) {
		recv, ok := this.(*object.Object)
		if !ok {
			return makeArray(arrayProto, nil), nil
		}
		rx := regexpFromObject(recv)
		if rx == nil {
			return makeArray(arrayProto, nil), nil
		}
		matches, err := jsregexp.MatchAll(rx, object.ToString(arg(args, 0)))
		if err != nil {
			return object.Undefined, err
		}
		elems := make([]object.Value, len(matches))
		for i, m := range matches {
			elems[i] = matchToArray(arrayProto, m)
		}
		return makeArray(arrayProto, elems), nil
	}), object.DONTENUM)
	o.DefineOwnProperty("@@search", nativeFunc(nil, "[Symbol.search]", func(this object.Value, args []object.Value) (object.Value, error) {
		recv, ok := this.(*object.Object)
		if !ok {
			return object.Number(-1), nil
		}
		rx := regexpFromObject(recv)
		if rx == nil {
			return object.Number(-1), nil
		}
		idx, err := jsregexp.Search(rx, object.ToString(arg(args, 0)))
		if err != nil {
			return object.Number(-1), err
		}
		return object.Number(float64(idx)), nil
	}), object.DONTENUM)
	o.DefineOwnProperty("compile", nativeFunc(nil, "compile", func(this object.Value, args []object.Value) (object.Value, error) {
		recv, ok := this.(*object.Object)
		if !ok {
			return object.Undefined, nil
		}
		pattern := object.ToString(arg(args, 0))
		flags := ""
		if len(args) > 1 {
			flags = object.ToString(args[1])
		}
		newRe, err := jsregexp.Compile(pattern, flags)
		if err != nil {
			return object.Undefined, err
		}
		recv.DefineOwnProperty("__compiled", &regexHolder{re: newRe}, object.PERMANENT|object.READONLY|object.DONTENUM)
		recv.DefineOwnProperty("source", object.String(newRe.Source), object.PERMANENT|object.READONLY|object.DONTENUM)
		recv.DefineOwnProperty("flags", object.String(newRe.Flags.String()), object.PERMANENT|object.READONLY|object.DONTENUM)
		recv.DefineOwnProperty("global", object.Bool(newRe.Flags.Global), object.PERMANENT|object.READONLY|object.DONTENUM)
		recv.DefineOwnProperty("ignoreCase", object.Bool(newRe.Flags.IgnoreCase), object.PERMANENT|object.READONLY|object.DONTENUM)
		recv.DefineOwnProperty("multiline", object.Bool(newRe.Flags.Multiline), object.PERMANENT|object.READONLY|object.DONTENUM)
		recv.DefineOwnProperty("sticky", object.Bool(newRe.Flags.Sticky), object.PERMANENT|object.READONLY|object.DONTENUM)
		recv.DefineOwnProperty("unicode", object.Bool(newRe.Flags.Unicode), object.PERMANENT|object.READONLY|object.DONTENUM)
		recv.DefineOwnProperty("lastIndex", object.Number(0), object.PERMANENT|object.DONTENUM)
		return recv, nil
	}), object.DONTENUM)
	o.DefineOwnProperty("toString", nativeFunc(nil, "toString", func(this object.Value, _ []object.Value) (object.Value, error) {
		recv, ok := this.(*object.Object)
		if !ok {
			return object.String("/(?:)/"), nil
		}
		rx := regexpFromObject(recv)
		if rx == nil {
			return object.String("/(?:)/"), nil
		}
		return object.String("/" + rx.Source + "/" + rx.Flags.String()), nil
	}), object.DONTENUM)
	o.DefineOwnProperty("toSource", nativeFunc(nil, "toSource", func(this object.Value, _ []object.Value) (object.Value, error) {
		recv, ok := this.(*object.Object)
		if !ok {
			return object.String("(new RegExp())"), nil
		}
		rx := regexpFromObject(recv)
		if rx == nil {
			return object.String("(new RegExp())"), nil
		}
		return object.String(fmt.Sprintf("(new RegExp(%q, %q))", rx.Source, rx.Flags.String())), nil
	}), object.DONTENUM)
	return o
}

func matchToArray(arrayProto *object.Object, m *jsregexp.Match) *object.Object {
	elems := make([]object.Value, len(m.Groups))
	for i, g := range m.Groups {
		if g.Matched {
			elems[i] = object.String(g.Text)
		} else {
			elems[i] = object.Undefined
		}
	}
	arr := makeArray(arrayProto, elems)
	arr.DefineOwnProperty("index", object.Number(float64(m.Index)), object.DONTENUM)
	arr.DefineOwnProperty("input", object.String(m.Input), object.DONTENUM)
	return arr
}

func installRegExpConstructor(global, proto, fnProto, arrayProto *object.Object, languageVersion string) {
	ctor := nativeFunc(fnProto, "RegExp", func(_ object.Value, args []object.Value) (object.Value, error) {
		pattern := object.ToString(arg(args, 0))
		flags := ""
		if len(args) > 1 {
			flags = object.ToString(args[1])
		}
		re, err := jsregexp.Compile(pattern, flags)
		if err != nil {
			return object.Undefined, err
		}
		re.SetVersion12LeftContext(languageVersion == "1.2")
		return WrapRegExp(re, proto, arrayProto), nil
	})
	ctor.DefineOwnProperty("prototype", proto, object.PERMANENT|object.READONLY|object.DONTENUM)
	global.DefineOwnProperty("RegExp", ctor, object.DONTENUM)
}

// ---- Math ----

func installMath(global, proto *object.Object) {
	m := object.NewObject(proto)
	m.DefineOwnProperty("PI", object.Number(math.Pi), object.PERMANENT|object.READONLY|object.DONTENUM)
	m.DefineOwnProperty("E", object.Number(math.E), object.PERMANENT|object.READONLY|object.DONTENUM)
	unary := func(name string, fn func(float64) float64) {
		m.DefineOwnProperty(name, nativeFunc(nil, name, func(_ object.Value, args []object.Value) (object.Value, error) {
			return object.Number(fn(float64(object.ToNumber(arg(args, 0))))), nil
		}), object.DONTENUM)
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("sqrt", math.Sqrt)
	unary("trunc", math.Trunc)
	m.DefineOwnProperty("max", nativeFunc(nil, "max", func(_ object.Value, args []object.Value) (object.Value, error) {
		best := math.Inf(-1)
		for _, a := range args {
			v := float64(object.ToNumber(a))
			if v > best {
				best = v
			}
		}
		return object.Number(best), nil
	}), object.DONTENUM)
	m.DefineOwnProperty("min", nativeFunc(nil, "min", func(_ object.Value, args []object.Value) (object.Value, error) {
		best := math.Inf(1)
		for _, a := range args {
			v := float64(object.ToNumber(a))
			if v < best {
				best = v
			}
		}
		return object.Number(best), nil
	}), object.DONTENUM)
	m.DefineOwnProperty("pow", nativeFunc(nil, "pow", func(_ object.Value, args []object.Value) (object.Value, error) {
		return object.Number(math.Pow(float64(object.ToNumber(arg(args, 0))), float64(object.ToNumber(arg(args, 1))))), nil
	}), object.DONTENUM)
	global.DefineOwnProperty("Math", m, object.DONTENUM)
}

// ---- Symbol (minimal: well-known symbols as opaque tagged strings) ----

func installSymbol(global, objProto, fnProto *object.Object) {
	sym := object.NewObject(objProto)
	wellKnown := []string{"iterator", "match", "matchAll", "search", "replace", "split", "asyncIterator", "hasInstance", "toPrimitive"}
	for _, name := range wellKnown {
		sym.DefineOwnProperty(name, object.String("@@"+name), object.PERMANENT|object.READONLY|object.DONTENUM)
	}
	ctor := nativeFunc(fnProto, "Symbol", func(_ object.Value, args []object.Value) (object.Value, error) {
		desc := ""
		if len(args) > 0 {
			desc = object.ToString(args[0])
		}
		return object.String("@@symbol:" + desc), nil
	})
	for _, name := range wellKnown {
		v, _ := sym.Get(name)
		ctor.DefineOwnProperty(name, v, object.PERMANENT|object.READONLY|object.DONTENUM)
	}
	global.DefineOwnProperty("Symbol", ctor, object.DONTENUM)
}

// ---- console (host convenience, not part of ECMAScript but present in
// every embedding the teacher's CLI and every JS host provide) ----

func installConsole(global, proto *object.Object) {
	c := object.NewObject(proto)
	logFn := nativeFunc(nil, "log", func(_ object.Value, args []object.Value) (object.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = object.ToString(a)
		}
		fmt.Println(strings.Join(parts, " "))
		return object.Undefined, nil
	})
	c.DefineOwnProperty("log", logFn, object.DONTENUM)
	c.DefineOwnProperty("error", logFn, object.DONTENUM)
	c.DefineOwnProperty("warn", logFn, object.DONTENUM)
	global.DefineOwnProperty("console", c, object.DONTENUM)
}
