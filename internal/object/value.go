package object

import (
	"fmt"
	"math"
	"strconv"
)

// Value is any runtime JavaScript value: Undefined, Null, Bool, Number,
// String, or *Object (which covers plain objects, arrays, functions, and
// every other object subtype via Object.Class).
type Value interface {
	valueNode()
	TypeOf() string
}

// Undefined is the single `undefined` value.
type UndefinedType struct{}

func (UndefinedType) valueNode()     {}
func (UndefinedType) TypeOf() string { return "undefined" }
func (UndefinedType) String() string { return "undefined" }

var Undefined = UndefinedType{}

// Null is the single `null` value; TypeOf intentionally returns "object"
// per the long-standing ECMAScript quirk (typeof null === "object").
type NullType struct{}

func (NullType) valueNode()     {}
func (NullType) TypeOf() string { return "object" }
func (NullType) String() string { return "null" }

var Null = NullType{}

// Bool is a boolean primitive.
type Bool bool

func (Bool) valueNode()     {}
func (Bool) TypeOf() string { return "boolean" }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is a double-precision float, JavaScript's single numeric type.
type Number float64

func (Number) valueNode()     {}
func (Number) TypeOf() string { return "number" }
func (n Number) String() string {
	f := float64(n)
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String is a JavaScript string primitive (UTF-16 semantics are
// approximated with Go's UTF-8 strings; surrogate-pair edge cases are out
// of scope per spec.md's core-engine boundary).
type String string

func (String) valueNode()     {}
func (String) TypeOf() string { return "string" }
func (s String) String() string { return string(s) }

// ToBoolean implements the ToBoolean abstract operation used by `if`,
// `while`, the logical operators, and the ternary.
func ToBoolean(v Value) bool {
	switch x := v.(type) {
	case UndefinedType, NullType:
		return false
	case Bool:
		return bool(x)
	case Number:
		f := float64(x)
		return f != 0 && !math.IsNaN(f)
	case String:
		return len(x) > 0
	case *Object:
		return true
	default:
		return true
	}
}

// ToNumber implements a practical subset of the ToNumber abstract
// operation sufficient for arithmetic and comparison operators.
func ToNumber(v Value) Number {
	switch x := v.(type) {
	case UndefinedType:
		return Number(math.NaN())
	case NullType:
		return 0
	case Bool:
		if x {
			return 1
		}
		return 0
	case Number:
		return x
	case String:
		s := string(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Number(math.NaN())
		}
		return Number(f)
	default:
		return Number(math.NaN())
	}
}

// ToString implements the ToString abstract operation.
func ToString(v Value) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
