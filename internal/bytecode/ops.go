package bytecode

import (
	"fmt"
	"math"

	"github.com/jsengine/jsengine/internal/object"
)

// binaryOp implements every two-operand opcode's runtime semantics.
// Arithmetic and bitwise operators coerce with ToNumber; + additionally
// falls back to string concatenation when either operand is a string,
// matching ECMAScript's "+ is overloaded for strings" rule. Equality
// follows ECMAScript's loose (==) vs strict (===) rules at a practical
// level; full abstract-equality coercion chains are out of scope.
func binaryOp(op OpCode, left, right object.Value) (object.Value, error) {
	switch op {
	case OpAdd:
		_, lIsStr := left.(object.String)
		_, rIsStr := right.(object.String)
		if lIsStr || rIsStr {
			return object.String(object.ToString(left) + object.ToString(right)), nil
		}
		return object.Number(float64(object.ToNumber(left)) + float64(object.ToNumber(right))), nil
	case OpSub:
		return object.Number(float64(object.ToNumber(left)) - float64(object.ToNumber(right))), nil
	case OpMul:
		return object.Number(float64(object.ToNumber(left)) * float64(object.ToNumber(right))), nil
	case OpDiv:
		return object.Number(float64(object.ToNumber(left)) / float64(object.ToNumber(right))), nil
	case OpMod:
		return object.Number(math.Mod(float64(object.ToNumber(left)), float64(object.ToNumber(right)))), nil
	case OpPow:
		return object.Number(math.Pow(float64(object.ToNumber(left)), float64(object.ToNumber(right)))), nil

	case OpBitAnd:
		return object.Number(float64(toInt32(object.ToNumber(left)) & toInt32(object.ToNumber(right)))), nil
	case OpBitOr:
		return object.Number(float64(toInt32(object.ToNumber(left)) | toInt32(object.ToNumber(right)))), nil
	case OpBitXor:
		return object.Number(float64(toInt32(object.ToNumber(left)) ^ toInt32(object.ToNumber(right)))), nil
	case OpShl:
		return object.Number(float64(toInt32(object.ToNumber(left)) << (uint32(toInt32(object.ToNumber(right))) & 31))), nil
	case OpShr:
		return object.Number(float64(toInt32(object.ToNumber(left)) >> (uint32(toInt32(object.ToNumber(right))) & 31))), nil
	case OpUShr:
		l := uint32(toInt32(object.ToNumber(left)))
		return object.Number(float64(l >> (uint32(toInt32(object.ToNumber(right))) & 31))), nil

	case OpEq:
		return object.Bool(looseEquals(left, right)), nil
	case OpNotEq:
		return object.Bool(!looseEquals(left, right)), nil
	case OpStrictEq:
		return object.Bool(strictEquals(left, right)), nil
	case OpStrictNotEq:
		return object.Bool(!strictEquals(left, right)), nil

	case OpLt, OpLe, OpGt, OpGe:
		return compare(op, left, right), nil

	case OpInstanceOf:
		return object.Bool(instanceOf(left, right)), nil
	case OpIn:
		return object.Bool(hasProperty(left, right)), nil

	default:
		return nil, fmt.Errorf("bytecode: unsupported binary opcode %d", op)
	}
}

func strictEquals(left, right object.Value) bool {
	if left.TypeOf() != right.TypeOf() {
		return false
	}
	switch l := left.(type) {
	case object.UndefinedType:
		return true
	case object.NullType:
		return true
	case object.Bool:
		r, ok := right.(object.Bool)
		return ok && l == r
	case object.Number:
		r, ok := right.(object.Number)
		return ok && l == r
	case object.String:
		r, ok := right.(object.String)
		return ok && l == r
	case *object.Object:
		r, ok := right.(*object.Object)
		return ok && l == r
	case *Closure:
		r, ok := right.(*Closure)
		return ok && l == r
	default:
		return false
	}
}

// looseEquals implements a practical subset of the abstract equality
// algorithm: same-type compares strictly, number/string coerce through
// ToNumber, and null/undefined are mutually (but only mutually) equal.
func looseEquals(left, right object.Value) bool {
	if left.TypeOf() == right.TypeOf() {
		return strictEquals(left, right)
	}
	_, lNull := left.(object.UndefinedType)
	_, lNull2 := left.(object.NullType)
	_, rNull := right.(object.UndefinedType)
	_, rNull2 := right.(object.NullType)
	if (lNull || lNull2) && (rNull || rNull2) {
		return true
	}
	if lNull || lNull2 || rNull || rNull2 {
		return false
	}
	return float64(object.ToNumber(left)) == float64(object.ToNumber(right))
}

func compare(op OpCode, left, right object.Value) object.Value {
	ls, lIsStr := left.(object.String)
	rs, rIsStr := right.(object.String)
	if lIsStr && rIsStr {
		switch op {
		case OpLt:
			return object.Bool(ls < rs)
		case OpLe:
			return object.Bool(ls <= rs)
		case OpGt:
			return object.Bool(ls > rs)
		default:
			return object.Bool(ls >= rs)
		}
	}
	ln, rn := float64(object.ToNumber(left)), float64(object.ToNumber(right))
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return object.Bool(false)
	}
	switch op {
	case OpLt:
		return object.Bool(ln < rn)
	case OpLe:
		return object.Bool(ln <= rn)
	case OpGt:
		return object.Bool(ln > rn)
	default:
		return object.Bool(ln >= rn)
	}
}

func instanceOf(left, right object.Value) bool {
	obj, ok := left.(*object.Object)
	if !ok {
		return false
	}
	var ctor *object.Object
	switch r := right.(type) {
	case *object.Object:
		ctor = r
	case *Closure:
		ctor = r.Obj
	}
	if ctor == nil {
		return false
	}
	protoV, _ := ctor.Get("prototype")
	proto, ok3 := protoV.(*object.Object)
	if !ok3 {
		return false
	}
	for cur := obj.Proto; cur != nil; cur = cur.Proto {
		if cur == proto {
			return true
		}
	}
	return false
}

func hasProperty(left, right object.Value) bool {
	name := object.ToString(left)
	switch r := right.(type) {
	case *object.Object:
		if r.Class == object.ClassArray {
			idx := int(object.ToNumber(left))
			if idx >= 0 && idx < len(r.Elements) {
				return true
			}
		}
		return r.Has(name)
	default:
		return false
	}
}
