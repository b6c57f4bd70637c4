// Package bytecode implements a stack-based bytecode virtual machine for
// the engine's compiled execution path (spec.md §4.2 stage 4: "lower the
// IR into a flat bytecode program and drive it on a stack-based virtual
// machine").
//
// Architecture: stack-based VM, 32-bit instructions.
// Format: [8-bit opcode][8-bit operand A][16-bit operand B]
package bytecode

// OpCode is a single bytecode instruction opcode.
type OpCode byte

const (
	// ========================================
	// Constants and variables
	// ========================================

	// OpLoadConst pushes a constant from the chunk's constant pool.
	// Format: [OpLoadConst][unused][index]
	// Stack: [] -> [constant]
	OpLoadConst OpCode = iota

	// OpLoadUndefined pushes the `undefined` value.
	OpLoadUndefined
	// OpLoadNull pushes `null`.
	OpLoadNull
	// OpLoadTrue pushes `true`.
	OpLoadTrue
	// OpLoadFalse pushes `false`.
	OpLoadFalse
	// OpLoadThis pushes the current `this` binding.
	OpLoadThis

	// OpGetLocal loads a slot from the current frame's local array.
	// Format: [OpGetLocal][unused][slot]
	OpGetLocal
	// OpSetLocal stores the top of stack into a local slot, leaving it on
	// the stack (assignment is an expression in JS).
	// Format: [OpSetLocal][unused][slot]
	OpSetLocal
	// OpDefineLocal binds a new local in the current frame's scope.
	OpDefineLocal

	// OpGetGlobal looks up a name in the Context's global object.
	// Format: [OpGetGlobal][unused][nameIndex]
	OpGetGlobal
	// OpSetGlobal assigns a name on the global object.
	OpSetGlobal
	// OpDefineGlobal declares a new global binding (var at top level).
	OpDefineGlobal

	// ========================================
	// Arithmetic and comparison (generic; no int/float split, unlike the
	// teacher's two-track numeric model, since every JS number is a float64)
	// ========================================

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNeg
	OpNot
	OpBitNot
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpUShr

	OpEq
	OpNotEq
	OpStrictEq
	OpStrictNotEq
	OpLt
	OpLe
	OpGt
	OpGe

	OpTypeof
	OpInstanceOf
	OpIn

	// ========================================
	// Control flow
	// ========================================

	// OpJump unconditionally jumps to operand B (an absolute instruction
	// index into the chunk).
	OpJump
	// OpJumpIfFalse peeks at the top value (leaving it on the stack); jumps
	// to B if it is falsy.
	OpJumpIfFalse
	// OpJumpIfTrue peeks at the top value (leaving it on the stack); jumps
	// to B if it is truthy (used for ||/??).
	OpJumpIfTrue
	// OpPop discards the top of stack (used to drop expression-statement
	// results).
	OpPop
	// OpDup duplicates the top of stack.
	OpDup

	// ========================================
	// Objects, arrays, functions
	// ========================================

	// OpNewArray builds an array from the top B stack values.
	// Format: [OpNewArray][0][count]
	OpNewArray
	// OpNewObject builds a plain object from the top 2*B stack values
	// (key, value pairs).
	OpNewObject
	// OpGetProp pops object, reads the constant-pool-named property.
	OpGetProp
	// OpSetProp pops value, object; writes the constant-pool-named property;
	// pushes value back (assignment is an expression).
	OpSetProp
	// OpGetIndex pops object, index; pushes the computed-member result.
	OpGetIndex
	// OpSetIndex pops value, object, index; writes; pushes value back.
	OpSetIndex

	// OpMakeFunction pushes a closure over the constant-pool function
	// prototype at index B, capturing the current frame as its enclosing
	// scope.
	OpMakeFunction
	// OpCall pops A+1 values (the callee then A arguments) and invokes it.
	OpCall
	// OpCallMethod pops A+2 values (the receiver, then the callee, then A
	// arguments) and invokes callee with the receiver bound as `this`,
	// the dispatch a.b(...) needs that plain OpCall cannot express since
	// OpGetProp alone leaves no trace of the object the property came from.
	OpCallMethod
	// OpNew is OpCall's `new` counterpart: constructs a fresh object with
	// the callee's prototype and binds it as `this`.
	OpNew
	// OpReturn pops the top of stack and returns it from the current frame.
	OpReturn

	// OpThrow pops a value and raises it as a script exception.
	OpThrow
	// OpPushHandler installs a try/catch/finally handler whose catch target
	// is B; used by OpPopHandler to unwind cleanly on a normal block exit.
	OpPushHandler
	// OpPopHandler removes the most recently pushed handler.
	OpPopHandler

	opCodeCount
)

// Chunk is one compiled unit: its instruction stream, constant pool, and
// the names referenced by OpGetGlobal/OpGetProp-family instructions.
type Chunk struct {
	Code      []uint32
	Constants []any
	Names     []string
	// NumLocals is the frame slot count a call to this chunk's function
	// needs. It is 0 for the top-level program chunk, whose vars are
	// globals; block-scoped slots grow the frame on demand.
	NumLocals int
}

// Encode packs an opcode and two operands into the 32-bit instruction word.
func Encode(op OpCode, a uint8, b uint16) uint32 {
	return uint32(op) | uint32(a)<<8 | uint32(b)<<16
}

// Decode unpacks a 32-bit instruction word.
func Decode(word uint32) (op OpCode, a uint8, b uint16) {
	return OpCode(word & 0xff), uint8((word >> 8) & 0xff), uint16(word >> 16)
}

// AddConstant interns value into the constant pool, returning its index.
func (c *Chunk) AddConstant(value any) int {
	for i, v := range c.Constants {
		if v == value {
			return i
		}
	}
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}

// AddName interns name, returning its index, used for OpGetGlobal/OpGetProp
// and friends which address identifiers by constant-pool slot rather than
// embedding the string inline in the instruction stream.
func (c *Chunk) AddName(name string) int {
	for i, n := range c.Names {
		if n == name {
			return i
		}
	}
	c.Names = append(c.Names, name)
	return len(c.Names) - 1
}

// emit appends an instruction and returns its index, used by the compiler
// to back-patch jump targets once a branch's end is known.
func (c *Chunk) emit(op OpCode, a uint8, b uint16) int {
	c.Code = append(c.Code, Encode(op, a, b))
	return len(c.Code) - 1
}

// patchJumpTarget rewrites instruction index's B operand, used once the
// compiler knows the absolute target of a forward jump.
func (c *Chunk) patchJumpTarget(index int, target int) {
	op, a, _ := Decode(c.Code[index])
	c.Code[index] = Encode(op, a, uint16(target))
}
