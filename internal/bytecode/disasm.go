package bytecode

import (
	"fmt"
	"strings"
)

var opCodeNames = [...]string{
	OpLoadConst:     "LoadConst",
	OpLoadUndefined: "LoadUndefined",
	OpLoadNull:      "LoadNull",
	OpLoadTrue:      "LoadTrue",
	OpLoadFalse:     "LoadFalse",
	OpLoadThis:      "LoadThis",
	OpGetLocal:      "GetLocal",
	OpSetLocal:      "SetLocal",
	OpDefineLocal:   "DefineLocal",
	OpGetGlobal:     "GetGlobal",
	OpSetGlobal:     "SetGlobal",
	OpDefineGlobal:  "DefineGlobal",
	OpAdd:           "Add",
	OpSub:           "Sub",
	OpMul:           "Mul",
	OpDiv:           "Div",
	OpMod:           "Mod",
	OpPow:           "Pow",
	OpNeg:           "Neg",
	OpNot:           "Not",
	OpBitNot:        "BitNot",
	OpBitAnd:        "BitAnd",
	OpBitOr:         "BitOr",
	OpBitXor:        "BitXor",
	OpShl:           "Shl",
	OpShr:           "Shr",
	OpUShr:          "UShr",
	OpEq:            "Eq",
	OpNotEq:         "NotEq",
	OpStrictEq:      "StrictEq",
	OpStrictNotEq:   "StrictNotEq",
	OpLt:            "Lt",
	OpLe:            "Le",
	OpGt:            "Gt",
	OpGe:            "Ge",
	OpTypeof:        "Typeof",
	OpInstanceOf:    "InstanceOf",
	OpIn:            "In",
	OpJump:          "Jump",
	OpJumpIfFalse:   "JumpIfFalse",
	OpJumpIfTrue:    "JumpIfTrue",
	OpPop:           "Pop",
	OpDup:           "Dup",
	OpNewArray:      "NewArray",
	OpNewObject:     "NewObject",
	OpGetProp:       "GetProp",
	OpSetProp:       "SetProp",
	OpGetIndex:      "GetIndex",
	OpSetIndex:      "SetIndex",
	OpMakeFunction:  "MakeFunction",
	OpCall:          "Call",
	OpCallMethod:    "CallMethod",
	OpNew:           "New",
	OpReturn:        "Return",
	OpThrow:         "Throw",
	OpPushHandler:   "PushHandler",
	OpPopHandler:    "PopHandler",
}

// String renders an opcode's mnemonic, falling back to its raw byte value
// for anything outside the known table (defensive against opCodeCount ever
// drifting from the names above).
func (op OpCode) String() string {
	if int(op) < len(opCodeNames) && opCodeNames[op] != "" {
		return opCodeNames[op]
	}
	return fmt.Sprintf("Op(%d)", byte(op))
}

// Disassemble renders a Chunk's instruction stream as human-readable text,
// one line per instruction, annotated with the operand's resolved constant
// or name where the opcode format makes that meaningful. Intended for CLI
// and debugging use, not a stable serialization format.
func Disassemble(name string, c *Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	for ip := 0; ip < len(c.Code); ip++ {
		op, a, operand := Decode(c.Code[ip])
		fmt.Fprintf(&b, "%04d %-14s A=%-3d B=%-5d", ip, op, a, operand)
		switch op {
		case OpLoadConst:
			if int(operand) < len(c.Constants) {
				fmt.Fprintf(&b, "  ; const %#v", c.Constants[operand])
			}
		case OpGetGlobal, OpSetGlobal, OpDefineGlobal, OpGetProp, OpSetProp:
			if int(operand) < len(c.Names) {
				fmt.Fprintf(&b, "  ; name %q", c.Names[operand])
			}
		case OpMakeFunction:
			if int(operand) < len(c.Constants) {
				fmt.Fprintf(&b, "  ; proto %#v", c.Constants[operand])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
