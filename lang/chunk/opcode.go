package chunk

import "fmt"

// OpCode is a single bytecode instruction. Operands, when
// present, follow the opcode byte inline: a single byte for CONSTANT,
// GET_LOCAL/SET_LOCAL and the *_GLOBAL family, or a big-endian uint16 for
// the jump family.
type OpCode uint8

//nolint:revive
const (
	OP_CONSTANT OpCode = iota
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_POP
	OP_GET_LOCAL
	OP_SET_LOCAL
	OP_GET_GLOBAL
	OP_DEFINE_GLOBAL
	OP_SET_GLOBAL
	OP_EQUAL
	OP_GREATER
	OP_LESS
	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_NOT
	OP_NEGATE
	OP_PRINT
	OP_JUMP
	OP_JUMP_IF_FALSE
	OP_LOOP
	OP_RETURN

	opcodeMax
)

var opcodeNames = [...]string{
	OP_CONSTANT:      "OP_CONSTANT",
	OP_NIL:           "OP_NIL",
	OP_TRUE:          "OP_TRUE",
	OP_FALSE:         "OP_FALSE",
	OP_POP:           "OP_POP",
	OP_GET_LOCAL:     "OP_GET_LOCAL",
	OP_SET_LOCAL:     "OP_SET_LOCAL",
	OP_GET_GLOBAL:    "OP_GET_GLOBAL",
	OP_DEFINE_GLOBAL: "OP_DEFINE_GLOBAL",
	OP_SET_GLOBAL:    "OP_SET_GLOBAL",
	OP_EQUAL:         "OP_EQUAL",
	OP_GREATER:       "OP_GREATER",
	OP_LESS:          "OP_LESS",
	OP_ADD:           "OP_ADD",
	OP_SUBTRACT:      "OP_SUBTRACT",
	OP_MULTIPLY:      "OP_MULTIPLY",
	OP_DIVIDE:        "OP_DIVIDE",
	OP_NOT:           "OP_NOT",
	OP_NEGATE:        "OP_NEGATE",
	OP_PRINT:         "OP_PRINT",
	OP_JUMP:          "OP_JUMP",
	OP_JUMP_IF_FALSE: "OP_JUMP_IF_FALSE",
	OP_LOOP:          "OP_LOOP",
	OP_RETURN:        "OP_RETURN",
}

func (op OpCode) String() string {
	if op < opcodeMax {
		return opcodeNames[op]
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// OperandWidth is the number of operand bytes that follow op in the code
// stream: 0, 1 (a constant/slot/name index) or 2 (a big-endian jump offset).
func (op OpCode) OperandWidth() int {
	switch op {
	case OP_CONSTANT, OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_GLOBAL, OP_DEFINE_GLOBAL, OP_SET_GLOBAL:
		return 1
	case OP_JUMP, OP_JUMP_IF_FALSE, OP_LOOP:
		return 2
	default:
		return 0
	}
}

// IsJump reports whether op is one of the three jump-family instructions
// whose operand is a backpatchable offset rather than a pool/slot index.
func (op OpCode) IsJump() bool {
	return op == OP_JUMP || op == OP_JUMP_IF_FALSE || op == OP_LOOP
}
