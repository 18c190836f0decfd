// Package debug implements the bytecode disassembler: one function walks
// the code stream offset by offset, and a small family of helpers each
// know how to print one operand shape (none, a jump offset, a constant
// pool index, a local slot).
package debug

import (
	"fmt"
	"io"

	"simpl/lang/chunk"
)

// Disassemble writes a human-readable listing of every instruction in c to
// w, headed by name.
func Disassemble(w io.Writer, c *chunk.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = disassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction prints the single instruction at offset, the same
// formatting Disassemble uses for every instruction in a chunk. It is used
// by the VM's trace-execution mode to show each instruction right before
// it runs.
func DisassembleInstruction(w io.Writer, c *chunk.Chunk, offset int) {
	disassembleInstruction(w, c, offset)
}

// disassembleInstruction prints the instruction at offset and returns the
// offset of the next one.
func disassembleInstruction(w io.Writer, c *chunk.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := chunk.OpCode(c.Code[offset])
	switch op.OperandWidth() {
	case 0:
		return simpleInstruction(w, op, offset)
	case 1:
		if isConstantOp(op) {
			return constantInstruction(w, c, op, offset)
		}
		return byteInstruction(w, c, op, offset)
	case 2:
		return jumpInstruction(w, c, op, offset)
	default:
		fmt.Fprintf(w, "%s\n", op)
		return offset + 1
	}
}

func isConstantOp(op chunk.OpCode) bool {
	switch op {
	case chunk.OP_CONSTANT, chunk.OP_GET_GLOBAL, chunk.OP_DEFINE_GLOBAL, chunk.OP_SET_GLOBAL:
		return true
	default:
		return false
	}
}

func simpleInstruction(w io.Writer, op chunk.OpCode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func constantInstruction(w io.Writer, c *chunk.Chunk, op chunk.OpCode, offset int) int {
	constant := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, constant, c.Constants[constant])
	return offset + 2
}

func byteInstruction(w io.Writer, c *chunk.Chunk, op chunk.OpCode, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

// jumpInstruction prints a jump's resolved target offset rather than its
// raw operand, since the raw operand (a distance) is far less useful for
// reading a listing than the absolute offset it lands on. sign is -1 for
// OP_LOOP, which jumps backward.
func jumpInstruction(w io.Writer, c *chunk.Chunk, op chunk.OpCode, offset int) int {
	jump := c.ReadShort(offset + 1)
	sign := 1
	if op == chunk.OP_LOOP {
		sign = -1
	}
	target := offset + 3 + sign*int(jump)
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}
