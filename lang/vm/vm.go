// Package vm implements the stack-based bytecode interpreter: it walks a
// lang/chunk.Chunk one instruction at a time, maintaining an operand stack
// and a table of global variables, and reports runtime errors with the
// source line the failing instruction was compiled from.
package vm

import (
	"fmt"
	"io"

	"simpl/lang/chunk"
	"simpl/lang/compiler"
	"simpl/lang/debug"
	"simpl/lang/table"
	"simpl/lang/value"
)

// StackMax is the default largest number of Values the operand stack may
// hold at once. It also bounds how deep local variable slots can nest,
// since locals live at the bottom of the same stack; a caller may lower it
// (never raise it past 256, since stack slots are addressed by a single
// operand byte) via WithStackSize.
const StackMax = 256

// InterpretResult classifies how an Interpret call ended: OK, compile
// error, or runtime error.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// RuntimeError is a failure raised while executing bytecode, carrying the
// source line of the instruction that failed.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in script", e.Message, e.Line)
}

// VM executes one Chunk at a time against a persistent set of globals and
// a persistent string interner, so a REPL can run several chunks back to
// back and have later lines see earlier ones' global variables.
type VM struct {
	Stdout io.Writer

	globals *table.Table
	intern  *table.Interner

	stack []value.Value
	sp    int
	chunk *chunk.Chunk
	ip    int

	maxLocals int

	trace       bool
	traceOutput io.Writer
}

// Option configures optional VM behavior not needed by every caller.
type Option func(*VM)

// WithTrace makes the VM disassemble each instruction to w immediately
// before executing it, the config.Config.TraceExecution knob's effect.
func WithTrace(w io.Writer) Option {
	return func(vm *VM) {
		vm.trace = true
		vm.traceOutput = w
	}
}

// WithStackSize lowers the operand stack below the default of 256 Values,
// the internal/config.Config knob an embedding CLI exposes as
// SIMPL_STACK_SIZE. n above 256 (or non-positive) is clamped to 256, since
// stack slots are addressed by a single operand byte.
func WithStackSize(n int) Option {
	return func(vm *VM) {
		if n <= 0 || n > StackMax {
			n = StackMax
		}
		vm.stack = make([]value.Value, n)
	}
}

// WithMaxLocals lowers the number of local-variable slots a compiled chunk
// may use below the default of 256, threaded into every Compile call this
// VM makes. n above 256 (or non-positive) is clamped to 256.
func WithMaxLocals(n int) Option {
	return func(vm *VM) {
		if n <= 0 || n > StackMax {
			n = StackMax
		}
		vm.maxLocals = n
	}
}

// New returns a VM with empty globals and an empty intern table, printing
// to stdout.
func New(stdout io.Writer, opts ...Option) *VM {
	vm := &VM{
		Stdout:    stdout,
		globals:   table.New(),
		intern:    table.NewInterner(),
		stack:     make([]value.Value, StackMax),
		maxLocals: StackMax,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Interner exposes the VM's string pool so a caller embedding the VM (the
// REPL driver, tests) can intern identifiers the same way the compiler
// does.
func (vm *VM) Interner() *table.Interner { return vm.intern }

// Interpret compiles src and, if compilation succeeds, runs the resulting
// chunk against this VM's existing globals and interner.
func (vm *VM) Interpret(src string) (InterpretResult, error) {
	c, err := compiler.Compile(src, vm.intern, compiler.WithMaxLocals(vm.maxLocals))
	if err != nil {
		return InterpretCompileError, err
	}
	return vm.run(c)
}

func (vm *VM) push(v value.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) resetStack() {
	vm.sp = 0
}

func (vm *VM) line() int {
	if vm.ip == 0 {
		return vm.chunk.Lines[0]
	}
	return vm.chunk.Lines[vm.ip-1]
}

func (vm *VM) runtimeError(format string, args ...any) error {
	err := &RuntimeError{Line: vm.line(), Message: fmt.Sprintf(format, args...)}
	vm.resetStack()
	return err
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readShort() uint16 {
	hi := vm.chunk.Code[vm.ip]
	lo := vm.chunk.Code[vm.ip+1]
	vm.ip += 2
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

// run executes c's instructions to completion or until a runtime error,
// growing or shrinking the operand stack one opcode at a time.
func (vm *VM) run(c *chunk.Chunk) (InterpretResult, error) {
	vm.chunk = c
	vm.ip = 0

	for {
		if vm.trace {
			debug.DisassembleInstruction(vm.traceOutput, c, vm.ip)
		}
		op := chunk.OpCode(vm.readByte())

		switch op {
		case chunk.OP_CONSTANT:
			vm.push(vm.readConstant())

		case chunk.OP_NIL:
			vm.push(value.Nil)

		case chunk.OP_TRUE:
			vm.push(value.Bool(true))

		case chunk.OP_FALSE:
			vm.push(value.Bool(false))

		case chunk.OP_POP:
			vm.pop()

		case chunk.OP_GET_LOCAL:
			slot := vm.readByte()
			vm.push(vm.stack[slot])

		case chunk.OP_SET_LOCAL:
			slot := vm.readByte()
			vm.stack[slot] = vm.peek(0)

		case chunk.OP_GET_GLOBAL:
			name := vm.readConstant().AsObject()
			v, ok := vm.globals.Get(name)
			if !ok {
				return InterpretRuntimeError, vm.runtimeError("Undefined variable '%s'.", name.Str)
			}
			vm.push(v)

		case chunk.OP_DEFINE_GLOBAL:
			name := vm.readConstant().AsObject()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case chunk.OP_SET_GLOBAL:
			name := vm.readConstant().AsObject()
			if didInsert := vm.globals.Set(name, vm.peek(0)); didInsert {
				vm.globals.Delete(name)
				return InterpretRuntimeError, vm.runtimeError("Undefined variable '%s'.", name.Str)
			}

		case chunk.OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))

		case chunk.OP_GREATER, chunk.OP_LESS:
			res, err := vm.numericCompare(op)
			if err != nil {
				return InterpretRuntimeError, err
			}
			vm.push(res)

		case chunk.OP_ADD:
			if err := vm.add(); err != nil {
				return InterpretRuntimeError, err
			}

		case chunk.OP_SUBTRACT, chunk.OP_MULTIPLY, chunk.OP_DIVIDE:
			if err := vm.arith(op); err != nil {
				return InterpretRuntimeError, err
			}

		case chunk.OP_NOT:
			vm.push(value.Bool(vm.pop().IsFalsey()))

		case chunk.OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				return InterpretRuntimeError, vm.runtimeError("Operand must be a number.")
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case chunk.OP_PRINT:
			fmt.Fprintln(vm.Stdout, vm.pop().String())

		case chunk.OP_JUMP:
			offset := vm.readShort()
			vm.ip += int(offset)

		case chunk.OP_JUMP_IF_FALSE:
			offset := vm.readShort()
			if vm.peek(0).IsFalsey() {
				vm.ip += int(offset)
			}

		case chunk.OP_LOOP:
			offset := vm.readShort()
			vm.ip -= int(offset)

		case chunk.OP_RETURN:
			return InterpretOK, nil

		default:
			return InterpretRuntimeError, vm.runtimeError("Unknown opcode %d.", op)
		}
	}
}

// numericCompare implements OP_GREATER and OP_LESS, the only two
// comparisons emitted directly; >= and <= are synthesized by the compiler
// from these plus OP_NOT.
func (vm *VM) numericCompare(op chunk.OpCode) (value.Value, error) {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return value.Nil, vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	if op == chunk.OP_GREATER {
		return value.Bool(a > b), nil
	}
	return value.Bool(a < b), nil
}

// add implements SIMPL's one overloaded operator: number+number adds,
// string+string concatenates (via the interner, so the result stays
// eligible for pointer-identity equality), any other combination is a
// runtime error.
func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)

	switch {
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(value.Number(a.AsNumber() + b.AsNumber()))
		return nil
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		obj := vm.intern.Intern(a.AsString() + b.AsString())
		vm.push(value.FromObject(obj))
		return nil
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) arith(op chunk.OpCode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()

	var result float64
	switch op {
	case chunk.OP_SUBTRACT:
		result = a - b
	case chunk.OP_MULTIPLY:
		result = a * b
	case chunk.OP_DIVIDE:
		result = a / b
	}
	vm.push(value.Number(result))
	return nil
}
