// Package compiler implements SIMPL's single-pass parser/compiler: a Pratt
// expression parser that emits bytecode directly into a lang/chunk.Chunk as
// it recognizes each production, with no intermediate syntax tree. Local
// variable slots are resolved at compile time by walking a shadow stack of
// declared names; globals are left to be resolved by name at run time via
// lang/table.
package compiler

import (
	"strconv"

	"simpl/lang/chunk"
	"simpl/lang/table"
	"simpl/lang/token"
	"simpl/lang/value"
)

// maxLocals is the default ceiling on how many locals may be in scope at
// once, since local slots are addressed by a single operand byte; callers
// may lower it (never raise it past 256) via WithMaxLocals.
const maxLocals = 256

// Local is one entry in the compiler's shadow stack of in-scope locals.
// Depth is -1 between declaration and definition, marking a local whose
// own initializer is still being compiled (so "var a = a;" resolves the
// right-hand a to an enclosing local, never to itself, and is a compile
// error when no enclosing local binds a).
type Local struct {
	Name  token.Token
	Depth int
}

// Compiler compiles one source buffer into one Chunk. It is not reentrant
// across sources; construct a fresh Compiler per Compile call.
type Compiler struct {
	parser *Parser
	chunk  *chunk.Chunk
	intern *table.Interner

	locals     []Local
	localCount int
	scopeDepth int
}

// Option configures a Compile call's resource limits. Passing no options
// leaves the defaults (256) in place.
type Option func(*Compiler)

// WithMaxLocals lowers the number of local-variable slots a single Compile
// call may use below the default of 256, the internal/config.Config knob
// an embedding CLI exposes as SIMPL_MAX_LOCALS. n above 256 is clamped to
// 256, since local slots are addressed by a single operand byte.
func WithMaxLocals(n int) Option {
	return func(c *Compiler) {
		if n <= 0 || n > maxLocals {
			n = maxLocals
		}
		c.locals = make([]Local, n)
	}
}

// Compile parses and compiles src, interning every string and identifier
// literal through intern, and returns the resulting Chunk. If any
// diagnostics were recorded, it returns them as a non-nil ErrorList
// alongside a partially built (and unsafe to run) Chunk.
func Compile(src string, intern *table.Interner, opts ...Option) (*chunk.Chunk, error) {
	c := &Compiler{
		parser: newParser(src),
		chunk:  chunk.New(),
		intern: intern,
		locals: make([]Local, maxLocals),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser.advance()

	for !c.parser.match(token.EOF) {
		c.declaration()
	}

	c.emitReturn()

	if c.parser.hadError {
		return c.chunk, c.parser.errors
	}
	return c.chunk, nil
}

// --- emission helpers ---

func (c *Compiler) emitByte(b byte) {
	c.chunk.WriteByte(b, c.parser.previous.Line)
}

func (c *Compiler) emitOp(op chunk.OpCode) {
	c.chunk.WriteOpCode(op, c.parser.previous.Line)
}

func (c *Compiler) emitOpByte(op chunk.OpCode, operand byte) {
	c.emitOp(op)
	c.emitByte(operand)
}

func (c *Compiler) emitReturn() {
	c.emitOp(chunk.OP_RETURN)
}

func (c *Compiler) emitConstant(v value.Value) {
	idx, err := c.chunk.AddConstant(v)
	if err != nil {
		c.parser.error("Too many constants in one chunk.")
		return
	}
	c.emitOpByte(chunk.OP_CONSTANT, byte(idx))
}

// emitJump writes the jump opcode and a placeholder two-byte operand,
// returning the offset to later pass to patchJump.
func (c *Compiler) emitJump(op chunk.OpCode) int {
	c.emitOp(op)
	return c.chunk.WriteShort(0xFFFF, c.parser.previous.Line)
}

// patchJump rewrites the operand at offset so the jump lands just after the
// instruction stream currently emitted.
func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk.Code) - (offset + 2)
	if jump > 0xFFFF {
		c.parser.error("Too much to jump over.")
		return
	}
	c.chunk.PatchShort(offset, uint16(jump))
}

// emitLoop emits OP_LOOP with a backward offset to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(chunk.OP_LOOP)
	offset := len(c.chunk.Code) - loopStart + 2
	if offset > 0xFFFF {
		c.parser.error("Loop body too large.")
		return
	}
	c.chunk.WriteShort(uint16(offset), c.parser.previous.Line)
}

// --- scopes ---

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

// endScope pops every local declared in the scope being left, emitting one
// OP_POP per slot so the stack is exactly as deep leaving the scope as it
// was entering it.
func (c *Compiler) endScope() {
	c.scopeDepth--
	for c.localCount > 0 && c.locals[c.localCount-1].Depth > c.scopeDepth {
		c.emitOp(chunk.OP_POP)
		c.localCount--
	}
}

// --- declarations & statements ---

func (c *Compiler) declaration() {
	if c.parser.match(token.VAR) {
		c.varDeclaration()
	} else {
		c.statement()
	}

	if c.parser.panicMode {
		c.parser.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	slot := c.parseVariable("Expect variable name.")

	if c.parser.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(chunk.OP_NIL)
	}
	c.parser.consume(token.SEMICOLON, "Expect ';' after variable declaration.")

	c.defineVariable(slot)
}

// parseVariable consumes an identifier, declares it as a local if inside a
// scope, and otherwise interns its name for a later *_GLOBAL instruction.
// It returns the constant-pool index of the interned name; the value is
// meaningless for a local (defineVariable ignores it in that case).
func (c *Compiler) parseVariable(msg string) byte {
	c.parser.consume(token.IDENTIFIER, msg)

	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}

	return c.identifierConstant(c.parser.previous)
}

func (c *Compiler) identifierConstant(name token.Token) byte {
	obj := c.intern.Intern(name.Lexeme)
	idx, err := c.chunk.AddConstant(value.FromObject(obj))
	if err != nil {
		c.parser.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

// declareVariable records a local in the current scope. It rejects
// redeclaring a name already bound in the same scope, but shadowing a name
// from an enclosing scope is allowed.
func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.parser.previous

	for i := c.localCount - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.Depth != -1 && local.Depth < c.scopeDepth {
			break
		}
		if local.Name.Lexeme == name.Lexeme {
			c.parser.error("Already a variable with this name in this scope.")
		}
	}

	c.addLocal(name)
}

func (c *Compiler) addLocal(name token.Token) {
	if c.localCount == len(c.locals) {
		c.parser.error("Too many local variables in function.")
		return
	}
	c.locals[c.localCount] = Local{Name: name, Depth: -1}
	c.localCount++
}

// defineVariable marks the most recently declared local as initialized, or
// for a global emits OP_DEFINE_GLOBAL with the interned name at slot.
func (c *Compiler) defineVariable(slot byte) {
	if c.scopeDepth > 0 {
		c.locals[c.localCount-1].Depth = c.scopeDepth
		return
	}
	c.emitOpByte(chunk.OP_DEFINE_GLOBAL, slot)
}

// resolveLocal returns the stack slot of name in the innermost enclosing
// scope, or -1 if no local binds it (meaning it must be a global). A local
// whose Depth is still -1 is the one currently being initialized: it is
// skipped, so a shadowing declaration's initializer reads the enclosing
// binding ("var x = x + 1;" inside a block sees the outer x). If skipping
// it leaves no local binding the name at all, the initializer can only be
// naming the declaration itself, which is an error.
func (c *Compiler) resolveLocal(name token.Token) int {
	inOwnInitializer := false
	for i := c.localCount - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.Name.Lexeme == name.Lexeme {
			if local.Depth == -1 {
				inOwnInitializer = true
				continue
			}
			return i
		}
	}
	if inOwnInitializer {
		c.parser.error("Can't read local variable in its own initializer.")
	}
	return -1
}

func (c *Compiler) statement() {
	switch {
	case c.parser.match(token.PRINT):
		c.printStatement()
	case c.parser.match(token.IF):
		c.ifStatement()
	case c.parser.match(token.WHILE):
		c.whileStatement()
	case c.parser.match(token.FOR):
		c.forStatement()
	case c.parser.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.parser.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitOp(chunk.OP_PRINT)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.parser.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(chunk.OP_POP)
}

func (c *Compiler) block() {
	for !c.parser.check(token.RIGHT_BRACE) && !c.parser.check(token.EOF) {
		c.declaration()
	}
	c.parser.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

func (c *Compiler) ifStatement() {
	c.parser.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.parser.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(chunk.OP_JUMP_IF_FALSE)
	c.emitOp(chunk.OP_POP)
	c.statement()

	elseJump := c.emitJump(chunk.OP_JUMP)
	c.patchJump(thenJump)
	c.emitOp(chunk.OP_POP)

	if c.parser.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk.Code)
	c.parser.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.parser.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(chunk.OP_JUMP_IF_FALSE)
	c.emitOp(chunk.OP_POP)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(chunk.OP_POP)
}

// forStatement desugars entirely into the jump/loop primitives already
// emitted above: there is no OP_FOR, the whole statement is compiled away
// at parse time.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.parser.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case c.parser.match(token.SEMICOLON):
		// no initializer
	case c.parser.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk.Code)
	exitJump := -1
	if !c.parser.check(token.SEMICOLON) {
		c.expression()
		c.parser.consume(token.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = c.emitJump(chunk.OP_JUMP_IF_FALSE)
		c.emitOp(chunk.OP_POP)
	} else {
		c.parser.advance()
	}

	if !c.parser.check(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(chunk.OP_JUMP)

		incrementStart := len(c.chunk.Code)
		c.expression()
		c.emitOp(chunk.OP_POP)
		c.parser.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	} else {
		c.parser.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(chunk.OP_POP)
	}

	c.endScope()
}

// --- expressions ---

func (c *Compiler) expression() {
	c.parsePrecedence(PREC_ASSIGNMENT)
}

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.parser.advance()
	prefixRule := getRule(c.parser.previous.Kind).prefix
	if prefixRule == nil {
		c.parser.error("Expect expression.")
		return
	}

	canAssign := prec <= PREC_ASSIGNMENT
	prefixRule(c, canAssign)

	for prec <= getRule(c.parser.current.Kind).prec {
		c.parser.advance()
		infixRule := getRule(c.parser.previous.Kind).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.parser.match(token.EQUAL) {
		c.parser.error("Invalid assignment target.")
	}
}

func number(c *Compiler, _ bool) {
	n, err := strconv.ParseFloat(c.parser.previous.Lexeme, 64)
	if err != nil {
		c.parser.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.Number(n))
}

// strLit strips the surrounding quotes the lexer kept on the lexeme before
// interning the contents.
func strLit(c *Compiler, _ bool) {
	lexeme := c.parser.previous.Lexeme
	s := lexeme[1 : len(lexeme)-1]
	obj := c.intern.Intern(s)
	c.emitConstant(value.FromObject(obj))
}

func literal(c *Compiler, _ bool) {
	switch c.parser.previous.Kind {
	case token.FALSE:
		c.emitOp(chunk.OP_FALSE)
	case token.NIL:
		c.emitOp(chunk.OP_NIL)
	case token.TRUE:
		c.emitOp(chunk.OP_TRUE)
	}
}

func grouping(c *Compiler, _ bool) {
	c.expression()
	c.parser.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func unary(c *Compiler, _ bool) {
	opKind := c.parser.previous.Kind

	c.parsePrecedence(PREC_UNARY)

	switch opKind {
	case token.BANG:
		c.emitOp(chunk.OP_NOT)
	case token.MINUS:
		c.emitOp(chunk.OP_NEGATE)
	}
}

func binary(c *Compiler, _ bool) {
	opKind := c.parser.previous.Kind
	rule := getRule(opKind)
	c.parsePrecedence(rule.prec + 1)

	switch opKind {
	case token.BANG_EQUAL:
		c.emitOp(chunk.OP_EQUAL)
		c.emitOp(chunk.OP_NOT)
	case token.EQUAL_EQUAL:
		c.emitOp(chunk.OP_EQUAL)
	case token.GREATER:
		c.emitOp(chunk.OP_GREATER)
	case token.GREATER_EQUAL:
		c.emitOp(chunk.OP_LESS)
		c.emitOp(chunk.OP_NOT)
	case token.LESS:
		c.emitOp(chunk.OP_LESS)
	case token.LESS_EQUAL:
		c.emitOp(chunk.OP_GREATER)
		c.emitOp(chunk.OP_NOT)
	case token.PLUS:
		c.emitOp(chunk.OP_ADD)
	case token.MINUS:
		c.emitOp(chunk.OP_SUBTRACT)
	case token.STAR:
		c.emitOp(chunk.OP_MULTIPLY)
	case token.SLASH:
		c.emitOp(chunk.OP_DIVIDE)
	}
}

// and_ short-circuits: if the left operand is falsey it jumps over the
// right operand entirely, leaving the left value as the result.
func and_(c *Compiler, _ bool) {
	endJump := c.emitJump(chunk.OP_JUMP_IF_FALSE)
	c.emitOp(chunk.OP_POP)
	c.parsePrecedence(PREC_AND)
	c.patchJump(endJump)
}

// or_ short-circuits the opposite way: if the left operand is truthy it
// jumps over the right operand.
func or_(c *Compiler, _ bool) {
	elseJump := c.emitJump(chunk.OP_JUMP_IF_FALSE)
	endJump := c.emitJump(chunk.OP_JUMP)

	c.patchJump(elseJump)
	c.emitOp(chunk.OP_POP)

	c.parsePrecedence(PREC_OR)
	c.patchJump(endJump)
}

func variable(c *Compiler, canAssign bool) {
	c.namedVariable(c.parser.previous, canAssign)
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp chunk.OpCode
	slot := c.resolveLocal(name)
	if slot != -1 {
		getOp, setOp = chunk.OP_GET_LOCAL, chunk.OP_SET_LOCAL
	} else {
		slot = int(c.identifierConstant(name))
		getOp, setOp = chunk.OP_GET_GLOBAL, chunk.OP_SET_GLOBAL
	}

	if canAssign && c.parser.match(token.EQUAL) {
		c.expression()
		c.emitOpByte(setOp, byte(slot))
	} else {
		c.emitOpByte(getOp, byte(slot))
	}
}
