package compiler

import (
	"fmt"

	"simpl/lang/lexer"
	"simpl/lang/token"
)

// Parser drives the lexer one token of lookahead at a time. It never stops
// at the first error: errorAt records a diagnostic and enters panic mode,
// which suppresses further diagnostics until synchronize finds a statement
// boundary to resume at.
type Parser struct {
	lex *lexer.Lexer

	current  token.Token
	previous token.Token

	errors    ErrorList
	hadError  bool
	panicMode bool
}

func newParser(src string) *Parser {
	return &Parser{lex: lexer.New(src)}
}

// advance pulls the next non-error token from the lexer into current,
// reporting every ERR token the lexer produces along the way.
func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.NextToken()
		if p.current.Kind != token.ERR {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

// check reports whether current is of the given kind, without consuming it.
func (p *Parser) check(kind token.Kind) bool {
	return p.current.Kind == kind
}

// match consumes current and returns true if it is of the given kind,
// otherwise leaves current untouched and returns false.
func (p *Parser) match(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

// consume requires current to be of the given kind, advancing past it; if
// it is not, it reports msg at the current token's position.
func (p *Parser) consume(kind token.Kind, msg string) {
	if p.current.Kind == kind {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *Parser) errorAtCurrent(msg string) {
	p.errorAt(p.current, msg)
}

func (p *Parser) error(msg string) {
	p.errorAt(p.previous, msg)
}

// errorAt formats and records a diagnostic for tok, then enters panic mode.
// Diagnostics raised while already in panic mode are dropped: they are
// almost always noise cascading from the first real error.
func (p *Parser) errorAt(tok token.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	var where string
	switch tok.Kind {
	case token.EOF:
		where = "end"
	case token.ERR:
		where = ""
	default:
		where = fmt.Sprintf("'%s'", tok.Lexeme)
	}

	var formatted string
	if where == "" {
		formatted = fmt.Sprintf("[line %d] Error: %s", tok.Line, msg)
	} else {
		formatted = fmt.Sprintf("[line %d] Error at %s: %s", tok.Line, where, msg)
	}
	p.errors = append(p.errors, &CompileError{Line: tok.Line, Formatted: formatted})
}

// synchronize skips tokens until it finds one that plausibly starts a new
// statement, so one error does not cascade into a wall of misleading
// follow-on errors.
func (p *Parser) synchronize() {
	p.panicMode = false

	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.SEMICOLON {
			return
		}
		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
