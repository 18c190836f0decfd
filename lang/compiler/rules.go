package compiler

import "simpl/lang/token"

// Precedence orders operators from loosest to tightest binding. Assignment
// is handled by the variable prefix handler rather than an infix entry, so
// the lowest infix precedence in the table is PREC_OR.
type Precedence int

const (
	PREC_NONE       Precedence = iota
	PREC_ASSIGNMENT            // =
	PREC_OR                    // or
	PREC_AND                   // and
	PREC_EQUALITY              // == !=
	PREC_COMPARISON            // < > <= >=
	PREC_TERM                  // + -
	PREC_FACTOR                // * /
	PREC_UNARY                 // ! -
	PREC_CALL
	PREC_PRIMARY
)

// parseFn compiles one grammar production starting at c.parser.previous.
// canAssign gates whether a trailing '=' may be consumed as an assignment
// target, so "a + b = c" correctly fails to parse an assignment.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   Precedence
}

// rules is keyed by token.Kind: a flat array literal indexed by kind beats
// a switch or a map lookup in the hot parsing loop.
var rules [token.NumKinds]parseRule

func init() {
	rules = [token.NumKinds]parseRule{
		token.LEFT_PAREN:    {prefix: grouping},
		token.MINUS:         {prefix: unary, infix: binary, prec: PREC_TERM},
		token.PLUS:          {infix: binary, prec: PREC_TERM},
		token.SLASH:         {infix: binary, prec: PREC_FACTOR},
		token.STAR:          {infix: binary, prec: PREC_FACTOR},
		token.BANG:          {prefix: unary},
		token.BANG_EQUAL:    {infix: binary, prec: PREC_EQUALITY},
		token.EQUAL_EQUAL:   {infix: binary, prec: PREC_EQUALITY},
		token.GREATER:       {infix: binary, prec: PREC_COMPARISON},
		token.GREATER_EQUAL: {infix: binary, prec: PREC_COMPARISON},
		token.LESS:          {infix: binary, prec: PREC_COMPARISON},
		token.LESS_EQUAL:    {infix: binary, prec: PREC_COMPARISON},
		token.IDENTIFIER:    {prefix: variable},
		token.STRING:        {prefix: strLit},
		token.NUMBER:        {prefix: number},
		token.AND:           {infix: and_, prec: PREC_AND},
		token.OR:            {infix: or_, prec: PREC_OR},
		token.FALSE:         {prefix: literal},
		token.NIL:           {prefix: literal},
		token.TRUE:          {prefix: literal},
	}
}

func getRule(kind token.Kind) *parseRule {
	return &rules[kind]
}
