package compiler

import "github.com/mna/nenuphar-lox/lang/token"

// precedence orders binding power from loosest to tightest.
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // ()
	precPrimary
)

func (p precedence) next() precedence { return p + 1 }

// parseFn is a compiler method that consumes a prefix or infix expression;
// canAssign tells it whether the surrounding precedence context permits a
// trailing '=' to be parsed as assignment (so that `a = 1` parses but
// `a + b = 1` reports an error instead of silently discarding the target).
type parseFn func(c *compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// rules maps every token kind to its parsing behavior as both a prefix and
// an infix operator. Indices correspond to token.Token values: each
// (context, token) pair resolves to the function that knows how to emit
// bytecode for an expression starting with, or continuing with, that token.
var rules [int(token.WHILE) + 2]parseRule

func rule(tok token.Token) *parseRule { return &rules[tok] }

func init() {
	rules[token.LEFT_PAREN] = parseRule{prefix: (*compiler).grouping, infix: (*compiler).call, precedence: precCall}
	rules[token.MINUS] = parseRule{prefix: (*compiler).unary, infix: (*compiler).binary, precedence: precTerm}
	rules[token.PLUS] = parseRule{infix: (*compiler).binary, precedence: precTerm}
	rules[token.SLASH] = parseRule{infix: (*compiler).binary, precedence: precFactor}
	rules[token.STAR] = parseRule{infix: (*compiler).binary, precedence: precFactor}
	rules[token.BANG] = parseRule{prefix: (*compiler).unary}
	rules[token.BANG_EQUAL] = parseRule{infix: (*compiler).binary, precedence: precEquality}
	rules[token.EQUAL_EQUAL] = parseRule{infix: (*compiler).binary, precedence: precEquality}
	rules[token.GREATER] = parseRule{infix: (*compiler).binary, precedence: precComparison}
	rules[token.GREATER_EQUAL] = parseRule{infix: (*compiler).binary, precedence: precComparison}
	rules[token.LESS] = parseRule{infix: (*compiler).binary, precedence: precComparison}
	rules[token.LESS_EQUAL] = parseRule{infix: (*compiler).binary, precedence: precComparison}
	rules[token.IDENT] = parseRule{prefix: (*compiler).variable}
	rules[token.STRING] = parseRule{prefix: (*compiler).string}
	rules[token.NUMBER] = parseRule{prefix: (*compiler).number}
	rules[token.AND] = parseRule{infix: (*compiler).and_, precedence: precAnd}
	rules[token.OR] = parseRule{infix: (*compiler).or_, precedence: precOr}
	rules[token.FALSE] = parseRule{prefix: (*compiler).literal}
	rules[token.NIL] = parseRule{prefix: (*compiler).literal}
	rules[token.TRUE] = parseRule{prefix: (*compiler).literal}
}
