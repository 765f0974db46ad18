package compiler

import (
	"github.com/mna/nenuphar-lox/lang/token"
	"github.com/mna/nenuphar-lox/lang/value"
)

func (c *compiler) expression() { c.parsePrecedence(precAssignment) }

// parsePrecedence is the heart of the Pratt parser: it consumes one prefix
// expression and then, as long as the next token's infix precedence is at
// least minPrec, consumes it as an infix operator continuing the
// expression. This single loop implements every level of the grammar's
// expression hierarchy without one recursive-descent function per
// precedence level.
func (c *compiler) parsePrecedence(minPrec precedence) {
	c.advance()
	prefix := rule(c.previous().Kind).prefix
	if prefix == nil {
		c.errorAtPrevious("expect expression")
		return
	}
	canAssign := minPrec <= precAssignment
	prefix(c, canAssign)

	for minPrec <= rule(c.peek().Kind).precedence {
		c.advance()
		infix := rule(c.previous().Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.errorAtPrevious("invalid assignment target")
	}
}

func (c *compiler) number(_ bool) {
	f := c.previous().Literal.(float64)
	c.emitConstant(value.Number(f))
}

func (c *compiler) string(_ bool) {
	lit := c.previous().Literal.(string)
	c.emitConstant(c.pool.Intern(c.heap, lit))
}

func (c *compiler) literal(_ bool) {
	switch c.previous().Kind {
	case token.FALSE:
		c.emitOp(value.OpFalse)
	case token.TRUE:
		c.emitOp(value.OpTrue)
	case token.NIL:
		c.emitOp(value.OpNil)
	}
}

func (c *compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "expect ')' after expression")
}

func (c *compiler) unary(_ bool) {
	opType := c.previous().Kind
	c.parsePrecedence(precUnary)
	switch opType {
	case token.MINUS:
		c.emitOp(value.OpNegate)
	case token.BANG:
		c.emitOp(value.OpNot)
	}
}

func (c *compiler) binary(_ bool) {
	opType := c.previous().Kind
	r := rule(opType)
	c.parsePrecedence(r.precedence.next())

	switch opType {
	case token.BANG_EQUAL:
		c.emitOp(value.OpEqual)
		c.emitOp(value.OpNot)
	case token.EQUAL_EQUAL:
		c.emitOp(value.OpEqual)
	case token.GREATER:
		c.emitOp(value.OpGreater)
	case token.GREATER_EQUAL:
		c.emitOp(value.OpLess)
		c.emitOp(value.OpNot)
	case token.LESS:
		c.emitOp(value.OpLess)
	case token.LESS_EQUAL:
		c.emitOp(value.OpGreater)
		c.emitOp(value.OpNot)
	case token.PLUS:
		c.emitOp(value.OpAdd)
	case token.MINUS:
		c.emitOp(value.OpSubtract)
	case token.STAR:
		c.emitOp(value.OpMultiply)
	case token.SLASH:
		c.emitOp(value.OpDivide)
	}
}

func (c *compiler) and_(_ bool) {
	endJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func (c *compiler) or_(_ bool) {
	elseJump := c.emitJump(value.OpJumpIfFalse)
	endJump := c.emitJump(value.OpJump)
	c.patchJump(elseJump)
	c.emitOp(value.OpPop)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *compiler) call(_ bool) {
	argc := c.argumentList()
	c.emitOp(value.OpCall)
	c.emitByte(byte(argc))
}

func (c *compiler) argumentList() int {
	argc := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			if argc == maxArity {
				c.errorAtPrevious("can't have more than 255 arguments")
			}
			argc++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "expect ')' after arguments")
	return argc
}

func (c *compiler) variable(canAssign bool) {
	c.namedVariable(c.previous().Lexeme, canAssign)
}

func (c *compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp value.OpCode
	var arg int
	if slot := c.resolveLocal(name); slot != -1 {
		arg, getOp, setOp = slot, value.OpGetLocal, value.OpSetLocal
	} else if idx := c.resolveUpvalue(name); idx != -1 {
		arg, getOp, setOp = idx, value.OpGetUpvalue, value.OpSetUpvalue
	} else {
		arg = c.identifierConstant(name)
		getOp, setOp = value.OpGetGlobal, value.OpSetGlobal
	}

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emitOp(setOp)
		c.emitByte(byte(arg))
		return
	}
	c.emitOp(getOp)
	c.emitByte(byte(arg))
}

// parseVariable consumes an identifier token and, for a global, returns the
// constant-pool index of its interned name; for a local it declares the
// variable and returns 0 (defineVariable ignores the index for locals).
func (c *compiler) parseVariable(errMsg string) int {
	c.consume(token.IDENT, errMsg)
	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous().Lexeme)
}

func (c *compiler) identifierConstant(name string) int {
	return c.makeConstant(c.pool.Intern(c.heap, name))
}

func (c *compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}
	name := c.previous().Lexeme
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name == name {
			c.errorAtPrevious("already a variable with this name in this scope")
		}
	}
	c.addLocal(name)
}

func (c *compiler) addLocal(name string) {
	if len(c.locals) >= maxLocals {
		c.errorAtPrevious("too many local variables in function")
		return
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

func (c *compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

func (c *compiler) defineVariable(global int) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOp(value.OpDefineGlobal)
	c.emitByte(byte(global))
}

func (c *compiler) beginScope() { c.scopeDepth++ }

func (c *compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		if c.locals[len(c.locals)-1].isCaptured {
			c.emitOp(value.OpCloseUpvalue)
		} else {
			c.emitOp(value.OpPop)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}
