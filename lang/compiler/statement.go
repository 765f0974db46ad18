package compiler

import (
	"github.com/mna/nenuphar-lox/lang/token"
	"github.com/mna/nenuphar-lox/lang/value"
)

// declaration parses one declaration (a variable or function declaration,
// or any statement), synchronizing past the error if one occurs here.
func (c *compiler) declaration() {
	switch {
	case c.match(token.VAR):
		c.varDeclaration()
	case c.match(token.FUN):
		c.funDeclaration()
	case c.check(token.CLASS), c.check(token.THIS), c.check(token.SUPER):
		// classes, this and super are scanned but have no bytecode
		// implementation; reject them as a compile error rather than
		// attempting to lower them
		c.advance()
		c.errorAtPrevious("classes are not supported")
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *compiler) varDeclaration() {
	global := c.parseVariable("expect variable name")
	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(value.OpNil)
	}
	c.consume(token.SEMICOLON, "expect ';' after variable declaration")
	c.defineVariable(global)
}

func (c *compiler) funDeclaration() {
	global := c.parseVariable("expect function name")
	c.markInitialized()
	c.function(funcFunction)
	c.defineVariable(global)
}

// function compiles the body of a function declaration: its own compiler
// is pushed (with c as enclosing), parameters become its first locals, and
// the resulting prototype is wrapped in an OP_CLOSURE instruction that also
// encodes how to capture its upvalues.
func (c *compiler) function(ft funcType) {
	if c.callDepth() >= maxCallDepth {
		c.errorAtPrevious("function nesting too deep")
	}
	fc := newCompiler(c, ft, c.toks, c.heap, c.pool, c.onError, c.session)
	fc.beginScope()

	fc.consume(token.LEFT_PAREN, "expect '(' after function name")
	if !fc.check(token.RIGHT_PAREN) {
		for {
			if fc.fn.Arity >= maxArity {
				fc.errorAtCurrent("can't have more than 255 parameters")
			}
			fc.fn.Arity++
			slot := fc.parseVariable("expect parameter name")
			fc.defineVariable(slot)
			if !fc.match(token.COMMA) {
				break
			}
		}
	}
	fc.consume(token.RIGHT_PAREN, "expect ')' after parameters")
	fc.consume(token.LEFT_BRACE, "expect '{' before function body")
	fc.block()

	fn := fc.end()
	// the prototype records its upvalue layout so the VM sizes the closure
	// (and the operand-pair read loop) by it
	fn.Upvalues = make([]value.UpvalueDesc, len(fc.upvalues))
	for i, uv := range fc.upvalues {
		fn.Upvalues[i] = value.UpvalueDesc{FromLocal: uv.fromLocal, Index: uv.index}
	}

	idx := c.makeConstant(fn)
	c.emitOp(value.OpClosure)
	c.emitByte(byte(idx))
	for _, uv := range fn.Upvalues {
		c.emitByte(boolByte(uv.FromLocal))
		c.emitByte(byte(uv.Index))
	}
}

func (c *compiler) callDepth() int {
	depth := 0
	for cc := c; cc != nil; cc = cc.enclosing {
		depth++
	}
	return depth
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (c *compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "expect ';' after value")
	c.emitOp(value.OpPrint)
}

func (c *compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "expect ';' after expression")
	c.emitOp(value.OpPop)
}

func (c *compiler) returnStatement() {
	if c.fnType == funcScript {
		c.errorAtPrevious("can't return from top-level code")
	}
	if c.match(token.SEMICOLON) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(token.SEMICOLON, "expect ';' after return value")
	c.emitOp(value.OpReturn)
}

func (c *compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "expect '}' after block")
}

func (c *compiler) ifStatement() {
	c.consume(token.LEFT_PAREN, "expect '(' after 'if'")
	c.expression()
	c.consume(token.RIGHT_PAREN, "expect ')' after condition")

	thenJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.statement()

	elseJump := c.emitJump(value.OpJump)
	c.patchJump(thenJump)
	c.emitOp(value.OpPop)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *compiler) whileStatement() {
	loopStart := c.chunk().Len()
	c.consume(token.LEFT_PAREN, "expect '(' after 'while'")
	c.expression()
	c.consume(token.RIGHT_PAREN, "expect ')' after condition")

	exitJump := c.emitJump(value.OpJumpIfFalse)
	c.emitOp(value.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(value.OpPop)
}

func (c *compiler) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "expect '(' after 'for'")

	switch {
	case c.match(token.SEMICOLON):
		// no initializer
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.chunk().Len()
	exitJump := -1
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "expect ';' after loop condition")
		exitJump = c.emitJump(value.OpJumpIfFalse)
		c.emitOp(value.OpPop)
	}

	if !c.check(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(value.OpJump)
		incrStart := c.chunk().Len()
		c.expression()
		c.emitOp(value.OpPop)
		c.consume(token.RIGHT_PAREN, "expect ')' after for clauses")

		c.emitLoop(loopStart)
		loopStart = incrStart
		c.patchJump(bodyJump)
	} else {
		c.consume(token.RIGHT_PAREN, "expect ')' after for clauses")
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(value.OpPop)
	}
	c.endScope()
}
