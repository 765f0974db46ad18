// Package compiler implements a single-pass compiler: parsing and code
// generation happen together, with no intermediate syntax tree ever
// materialized.
package compiler

import (
	"fmt"

	"github.com/mna/nenuphar-lox/lang/token"
	"github.com/mna/nenuphar-lox/lang/value"
)

// maxArity is the limit imposed by the one-byte OP_CALL operand.
const maxArity = 255

// maxCallDepth bounds nested function-declaration compilation, matching
// the VM's own call-depth limit.
const maxCallDepth = 128

// compiler holds all state needed to compile one function body (the
// top-level script is the outermost function). Nested function
// declarations push a new compiler that points back at its enclosing one
// through the enclosing field; the chain is only ever walked outward, for
// upvalue resolution and root marking.
type compiler struct {
	heap *value.Heap
	pool *value.StringPool

	toks []token.Tok
	cur  int // index of the token not yet consumed
	prev int // index of the most recently consumed token

	fn        *value.Function
	fnType    funcType
	enclosing *compiler

	locals     []local
	upvalues   []upvalueDesc
	scopeDepth int

	hadError  bool
	panicMode bool
	onError   func(line int, msg string)

	// session is shared by every compiler in one Compile call so the root
	// callback registered with the heap can always find the innermost
	// (currently active) compiler, even though enclosing pointers only run
	// outward.
	session *session
}

type session struct {
	active *compiler
}

type funcType int

const (
	funcScript funcType = iota
	funcFunction
)

// Compile compiles the whole token stream (as produced by the scanner,
// ending in a token.EOF) into a top-level *value.Function representing the
// script. onError is called for every parse/compile error encountered;
// compilation always runs to completion (panic-mode recovery), and the
// caller should check the returned bool before executing the result.
func Compile(toks []token.Tok, heap *value.Heap, pool *value.StringPool, onError func(line int, msg string)) (*value.Function, bool) {
	sess := &session{}
	c := newCompiler(nil, funcScript, toks, heap, pool, onError, sess)

	heap.RegisterRoot(func(mark func(value.Value)) {
		if sess.active != nil {
			sess.active.markRoots(mark)
		}
	})
	defer heap.DeregisterRoot()

	for !c.check(token.EOF) {
		c.declaration()
	}
	fn := c.end()
	return fn, !c.hadError
}

func newCompiler(enclosing *compiler, ft funcType, toks []token.Tok, heap *value.Heap, pool *value.StringPool, onError func(int, string), sess *session) *compiler {
	c := &compiler{
		heap:      heap,
		pool:      pool,
		toks:      toks,
		fnType:    ft,
		enclosing: enclosing,
		onError:   onError,
		session:   sess,
	}
	if enclosing != nil {
		c.cur = enclosing.cur
		c.prev = enclosing.prev
		c.hadError = enclosing.hadError
	}
	sess.active = c
	// allocate the function before interning its name: the compiler's root
	// callback keeps c.fn alive across the Intern allocation, but nothing
	// would keep a name-first string alive across NewFunction
	c.fn = value.NewFunction(heap, nil, 0)
	if ft == funcFunction {
		c.fn.Name = pool.Intern(heap, c.toks[c.prev].Lexeme)
	}
	// Slot 0 of every call frame is reserved for the callee itself, so every
	// function starts with one unnamed, already-ready local occupying it.
	c.locals = append(c.locals, local{name: "", depth: 0})
	return c
}

// end finalizes the function being compiled: emits an implicit `return nil`
// fallthrough and, if this is a nested function, hands parsing position
// back to the enclosing compiler.
func (c *compiler) end() *value.Function {
	c.emitReturn()
	if c.enclosing != nil {
		c.enclosing.cur = c.cur
		c.enclosing.prev = c.prev
		c.enclosing.hadError = c.enclosing.hadError || c.hadError
	}
	c.session.active = c.enclosing
	return c.fn
}

func (c *compiler) chunk() *value.Chunk { return &c.fn.Chunk }

// --- token cursor --------------------------------------------------------

func (c *compiler) peek() token.Tok     { return c.toks[c.cur] }
func (c *compiler) previous() token.Tok { return c.toks[c.prev] }

func (c *compiler) advance() token.Tok {
	c.prev = c.cur
	if c.cur < len(c.toks)-1 {
		c.cur++
	}
	return c.toks[c.prev]
}

func (c *compiler) check(k token.Token) bool { return c.peek().Kind == k }

func (c *compiler) match(k token.Token) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *compiler) consume(k token.Token, msg string) {
	if c.check(k) {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

// --- error handling --------------------------------------------------------

func (c *compiler) errorAtCurrent(msg string)  { c.errorAt(c.peek(), msg) }
func (c *compiler) errorAtPrevious(msg string) { c.errorAt(c.previous(), msg) }

func (c *compiler) errorAt(tok token.Tok, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	if c.onError == nil {
		return
	}
	if tok.Kind == token.EOF {
		c.onError(tok.Line, fmt.Sprintf("at end: %s", msg))
	} else {
		c.onError(tok.Line, fmt.Sprintf("at '%s': %s", tok.Lexeme, msg))
	}
}

// synchronize skips tokens until it reaches what looks like the start of a
// new statement, so one error reports once instead of cascading.
func (c *compiler) synchronize() {
	c.panicMode = false
	for !c.check(token.EOF) {
		if c.previous().Kind == token.SEMICOLON {
			return
		}
		switch c.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}
