package compiler

import "github.com/mna/nenuphar-lox/lang/value"

// maxJump is the limit imposed by the two-byte jump operand.
const maxJump = 1 << 16

func (c *compiler) emitByte(b byte) int {
	return c.chunk().Write(b, c.previous().Line)
}

func (c *compiler) emitOp(op value.OpCode) int {
	return c.chunk().WriteOp(op, c.previous().Line)
}

// maxConstants is the highest constant-pool index a one-byte operand can
// address.
const maxConstants = 255

// makeConstant adds v to the current chunk's constant pool, reporting a
// compile error if the pool outgrows what a one-byte operand can index.
func (c *compiler) makeConstant(v value.Value) int {
	idx := c.chunk().AddConstant(v)
	if idx > maxConstants {
		c.errorAtPrevious("too many constants in one chunk")
		return 0
	}
	return idx
}

func (c *compiler) emitConstant(v value.Value) {
	idx := c.makeConstant(v)
	c.emitOp(value.OpConstant)
	c.emitByte(byte(idx))
}

// emitJump writes a jump instruction with a placeholder two-byte operand
// and returns the offset of its first operand byte, to be fixed up later
// by patchJump once the jump target is known.
func (c *compiler) emitJump(op value.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.chunk().Len() - 2
}

// patchJump backpatches the jump instruction at offset so that it lands on
// the instruction about to be emitted next.
func (c *compiler) patchJump(offset int) {
	jump := c.chunk().Len() - offset - 2
	if jump >= maxJump {
		c.errorAtPrevious("too much code to jump over")
	}
	c.chunk().Code[offset] = byte(jump >> 8)
	c.chunk().Code[offset+1] = byte(jump)
}

// emitLoop emits an OP_LOOP that jumps backward to loopStart.
func (c *compiler) emitLoop(loopStart int) {
	c.emitOp(value.OpLoop)
	offset := c.chunk().Len() - loopStart + 2
	if offset >= maxJump {
		c.errorAtPrevious("loop body too large")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}

func (c *compiler) emitReturn() {
	c.emitOp(value.OpNil)
	c.emitOp(value.OpReturn)
}
