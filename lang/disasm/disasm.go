// Package disasm renders a compiled value.Chunk as human-readable
// bytecode listings. It exists purely as a debugging aid and has no
// effect on compilation or execution.
package disasm

import (
	"fmt"
	"io"

	"github.com/mna/nenuphar-lox/lang/value"
)

// Chunk writes a full listing of c to w, labeled name.
func Chunk(w io.Writer, c *value.Chunk, name string) {
	fmt.Fprintf(w, "=== %s ===\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = Instruction(w, c, offset)
	}
}

// Instruction writes one disassembled instruction starting at offset and
// returns the offset of the instruction that follows it.
func Instruction(w io.Writer, c *value.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := value.OpCode(c.Code[offset])
	switch op {
	case value.OpConstant, value.OpGetGlobal, value.OpSetGlobal, value.OpDefineGlobal:
		return constantInstruction(w, op, c, offset)
	case value.OpGetLocal, value.OpSetLocal, value.OpGetUpvalue, value.OpSetUpvalue, value.OpCall, value.OpNoop:
		return byteInstruction(w, op, c, offset)
	case value.OpJump, value.OpJumpIfFalse:
		return jumpInstruction(w, op, 1, c, offset)
	case value.OpLoop:
		return jumpInstruction(w, op, -1, c, offset)
	case value.OpClosure:
		return closureInstruction(w, c, offset)
	default:
		fmt.Fprintln(w, op)
		return offset + 1
	}
}

func constantInstruction(w io.Writer, op value.OpCode, c *value.Chunk, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, c.Constants[idx])
	return offset + 2
}

func byteInstruction(w io.Writer, op value.OpCode, c *value.Chunk, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, idx)
	return offset + 2
}

func jumpInstruction(w io.Writer, op value.OpCode, sign int, c *value.Chunk, offset int) int {
	jump := int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, offset+3+sign*jump)
	return offset + 3
}

func closureInstruction(w io.Writer, c *value.Chunk, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d %s\n", value.OpClosure, idx, c.Constants[idx])
	offset += 2
	if fn, ok := c.Constants[idx].(*value.Function); ok {
		for range fn.Upvalues {
			isLocal := c.Code[offset]
			upIdx := c.Code[offset+1]
			kind := "upvalue"
			if isLocal != 0 {
				kind = "local"
			}
			fmt.Fprintf(w, "%04d      |                     %s %d\n", offset, kind, upIdx)
			offset += 2
		}
	}
	return offset
}
