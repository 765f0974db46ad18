package disasm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/nenuphar-lox/lang/compiler"
	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/value"
)

func TestChunkListsInstructions(t *testing.T) {
	heap := value.NewHeap()
	pool := value.NewStringPool()
	heap.SetStringPool(pool)
	toks := scanner.ScanAll([]byte("var a = 1 + 2; print a;"), nil)
	fn, ok := compiler.Compile(toks, heap, pool, nil)
	require.True(t, ok)

	var buf bytes.Buffer
	Chunk(&buf, &fn.Chunk, "script")
	out := buf.String()
	assert.Contains(t, out, "=== script ===")
	assert.Contains(t, out, "OP_CONSTANT")
	assert.Contains(t, out, "OP_ADD")
	assert.Contains(t, out, "OP_PRINT")
}

func TestInstructionNoopHasOperand(t *testing.T) {
	var c value.Chunk
	c.WriteOp(value.OpNoop, 1)
	c.Write(7, 1)
	c.WriteOp(value.OpReturn, 1)

	var buf bytes.Buffer
	next := Instruction(&buf, &c, 0)
	assert.Equal(t, 2, next, "OP_NOOP occupies opcode + one operand byte")
	assert.Contains(t, buf.String(), "OP_NOOP")
}
