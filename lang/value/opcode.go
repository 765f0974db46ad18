package value

// OpCode identifies a bytecode instruction. The wire format is fixed: every
// opcode is one byte, and every operand (save jump offsets, which are
// 16-bit big-endian) is one byte.
type OpCode uint8

const (
	OpConstant     OpCode = iota // 1 operand: constant index
	OpNil                        // 0 operands
	OpTrue                       // 0 operands
	OpFalse                      // 0 operands
	OpPop                        // 0 operands
	OpGetLocal                   // 1 operand: stack slot
	OpSetLocal                   // 1 operand: stack slot
	OpGetGlobal                  // 1 operand: constant index (name)
	OpSetGlobal                  // 1 operand: constant index (name)
	OpDefineGlobal               // 1 operand: constant index (name)
	OpGetUpvalue                 // 1 operand: upvalue index
	OpSetUpvalue                 // 1 operand: upvalue index
	OpCloseUpvalue               // 0 operands
	OpEqual                      // 0 operands
	OpGreater                    // 0 operands
	OpLess                       // 0 operands
	OpAdd                        // 0 operands
	OpSubtract                   // 0 operands
	OpMultiply                   // 0 operands
	OpDivide                     // 0 operands
	OpNot                        // 0 operands
	OpNegate                     // 0 operands
	OpPrint                      // 0 operands
	OpJump                       // 2-byte operand: forward offset
	OpJumpIfFalse                // 2-byte operand: forward offset
	OpLoop                       // 2-byte operand: backward offset
	OpCall                       // 1 operand: argument count
	OpClosure                    // 1 operand: constant index (function), followed by per-upvalue (isLocal, index) byte pairs
	OpReturn                     // 0 operands
	OpNoop                       // 1 operand: unused, consumed and ignored
)

var opcodeNames = [...]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpClosure:      "OP_CLOSURE",
	OpReturn:       "OP_RETURN",
	OpNoop:         "OP_NOOP",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "OP_UNKNOWN"
}
