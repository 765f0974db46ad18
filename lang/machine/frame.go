package machine

import "github.com/mna/nenuphar-lox/lang/value"

// frame represents a single ongoing function call. Local variable slots
// calculated by the compiler are relative to the function's own start
// (slot 0 reserved for the callee); base is the absolute index into the
// VM's single shared value stack where this frame's slot 0 lives.
type frame struct {
	closure *value.Closure
	ip      int
	base    int
}

func (fr *frame) chunk() *value.Chunk { return &fr.closure.Fn.Chunk }

// readByte reads the instruction byte at ip and advances it.
func (fr *frame) readByte() byte {
	b := fr.chunk().Code[fr.ip]
	fr.ip++
	return b
}

// readShort reads a 16-bit big-endian jump operand and advances ip past it.
func (fr *frame) readShort() int {
	hi := fr.readByte()
	lo := fr.readByte()
	return int(hi)<<8 | int(lo)
}

func (fr *frame) line() int {
	if fr.ip == 0 {
		return fr.chunk().Lines[0]
	}
	return fr.chunk().Lines[fr.ip-1]
}
