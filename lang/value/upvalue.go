package value

// RuntimeUpvalue is a reference cell shared between a closure and the call
// frame whose local it closes over. While open, it points at a live slot on
// the VM's value stack; when that frame returns, the VM closes the upvalue
// by copying the slot's value into Closed and switching Location to point
// there instead. The open -> closed transition is monotonic.
type RuntimeUpvalue struct {
	gcHeader

	// Location points at the current home of the value: either a slot in the
	// VM's stack (while open) or at &Closed (once closed).
	Location *Value
	Closed   Value

	// StackIndex is the absolute stack slot this upvalue observes while
	// open; the VM's open-upvalue list is kept sorted by this so that
	// closing a range of frames can walk it in one pass.
	StackIndex int
	open       bool
}

// NewOpenUpvalue allocates an upvalue that observes the given stack slot.
func NewOpenUpvalue(h *Heap, slot *Value, stackIndex int) *RuntimeUpvalue {
	obj := &RuntimeUpvalue{Location: slot, StackIndex: stackIndex, open: true}
	makeHeap(h, obj)
	return obj
}

// IsOpen reports whether the upvalue still observes a live stack slot.
func (u *RuntimeUpvalue) IsOpen() bool { return u.open }

// Close copies the current value out of the stack slot and repoints
// Location at the upvalue's own storage, detaching it from the stack.
func (u *RuntimeUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
	u.open = false
}

func (u *RuntimeUpvalue) String() string { return "<upvalue>" }
func (*RuntimeUpvalue) Type() string     { return "upvalue" }

func (u *RuntimeUpvalue) traceRefs(mark func(Value)) {
	if u.Location != nil {
		mark(*u.Location)
	}
}

// NewUpvalue creates an already-closed upvalue directly holding v, for
// callers that need an upvalue with no backing stack slot.
func NewUpvalue(h *Heap, v Value) *RuntimeUpvalue {
	obj := &RuntimeUpvalue{Closed: v}
	obj.Location = &obj.Closed
	makeHeap(h, obj)
	return obj
}
