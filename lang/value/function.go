package value

// Function is a compiled function prototype: its arity, its bytecode
// Chunk, and the upvalue layout the compiler resolved for it. It is
// immutable once compilation ends; the mutable, call-time state (captured
// upvalues) lives separately in Closure.
type Function struct {
	gcHeader
	Name     *ObjString // nil for the implicit top-level script function
	Arity    int
	Chunk    Chunk
	Upvalues []UpvalueDesc
}

// UpvalueDesc tells a Closure, at the moment it is created from a Function,
// where each of the function's free variables comes from: either a local
// slot in the immediately enclosing call frame, or an upvalue already
// captured by that enclosing frame's own closure.
type UpvalueDesc struct {
	FromLocal bool
	Index     int
}

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return "<fn " + f.Name.s + ">"
}
func (*Function) Type() string { return "function" }

func (f *Function) traceRefs(mark func(Value)) {
	if f.Name != nil {
		mark(f.Name)
	}
	for _, k := range f.Chunk.Constants {
		mark(k)
	}
}

// NewFunction allocates a new, empty function prototype named name (nil
// for the top-level script).
func NewFunction(h *Heap, name *ObjString, arity int) *Function {
	obj := &Function{Name: name, Arity: arity}
	makeHeap(h, obj)
	return obj
}
