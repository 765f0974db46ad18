package value

// NativeGoFunc is the Go-side implementation of a native function: given
// its arguments, it returns a result or an error message.
type NativeGoFunc func(args []Value) (Value, error)

// NativeFunction wraps a Go function so it can be called from script code
// exactly like a user-defined Closure. Natives are registered as ordinary
// globals alongside user functions.
type NativeFunction struct {
	gcHeader
	Name string
	Fn   NativeGoFunc
}

func (n *NativeFunction) String() string { return "<native fn " + n.Name + ">" }
func (*NativeFunction) Type() string     { return "function" }

func (n *NativeFunction) traceRefs(func(Value)) {} // no outgoing references

// NewNativeFunction allocates a native function value.
func NewNativeFunction(h *Heap, name string, fn NativeGoFunc) *NativeFunction {
	obj := &NativeFunction{Name: name, Fn: fn}
	makeHeap(h, obj)
	return obj
}
