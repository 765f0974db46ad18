package value

// ObjString is an interned, heap-allocated string. Equality between two
// ObjString values is pointer equality because StringPool guarantees that
// equal content always resolves to the same *ObjString.
type ObjString struct {
	gcHeader
	s string
}

func (o *ObjString) String() string { return o.s }
func (*ObjString) Type() string     { return "string" }
func (o *ObjString) Go() string     { return o.s }

func (o *ObjString) traceRefs(func(Value)) {} // no outgoing references

// newString allocates a fresh, uninterned *ObjString. Callers that want
// interning semantics go through StringPool.Intern instead.
func newString(h *Heap, s string) *ObjString {
	obj := &ObjString{s: s}
	makeHeap(h, obj)
	return obj
}
