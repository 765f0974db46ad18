package value

// gcObject is implemented by every heap-allocated value kind. traceRefs
// calls mark on every Value the object directly references.
type gcObject interface {
	Value
	traceRefs(mark func(Value))
}

// gcHeader is embedded by every heap-allocated type to give it a mark bit
// without repeating the bookkeeping methods.
type gcHeader struct{ marked bool }

func (h *gcHeader) isMarked() bool   { return h.marked }
func (h *gcHeader) setMarked(v bool) { h.marked = v }

type marker interface {
	isMarked() bool
	setMarked(bool)
}

// RootFunc is a root-marking callback: given a mark function, it must call
// mark on every Value the registering component considers a GC root. The
// compiler registers one to mark the function currently being built; the VM
// registers one to mark its stack, globals, call frames and open upvalues.
// Callbacks run in registration order on every collection.
type RootFunc func(mark func(Value))

// Heap is a precise, tracing, non-moving mark-and-sweep collector for the
// heap object kinds (strings, functions, native functions, closures and
// runtime upvalues). The kind-specific constructors allocate and
// register cells, Collect runs a full mark-sweep cycle, and roots are
// discovered polymorphically through registered callbacks rather than by
// the heap knowing about the compiler or VM.
type Heap struct {
	cells []gcObject
	roots []RootFunc
	grey  []gcObject

	pool *StringPool

	// StressGC, when true, forces a Collect on every allocation. Tests set
	// this to exercise collection at every allocation point.
	StressGC bool

	bytesAllocated int
	nextGC         int
}

// initialNextGC is the first collection threshold, in bytes. After a
// collection that leaves more live bytes than the threshold, the threshold
// becomes twice the live bytes; otherwise it is left unchanged.
const initialNextGC = 1 << 10

// NewHeap creates an empty heap. The returned heap is not yet associated
// with a StringPool; call SetStringPool before any string interning happens
// so that collected strings can be purged from the pool.
func NewHeap() *Heap {
	return &Heap{nextGC: initialNextGC}
}

// SetStringPool associates the heap with the pool that must be notified
// when an interned string is collected.
func (h *Heap) SetStringPool(p *StringPool) { h.pool = p }

// RegisterRoot pushes a root-marking callback. Compiler and VM push and pop
// these in strict LIFO order around their use of the heap.
func (h *Heap) RegisterRoot(fn RootFunc) { h.roots = append(h.roots, fn) }

// DeregisterRoot pops the most recently registered root callback.
func (h *Heap) DeregisterRoot() {
	if len(h.roots) > 0 {
		h.roots = h.roots[:len(h.roots)-1]
	}
}

// roughSize is a crude per-object byte-accounting unit used only to drive
// the allocation threshold; it need not be exact.
const roughSize = 64

// makeHeap registers obj as a live cell, running a collection first if the
// allocation policy calls for it. It is the shared implementation behind
// the exported, kind-specific constructors (NewFunction, NewClosure, ...),
// each of which takes its own argument shape.
func makeHeap(h *Heap, obj gcObject) {
	if h.StressGC || h.bytesAllocated > h.nextGC {
		h.Collect()
	}
	h.cells = append(h.cells, obj)
	h.bytesAllocated += roughSize
}

// mark greys v if it is a heap object and not already marked; tracing its
// references is deferred to the worklist drain in Collect.
func (h *Heap) mark(v Value) {
	obj, ok := v.(gcObject)
	if !ok {
		return // Number, Bool, Nil: nothing to mark
	}
	m := any(obj).(marker)
	if m.isMarked() {
		return
	}
	m.setMarked(true)
	h.grey = append(h.grey, obj)
}

// Collect runs one full mark-and-sweep cycle: every registered root
// callback marks its roots, the grey worklist is drained by tracing
// references transitively, unmarked cells are swept, and the StringPool is
// notified of every string that did not survive.
func (h *Heap) Collect() {
	for _, root := range h.roots {
		root(h.mark)
	}

	for len(h.grey) > 0 {
		obj := h.grey[len(h.grey)-1]
		h.grey = h.grey[:len(h.grey)-1]
		obj.traceRefs(h.mark)
	}

	var collectedStrings []*ObjString
	live := h.cells[:0]
	for _, c := range h.cells {
		m := any(c).(marker)
		if m.isMarked() {
			m.setMarked(false)
			live = append(live, c)
			continue
		}
		if s, ok := c.(*ObjString); ok {
			collectedStrings = append(collectedStrings, s)
		}
	}
	h.cells = live
	h.bytesAllocated = len(h.cells) * roughSize
	if h.nextGC < h.bytesAllocated {
		h.nextGC = h.bytesAllocated * 2
	}

	if h.pool != nil {
		for _, s := range collectedStrings {
			h.pool.forget(s)
		}
	}
}

// Size returns the number of live cells, mostly useful for tests.
func (h *Heap) Size() int { return len(h.cells) }
