package value

import "github.com/dolthub/swiss"

// StringPool interns strings so that every occurrence of the same content
// shares one *ObjString, making string equality (and hashing into the
// globals table) a pointer comparison. The content -> handle table is a
// swiss.Map, the same map the machine uses for its globals.
//
// Entries are weak: the pool does not itself keep an ObjString alive, and
// Heap.Collect calls forget on every interned string it reclaims, so a
// stale entry can never hand out a collected handle.
type StringPool struct {
	entries *swiss.Map[string, *ObjString]
}

// NewStringPool creates an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{entries: swiss.NewMap[string, *ObjString](16)}
}

// Intern returns the canonical *ObjString for s, allocating one on h if no
// interned copy exists yet.
func (p *StringPool) Intern(h *Heap, s string) *ObjString {
	if obj, ok := p.entries.Get(s); ok {
		return obj
	}
	obj := newString(h, s)
	p.entries.Put(s, obj)
	return obj
}

// forget removes s's entry from the pool. Called by Heap.Collect when s did
// not survive a collection; it is a no-op if the pool had already re-interned
// a different *ObjString under the same content in the meantime.
func (p *StringPool) forget(s *ObjString) {
	if cur, ok := p.entries.Get(s.s); ok && cur == s {
		p.entries.Delete(s.s)
	}
}

// Len reports the number of distinct interned strings, mostly for tests.
func (p *StringPool) Len() int { return p.entries.Count() }
