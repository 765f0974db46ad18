package compiler

import "github.com/mna/nenuphar-lox/lang/value"

// markRoots is registered with the heap for the lifetime of Compile so that
// a collection triggered mid-compile (e.g. under StressGC) does not reclaim
// the function currently under construction, or any enclosing function in
// a nested-declaration chain, before the top-level Compile call has had a
// chance to wire everything into the final Chunk's constant pool.
func (c *compiler) markRoots(mark func(value.Value)) {
	for cc := c; cc != nil; cc = cc.enclosing {
		if cc.fn != nil {
			mark(cc.fn)
		}
	}
}
