package machine

import "github.com/mna/nenuphar-lox/lang/value"

// registerRoots registers the VM's GC root-marking callback: everything
// live on the value stack, every active call frame's closure, every open
// upvalue, and every global.
func (vm *VM) registerRoots() {
	vm.Heap.RegisterRoot(func(mark func(value.Value)) {
		for i := 0; i < vm.sp; i++ {
			if vm.stack[i] != nil {
				mark(vm.stack[i])
			}
		}
		for i := range vm.frames {
			mark(vm.frames[i].closure)
		}
		for _, uv := range vm.openUpvalues {
			mark(uv)
		}
		vm.globals.Iter(func(k *value.ObjString, v value.Value) bool {
			mark(k)
			mark(v)
			return false
		})
	})
}
