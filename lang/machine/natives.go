package machine

import (
	"time"

	"github.com/mna/nenuphar-lox/lang/value"
)

// processStart anchors the `clock` native function's return value: it
// reports seconds elapsed since process start.
var processStart = time.Now()

// defineNatives installs every native function as a global.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", func(args []value.Value) (value.Value, error) {
		return value.Number(time.Since(processStart).Seconds()), nil
	})
}

func (vm *VM) defineNative(name string, fn value.NativeGoFunc) {
	// the interned name has no root until it lands in globals; park it on the
	// stack so the native's own allocation cannot collect it
	nameObj := vm.Pool.Intern(vm.Heap, name)
	vm.push(nameObj)
	native := value.NewNativeFunction(vm.Heap, name, fn)
	vm.globals.Put(nameObj, native)
	vm.pop()
}
