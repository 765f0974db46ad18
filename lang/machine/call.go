package machine

import (
	"fmt"

	"github.com/mna/nenuphar-lox/lang/value"
)

// callValue dispatches a call to callee with argCount arguments already
// sitting on top of the stack, callee itself just below them. It returns
// false and sets vm.lastErr on a runtime error (wrong arity, non-callable
// value, stack overflow).
func (vm *VM) callValue(callee value.Value, argCount int) bool {
	switch c := callee.(type) {
	case *value.Closure:
		return vm.call(c, argCount)
	case *value.NativeFunction:
		args := append([]value.Value(nil), vm.stack[vm.sp-argCount:vm.sp]...)
		result, err := c.Fn(args)
		if err != nil {
			return vm.runtimeError("%s", err)
		}
		vm.sp -= argCount + 1
		vm.push(result)
		return true
	default:
		return vm.runtimeError("can only call functions")
	}
}

func (vm *VM) call(closure *value.Closure, argCount int) bool {
	if argCount != closure.Fn.Arity {
		return vm.runtimeError("expected %d arguments but got %d", closure.Fn.Arity, argCount)
	}
	if len(vm.frames) >= maxCallDepth {
		return vm.runtimeError("stack overflow")
	}
	vm.frames = append(vm.frames, frame{
		closure: closure,
		base:    vm.sp - argCount - 1,
	})
	return true
}

// captureUpvalue returns the open upvalue observing the stack slot at
// absolute index stackIndex, creating and inserting one (keeping
// vm.openUpvalues sorted by ascending StackIndex, so closeUpvalues can
// walk from the tail) if none exists yet.
func (vm *VM) captureUpvalue(stackIndex int) *value.RuntimeUpvalue {
	i := 0
	for ; i < len(vm.openUpvalues); i++ {
		if vm.openUpvalues[i].StackIndex == stackIndex {
			return vm.openUpvalues[i]
		}
		if vm.openUpvalues[i].StackIndex > stackIndex {
			break
		}
	}
	uv := value.NewOpenUpvalue(vm.Heap, &vm.stack[stackIndex], stackIndex)
	vm.openUpvalues = append(vm.openUpvalues, nil)
	copy(vm.openUpvalues[i+1:], vm.openUpvalues[i:])
	vm.openUpvalues[i] = uv
	return uv
}

// closeUpvalues closes every open upvalue observing a stack slot at or
// above last, copying each one's current value out of the stack into its
// own storage before that slot becomes dead. Invoked by OP_CLOSE_UPVALUE
// (last = current stack top) and before every return (last = base+1).
func (vm *VM) closeUpvalues(last int) {
	i := len(vm.openUpvalues)
	for i > 0 && vm.openUpvalues[i-1].StackIndex >= last {
		i--
		vm.openUpvalues[i].Close()
	}
	vm.openUpvalues = vm.openUpvalues[:i]
}

func (vm *VM) runtimeError(format string, args ...interface{}) bool {
	msg := fmt.Sprintf(format, args...)
	var trace string
	for i := len(vm.frames) - 1; i >= 0; i-- {
		fr := &vm.frames[i]
		name := "<script>"
		if fr.closure.Fn.Name != nil {
			name = fr.closure.Fn.Name.String()
		}
		trace += fmt.Sprintf("\n[line %d] in %s", fr.line(), name)
	}
	vm.lastErr = fmt.Errorf("%s%s", msg, trace)
	return false
}
