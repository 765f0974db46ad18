package machine

import (
	"context"
	"fmt"

	"github.com/mna/nenuphar-lox/lang/value"
)

// run is the dispatch loop: fetch one opcode byte from the current frame's
// chunk, advance, execute.
func (vm *VM) run() (value.Value, error) {
	fr := &vm.frames[len(vm.frames)-1]

	for {
		vm.steps++
		if vm.steps >= vm.maxSteps {
			vm.ctxCancel()
			return value.Nil, fmt.Errorf("thread cancelled: %s", context.Cause(vm.ctx))
		}
		if vm.cancelled.Load() {
			return value.Nil, fmt.Errorf("thread cancelled: %s", context.Cause(vm.ctx))
		}

		op := value.OpCode(fr.readByte())
		switch op {
		case value.OpConstant:
			vm.push(fr.chunk().Constants[fr.readByte()])

		case value.OpNil:
			vm.push(value.Nil)
		case value.OpTrue:
			vm.push(value.Bool(true))
		case value.OpFalse:
			vm.push(value.Bool(false))

		case value.OpPop:
			vm.pop()

		case value.OpGetLocal:
			vm.push(vm.stack[fr.base+int(fr.readByte())])
		case value.OpSetLocal:
			vm.stack[fr.base+int(fr.readByte())] = vm.peek(0)

		case value.OpGetGlobal:
			name := fr.chunk().Constants[fr.readByte()].(*value.ObjString)
			v, ok := vm.globals.Get(name)
			if !ok {
				vm.runtimeError("undefined variable '%s'", name)
				return value.Nil, vm.lastErr
			}
			vm.push(v)
		case value.OpSetGlobal:
			name := fr.chunk().Constants[fr.readByte()].(*value.ObjString)
			if _, ok := vm.globals.Get(name); !ok {
				vm.runtimeError("undefined variable '%s'", name)
				return value.Nil, vm.lastErr
			}
			vm.globals.Put(name, vm.peek(0))
		case value.OpDefineGlobal:
			name := fr.chunk().Constants[fr.readByte()].(*value.ObjString)
			vm.globals.Put(name, vm.pop())

		case value.OpGetUpvalue:
			vm.push(*fr.closure.Upvalues[fr.readByte()].Location)
		case value.OpSetUpvalue:
			*fr.closure.Upvalues[fr.readByte()].Location = vm.peek(0)

		case value.OpCloseUpvalue:
			vm.closeUpvalues(vm.sp - 1)
			vm.pop()

		case value.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))

		case value.OpGreater, value.OpLess:
			bv, bOk := vm.peek(0).(value.Number)
			av, aOk := vm.peek(1).(value.Number)
			if !aOk || !bOk {
				vm.runtimeError("operands must be numbers")
				return value.Nil, vm.lastErr
			}
			vm.pop()
			vm.pop()
			if op == value.OpGreater {
				vm.push(value.Bool(av > bv))
			} else {
				vm.push(value.Bool(av < bv))
			}

		case value.OpAdd:
			if !vm.add(fr) {
				return value.Nil, vm.lastErr
			}

		case value.OpSubtract, value.OpMultiply, value.OpDivide:
			bv, bOk := vm.peek(0).(value.Number)
			av, aOk := vm.peek(1).(value.Number)
			if !aOk || !bOk {
				vm.runtimeError("operands must be numbers")
				return value.Nil, vm.lastErr
			}
			vm.pop()
			vm.pop()
			switch op {
			case value.OpSubtract:
				vm.push(av - bv)
			case value.OpMultiply:
				vm.push(av * bv)
			case value.OpDivide:
				vm.push(av / bv)
			}

		case value.OpNot:
			vm.stack[vm.sp-1] = value.Bool(value.Falsey(vm.peek(0)))

		case value.OpNegate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				vm.runtimeError("operand must be a number")
				return value.Nil, vm.lastErr
			}
			vm.stack[vm.sp-1] = -n

		case value.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop())

		case value.OpJump:
			off := fr.readShort()
			fr.ip += off

		case value.OpJumpIfFalse:
			off := fr.readShort()
			if value.Falsey(vm.peek(0)) {
				fr.ip += off
			}

		case value.OpLoop:
			off := fr.readShort()
			fr.ip -= off

		case value.OpCall:
			argCount := int(fr.readByte())
			callee := vm.peek(argCount)
			if !vm.callValue(callee, argCount) {
				return value.Nil, vm.lastErr
			}
			fr = &vm.frames[len(vm.frames)-1]

		case value.OpClosure:
			fn := fr.chunk().Constants[fr.readByte()].(*value.Function)
			closure := value.NewClosure(vm.Heap, fn, make([]*value.RuntimeUpvalue, len(fn.Upvalues)))
			// Push before capturing upvalues: captureUpvalue can allocate and
			// trigger a collection, and closure must already be stack-rooted
			// when that happens.
			vm.push(closure)
			for i := range closure.Upvalues {
				isLocal := fr.readByte()
				idx := int(fr.readByte())
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(fr.base + idx)
				} else {
					closure.Upvalues[i] = fr.closure.Upvalues[idx]
				}
			}

		case value.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(fr.base + 1)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return result, nil
			}
			vm.sp = fr.base
			vm.push(result)
			fr = &vm.frames[len(vm.frames)-1]

		case value.OpNoop:
			fr.readByte() // operand is unused but must be consumed

		default:
			panic(fmt.Sprintf("internal error: unimplemented opcode %s", op))
		}
	}
}

func (vm *VM) add(fr *frame) bool {
	b, a := vm.peek(0), vm.peek(1)
	switch av := a.(type) {
	case value.Number:
		bv, ok := b.(value.Number)
		if !ok {
			return vm.runtimeError("operands must be two numbers or two strings")
		}
		vm.pop()
		vm.pop()
		vm.push(av + bv)
		return true
	case *value.ObjString:
		bv, ok := b.(*value.ObjString)
		if !ok {
			return vm.runtimeError("operands must be two numbers or two strings")
		}
		vm.pop()
		vm.pop()
		vm.push(vm.Pool.Intern(vm.Heap, av.Go()+bv.Go()))
		return true
	default:
		return vm.runtimeError("operands must be two numbers or two strings")
	}
}
