// Package machine implements the register-free, stack-based virtual
// machine that executes compiled bytecode: call frames, closures and
// upvalues, globals, and the native function surface.
package machine

import (
	"context"
	"io"
	"math"
	"os"
	"sync/atomic"

	"github.com/dolthub/swiss"

	"github.com/mna/nenuphar-lox/lang/value"
)

// maxCallDepth bounds nested calls.
const maxCallDepth = 128

// VM executes compiled programs. Interpret may be called more than once on
// the same VM — each call resets the call/value stacks but keeps the Heap,
// StringPool and globals table, so the driver (internal/maincmd) can run a
// REPL by compiling and interpreting one top-level function per entered
// line against one shared VM, giving declarations REPL-wide persistence.
type VM struct {
	// Stdout and Stderr are the standard output abstractions for `print` and
	// runtime error reporting. If nil, os.Stdout/os.Stderr are used.
	Stdout io.Writer
	Stderr io.Writer

	// MaxSteps caps the number of executed instructions before the thread is
	// cancelled; <= 0 means no limit.
	MaxSteps int

	Heap *value.Heap
	Pool *value.StringPool

	globals *swiss.Map[*value.ObjString, value.Value]

	stack []value.Value
	sp    int

	frames []frame

	openUpvalues []*value.RuntimeUpvalue

	ctx       context.Context
	ctxCancel func()
	cancelled atomic.Bool
	steps     uint64
	maxSteps  uint64

	stdout io.Writer
	stderr io.Writer

	lastErr error
}

// New creates a VM sharing the given heap and string pool, with the
// `clock` native function already registered as a global.
func New(heap *value.Heap, pool *value.StringPool) *VM {
	vm := &VM{
		Heap:    heap,
		Pool:    pool,
		globals: swiss.NewMap[*value.ObjString, value.Value](16),
		stack:   make([]value.Value, 256),
	}
	vm.registerRoots()
	vm.defineNatives()
	return vm
}

func (vm *VM) init() {
	if vm.MaxSteps <= 0 {
		vm.maxSteps = math.MaxUint64
	} else {
		vm.maxSteps = uint64(vm.MaxSteps)
	}
	if vm.Stdout != nil {
		vm.stdout = vm.Stdout
	} else {
		vm.stdout = os.Stdout
	}
	if vm.Stderr != nil {
		vm.stderr = vm.Stderr
	} else {
		vm.stderr = os.Stderr
	}
}

// Interpret runs fn (normally the top-level script function produced by
// compiler.Compile, wrapped in a zero-upvalue closure) to completion. The
// call stack, value stack and open-upvalue list are reset before running,
// but the Heap, StringPool and globals table are left untouched, so a
// driver may call Interpret repeatedly on the same VM — each call a fresh
// top-level frame sharing the previous calls' globals — which is what lets
// REPL declarations persist across entries.
func (vm *VM) Interpret(ctx context.Context, fn *value.Function) (value.Value, error) {
	vm.init()
	vm.sp = 0
	vm.frames = vm.frames[:0]
	vm.openUpvalues = vm.openUpvalues[:0]
	vm.lastErr = nil
	vm.steps = 0
	vm.cancelled.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	vm.ctx = ctx
	vm.ctxCancel = cancel
	go func() {
		<-ctx.Done()
		vm.cancelled.Store(true)
	}()
	defer cancel()

	// fn has no root once the compiler deregisters its callback, so park it
	// on the stack while the closure wrapping it is allocated.
	vm.push(fn)
	closure := value.NewClosure(vm.Heap, fn, nil)
	vm.pop()
	vm.push(closure)
	if !vm.callValue(closure, 0) {
		return value.Nil, vm.popError()
	}
	return vm.run()
}

func (vm *VM) push(v value.Value) {
	if vm.sp == len(vm.stack) {
		vm.stack = append(vm.stack, make([]value.Value, len(vm.stack))...)
		// growing relocates the stack's backing array, so every open upvalue
		// must be re-pointed at its slot's new address
		for _, uv := range vm.openUpvalues {
			uv.Location = &vm.stack[uv.StackIndex]
		}
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = nil
	return v
}

func (vm *VM) peek(distance int) value.Value { return vm.stack[vm.sp-1-distance] }

// popError exists only to give Interpret's early-failure path a symmetrical
// return statement; the actual error is built and stashed on the VM by
// runtimeError, which callValue invokes on failure.
func (vm *VM) popError() error { return vm.lastErr }
