package machine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/nenuphar-lox/lang/compiler"
	"github.com/mna/nenuphar-lox/lang/scanner"
	"github.com/mna/nenuphar-lox/lang/value"
)

// run compiles and executes src against a fresh VM, returning its stdout
// and any error. Mirrors compiler_test.go's compileSrc helper, one level up
// the pipeline.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	toks := scanner.ScanAll([]byte(src), nil)
	heap := value.NewHeap()
	pool := value.NewStringPool()
	heap.SetStringPool(pool)

	var compileErrs []string
	fn, ok := compiler.Compile(toks, heap, pool, func(line int, msg string) {
		compileErrs = append(compileErrs, msg)
	})
	require.True(t, ok, "compile errors: %v", compileErrs)

	var stdout strings.Builder
	vm := New(heap, pool)
	vm.Stdout = &stdout
	_, err := vm.Interpret(context.Background(), fn)
	return stdout.String(), err
}

func TestVMArithmeticAndPrint(t *testing.T) {
	out, err := run(t, "print 1 + 2 * 3;")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestVMStringConcat(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestVMGlobalsDefineGetSet(t *testing.T) {
	out, err := run(t, "var a = 1; a = a + 1; print a;")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestVMUndefinedGlobalGetIsRuntimeError(t *testing.T) {
	_, err := run(t, "print nope;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable 'nope'")
}

func TestVMUndefinedGlobalSetIsRuntimeError(t *testing.T) {
	_, err := run(t, "nope = 1;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable 'nope'")
}

func TestVMLocalsAndBlockScoping(t *testing.T) {
	out, err := run(t, `
		var a = "outer";
		{
			var a = "inner";
			print a;
		}
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "inner\nouter\n", out)
}

func TestVMIfElse(t *testing.T) {
	out, err := run(t, `
		if (1 < 2) print "yes"; else print "no";
		if (nil) print "bad"; else print "fine";
	`)
	require.NoError(t, err)
	assert.Equal(t, "yes\nfine\n", out)
}

func TestVMWhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestVMForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestVMFunctionCallAndReturn(t *testing.T) {
	out, err := run(t, `
		fun add(a, b) {
			return a + b;
		}
		print add(1, 2);
	`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestVMClosureCapturesUpvalue(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestVMClosuresAreIndependent(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
		var a = makeCounter();
		var b = makeCounter();
		print a();
		print a();
		print b();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n1\n", out)
}

func TestVMClosuresShareUpvalue(t *testing.T) {
	// set and get capture the same variable, so they must share one upvalue
	// cell: a write through one is observed by the other after main returns
	// and the shared upvalue is closed.
	out, err := run(t, `
		var set = nil;
		var get = nil;
		fun main() {
			var a = "initial";
			fun doSet() { a = "updated"; }
			fun doGet() { print a; }
			set = doSet;
			get = doGet;
		}
		main();
		set();
		get();
	`)
	require.NoError(t, err)
	assert.Equal(t, "updated\n", out)
}

func TestVMUpvalueClosedOnScopeExit(t *testing.T) {
	// x's block ends before f is called, so f reads through a closed upvalue
	// holding the last value x had on the stack.
	out, err := run(t, `
		var f = nil;
		{
			var x = 1;
			fun g() { print x; }
			f = g;
			x = 2;
		}
		f();
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestVMGlobalLateBindingThroughClosure(t *testing.T) {
	// show captures no local named a, so it always looks a up as a global;
	// declaring a shadowing local a *after* show is defined never affects it.
	out, err := run(t, `
		var a = "global";
		{
			fun show() { print a; }
			show();
			var a = "block";
			show();
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "global\nglobal\n", out)
}

func TestVMRecursion(t *testing.T) {
	out, err := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestVMArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 arguments but got 1")
}

func TestVMCallingNonFunctionIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		var x = 1;
		x();
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can only call functions")
}

func TestVMStackOverflowOnUnboundedRecursion(t *testing.T) {
	_, err := run(t, `
		fun loop() {
			return loop();
		}
		loop();
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stack overflow")
}

func TestVMArithmeticOnNonNumbersIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operands must be two numbers or two strings")

	_, err = run(t, `print "a" - 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operands must be numbers")

	_, err = run(t, `print -"a";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operand must be a number")
}

func TestVMComparisonAndEquality(t *testing.T) {
	out, err := run(t, `
		print 1 < 2;
		print 1 > 2;
		print 1 <= 1;
		print 1 >= 2;
		print 1 == 1;
		print 1 != 1;
		print "a" == "a";
		print nil == false;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\nfalse\ntrue\nfalse\ntrue\nfalse\ntrue\nfalse\n", out)
}

func TestVMConcatenationInternsResult(t *testing.T) {
	// equality on strings is handle identity, so a concatenation result must
	// resolve to the same interned handle as a literal with the same content.
	out, err := run(t, `print "ab" == "a" + "b";`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestVMNaNIsNeverEqual(t *testing.T) {
	out, err := run(t, `
		var nan = 0.0 / 0.0;
		print nan == nan;
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestVMLogicalOperatorsShortCircuit(t *testing.T) {
	out, err := run(t, `
		fun loud() {
			print "called";
			return true;
		}
		print false and loud();
		print true or loud();
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\ntrue\n", out)
}

func TestVMTruthiness(t *testing.T) {
	// Only nil and false are falsey; 0 and "" are truthy.
	out, err := run(t, `
		if (0) print "zero is truthy"; else print "unreachable";
		if ("") print "empty string is truthy"; else print "unreachable";
	`)
	require.NoError(t, err)
	assert.Equal(t, "zero is truthy\nempty string is truthy\n", out)
}

func TestVMClockNativeReturnsNumber(t *testing.T) {
	out, err := run(t, "print clock() >= 0;")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestVMMaxStepsCancelsRunawayLoop(t *testing.T) {
	toks := scanner.ScanAll([]byte(`
		var i = 0;
		while (true) {
			i = i + 1;
		}
	`), nil)
	heap := value.NewHeap()
	pool := value.NewStringPool()
	heap.SetStringPool(pool)
	fn, ok := compiler.Compile(toks, heap, pool, func(line int, msg string) {})
	require.True(t, ok)

	vm := New(heap, pool)
	vm.MaxSteps = 1000
	_, err := vm.Interpret(context.Background(), fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestVMNoopConsumesOperand(t *testing.T) {
	// OP_NOOP is never emitted by the compiler but remains part of the wire
	// format: it carries one operand byte that must be consumed and ignored.
	heap := value.NewHeap()
	pool := value.NewStringPool()
	heap.SetStringPool(pool)

	fn := value.NewFunction(heap, nil, 0)
	fn.Chunk.WriteOp(value.OpNoop, 1)
	fn.Chunk.Write(0xAA, 1) // unused operand
	fn.Chunk.WriteOp(value.OpNil, 1)
	fn.Chunk.WriteOp(value.OpReturn, 1)

	vm := New(heap, pool)
	res, err := vm.Interpret(context.Background(), fn)
	require.NoError(t, err)
	assert.True(t, value.IsNil(res))
}

func TestVMStressGCStringConcat(t *testing.T) {
	toks := scanner.ScanAll([]byte(`
		var s = "";
		for (var i = 0; i < 3; i = i + 1) {
			s = s + "x";
		}
		print s;
	`), nil)
	heap := value.NewHeap()
	heap.StressGC = true
	pool := value.NewStringPool()
	heap.SetStringPool(pool)
	fn, ok := compiler.Compile(toks, heap, pool, func(line int, msg string) {})
	require.True(t, ok)

	var stdout strings.Builder
	vm := New(heap, pool)
	vm.Stdout = &stdout
	_, err := vm.Interpret(context.Background(), fn)
	require.NoError(t, err)
	assert.Equal(t, "xxx\n", stdout.String())
}

func TestVMStressGCDoesNotCorruptRunningProgram(t *testing.T) {
	toks := scanner.ScanAll([]byte(`
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`), nil)
	heap := value.NewHeap()
	heap.StressGC = true
	pool := value.NewStringPool()
	heap.SetStringPool(pool)
	fn, ok := compiler.Compile(toks, heap, pool, func(line int, msg string) {})
	require.True(t, ok)

	var stdout strings.Builder
	vm := New(heap, pool)
	vm.Stdout = &stdout
	_, err := vm.Interpret(context.Background(), fn)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", stdout.String())
}
