// Package value implements the runtime value model shared by the compiler
// and the virtual machine: the Value sum type, the bytecode Chunk, the
// precise mark-and-sweep garbage-collected heap, and the heap-object kinds
// (strings, functions, native functions, closures and runtime upvalues).
//
// These pieces are specified together because they share one memory
// discipline: the compiler and the VM are both GC root-providers, and the
// collector walks everything either of them can reach. Keeping them in one
// package avoids an import cycle between the compiler (which allocates
// Functions and interned strings while emitting bytecode) and the machine
// (which allocates Closures and Upvalues while executing it).
package value

// Value is implemented by every value the language can manipulate. Number,
// Bool and Nil are held by value; ObjString, Function, NativeFunction and
// Closure are non-owning references to objects that live on the Heap.
type Value interface {
	String() string
	Type() string
}

// Number is a double-precision floating point value.
type Number float64

func (n Number) String() string { return formatFloat(float64(n)) }
func (Number) Type() string     { return "number" }

// Bool is a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// Nil is the unit "no value" value. There is exactly one Nil value; compare
// with IsNil rather than constructing one.
type nilType struct{}

func (nilType) String() string { return "nil" }
func (nilType) Type() string   { return "nil" }

// Nil is the sole value of nil type.
var Nil Value = nilType{}

// IsNil reports whether v is the Nil value.
func IsNil(v Value) bool {
	_, ok := v.(nilType)
	return ok
}

// Falsey reports whether v is falsey: nil and false are falsey, everything
// else (including zero and the empty string) is truthy.
func Falsey(v Value) bool {
	if IsNil(v) {
		return true
	}
	if b, ok := v.(Bool); ok {
		return !bool(b)
	}
	return false
}

// Equal implements Lox structural equality for OP_EQUAL: nil equals nil,
// booleans and numbers compare by value (so NaN != NaN, per IEEE 754), and
// the four heap kinds compare by reference identity — which for strings
// reduces to content equality because of interning.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nilType:
		return IsNil(b)
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case *ObjString:
		bv, ok := b.(*ObjString)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *NativeFunction:
		bv, ok := b.(*NativeFunction)
		return ok && av == bv
	case *Closure:
		bv, ok := b.(*Closure)
		return ok && av == bv
	default:
		return false
	}
}
