// Package runtime implements the evaluator and runtime value system for mox-lang.
package runtime

import (
	"fmt"
	"mox-lang/internal/ast"
	"strconv"
	"strings"
)

// Value is the interface for all runtime values.
type Value interface {
	// TypeName returns the upper-case type tag used in error messages, e.g. "INT".
	TypeName() string
	// String returns the text a print statement writes for the value.
	String() string
}

// Shared instances. Evaluation reuses them instead of allocating new values.
var (
	Null  Value = NullVal{}
	True  Value = BoolVal(true)
	False Value = BoolVal(false)
)

// ---- Primitive values ----

// IntVal represents an integer value.
type IntVal int64

func (v IntVal) TypeName() string { return "INT" }
func (v IntVal) String() string   { return strconv.FormatInt(int64(v), 10) }

// StringVal represents a string value.
type StringVal string

func (v StringVal) TypeName() string { return "STRING" }
func (v StringVal) String() string   { return string(v) }

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "BOOL" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }

// NullVal represents null.
type NullVal struct{}

func (v NullVal) TypeName() string { return "NULL" }
func (v NullVal) String() string   { return "null" }

// ---- Callable values ----

// FuncVal represents a user-defined function (closure).
type FuncVal struct {
	Params  []string
	Body    *ast.BlockStmt
	Closure *Environment // defining scope, shared by reference
}

func (v *FuncVal) TypeName() string { return "FUNC" }
func (v *FuncVal) String() string {
	return fmt.Sprintf("fn(%s) %s", strings.Join(v.Params, ", "), ast.String(v.Body))
}

// BuiltinFn is the Go signature for built-in functions.
// A returned error becomes a runtime error at the call site.
type BuiltinFn func(args []Value) (Value, error)

// BuiltinVal represents a built-in (native) function.
type BuiltinVal struct {
	Name string
	Fn   BuiltinFn
}

func (v *BuiltinVal) TypeName() string { return "BUILTIN" }
func (v *BuiltinVal) String() string   { return fmt.Sprintf("<builtin %s>", v.Name) }

// ---- Array value ----

// ArrayVal represents an array value.
type ArrayVal struct {
	Elements []Value
}

func (v *ArrayVal) TypeName() string { return "ARRAY" }
func (v *ArrayVal) String() string {
	parts := make([]string, len(v.Elements))
	for i, elem := range v.Elements {
		parts[i] = inspect(elem)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ---- Hash value ----

// HashPair keeps the original key next to its value so keys print as written.
type HashPair struct {
	Key   Value
	Value Value
}

// HashVal represents a hash map keyed by the stringified form of the key.
// Keys keeps insertion order.
type HashVal struct {
	Keys  []string
	Pairs map[string]HashPair
}

// NewHash creates an empty hash.
func NewHash() *HashVal {
	return &HashVal{Pairs: make(map[string]HashPair)}
}

// HashKey returns the lookup key for v.
func HashKey(v Value) string {
	return v.String()
}

// Set stores value under key. A later key with the same stringified form overwrites the
// earlier value but keeps its position.
func (v *HashVal) Set(key, value Value) {
	k := HashKey(key)
	if _, exists := v.Pairs[k]; !exists {
		v.Keys = append(v.Keys, k)
	}
	v.Pairs[k] = HashPair{Key: key, Value: value}
}

// Get looks up key by its stringified form.
func (v *HashVal) Get(key Value) (Value, bool) {
	pair, ok := v.Pairs[HashKey(key)]
	if !ok {
		return nil, false
	}
	return pair.Value, true
}

func (v *HashVal) TypeName() string { return "HASH" }
func (v *HashVal) String() string {
	parts := make([]string, len(v.Keys))
	for i, k := range v.Keys {
		pair := v.Pairs[k]
		parts[i] = inspect(pair.Key) + ": " + inspect(pair.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ---- Control signals ----

// ReturnVal carries a return value up to the nearest function call boundary.
// It travels through the error result of the evaluator.
type ReturnVal struct {
	Value Value
}

func (v *ReturnVal) TypeName() string { return "RETURN" }
func (v *ReturnVal) String() string   { return v.Value.String() }
func (v *ReturnVal) Error() string    { return "return " + v.Value.String() }

// ErrorVal is a runtime error. It travels through the error result of the evaluator
// and, when nothing stops it, becomes the program's result.
type ErrorVal struct {
	Message string
	Line    int // source line of the node that raised it; 0 if unknown
}

func (v *ErrorVal) TypeName() string { return "ERROR" }
func (v *ErrorVal) String() string {
	if v.Line > 0 {
		return fmt.Sprintf("[line %d] runtime error: %s", v.Line, v.Message)
	}
	return "runtime error: " + v.Message
}
func (v *ErrorVal) Error() string { return v.String() }

// ---- Helpers ----

// inspect renders a value nested inside an array or hash. Strings are quoted.
func inspect(v Value) string {
	if s, ok := v.(StringVal); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// nativeBool maps a Go bool to the shared boolean values.
func nativeBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// isTruthy reports whether v counts as true in a condition. Only null and false are falsy.
func isTruthy(v Value) bool {
	switch v := v.(type) {
	case NullVal:
		return false
	case BoolVal:
		return bool(v)
	default:
		return true
	}
}

// valuesEqual implements == for operands that are not both integers.
// Strings, booleans, null, arrays and hashes compare by content; functions and builtins by identity.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntVal:
		bv, ok := b.(IntVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av == bv
	case NullVal:
		_, ok := b.(NullVal)
		return ok
	case *ArrayVal:
		bv, ok := b.(*ArrayVal)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !valuesEqual(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *HashVal:
		bv, ok := b.(*HashVal)
		if !ok || len(av.Pairs) != len(bv.Pairs) {
			return false
		}
		for k, pair := range av.Pairs {
			other, exists := bv.Pairs[k]
			if !exists || !valuesEqual(pair.Value, other.Value) {
				return false
			}
		}
		return true
	}
	// Reference equality for functions and builtins
	return a == b
}
