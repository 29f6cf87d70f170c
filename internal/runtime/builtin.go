package runtime

import (
	"fmt"
	"time"
)

// DefaultBuiltins returns a fresh copy of the built-in function table.
// Identifier lookup falls back to this table after the environment chain.
func DefaultBuiltins() map[string]*BuiltinVal {
	builtins := map[string]*BuiltinVal{}
	define := func(name string, fn BuiltinFn) {
		builtins[name] = &BuiltinVal{Name: name, Fn: fn}
	}

	define("len", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("len() expects 1 argument, got %d", len(args))
		}
		switch v := args[0].(type) {
		case StringVal:
			return IntVal(len(string(v))), nil
		case *ArrayVal:
			return IntVal(len(v.Elements)), nil
		case *HashVal:
			return IntVal(len(v.Keys)), nil
		default:
			return nil, fmt.Errorf("len() not supported for type '%s'", args[0].TypeName())
		}
	})

	define("clock", func(args []Value) (Value, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("clock() expects 0 arguments, got %d", len(args))
		}
		return IntVal(time.Now().UnixMilli()), nil
	})

	define("type", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("type() expects 1 argument, got %d", len(args))
		}
		return StringVal(args[0].TypeName()), nil
	})

	define("str", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("str() expects 1 argument, got %d", len(args))
		}
		return StringVal(args[0].String()), nil
	})

	// push returns a new array; the argument array is left untouched.
	define("push", func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("push() expects 2 arguments, got %d", len(args))
		}
		arr, ok := args[0].(*ArrayVal)
		if !ok {
			return nil, fmt.Errorf("push() expects an array argument, got '%s'", args[0].TypeName())
		}
		elements := make([]Value, len(arr.Elements), len(arr.Elements)+1)
		copy(elements, arr.Elements)
		return &ArrayVal{Elements: append(elements, args[1])}, nil
	})

	define("keys", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("keys() expects 1 argument, got %d", len(args))
		}
		h, ok := args[0].(*HashVal)
		if !ok {
			return nil, fmt.Errorf("keys() expects a hash argument, got '%s'", args[0].TypeName())
		}
		elements := make([]Value, len(h.Keys))
		for i, k := range h.Keys {
			elements[i] = h.Pairs[k].Key
		}
		return &ArrayVal{Elements: elements}, nil
	})

	define("values", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("values() expects 1 argument, got %d", len(args))
		}
		h, ok := args[0].(*HashVal)
		if !ok {
			return nil, fmt.Errorf("values() expects a hash argument, got '%s'", args[0].TypeName())
		}
		elements := make([]Value, len(h.Keys))
		for i, k := range h.Keys {
			elements[i] = h.Pairs[k].Value
		}
		return &ArrayVal{Elements: elements}, nil
	})

	return builtins
}
