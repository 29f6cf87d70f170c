package runtime

import "sort"

// Environment represents a variable scope with a parent chain.
// Closures hold a pointer to the scope they were defined in, so a scope lives as
// long as any function that captured it.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment with an optional parent scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Get looks up a variable by walking the scope chain.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, exists := env.values[name]; exists {
			return val, true
		}
	}
	return nil, false
}

// Set binds name in this scope. It never touches a parent scope, so a binding
// in an inner scope shadows the outer one.
func (e *Environment) Set(name string, value Value) {
	e.values[name] = value
}

// Names returns every name visible from this scope, sorted.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.parent {
		for name := range env.values {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
