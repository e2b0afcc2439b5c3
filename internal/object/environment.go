package object

import "sort"

// Environment is one scope frame. Frames are created for the globals, for
// each call, and for each block, loop iteration and catch clause. A closure
// keeps its defining frame alive by holding a pointer to it.
type Environment struct {
	Bindings map[string]Object
	Outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{Bindings: make(map[string]Object)}
}

// NewEnclosedEnvironment initializes an environment with a parent.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

// Get walks the chain outward and reports whether name is bound anywhere.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		if val, ok := env.Bindings[name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Define binds name in this frame, shadowing any outer binding, and returns
// the value.
func (e *Environment) Define(name string, val Object) Object {
	e.Bindings[name] = val
	return val
}

// Assign rebinds name in the innermost frame that defines it. When no frame
// does, the name is defined in this frame.
func (e *Environment) Assign(name string, val Object) Object {
	for env := e; env != nil; env = env.Outer {
		if _, ok := env.Bindings[name]; ok {
			env.Bindings[name] = val
			return val
		}
	}
	e.Bindings[name] = val
	return val
}

// Names lists the names bound in this frame only, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.Bindings))
	for k := range e.Bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
