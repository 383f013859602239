package tree

import (
	"iter"
	"maps"
	"slices"
)

// Env is a binding environment mapping names to the nodes bound to them.
// The zero value is not usable; create one with [NewEnv].
type Env struct {
	bindings map[string]*Node
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]*Node)}
}

// Lookup returns the node bound to name.
func (e *Env) Lookup(name string) (*Node, bool) {
	if e == nil {
		return nil, false
	}

	n, ok := e.bindings[name]

	return n, ok
}

// Bind binds name to n, replacing any previous binding.
// Nodes already placed in converted trees keep their identity; only later
// lookups observe the new binding.
func (e *Env) Bind(name string, n *Node) {
	e.bindings[name] = n
}

// Len returns the number of bound names.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}

	return len(e.bindings)
}

// Names returns an iterator over the bound names in sorted order.
func (e *Env) Names() iter.Seq[string] {
	if e == nil {
		return func(func(string) bool) {}
	}

	return slices.Values(slices.Sorted(maps.Keys(e.bindings)))
}

// Reset removes every binding.
func (e *Env) Reset() {
	if e != nil {
		clear(e.bindings)
	}
}

// ResetEnv removes every binding from env.
// Callers decide when, if ever, to reset an environment between documents.
func ResetEnv(env *Env) { env.Reset() }
