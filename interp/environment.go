package interp

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"
)

// Environment is a mutable name->Object map plus an optional parent
// pointer (§3.6). Environments are themselves first-class Objects;
// identity is by allocation, never by content.
type Environment struct {
	vars   map[string]Object
	parent *Environment
}

// NewEnvironment creates a fresh environment with the given lexical
// parent (nil for the root/global environment).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: map[string]Object{}, parent: parent}
}

// Get walks the parent chain looking for name (§4.E).
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// GetLocal looks up name only in this environment, without walking
// parents.
func (e *Environment) GetLocal(name string) (Object, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Insert writes name locally, shadowing any parent binding.
func (e *Environment) Insert(name string, value Object) {
	e.vars[name] = value
}

// Assign walks the parent chain and rebinds the nearest existing
// definition of name; if none is found, it inserts locally (the
// superassignment fallback used by `<<-`-style semantics is left to the
// primitive layer — Assign here is the plain local/rebind primitive).
func (e *Environment) Assign(name string, value Object) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = value
			return
		}
	}
	e.vars[name] = value
}

// Remove deletes a locally bound name.
func (e *Environment) Remove(name string) {
	delete(e.vars, name)
}

// Append writes every named element of list locally; unnamed elements are
// ignored (§4.E). The caller is expected to surface the "ignored" cases as
// a warning via its own diagnostic channel, since warnings are out of
// scope for the core (§7).
func (e *Environment) Append(list *List) (ignored int) {
	mat := list.Materialize()
	names := mat.Names()
	vals := mat.data.Borrow()
	for i, v := range vals {
		if i >= len(names) || names[i].IsNA() {
			ignored++
			continue
		}
		e.vars[names[i].Value] = v
	}
	return ignored
}

// Len returns the number of locally bound names (§4.E).
func (e *Environment) Len() int { return len(e.vars) }

// Ls returns the locally bound names, sorted lexically (SUPPLEMENT: the
// `ls()` builtin never includes inherited bindings).
func (e *Environment) Ls() []string {
	keys := maps.Keys(e.vars)
	sort.Strings(keys)
	return keys
}

// Parent returns e's lexical parent, or nil at the root.
func (e *Environment) Parent() *Environment { return e.parent }

// Equal implements §3.6's identity rule: two environments compare equal
// iff they are the same allocation (§4.E).
func (e *Environment) Equal(other *Environment) bool { return e == other }

func (e *Environment) String() string { return fmt.Sprintf("<environment %p>", e) }
