package interp

import "fmt"

// List is a heterogeneous named container of Objects (§3.5), structurally
// identical to Vector but with element type Object.
type List struct {
	data    Cow[[]Object]
	subsets Subsets
	naming  *Naming
}

func cloneObjects(o []Object) []Object {
	out := make([]Object, len(o))
	copy(out, o)
	return out
}

// NewList builds a raw list (no subsets) from elements, optionally named.
func NewList(elems []Object, names []Character) *List {
	l := &List{data: NewCow(elems, cloneObjects)}
	if names != nil {
		_ = l.SetNames(names)
	}
	return l
}

func (l *List) backingLen() int { return len(l.data.Borrow()) }

// Len is the composed view's length.
func (l *List) Len() int {
	if l.subsets.Empty() {
		return l.backingLen()
	}
	return len(l.subsets.IterIndices(l.backingLen(), l.naming))
}

func (l *List) indices() []int {
	if l.subsets.Empty() {
		return identityIndices(l.backingLen())
	}
	return l.subsets.IterIndices(l.backingLen(), l.naming)
}

// SetNames attaches element names; length must equal the backing length.
func (l *List) SetNames(names []Character) error {
	if len(names) != l.backingLen() {
		return fmt.Errorf("names length (%d) must equal list length (%d)", len(names), l.backingLen())
	}
	l.naming = NewNaming(names)
	return nil
}

// Names returns the composed view's names, NA where the element is
// unnamed (scenario 4, §8.2).
func (l *List) Names() []Character {
	if l.naming == nil {
		return nil
	}
	idxs := l.indices()
	backing := l.naming.Names()
	out := make([]Character, len(idxs))
	for i, idx := range idxs {
		if idx < 0 || idx >= len(backing) {
			out[i] = NACharacter
			continue
		}
		out[i] = backing[idx].(Character)
	}
	return out
}

// TryGet returns a sublist (a lazy subset) — the list analogue of
// Vector.Subset.
func (l *List) TryGet(s Subset) *List {
	return &List{
		data:    l.data.Clone(),
		subsets: l.subsets.Push(s),
		naming:  l.naming,
	}
}

// TryGetInner returns the single inner object at logical position i (the
// semantics of `[[`), or nil if out of range or NA.
func (l *List) TryGetInner(i int) Object {
	idxs := l.indices()
	if i < 0 || i >= len(idxs) {
		return nil
	}
	idx := idxs[i]
	backing := l.data.Borrow()
	if idx < 0 || idx >= len(backing) {
		return nil
	}
	return backing[idx]
}

// CloneShallow returns a lazily-cloned list: a fresh outer reference
// sharing the same backing box until either side diverges on write
// (P5). Used whenever a list value crosses a binding boundary (plain
// `<-` to a new name, promise forcing for a function argument) so that
// the new binding's mutations do not leak back into the source.
func (l *List) CloneShallow() *List {
	return &List{data: l.data.Clone(), subsets: l.subsets, naming: l.naming}
}

// ViewMut returns a list sharing the same outer ref as l, so nested
// assignment through the returned handle (the `$`-sugar mutable view
// of §3.5) is visible through l as well (P6).
func (l *List) ViewMut() *List {
	return &List{data: l.data.ViewMut(), subsets: l.subsets, naming: l.naming}
}

// Assign implements §4.E's list assignment rules: Null removes, length-1
// broadcasts (extending storage if the subset reaches beyond the current
// length), length-matching zips, and otherwise recycles cyclically (list
// assignment is more lenient than vector assignment, D-2).
func (l *List) Assign(s Subset, value Object) error {
	idxs := l.Subsets().Push(s).IterIndices(l.backingLen(), l.naming)
	if l.subsets.Empty() && s.Kind == SubsetIndices {
		// Keep positions past the end so the list can grow to reach them.
		idxs = make([]int, len(s.Indices))
		for i, pos := range s.Indices {
			idxs[i] = -1
			if !pos.IsNA() && pos > 0 {
				idxs[i] = int(pos) - 1
			}
		}
	}

	if _, isNull := value.(Null); isNull {
		return l.removeAt(idxs)
	}

	var values []Object
	switch v := value.(type) {
	case *List:
		values = v.Materialize().data.Borrow()
	default:
		values = []Object{value}
	}

	maxIdx := -1
	for _, idx := range idxs {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	if maxIdx >= l.backingLen() {
		l.extendTo(maxIdx + 1)
	}

	l.data.WithInnerMut(func(data *[]Object) any {
		switch {
		case len(values) == 1:
			for _, idx := range idxs {
				if idx >= 0 {
					(*data)[idx] = values[0]
				}
			}
		default:
			for i, idx := range idxs {
				if idx < 0 {
					continue
				}
				(*data)[idx] = values[i%len(values)]
			}
		}
		return nil
	})
	return nil
}

// Subsets exposes the current subset stack (used internally by Assign to
// compose one more stage without re-deriving a public Subset() method).
func (l *List) Subsets() Subsets { return l.subsets }

func (l *List) extendTo(n int) {
	l.data.WithInnerMut(func(data *[]Object) any {
		for len(*data) < n {
			*data = append(*data, Null{})
		}
		return nil
	})
}

// removeAt deletes elements at the given backing indices in one filtering
// pass, so every index refers to a position before any removal (§4.E).
func (l *List) removeAt(idxs []int) error {
	toRemove := map[int]bool{}
	for _, idx := range idxs {
		if idx >= 0 {
			toRemove[idx] = true
		}
	}
	l.data.WithInnerMut(func(data *[]Object) any {
		out := make([]Object, 0, len(*data))
		for i, v := range *data {
			if !toRemove[i] {
				out = append(out, v)
			}
		}
		*data = out
		return nil
	})
	if l.naming != nil {
		names := l.naming.Names()
		out := make([]Character, 0, len(names))
		for i, n := range names {
			if !toRemove[i] {
				out = append(out, n.(Character))
			}
		}
		l.naming = NewNaming(out)
	}
	return nil
}

// Materialize applies the composed subset and clears the subset stack.
func (l *List) Materialize() *List {
	idxs := l.indices()
	backing := l.data.Borrow()
	out := make([]Object, len(idxs))
	for i, idx := range idxs {
		if idx < 0 || idx >= len(backing) {
			out[i] = Null{}
			continue
		}
		out[i] = backing[idx]
	}
	result := NewList(out, nil)
	if l.naming != nil {
		result.naming = NewNaming(l.Names())
	}
	return result
}

func (l *List) String() string { return FormatList(l, "") }
