package interp

import "sync/atomic"

// Cow is a copy-on-write cell, the backing primitive for every vector and
// list (§3.2, §4.B): an outer handle (ref) that may be lazily cloned
// independently of the inner payload (box), which is shared until first
// write.
//
// Two Cows created by Clone share a box at the moment of cloning but
// diverge on first write to either (P5). Two Cows created by ViewMut
// share the same ref and therefore always observe the same box (P6).
type Cow[T any] struct {
	ref *cowRef[T]
}

type cowRef[T any] struct {
	box *cowBox[T]
}

type cowBox[T any] struct {
	shared int32 // approximate refcount: how many outer refs currently point here
	clone  func(T) T
	data   T
}

// NewCow creates a fresh Cow owning data exclusively. clone must produce an
// independent copy of a T (e.g. a slice copy); it is invoked by
// WithInnerMut only when the box is observed to be shared.
func NewCow[T any](data T, clone func(T) T) Cow[T] {
	box := &cowBox[T]{shared: 1, clone: clone, data: data}
	return Cow[T]{ref: &cowRef[T]{box: box}}
}

// Clone performs a lazy clone: the returned Cow gets a fresh outer ref but
// shares the current box, which is marked shared so the next write on
// either side copies first.
func (c Cow[T]) Clone() Cow[T] {
	atomic.AddInt32(&c.ref.box.shared, 1)
	return Cow[T]{ref: &cowRef[T]{box: c.ref.box}}
}

// ViewMut produces a mutable view: the returned Cow shares this Cow's
// outer ref, so writes made through either handle are visible through the
// other (P6).
func (c Cow[T]) ViewMut() Cow[T] {
	return Cow[T]{ref: c.ref}
}

// Borrow returns a read-only snapshot of the current payload.
func (c Cow[T]) Borrow() T {
	return c.ref.box.data
}

// WithInnerMut obtains exclusive access to the inner payload, cloning it
// first if it is presently shared with a sibling produced by Clone.
func (c Cow[T]) WithInnerMut(f func(*T) any) any {
	box := c.ref.box
	if atomic.LoadInt32(&box.shared) > 1 {
		newBox := &cowBox[T]{shared: 1, clone: box.clone, data: box.clone(box.data)}
		atomic.AddInt32(&box.shared, -1)
		c.ref.box = newBox
		box = newBox
	}
	return f(&box.data)
}
