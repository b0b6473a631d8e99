package interp

// ObjKind tags the variant of the Object sum type (§3.9).
type ObjKind int

const (
	KindNull ObjKind = iota
	KindVector
	KindList
	KindExpression
	KindPromise
	KindFunction
	KindEnvironment
)

// Object is the runtime value (§3.9): Null | Vector | List | Expression |
// Promise | Function | Environment.
type Object interface {
	Kind() ObjKind
	String() string
}

// Null is the unit value and the absorbing element for most operations.
type Null struct{}

func (Null) Kind() ObjKind   { return KindNull }
func (Null) String() string  { return "NULL" }

func (v *Vector) Kind() ObjKind      { return KindVector }
func (l *List) Kind() ObjKind        { return KindList }
func (e *Expression) Kind() ObjKind  { return KindExpression }
func (p *Promise) Kind() ObjKind     { return KindPromise }
func (f *Function) Kind() ObjKind    { return KindFunction }
func (e *Environment) Kind() ObjKind { return KindEnvironment }

// cloneObjectForBinding applies copy-on-write isolation at a binding
// boundary (§3.5, P5): Vector and List values are given a fresh outer
// Cow reference sharing the same backing box, so mutation through the
// new binding (a local variable, a forced function argument) diverges
// from the source instead of aliasing it. Other object kinds already
// carry reference or value semantics appropriate to their kind and
// pass through unchanged.
func cloneObjectForBinding(o Object) Object {
	switch v := o.(type) {
	case *Vector:
		return v.CloneShallow()
	case *List:
		return v.CloneShallow()
	default:
		return o
	}
}

// ObjectsEqual implements §3.9's structural-recursion equality: two
// Objects are equal by structural recursion, with environments compared
// by identity and promises compared by cached result (or by
// (expression, env-identity) if unforced).
func ObjectsEqual(a, b Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return vectorEqualAfterCoercion(a, b)
	}
	switch av := a.(type) {
	case Null:
		return true
	case *Vector:
		return vectorsEqual(av, b.(*Vector))
	case *List:
		return listsEqual(av, b.(*List))
	case *Environment:
		return av.Equal(b.(*Environment))
	case *Expression:
		return expressionsEqual(av, b.(*Expression))
	case *Promise:
		bp := b.(*Promise)
		if av.forced && bp.forced {
			return ObjectsEqual(av.value, bp.value)
		}
		return av.expr == bp.expr && av.env == bp.env
	case *Function:
		bf := b.(*Function)
		return av == bf
	}
	return false
}

func vectorsEqual(a, b *Vector) bool {
	av, bv := a.IterValues(), b.IterValues()
	if len(av) != len(bv) {
		return false
	}
	if a.Mode != b.Mode {
		return vectorEqualAfterCoercion(a, b)
	}
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}

func listsEqual(a, b *List) bool {
	am, bm := a.Materialize(), b.Materialize()
	av, bv := am.data.Borrow(), bm.data.Borrow()
	if len(av) != len(bv) {
		return false
	}
	for i := range av {
		if !ObjectsEqual(av[i], bv[i]) {
			return false
		}
	}
	return true
}

// vectorEqualAfterCoercion handles the "mixed kinds fall through to
// vectorized comparison after coercion" rule of §4.D's Special equality.
func vectorEqualAfterCoercion(a, b Object) bool {
	av, aok := a.(*Vector)
	bv, bok := b.(*Vector)
	if !aok || !bok {
		return false
	}
	result, err := Compare(av, bv, func(x, y Scalar) bool { return x == y })
	if err != nil {
		return false
	}
	for _, v := range result.IterValues() {
		if v != True {
			return false
		}
	}
	return true
}
