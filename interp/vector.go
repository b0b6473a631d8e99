package interp

import "fmt"

// Vector is a typed vector over the atomic modes, backed by a Cow cell and
// subsetted lazily via a Subsets stack (§3.4).
type Vector struct {
	Mode    Mode
	data    Cow[[]Scalar]
	subsets Subsets
	naming  *Naming
}

// NewVector builds a raw vector (no subsets, no names) from data.
func NewVector(mode Mode, data []Scalar) *Vector {
	return &Vector{Mode: mode, data: NewCow(data, cloneScalars)}
}

// backingLen is the length of the shared backing store, irrespective of
// any subsets applied.
func (v *Vector) backingLen() int { return len(v.data.Borrow()) }

// Len is the length of the composed (lazy) view (§4.D).
func (v *Vector) Len() int {
	if v.subsets.Empty() {
		return v.backingLen()
	}
	return len(v.subsets.IterIndices(v.backingLen(), v.naming))
}

// IsNamed reports whether this view carries names.
func (v *Vector) IsNamed() bool { return v.naming != nil }

// Names returns the composed view's names, or nil if unnamed.
func (v *Vector) Names() []Character {
	if v.naming == nil {
		return nil
	}
	idxs := v.subsets.IterIndices(v.backingLen(), v.naming)
	backing := v.naming.Names()
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

// SetNames attaches a name vector. Length must equal the length of the
// backing store; it rebuilds the name->indices multimap (§4.D).
func (v *Vector) SetNames(names []Character) error {
	if len(names) != v.backingLen() {
		return fmt.Errorf("names length (%d) must equal vector length (%d)", len(names), v.backingLen())
	}
	v.naming = NewNaming(names)
	return nil
}

// Subset returns a new vector sharing the backing store, with s pushed
// onto the subset stack (lazy clone: see cow.go).
func (v *Vector) Subset(s Subset) *Vector {
	return &Vector{
		Mode:    v.Mode,
		data:    v.data.Clone(),
		subsets: v.subsets.Push(s),
		naming:  v.naming,
	}
}

// Get materializes a singleton slice at logical position i (0-origin), or
// nil if out of range.
func (v *Vector) Get(i int) *Vector {
	idxs := v.indices()
	if i < 0 || i >= len(idxs) {
		return nil
	}
	backing := v.data.Borrow()
	idx := idxs[i]
	var val Scalar
	if idx < 0 || idx >= len(backing) {
		val = naOf(v.Mode)
	} else {
		val = backing[idx]
	}
	return NewVector(v.Mode, []Scalar{val})
}

// indices resolves the composed view against the backing store.
func (v *Vector) indices() []int {
	if v.subsets.Empty() {
		return identityIndices(v.backingLen())
	}
	return v.subsets.IterIndices(v.backingLen(), v.naming)
}

// ErrNonRecyclableLengths mirrors ErrorKind NonRecyclableLengths (§4.J);
// it is wrapped into a Signal by callers that have access to call-stack
// context.
type ErrNonRecyclableLengths struct{ N, M int }

func (e ErrNonRecyclableLengths) Error() string {
	return fmt.Sprintf("non-recyclable lengths: %d and %d", e.N, e.M)
}

// CloneShallow returns a lazily-cloned vector: a fresh outer reference
// sharing the same backing box until either side diverges on write
// (P5). Used whenever a vector value crosses a binding boundary (plain
// `<-` to a new name, promise forcing for a function argument) so that
// the new binding's mutations do not leak back into the source.
func (v *Vector) CloneShallow() *Vector {
	return &Vector{Mode: v.Mode, data: v.data.Clone(), subsets: v.subsets, naming: v.naming}
}

// assignAtIndices writes other's values into v's own backing store at
// the given backing-store positions, through v's own Cow reference (not
// a derived clone), so the write is visible to every alias of v and
// triggers COW divergence from any sibling lazy clones (P5).
func (v *Vector) assignAtIndices(idxs []int, other *Vector) error {
	n := len(idxs)
	m := other.Len()
	if m != n && m != 1 {
		return ErrNonRecyclableLengths{N: n, M: m}
	}
	otherBacking := other.data.Borrow()
	otherIdxs := other.indices()

	v.data.WithInnerMut(func(data *[]Scalar) any {
		for i, idx := range idxs {
			if idx < 0 {
				continue
			}
			var src Scalar
			if m == 1 {
				src = valueAt(otherBacking, otherIdxs, 0)
			} else {
				src = valueAt(otherBacking, otherIdxs, i)
			}
			(*data)[idx] = CoerceScalar(src, v.Mode)
		}
		return nil
	})
	return nil
}

// SetSubset writes value into the backing store at the single position
// resolved by composing s onto v's existing subset stack. s must
// resolve to exactly one element. The write goes through v's own Cow
// reference, not a derived view, so that `x[[i]] <- v` actually mutates
// x (§4.D).
func (v *Vector) SetSubset(s Subset, value *Vector) error {
	idxs := v.subsets.Push(s).IterIndices(v.backingLen(), v.naming)
	if len(idxs) != 1 {
		return fmt.Errorf("subset for SetSubset must resolve to length 1, got %d", len(idxs))
	}
	return v.assignAtIndices(idxs, value)
}

// AssignThroughSubset writes value into v's own backing store at the
// positions composing s onto v's existing subset stack (§4.D's
// vectorized `x[s] <- v` form). The right-hand length must equal the
// selection length, or be 1 (scalar broadcast).
func (v *Vector) AssignThroughSubset(s Subset, value *Vector) error {
	idxs := v.subsets.Push(s).IterIndices(v.backingLen(), v.naming)
	return v.assignAtIndices(idxs, value)
}

// Assign is the vectorized write described in §4.D: legal only if the
// right-hand length equals the left-hand length, or is 1 (scalar
// broadcast). Writes go through v's own composed subset via
// WithInnerMut, triggering COW divergence from any sibling lazy clones
// (P5).
func (v *Vector) Assign(other *Vector) error {
	return v.assignAtIndices(v.indices(), other)
}

func valueAt(backing []Scalar, idxs []int, pos int) Scalar {
	if pos < 0 || pos >= len(idxs) {
		return naOf(ModeLogical)
	}
	idx := idxs[pos]
	if idx < 0 || idx >= len(backing) {
		return naOf(modeOf(backing[0]))
	}
	return backing[idx]
}

// Materialize produces a new vector with the composed subset applied and
// an empty subset stack, cloning values (§4.D).
func (v *Vector) Materialize() *Vector {
	idxs := v.indices()
	backing := v.data.Borrow()
	out := make([]Scalar, len(idxs))
	for i, idx := range idxs {
		if idx < 0 || idx >= len(backing) {
			out[i] = naOf(v.Mode)
			continue
		}
		out[i] = backing[idx]
	}
	result := NewVector(v.Mode, out)
	if v.naming != nil {
		names := v.Names()
		_ = result.SetNames(names)
	}
	return result
}

// AsLogical, AsInteger, AsDouble, AsCharacter materialize the view and
// coerce every element at once, producing a new vector of the requested
// mode with NAs preserved (§4.D).
func (v *Vector) AsMode(to Mode) *Vector {
	m := v.Materialize()
	m.Mode = to
	backing := m.data.Borrow()
	m.data = NewCow(CoerceInto(backing, to), cloneScalars)
	return m
}

func (v *Vector) AsLogical() *Vector   { return v.AsMode(ModeLogical) }
func (v *Vector) AsInteger() *Vector   { return v.AsMode(ModeInteger) }
func (v *Vector) AsDouble() *Vector    { return v.AsMode(ModeDouble) }
func (v *Vector) AsCharacter() *Vector { return v.AsMode(ModeCharacter) }

// IterValues returns the materialized scalar values of the composed view.
func (v *Vector) IterValues() []Scalar {
	return v.Materialize().data.Borrow()
}

// IterNames returns the materialized names of the composed view, or nil.
func (v *Vector) IterNames() []Character {
	return v.Names()
}

// IterPairs returns (name, value) pairs for the composed view; names are
// NA where unnamed.
func (v *Vector) IterPairs() [][2]any {
	vals := v.IterValues()
	names := v.IterNames()
	out := make([][2]any, len(vals))
	for i, val := range vals {
		var nm Character = NACharacter
		if i < len(names) {
			nm = names[i]
		}
		out[i] = [2]any{nm, val}
	}
	return out
}

func (v *Vector) String() string { return FormatVector(v) }

// binaryRecycle resolves the lengths of two operands per §4.D's strict
// recycling rule: scalar broadcast, equal lengths, or failure.
func binaryRecycle(lhs, rhs *Vector) (n int, err error) {
	ln, rn := lhs.Len(), rhs.Len()
	switch {
	case ln == rn:
		return ln, nil
	case ln == 1:
		return rn, nil
	case rn == 1:
		return ln, nil
	default:
		return 0, ErrNonRecyclableLengths{N: ln, M: rn}
	}
}

func recycledValue(vals []Scalar, n int) func(i int) Scalar {
	if len(vals) == 1 {
		return func(int) Scalar { return vals[0] }
	}
	return func(i int) Scalar { return vals[i] }
}

// Arith evaluates a binary arithmetic operator over the CommonNum lattice.
// op receives two doubles (or two integers, pre-widened); an NA operand
// yields NA without calling op (P1).
func Arith(lhs, rhs *Vector, op func(a, b Double) Double) (*Vector, error) {
	n, err := binaryRecycle(lhs, rhs)
	if err != nil {
		return nil, err
	}
	common, ok := CommonNum(lhs.Mode, rhs.Mode)
	if !ok {
		return nil, fmt.Errorf("non-numeric argument to binary operator")
	}
	lv := lhs.AsMode(common).IterValues()
	rv := rhs.AsMode(common).IterValues()
	lf := recycledValue(lv, n)
	rf := recycledValue(rv, n)
	out := make([]Scalar, n)
	for i := 0; i < n; i++ {
		a, b := lf(i), rf(i)
		if a.IsNA() || b.IsNA() {
			out[i] = naOf(common)
			continue
		}
		switch common {
		case ModeInteger:
			res := op(Double(a.(Integer)), Double(b.(Integer)))
			out[i] = Integer(int32(res))
		default:
			res := op(toDouble(a), toDouble(b))
			out[i] = res
		}
	}
	return NewVector(common, out), nil
}

func toDouble(s Scalar) Double {
	switch v := s.(type) {
	case Integer:
		return Double(v)
	case Double:
		return v
	case Logical:
		if v == True {
			return 1
		}
		return 0
	default:
		panic("interp: toDouble of non-numeric scalar")
	}
}

// Compare evaluates a binary comparison operator over the CommonCmp
// lattice, always producing a logical result.
func Compare(lhs, rhs *Vector, op func(a, b Scalar) bool) (*Vector, error) {
	n, err := binaryRecycle(lhs, rhs)
	if err != nil {
		return nil, err
	}
	common := CommonCmp(lhs.Mode, rhs.Mode)
	lv := lhs.AsMode(common).IterValues()
	rv := rhs.AsMode(common).IterValues()
	lf := recycledValue(lv, n)
	rf := recycledValue(rv, n)
	out := make([]Scalar, n)
	for i := 0; i < n; i++ {
		a, b := lf(i), rf(i)
		if a.IsNA() || b.IsNA() {
			out[i] = NALogical
			continue
		}
		if op(a, b) {
			out[i] = True
		} else {
			out[i] = False
		}
	}
	return NewVector(ModeLogical, out), nil
}

// Logic evaluates a binary logical operator (&, |); both sides are
// coerced to logical, strings are rejected.
func Logic(lhs, rhs *Vector, op func(a, b Logical) Logical) (*Vector, error) {
	if lhs.Mode == ModeCharacter || rhs.Mode == ModeCharacter {
		return nil, fmt.Errorf("operations are possible only for numeric or logical types")
	}
	n, err := binaryRecycle(lhs, rhs)
	if err != nil {
		return nil, err
	}
	lv := lhs.AsLogical().IterValues()
	rv := rhs.AsLogical().IterValues()
	lf := recycledValue(lv, n)
	rf := recycledValue(rv, n)
	out := make([]Scalar, n)
	for i := 0; i < n; i++ {
		out[i] = op(lf(i).(Logical), rf(i).(Logical))
	}
	return NewVector(ModeLogical, out), nil
}
