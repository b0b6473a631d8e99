package interp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scalarsEqual(a, b Scalar) bool {
	return a == b
}

func intVec(vals ...int32) *Vector {
	out := make([]Scalar, len(vals))
	for i, v := range vals {
		out[i] = Integer(v)
	}
	return NewVector(ModeInteger, out)
}

func dblVec(vals ...float64) *Vector {
	out := make([]Scalar, len(vals))
	for i, v := range vals {
		out[i] = Double(v)
	}
	return NewVector(ModeDouble, out)
}

func TestVectorLenAndBackingLen(t *testing.T) {
	v := intVec(1, 2, 3)
	if v.Len() != 3 || v.backingLen() != 3 {
		t.Fatalf("Len/backingLen = %d/%d, want 3/3", v.Len(), v.backingLen())
	}
}

func TestVectorSetNamesLengthMismatch(t *testing.T) {
	v := intVec(1, 2)
	if err := v.SetNames([]Character{NewCharacter("a")}); err == nil {
		t.Fatal("SetNames with mismatched length must error")
	}
}

func TestVectorSetNamesAndNames(t *testing.T) {
	v := intVec(1, 2)
	if err := v.SetNames([]Character{NewCharacter("a"), NewCharacter("b")}); err != nil {
		t.Fatalf("SetNames: %v", err)
	}
	names := v.Names()
	if len(names) != 2 || names[0].Value != "a" || names[1].Value != "b" {
		t.Fatalf("Names() = %v", names)
	}
}

func TestVectorSubsetIsLazyAndIndependent(t *testing.T) {
	v := intVec(10, 20, 30)
	sub := v.Subset(Subset{Kind: SubsetIndices, Indices: []Integer{2}})
	if sub.Len() != 1 {
		t.Fatalf("sub.Len() = %d, want 1", sub.Len())
	}
	got := sub.Get(0)
	if got.IterValues()[0] != Integer(20) {
		t.Fatalf("sub.Get(0) = %v, want 20", got.IterValues()[0])
	}
}

func TestVectorGetOutOfRangeReturnsNil(t *testing.T) {
	v := intVec(1)
	if v.Get(5) != nil {
		t.Fatal("Get out of range must return nil")
	}
}

func TestVectorCloneShallowDivergesOnAssign(t *testing.T) {
	v := intVec(1, 2, 3)
	clone := v.CloneShallow()

	if err := clone.Assign(intVec(99, 98, 97)); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if v.IterValues()[0] == Integer(99) {
		t.Fatal("write through clone must not leak back to original (P5)")
	}
	if clone.IterValues()[0] != Integer(99) {
		t.Fatal("write through clone must be visible on the clone itself")
	}
}

func TestVectorAssignScalarBroadcast(t *testing.T) {
	v := intVec(1, 2, 3)
	if err := v.Assign(intVec(7)); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	for _, got := range v.IterValues() {
		if got != Integer(7) {
			t.Fatalf("broadcast assign left %v, want all 7", v.IterValues())
		}
	}
}

func TestVectorAssignLengthMismatchErrors(t *testing.T) {
	v := intVec(1, 2, 3)
	if err := v.Assign(intVec(1, 2)); err == nil {
		t.Fatal("Assign with non-recyclable length must error")
	}
}

func TestVectorSetSubsetSingleElement(t *testing.T) {
	v := intVec(1, 2, 3)
	if err := v.SetSubset(Subset{Kind: SubsetIndices, Indices: []Integer{2}}, intVec(99)); err != nil {
		t.Fatalf("SetSubset: %v", err)
	}
	if v.IterValues()[1] != Integer(99) {
		t.Fatalf("v[1] = %v, want 99", v.IterValues()[1])
	}
}

func TestVectorAssignThroughSubsetVectorized(t *testing.T) {
	v := intVec(1, 2, 3, 4)
	s := Subset{Kind: SubsetRange, Start: 1, End: 3}
	if err := v.AssignThroughSubset(s, intVec(20, 30)); err != nil {
		t.Fatalf("AssignThroughSubset: %v", err)
	}
	got := v.IterValues()
	if got[1] != Integer(20) || got[2] != Integer(30) {
		t.Fatalf("AssignThroughSubset result = %v", got)
	}
}

func TestVectorMaterializeAppliesSubsetAndClearsStack(t *testing.T) {
	v := intVec(1, 2, 3).Subset(Subset{Kind: SubsetIndices, Indices: []Integer{3, 1}})
	m := v.Materialize()
	got := m.IterValues()
	if got[0] != Integer(3) || got[1] != Integer(1) {
		t.Fatalf("Materialize() = %v, want [3 1]", got)
	}
	if !m.subsets.Empty() {
		t.Fatal("Materialize must clear the subset stack")
	}
}

func TestVectorAsModeCoercesAndPreservesNA(t *testing.T) {
	v := intVec(1, 2)
	v2 := v.AsDouble()
	if v2.Mode != ModeDouble {
		t.Fatalf("AsDouble().Mode = %v, want double", v2.Mode)
	}
	if v2.IterValues()[0] != Double(1) {
		t.Fatalf("AsDouble()[0] = %v, want 1.0", v2.IterValues()[0])
	}
}

func TestVectorIterPairsUnnamedGivesNA(t *testing.T) {
	v := intVec(1, 2)
	pairs := v.IterPairs()
	if len(pairs) != 2 {
		t.Fatalf("IterPairs length = %d, want 2", len(pairs))
	}
	nm := pairs[0][0].(Character)
	if !nm.IsNA() {
		t.Fatal("unnamed vector's IterPairs must report NA names")
	}
}

func TestArithAddition(t *testing.T) {
	result, err := Arith(intVec(1, 2, 3), intVec(10, 20, 30), func(a, b Double) Double { return a + b })
	if err != nil {
		t.Fatalf("Arith: %v", err)
	}
	got := result.IterValues()
	if got[0] != Integer(11) || got[1] != Integer(22) || got[2] != Integer(33) {
		t.Fatalf("Arith result = %v", got)
	}
}

func TestArithNAPropagates(t *testing.T) {
	lhs := NewVector(ModeInteger, []Scalar{NAInteger, Integer(2)})
	result, err := Arith(lhs, intVec(1, 1), func(a, b Double) Double { return a + b })
	if err != nil {
		t.Fatalf("Arith: %v", err)
	}
	got := result.IterValues()
	if !got[0].IsNA() {
		t.Fatalf("Arith with NA operand = %v, want NA", got[0])
	}
}

func TestArithWidensToDouble(t *testing.T) {
	result, err := Arith(intVec(1), dblVec(0.5), func(a, b Double) Double { return a + b })
	if err != nil {
		t.Fatalf("Arith: %v", err)
	}
	if result.Mode != ModeDouble {
		t.Fatalf("Arith(int, double).Mode = %v, want double", result.Mode)
	}
	if result.IterValues()[0] != Double(1.5) {
		t.Fatalf("Arith result = %v, want 1.5", result.IterValues()[0])
	}
}

func TestArithNonRecyclableLengthErrors(t *testing.T) {
	_, err := Arith(intVec(1, 2, 3), intVec(1, 2), func(a, b Double) Double { return a + b })
	if err == nil {
		t.Fatal("Arith with non-recyclable lengths must error")
	}
}

func TestArithRejectsCharacter(t *testing.T) {
	v := NewVector(ModeCharacter, []Scalar{NewCharacter("x")})
	_, err := Arith(v, intVec(1), func(a, b Double) Double { return a + b })
	if err == nil {
		t.Fatal("Arith over character operand must error")
	}
}

func TestCompareProducesLogicalAndHandlesNA(t *testing.T) {
	lhs := NewVector(ModeInteger, []Scalar{Integer(1), NAInteger, Integer(3)})
	rhs := intVec(1, 1, 2)
	result, err := Compare(lhs, rhs, func(a, b Scalar) bool { return a.(Integer) > b.(Integer) })
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if result.Mode != ModeLogical {
		t.Fatalf("Compare().Mode = %v, want logical", result.Mode)
	}
	got := result.IterValues()
	if got[0] != False || !got[1].IsNA() || got[2] != True {
		t.Fatalf("Compare result = %v", got)
	}
}

func TestLogicRejectsCharacter(t *testing.T) {
	v := NewVector(ModeCharacter, []Scalar{NewCharacter("x")})
	logical := NewVector(ModeLogical, []Scalar{True})
	_, err := Logic(v, logical, func(a, b Logical) Logical { return a })
	if err == nil {
		t.Fatal("Logic over character operand must error")
	}
}

func TestLogicAndOperator(t *testing.T) {
	lhs := NewVector(ModeLogical, []Scalar{True, False})
	rhs := NewVector(ModeLogical, []Scalar{True, True})
	result, err := Logic(lhs, rhs, func(a, b Logical) Logical {
		if a == True && b == True {
			return True
		}
		return False
	})
	if err != nil {
		t.Fatalf("Logic: %v", err)
	}
	got := result.IterValues()
	if got[0] != True || got[1] != False {
		t.Fatalf("Logic(AND) result = %v", got)
	}
}

func TestArithRecyclingMatchesExpectedElementwiseResult(t *testing.T) {
	lhs := dblVec(1, 2, 3, 4)
	rhs := dblVec(10)
	result, err := Arith(lhs, rhs, func(a, b Double) Double { return a + b })
	if err != nil {
		t.Fatalf("Arith: %v", err)
	}
	want := []Scalar{Double(11), Double(12), Double(13), Double(14)}
	if diff := cmp.Diff(want, result.IterValues(), cmp.Comparer(scalarsEqual)); diff != "" {
		t.Fatalf("Arith recycling mismatch (-want +got):\n%s", diff)
	}
}
