package interp

import (
	"sort"

	"golang.org/x/exp/slices"
)

// Subset is one stage of the lazy index algebra (§3.3). Exactly one of the
// fields is meaningful, selected by Kind.
type SubsetKind int

const (
	SubsetIndices SubsetKind = iota
	SubsetMask
	SubsetRange
	SubsetNames
)

// Subset is a single lazy view description.
type Subset struct {
	Kind    SubsetKind
	Indices []Integer   // SubsetIndices: 1-origin, NA allowed, may repeat/unsort
	Mask    []Logical   // SubsetMask: recycled to source length
	Start   int         // SubsetRange: 0-origin half-open [Start,End)
	End     int         // SubsetRange: -1 means unbounded
	Names   []Character // SubsetNames: resolved against a Naming
}

// Subsets is an ordered stack of Subset stages, composed left to right
// (§3.3). The zero value is the empty stack (identity view).
type Subsets struct {
	stages []Subset
}

// Push appends a new stage, returning the extended stack. Subsets are
// immutable value types; Push never mutates the receiver's backing slice.
func (s Subsets) Push(sub Subset) Subsets {
	out := make([]Subset, len(s.stages)+1)
	copy(out, s.stages)
	out[len(s.stages)] = sub
	return Subsets{stages: out}
}

// Empty reports whether the stack has no stages.
func (s Subsets) Empty() bool { return len(s.stages) == 0 }

// resolveStage turns a single Subset into a slice of optional 0-origin
// indices against an upstream length (and, for Names, a Naming).
func resolveStage(sub Subset, upstreamLen int, naming *Naming) []int {
	const naIndex = -1
	switch sub.Kind {
	case SubsetIndices:
		if len(sub.Indices) == 0 {
			return []int{}
		}
		out := make([]int, len(sub.Indices))
		for i, idx := range sub.Indices {
			if idx.IsNA() {
				out[i] = naIndex
				continue
			}
			zero := int(idx) - 1
			if zero < 0 {
				out[i] = naIndex
				continue
			}
			out[i] = zero
		}
		return out
	case SubsetMask:
		if len(sub.Mask) == 0 {
			return []int{}
		}
		n := upstreamLen
		out := make([]int, 0, n)
		for i := 0; i < n; i++ {
			m := sub.Mask[i%len(sub.Mask)]
			if m.IsNA() {
				out = append(out, naIndex)
			} else if m == True {
				out = append(out, i)
			}
		}
		return out
	case SubsetRange:
		end := sub.End
		if end < 0 || end > upstreamLen {
			end = upstreamLen
		}
		start := sub.Start
		if start < 0 {
			start = 0
		}
		if start >= end {
			return []int{}
		}
		out := make([]int, end-start)
		for i := range out {
			out[i] = start + i
		}
		return out
	case SubsetNames:
		out := make([]int, len(sub.Names))
		for i, nm := range sub.Names {
			if nm.IsNA() || naming == nil {
				out[i] = naIndex
				continue
			}
			if idxs, ok := naming.Lookup(nm.Value); ok && len(idxs) > 0 {
				out[i] = idxs[0]
			} else {
				out[i] = naIndex
			}
		}
		return out
	}
	panic("interp: unknown subset kind")
}

// IterIndices composes the stack against a backing length (and optional
// naming, consulted only by Names stages) and yields, for each logical
// position, the resolved 0-origin backing index, or -1 for NA/out-of-range.
//
// The performance contract of §4.C is honored for SubsetIndices stages:
// empty, single, sorted-ascending and unsorted cases are each handled
// without repeatedly restarting the upstream iterator.
func (s Subsets) IterIndices(backingLen int, naming *Naming) []int {
	cur := identityIndices(backingLen)
	for _, stage := range s.stages {
		cur = composeStage(stage, cur, naming)
	}
	return cur
}

func identityIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// composeStage resolves one stage against the result of the previous
// stage ("upstream"), applying the §4.C performance contract when the
// stage is SubsetIndices.
func composeStage(stage Subset, upstream []int, naming *Naming) []int {
	if stage.Kind != SubsetIndices {
		resolved := resolveStage(stage, len(upstream), naming)
		return remapThroughUpstream(resolved, upstream)
	}

	switch {
	case len(stage.Indices) == 0:
		return []int{}
	case len(stage.Indices) == 1:
		pos := stage.Indices[0]
		if pos.IsNA() {
			return []int{-1}
		}
		zero := int(pos) - 1
		if zero < 0 || zero >= len(upstream) {
			return []int{-1}
		}
		return []int{upstream[zero]}
	case isAscending(stage.Indices):
		out := make([]int, 0, len(stage.Indices))
		for _, pos := range stage.Indices {
			out = append(out, resolveOne(pos, upstream))
		}
		return out
	default:
		type pair struct {
			order int
			pos   Integer
		}
		pairs := make([]pair, len(stage.Indices))
		for i, p := range stage.Indices {
			pairs[i] = pair{order: i, pos: p}
		}
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].pos < pairs[j].pos
		})
		sampled := make([]int, len(pairs))
		for i, p := range pairs {
			sampled[i] = resolveOne(p.pos, upstream)
		}
		out := make([]int, len(pairs))
		for i, p := range pairs {
			out[p.order] = sampled[i]
		}
		return out
	}
}

func resolveOne(pos Integer, upstream []int) int {
	if pos.IsNA() {
		return -1
	}
	zero := int(pos) - 1
	if zero < 0 || zero >= len(upstream) {
		return -1
	}
	return upstream[zero]
}

func isAscending(idx []Integer) bool {
	for i := 1; i < len(idx); i++ {
		if idx[i].IsNA() || idx[i-1].IsNA() {
			return false
		}
		if idx[i] < idx[i-1] {
			return false
		}
	}
	return true
}

// remapThroughUpstream maps each resolved 0-origin index (into upstream's
// logical space) to the corresponding backing index via upstream.
func remapThroughUpstream(resolved []int, upstream []int) []int {
	out := make([]int, len(resolved))
	for i, r := range resolved {
		if r < 0 || r >= len(upstream) {
			out[i] = -1
			continue
		}
		out[i] = upstream[r]
	}
	return out
}

// GetIndexAt performs random-access resolution of a single logical
// position, returning -1 if out of range or NA.
func (s Subsets) GetIndexAt(pos int, backingLen int, naming *Naming) int {
	all := s.IterIndices(backingLen, naming)
	if pos < 0 || pos >= len(all) {
		return -1
	}
	return all[pos]
}

// Naming pairs a name vector with a multimap from name to the indices that
// bear it (first occurrence wins on lookup, §3.4).
type Naming struct {
	names   Cow[[]Scalar] // Character scalars, one per backing element
	byName  map[string][]int
}

// NewNaming builds a Naming from a slice of names, indexing every
// occurrence of each name.
func NewNaming(names []Character) *Naming {
	scalars := make([]Scalar, len(names))
	byName := map[string][]int{}
	for i, n := range names {
		scalars[i] = n
		if !n.IsNA() {
			byName[n.Value] = append(byName[n.Value], i)
		}
	}
	return &Naming{
		names:  NewCow(scalars, cloneScalars),
		byName: byName,
	}
}

// Lookup returns the indices bearing name, first occurrence first.
func (n *Naming) Lookup(name string) ([]int, bool) {
	idx, ok := n.byName[name]
	return idx, ok
}

// Names returns the backing name slice (read-only snapshot).
func (n *Naming) Names() []Scalar {
	if n == nil {
		return nil
	}
	return n.names.Borrow()
}

// Len reports how many names are indexed (equal to the backing length).
func (n *Naming) Len() int {
	if n == nil {
		return 0
	}
	return len(n.names.Borrow())
}

// sortedNameKeys returns the distinct name keys of a Naming in lexical
// order (§4.E).
func sortedNameKeys(n *Naming) []string {
	if n == nil {
		return nil
	}
	keys := make([]string, 0, len(n.byName))
	for k := range n.byName {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
