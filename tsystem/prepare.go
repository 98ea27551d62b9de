package tsystem

import (
	"fmt"

	"github.com/katalvlaran/tazone/clockreduce"
	"github.com/katalvlaran/tazone/component"
)

// Prepare runs the full per-component preparation pipeline — clock
// reduction, compilation, input-enabling, stable edge-id assignment —
// and then assigns each component a disjoint range of the shared
// global clock dimension, returning one Leaf per input component in
// order.
//
// disableReduction skips clock reduction, matching the ambient
// DisableClockReduction setting.
func Prepare(components []*component.Component, disableReduction bool) ([]*Leaf, error) {
	prepared := make([]*component.CompiledComponent, len(components))
	localBounds := make([][]int, len(components))
	for i, c := range components {
		if !disableReduction {
			clockreduce.Reduce(c)
		}
		cc, err := component.Compile(c)
		if err != nil {
			return nil, fmt.Errorf("tsystem: prepare %s: %w", c.Name, err)
		}
		if err := component.InputEnable(cc); err != nil {
			return nil, fmt.Errorf("tsystem: prepare %s: %w", c.Name, err)
		}
		component.AssignStableIDs(cc)
		prepared[i] = cc
		localBounds[i] = maxBoundsOf(cc)
	}

	dim := 1
	offsets := make([]int, len(prepared))
	for i, cc := range prepared {
		offsets[i] = dim - 1
		dim += cc.Dim - 1
	}

	leaves := make([]*Leaf, len(prepared))
	for i, cc := range prepared {
		leaves[i] = NewLeaf(i, cc, offsets[i], dim, localBounds[i])
	}
	return leaves, nil
}

// maxBoundsOf scans every invariant and guard for the largest finite
// constant each local clock is ever compared against, the input
// ExtrapolateMaxBounds needs to keep reachability search finite.
func maxBoundsOf(cc *component.CompiledComponent) []int {
	bounds := make([]int, cc.Dim)
	note := func(i int, v int) {
		if i == 0 {
			return
		}
		if v < 0 {
			v = -v
		}
		if v > bounds[i] {
			bounds[i] = v
		}
	}
	for _, l := range cc.Locations {
		for _, clause := range l.Invariant.Clauses {
			for _, c := range clause {
				if !c.Bound.IsInf() {
					note(c.I, c.Bound.Value)
					note(c.J, c.Bound.Value)
				}
			}
		}
	}
	for _, e := range cc.Edges {
		for _, clause := range e.Guard.Clauses {
			for _, c := range clause {
				if !c.Bound.IsInf() {
					note(c.I, c.Bound.Value)
					note(c.J, c.Bound.Value)
				}
			}
		}
	}
	return bounds
}
