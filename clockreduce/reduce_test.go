package clockreduce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/clockreduce"
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/expr"
)

func ge(name string, v int) expr.BoolExpr {
	return &expr.Cmp{Op: expr.CmpGe, Left: expr.VarName(name), Right: expr.IntLit(v)}
}

func TestReduceRemovesUnusedClock(t *testing.T) {
	// y is assigned on E0 but never appears in a guard or invariant.
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations([]string{"x", "y"}, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial},
		},
		Edges: []component.Edge{
			{
				ID: "E0", Source: "L0", Target: "L0",
				SyncType: component.Output, Sync: "a",
				Guard: ge("x", 2),
				Updates: []component.RawUpdate{
					{Clock: "x", RHS: expr.IntLit(0)},
					{Clock: "y", RHS: expr.IntLit(0)},
				},
			},
		},
	}
	clockreduce.Reduce(c)

	assert.Equal(t, []string{"x"}, c.Decl.ClockNames())
	require.Len(t, c.Edges[0].Updates, 1)
	assert.Equal(t, "x", c.Edges[0].Updates[0].Clock)
}

func TestReduceMergesEdgeEquivalentClocks(t *testing.T) {
	// x and y both appear in guards and are reset to the same constant
	// on every edge that touches either, so they collapse to x.
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations([]string{"x", "y"}, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial},
		},
		Edges: []component.Edge{
			{
				ID: "E0", Source: "L0", Target: "L0",
				SyncType: component.Output, Sync: "a",
				Guard: &expr.And{Left: ge("x", 1), Right: ge("y", 1)},
				Updates: []component.RawUpdate{
					{Clock: "x", RHS: expr.IntLit(0)},
					{Clock: "y", RHS: expr.IntLit(0)},
				},
			},
		},
	}
	clockreduce.Reduce(c)

	assert.Equal(t, []string{"x"}, c.Decl.ClockNames())
	// The merged pair collapses to a single reset of the survivor.
	require.Len(t, c.Edges[0].Updates, 1)
	assert.Equal(t, "x", c.Edges[0].Updates[0].Clock)
}

func TestReduceKeepsClocksSplitByAnEdge(t *testing.T) {
	// E0 resets x but not y, so the two must stay distinct even though
	// both appear in guards.
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations([]string{"x", "y"}, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial},
		},
		Edges: []component.Edge{
			{
				ID: "E0", Source: "L0", Target: "L0",
				SyncType: component.Output, Sync: "a",
				Guard: &expr.And{Left: ge("x", 1), Right: ge("y", 1)},
				Updates: []component.RawUpdate{
					{Clock: "x", RHS: expr.IntLit(0)},
				},
			},
		},
	}
	clockreduce.Reduce(c)

	assert.Equal(t, []string{"x", "y"}, c.Decl.ClockNames())
	require.Len(t, c.Edges[0].Updates, 1)
}

func TestReduceSplitsOnDifferentResetConstants(t *testing.T) {
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations([]string{"x", "y"}, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial},
		},
		Edges: []component.Edge{
			{
				ID: "E0", Source: "L0", Target: "L0",
				SyncType: component.Output, Sync: "a",
				Guard: &expr.And{Left: ge("x", 1), Right: ge("y", 1)},
				Updates: []component.RawUpdate{
					{Clock: "x", RHS: expr.IntLit(0)},
					{Clock: "y", RHS: expr.IntLit(5)},
				},
			},
		},
	}
	clockreduce.Reduce(c)

	assert.Equal(t, []string{"x", "y"}, c.Decl.ClockNames())
}

func TestReduceRenamesGuardsToSurvivor(t *testing.T) {
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations([]string{"x", "y"}, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial, Invariant: ge("y", 0)},
		},
		Edges: []component.Edge{
			{
				ID: "E0", Source: "L0", Target: "L0",
				SyncType: component.Output, Sync: "a",
				Guard: &expr.And{Left: ge("x", 1), Right: ge("y", 1)},
				Updates: []component.RawUpdate{
					{Clock: "x", RHS: expr.IntLit(0)},
					{Clock: "y", RHS: expr.IntLit(0)},
				},
			},
		},
	}
	clockreduce.Reduce(c)

	require.Equal(t, []string{"x"}, c.Decl.ClockNames())
	// The component must still compile: every surviving reference
	// resolves against the compressed declarations.
	_, err := component.Compile(c)
	require.NoError(t, err)
}
