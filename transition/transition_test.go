package transition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
	"github.com/katalvlaran/tazone/ltree"
)

func TestUseTransitionStrictOrder(t *testing.T) {
	// dim = 2: clock 0 is the implicit zero clock, clock 1 is "x".
	dim := 2
	start := ltree.Simple(0, "l0", dbm.Universe(dim), component.Initial)
	target := ltree.Simple(0, "l1", dbm.Universe(dim), component.Normal)

	// guard: x >= 2 ; update: x := 0
	guard, err := dbm.Universe(dim).Constrain(0, 1, dbm.Bound{Value: -2, Strict: false})
	require.NoError(t, err)

	tr := Transition{
		ID:      Simple("e0"),
		Guard:   guard,
		Target:  target,
		Updates: []expr.Update{{I: 1, Value: 0}},
	}

	s := State{Loc: start, Zone: dbm.Init(dim)}
	_, ok, err := tr.UseTransition(s)
	require.NoError(t, err)
	require.False(t, ok, "x starts at 0, guard x>=2 must reject before any delay")

	delayed := dbm.Init(dim).Up()
	s2 := State{Loc: start, Zone: delayed}
	next, ok, err := tr.UseTransition(s2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, target, next.Loc)
}

func TestCombinationsCartesianProduct(t *testing.T) {
	dim := 2
	leftTree := ltree.Simple(0, "a", dbm.Universe(dim), component.Initial)
	rightTree := ltree.Simple(1, "b", dbm.Universe(dim), component.Initial)

	ls := []Transition{{ID: Simple("e0"), Guard: dbm.Universe(dim), Target: leftTree}}
	rs := []Transition{{ID: Simple("e1"), Guard: dbm.Universe(dim), Target: rightTree}}

	out, err := Combinations(ls, rs, IDComposition, ltree.KindComposition)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, IDComposition, out[0].ID.Kind)
	require.Equal(t, ltree.KindComposition, out[0].Target.Kind)
}

func TestIdentityTransition(t *testing.T) {
	dim := 3
	cur := ltree.Simple(0, "l0", dbm.Universe(dim), component.Initial)
	id := Identity(dim, cur)
	require.Equal(t, IDNone, id.ID.Kind)
	require.Same(t, cur, id.Target)
	require.Empty(t, id.Updates)
}
