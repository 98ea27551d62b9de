package tsystem_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/expr"
	"github.com/katalvlaran/tazone/tsystem"
)

// button is a one-clock component: idle -[press?]-> pressed -[release!, x:=0]-> idle.
func button() *component.Component {
	decl := component.NewDeclarations([]string{"x"}, nil)
	return &component.Component{
		Name: "button",
		Decl: decl,
		Locations: []component.Location{
			{ID: "idle", Type: component.Initial},
			{ID: "pressed", Type: component.Normal},
		},
		Edges: []component.Edge{
			{Source: "idle", Target: "pressed", SyncType: component.Input, Sync: "press", ID: "e0"},
			{Source: "pressed", Target: "idle", SyncType: component.Output, Sync: "release", ID: "e1",
				Updates: []component.RawUpdate{{Clock: "x", RHS: expr.IntLit(0)}}},
		},
	}
}

// lamp is a zero-clock component reacting to release by turning on.
func lamp() *component.Component {
	decl := component.NewDeclarations(nil, nil)
	return &component.Component{
		Name: "lamp",
		Decl: decl,
		Locations: []component.Location{
			{ID: "off", Type: component.Initial},
			{ID: "on", Type: component.Normal},
		},
		Edges: []component.Edge{
			{Source: "off", Target: "on", SyncType: component.Input, Sync: "release", ID: "e0"},
			{Source: "on", Target: "off", SyncType: component.Input, Sync: "release", ID: "e1"},
		},
	}
}

func TestPrepareAndLeafInitial(t *testing.T) {
	leaves, err := tsystem.Prepare([]*component.Component{button()}, false)
	require.NoError(t, err)
	require.Len(t, leaves, 1)

	s, err := leaves[0].Initial()
	require.NoError(t, err)
	require.False(t, s.Zone.IsEmpty())
}

func TestCompositionOutputDisjointness(t *testing.T) {
	leaves, err := tsystem.Prepare([]*component.Component{button(), button()}, false)
	require.NoError(t, err)

	_, err = tsystem.NewComposition(leaves[0], leaves[1])
	require.ErrorIs(t, err, tsystem.ErrOutputsNotDisjoint)
}

func TestQuotientAlphabetAndIndependentStep(t *testing.T) {
	leaves, err := tsystem.Prepare([]*component.Component{button(), lamp()}, false)
	require.NoError(t, err)

	q, err := tsystem.NewQuotient(leaves[0], leaves[1])
	require.NoError(t, err)

	// inputs: T's inputs plus S's outputs plus the fresh symbol.
	require.ElementsMatch(t, []string{"press", tsystem.NewInputSymbol}, q.InputActions())
	// outputs: T's own output plus the S-input T does not consume.
	require.ElementsMatch(t, []string{"release"}, q.OutputActions())

	// One extra dimension for the quotient clock.
	require.Equal(t, leaves[0].Dim()+1, q.Dim())

	init, err := q.Initial()
	require.NoError(t, err)
	require.False(t, init.Zone.IsEmpty())

	// "press" is T's alone: T moves, S stands still.
	trans, err := q.Next(init.Loc, "press", component.Input)
	require.NoError(t, err)
	require.Len(t, trans, 1)
	next, ok, err := trans[0].UseTransition(init)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, init.Loc.Key(), next.Loc.Key())
}

func TestCompositionKeepsSharedActionAsOutput(t *testing.T) {
	leaves, err := tsystem.Prepare([]*component.Component{button(), lamp()}, false)
	require.NoError(t, err)

	comp, err := tsystem.NewComposition(leaves[0], leaves[1])
	require.NoError(t, err)
	require.Contains(t, comp.OutputActions(), "release")

	init, err := comp.Initial()
	require.NoError(t, err)
	require.False(t, init.Zone.IsEmpty())
}
