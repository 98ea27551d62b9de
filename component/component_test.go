package component_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
)

func cmp(op expr.CmpKind, name string, v int) expr.BoolExpr {
	return &expr.Cmp{Op: op, Left: expr.VarName(name), Right: expr.IntLit(v)}
}

func TestValidateRejectsMalformedComponents(t *testing.T) {
	tests := []struct {
		name string
		c    component.Component
		want error
	}{
		{
			name: "no initial location",
			c: component.Component{
				Name: "M",
				Decl: component.NewDeclarations(nil, nil),
				Locations: []component.Location{
					{ID: "L0", Type: component.Normal},
				},
			},
			want: component.ErrNoInitialLocation,
		},
		{
			name: "two initial locations",
			c: component.Component{
				Name: "M",
				Decl: component.NewDeclarations(nil, nil),
				Locations: []component.Location{
					{ID: "L0", Type: component.Initial},
					{ID: "L1", Type: component.Initial},
				},
			},
			want: component.ErrNoInitialLocation,
		},
		{
			name: "edge to unknown location",
			c: component.Component{
				Name: "M",
				Decl: component.NewDeclarations(nil, nil),
				Locations: []component.Location{
					{ID: "L0", Type: component.Initial},
				},
				Edges: []component.Edge{
					{ID: "E0", Source: "L0", Target: "nope", SyncType: component.Output, Sync: "a"},
				},
			},
			want: component.ErrUnknownSourceLocation,
		},
		{
			name: "wildcard on output edge",
			c: component.Component{
				Name: "M",
				Decl: component.NewDeclarations(nil, nil),
				Locations: []component.Location{
					{ID: "L0", Type: component.Initial},
				},
				Edges: []component.Edge{
					{ID: "E0", Source: "L0", Target: "L0", SyncType: component.Output, Sync: component.WildcardSync},
				},
			},
			want: component.ErrWildcardOnOutput,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.c.Validate(), tc.want)
		})
	}
}

func TestCompileRejectsUndeclaredUpdateClock(t *testing.T) {
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations([]string{"x"}, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial},
		},
		Edges: []component.Edge{
			{
				ID: "E0", Source: "L0", Target: "L0",
				SyncType: component.Output, Sync: "a",
				Updates: []component.RawUpdate{{Clock: "z", RHS: expr.IntLit(0)}},
			},
		},
	}
	_, err := component.Compile(c)
	require.Error(t, err)
}

func TestActionsExcludeWildcard(t *testing.T) {
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations(nil, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial},
		},
		Edges: []component.Edge{
			{ID: "E0", Source: "L0", Target: "L0", SyncType: component.Input, Sync: "grant"},
			{ID: "E1", Source: "L0", Target: "L0", SyncType: component.Input, Sync: component.WildcardSync},
			{ID: "E2", Source: "L0", Target: "L0", SyncType: component.Output, Sync: "coin"},
		},
	}
	assert.Equal(t, []string{"grant"}, c.InputActions())
	assert.Equal(t, []string{"coin"}, c.OutputActions())
}

// TestInputEnableCoversInvariant checks the input-enabling guarantee:
// after the transform, the union of a location's input-edge guards for
// an action, restricted to the location invariant, equals the
// invariant itself.
func TestInputEnableCoversInvariant(t *testing.T) {
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations([]string{"x"}, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial, Invariant: cmp(expr.CmpLe, "x", 10)},
			{ID: "L1", Type: component.Normal},
		},
		Edges: []component.Edge{
			{
				ID: "E0", Source: "L0", Target: "L1",
				SyncType: component.Input, Sync: "a",
				Guard: cmp(expr.CmpLe, "x", 3),
			},
		},
	}
	cc, err := component.Compile(c)
	require.NoError(t, err)
	require.NoError(t, component.InputEnable(cc))

	// A self-loop on "a" must have been added at L0.
	var loops int
	for _, e := range cc.Edges {
		if e.Source == "L0" && e.Target == "L0" && e.Sync == "a" {
			loops++
		}
	}
	require.Equal(t, 1, loops)

	inv, err := dbm.Universe(cc.Dim).Constrain(1, 0, dbm.Bound{Value: 10, Strict: false})
	require.NoError(t, err)

	union := dbm.Empty(cc.Dim)
	for _, e := range cc.Edges {
		if e.Source != "L0" || e.SyncType != component.Input || e.Sync != "a" {
			continue
		}
		g, err := e.Guard.Apply(dbm.Universe(cc.Dim))
		require.NoError(t, err)
		union, err = union.Union(g)
		require.NoError(t, err)
	}
	covered, err := union.Intersection(inv)
	require.NoError(t, err)
	eq, err := inv.SubsetEq(covered)
	require.NoError(t, err)
	assert.True(t, eq, "input-edge guards must cover the whole invariant")
}

func TestInputEnableSkipsFullyGuardedAction(t *testing.T) {
	// A wildcard input edge with no guard already accepts everything;
	// no self-loop should be added.
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations([]string{"x"}, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial},
		},
		Edges: []component.Edge{
			{ID: "E0", Source: "L0", Target: "L0", SyncType: component.Input, Sync: component.WildcardSync},
			{ID: "E1", Source: "L0", Target: "L0", SyncType: component.Input, Sync: "a"},
		},
	}
	cc, err := component.Compile(c)
	require.NoError(t, err)
	before := len(cc.Edges)
	require.NoError(t, component.InputEnable(cc))
	assert.Equal(t, before, len(cc.Edges))
}

func TestAssignStableIDs(t *testing.T) {
	c := &component.Component{
		Name: "M",
		Decl: component.NewDeclarations(nil, nil),
		Locations: []component.Location{
			{ID: "L0", Type: component.Initial},
		},
		Edges: []component.Edge{
			{ID: "first", Source: "L0", Target: "L0", SyncType: component.Output, Sync: "a"},
			{ID: "second", Source: "L0", Target: "L0", SyncType: component.Output, Sync: "b"},
		},
	}
	cc, err := component.Compile(c)
	require.NoError(t, err)
	component.AssignStableIDs(cc)
	require.Equal(t, "E0", cc.Edges[0].ID)
	require.Equal(t, "E1", cc.Edges[1].ID)
}
