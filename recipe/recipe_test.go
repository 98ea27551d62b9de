package recipe_test

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/expr"
)

// sender emits "go!" unboundedly often, resetting its clock each time.
func sender() *component.Component {
	decl := component.NewDeclarations([]string{"x"}, nil)
	return &component.Component{
		Name: "Sender",
		Decl: decl,
		Locations: []component.Location{
			{ID: "idle", Type: component.Initial},
		},
		Edges: []component.Edge{
			{ID: "e0", Source: "idle", Target: "idle", SyncType: component.Output, Sync: "go",
				Updates: []component.RawUpdate{{Clock: "x", RHS: expr.IntLit(0)}}},
		},
	}
}

// receiver waits for "go?" and moves to "busy", returning to "idle"
// after it has waited at least 2 time units.
func receiver() *component.Component {
	decl := component.NewDeclarations([]string{"y"}, nil)
	return &component.Component{
		Name: "Receiver",
		Decl: decl,
		Locations: []component.Location{
			{ID: "idle", Type: component.Initial},
			{ID: "busy", Type: component.Normal},
		},
		Edges: []component.Edge{
			{ID: "e0", Source: "idle", Target: "busy", SyncType: component.Input, Sync: "go",
				Updates: []component.RawUpdate{{Clock: "y", RHS: expr.IntLit(0)}}},
			{ID: "e1", Source: "busy", Target: "idle", SyncType: component.Output, Sync: "ack",
				Guard: &expr.Cmp{Op: expr.CmpGe, Left: expr.VarName("y"), Right: expr.IntLit(2)}},
		},
	}
}
