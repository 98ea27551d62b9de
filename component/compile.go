package component

import (
	"fmt"

	"github.com/katalvlaran/tazone/expr"
)

// CompiledLocation is a location with its invariant compiled to a
// native Guard.
type CompiledLocation struct {
	ID        string
	Invariant expr.Guard
	Type      LocationType
	Urgent    bool
}

// CompiledEdge is an edge with its guard and updates compiled.
type CompiledEdge struct {
	ID       string
	Source   string
	Target   string
	SyncType SyncType
	Sync     string
	Guard    expr.Guard
	Updates  []expr.Update
}

// CompiledComponent is a Component whose guards, invariants and
// updates have all been resolved against its Declarations.
type CompiledComponent struct {
	Name      string
	Decl      *Declarations
	Dim       int
	Locations []CompiledLocation
	Edges     []CompiledEdge
	InitialID string
}

func trueBool() expr.BoolExpr { return expr.BoolLit(true) }

// Compile resolves every guard, invariant and update of c against its
// own Declarations, producing a CompiledComponent at the component's
// local dimension (1 + its own clock count).
func Compile(c *Component) (*CompiledComponent, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	init, err := c.InitialLocation()
	if err != nil {
		return nil, err
	}

	cc := &CompiledComponent{
		Name:      c.Name,
		Decl:      c.Decl,
		Dim:       1 + c.Decl.ClockCount(),
		InitialID: init.ID,
	}
	for _, l := range c.Locations {
		inv := l.Invariant
		if inv == nil {
			inv = trueBool()
		}
		g, err := expr.CompileBool(inv, c.Decl)
		if err != nil {
			return nil, fmt.Errorf("component %s: location %s invariant: %w", c.Name, l.ID, err)
		}
		cc.Locations = append(cc.Locations, CompiledLocation{
			ID: l.ID, Invariant: g, Type: l.Type, Urgent: l.Urgent,
		})
	}
	for _, e := range c.Edges {
		guard := e.Guard
		if guard == nil {
			guard = trueBool()
		}
		g, err := expr.CompileBool(guard, c.Decl)
		if err != nil {
			return nil, fmt.Errorf("component %s: edge %s guard: %w", c.Name, e.ID, err)
		}
		var updates []expr.Update
		for _, u := range e.Updates {
			idx, ok := c.Decl.ClockIndex(u.Clock)
			if !ok {
				return nil, fmt.Errorf("component %s: edge %s: update to undeclared clock %q", c.Name, e.ID, u.Clock)
			}
			cu, err := expr.CompileUpdate(idx, u.RHS, c.Decl)
			if err != nil {
				return nil, fmt.Errorf("component %s: edge %s: update to %s: %w", c.Name, e.ID, u.Clock, err)
			}
			updates = append(updates, cu)
		}
		cc.Edges = append(cc.Edges, CompiledEdge{
			ID: e.ID, Source: e.Source, Target: e.Target,
			SyncType: e.SyncType, Sync: e.Sync, Guard: g, Updates: updates,
		})
	}
	return cc, nil
}

// LocationByID returns the compiled location with the given id.
func (cc *CompiledComponent) LocationByID(id string) (*CompiledLocation, bool) {
	for i := range cc.Locations {
		if cc.Locations[i].ID == id {
			return &cc.Locations[i], true
		}
	}
	return nil, false
}

// InputActions returns the distinct non-wildcard input sync names.
func (cc *CompiledComponent) InputActions() []string { return cc.actionsOf(Input) }

// OutputActions returns the distinct output sync names.
func (cc *CompiledComponent) OutputActions() []string { return cc.actionsOf(Output) }

func (cc *CompiledComponent) actionsOf(kind SyncType) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range cc.Edges {
		if e.SyncType != kind || e.Sync == WildcardSync {
			continue
		}
		if _, ok := seen[e.Sync]; !ok {
			seen[e.Sync] = struct{}{}
			out = append(out, e.Sync)
		}
	}
	return out
}
