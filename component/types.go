package component

import (
	"errors"

	"github.com/katalvlaran/tazone/expr"
)

// Sentinel errors for component preparation.
var (
	// ErrNoInitialLocation is returned when a component declares zero
	// (or more than one) Initial location.
	ErrNoInitialLocation = errors.New("component: exactly one Initial location required")

	// ErrUnknownSourceLocation is returned when an edge references a
	// location id the component does not declare.
	ErrUnknownSourceLocation = errors.New("component: edge references unknown location")

	// ErrWildcardOnOutput is returned when the wildcard sync "*" is
	// used on an output edge (legal only on input edges).
	ErrWildcardOnOutput = errors.New("component: wildcard sync is only legal on input edges")
)

// LocationType tags the role a location plays.
type LocationType int

const (
	Normal LocationType = iota
	Initial
	Universal
	Inconsistent
	Any
)

// SyncType distinguishes input and output edges.
type SyncType int

const (
	Input SyncType = iota
	Output
)

// WildcardSync is the input-only wildcard that matches any sync of the
// matching type during input-enabling.
const WildcardSync = "*"

// Location is a single control state of a component.
type Location struct {
	ID        string
	Invariant expr.BoolExpr // nil means "true" (no invariant)
	Type      LocationType
	Urgent    bool // carried but not reasoned about by the core
}

// RawUpdate is a single uncompiled `clock := expr` assignment.
type RawUpdate struct {
	Clock string
	RHS   expr.ArithExpr
}

// Edge is a single uncompiled transition of a component.
type Edge struct {
	ID       string
	Source   string
	Target   string
	SyncType SyncType
	Sync     string
	Guard    expr.BoolExpr // nil means "true"
	Updates  []RawUpdate
}

// ClockUsage records where a clock is referenced, built before clock
// reduction; it is empty once reduction has run.
type ClockUsage struct {
	EdgesUsedIn        []string // edges whose guard mentions this clock
	LocationInvariants []string // locations whose invariant mentions this clock
	EdgesAssignedIn    []string // edges that reset this clock
}

// Component is a single timed automaton before compilation.
type Component struct {
	Name        string
	Decl        *Declarations
	Locations   []Location
	Edges       []Edge
	ClockUsages map[string]ClockUsage
}

// InitialLocation returns the component's single Initial location.
func (c *Component) InitialLocation() (*Location, error) {
	var found *Location
	for i := range c.Locations {
		if c.Locations[i].Type == Initial {
			if found != nil {
				return nil, ErrNoInitialLocation
			}
			found = &c.Locations[i]
		}
	}
	if found == nil {
		return nil, ErrNoInitialLocation
	}
	return found, nil
}

// Validate checks structural well-formedness: exactly one Initial
// location, every edge references declared locations, and wildcard
// sync is only used on inputs.
func (c *Component) Validate() error {
	if _, err := c.InitialLocation(); err != nil {
		return err
	}
	ids := make(map[string]struct{}, len(c.Locations))
	for _, l := range c.Locations {
		ids[l.ID] = struct{}{}
	}
	for _, e := range c.Edges {
		if _, ok := ids[e.Source]; !ok {
			return ErrUnknownSourceLocation
		}
		if _, ok := ids[e.Target]; !ok {
			return ErrUnknownSourceLocation
		}
		if e.Sync == WildcardSync && e.SyncType == Output {
			return ErrWildcardOnOutput
		}
	}
	return nil
}

// InputActions returns the distinct non-wildcard input sync names.
func (c *Component) InputActions() []string { return c.actionsOf(Input) }

// OutputActions returns the distinct output sync names.
func (c *Component) OutputActions() []string { return c.actionsOf(Output) }

func (c *Component) actionsOf(kind SyncType) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range c.Edges {
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
