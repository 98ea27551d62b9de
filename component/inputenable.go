package component

import (
	"fmt"

	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
)

// allow computes the zone of valuations from which firing a
// guard/updates pair keeps the post-state within targetInvariant —
// the guard restricted to the pre-image of the target's invariant
// under the (constant-reset) updates. Uses the *target* invariant,
// not only the source's.
func allow(guard expr.Guard, updates []expr.Update, targetInvariant dbm.Federation, dim int) (dbm.Federation, error) {
	g, err := guard.Apply(dbm.Universe(dim))
	if err != nil {
		return dbm.Federation{}, err
	}
	pre := targetInvariant
	for _, u := range updates {
		pre, err = pre.ConstrainEq(u.I, u.Value)
		if err != nil {
			return dbm.Federation{}, err
		}
	}
	for _, u := range updates {
		pre = pre.Free(u.I)
	}
	return g.Intersection(pre)
}

// guardFromFederation converts a federation into an expr.Guard whose
// Apply reconstructs an equivalent zone, for storing a computed
// federation (e.g. an input-enabling self-loop's guard) back as a
// CompiledEdge.Guard.
func guardFromFederation(fed dbm.Federation) expr.Guard {
	per := fed.MinimalConstraints()
	clauses := make([][]expr.Constraint, 0, len(per))
	for _, disjunct := range per {
		clause := make([]expr.Constraint, 0, len(disjunct))
		for _, c := range disjunct {
			clause = append(clause, expr.Constraint{I: c.I, J: c.J, Bound: c.Bound})
		}
		clauses = append(clauses, clause)
	}
	return expr.Guard{Clauses: clauses}
}

// InputEnable saturates a compiled component: for every (location, input
// action) pair, any valuation where no real edge would fire gains a
// guarded self-loop input accepting that action, so every location is
// input-enabled over the component's full input alphabet.
func InputEnable(cc *CompiledComponent) error {
	actions := cc.InputActions()
	for li := range cc.Locations {
		loc := &cc.Locations[li]
		locInv, err := loc.Invariant.Apply(dbm.Universe(cc.Dim))
		if err != nil {
			return fmt.Errorf("component %s: location %s invariant: %w", cc.Name, loc.ID, err)
		}
		for _, action := range actions {
			union := dbm.Empty(cc.Dim)
			for _, e := range cc.Edges {
				if e.Source != loc.ID || e.SyncType != Input {
					continue
				}
				if e.Sync != action && e.Sync != WildcardSync {
					continue
				}
				target, ok := cc.LocationByID(e.Target)
				if !ok {
					return fmt.Errorf("component %s: edge %s: unknown target %s", cc.Name, e.ID, e.Target)
				}
				targetInv, err := target.Invariant.Apply(dbm.Universe(cc.Dim))
				if err != nil {
					return err
				}
				allowed, err := allow(e.Guard, e.Updates, targetInv, cc.Dim)
				if err != nil {
					return fmt.Errorf("component %s: edge %s: %w", cc.Name, e.ID, err)
				}
				union, err = union.Union(allowed)
				if err != nil {
					return err
				}
			}
			complement, err := locInv.Subtraction(union)
			if err != nil {
				return err
			}
			if complement.IsEmpty() {
				continue
			}
			cc.Edges = append(cc.Edges, CompiledEdge{
				Source:   loc.ID,
				Target:   loc.ID,
				SyncType: Input,
				Sync:     action,
				Guard:    guardFromFederation(complement),
			})
		}
	}
	return nil
}
