package analysis

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
	"github.com/katalvlaran/tazone/tsystem"
)

// CheckConsistency reports whether sys is least-consistent from its
// initial state. A state is consistent iff its location is Universal,
// or some enabled output leads to a consistent state, or it can delay
// indefinitely and every enabled input leads to a consistent state —
// and its location is not Inconsistent/Error. A saving output makes a
// state consistent regardless of where its inputs lead.
//
// The search is a depth-first recursion with a per-location passed
// list covered via federation subset; a state already covered is
// treated as consistent, which short-circuits cycles. Zones are
// extrapolated after every step.
func CheckConsistency(sys tsystem.System, maxStates int) error {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	init, err := sys.Initial()
	if err != nil {
		return err
	}
	if init.Zone.IsEmpty() {
		return &Error{Kind: KindInconsistency, Message: "no initial state"}
	}
	// Successor zones come out of UseTransition delay-closed; close the
	// initial zone the same way so the can-delay test means the same
	// thing everywhere.
	z := init.Zone.Up()
	if z, err = z.Intersection(init.Loc.Invariant); err != nil {
		return err
	}
	init.Zone = z

	c := &consistencyChecker{
		sys:       sys,
		bounds:    sys.MaxBounds(),
		passed:    map[string][]dbm.Federation{},
		maxStates: maxStates,
	}
	ok, err := c.consistent(init)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{Kind: KindInconsistency, LeftLocKey: c.witness, Message: "no saving output and cannot delay indefinitely"}
	}
	return nil
}

type consistencyChecker struct {
	sys       tsystem.System
	bounds    []int
	passed    map[string][]dbm.Federation
	visits    int
	maxStates int
	witness   string // location key of the state the recursion failed at
}

func (c *consistencyChecker) consistent(st transition.State) (bool, error) {
	key := st.Loc.Key()
	for _, z := range c.passed[key] {
		covered, err := st.Zone.SubsetEq(z)
		if err != nil {
			return false, err
		}
		if covered {
			return true, nil
		}
	}
	if st.Loc.Kind == ltree.KindUniversal || st.Loc.Type == component.Universal {
		return true, nil
	}
	if st.Loc.Kind == ltree.KindError || st.Loc.Type == component.Inconsistent {
		c.witness = key
		return false, nil
	}
	if c.visits >= c.maxStates {
		// Bounded search: beyond the cap the remainder is assumed
		// consistent, matching the other explorations' behavior.
		return true, nil
	}
	c.visits++
	c.passed[key] = append(c.passed[key], st.Zone)

	// Any output whose post-state is consistent saves this state
	// outright.
	for _, act := range c.sys.OutputActions() {
		trans, err := c.sys.Next(st.Loc, act, component.Output)
		if err != nil {
			return false, err
		}
		for _, tr := range trans {
			next, fired, err := c.step(tr, st)
			if err != nil {
				return false, err
			}
			if !fired {
				continue
			}
			ok, err := c.consistent(next)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}

	if !st.Zone.CanDelayIndefinitely() {
		c.witness = key
		return false, nil
	}

	for _, act := range c.sys.InputActions() {
		trans, err := c.sys.Next(st.Loc, act, component.Input)
		if err != nil {
			return false, err
		}
		for _, tr := range trans {
			next, fired, err := c.step(tr, st)
			if err != nil {
				return false, err
			}
			if !fired {
				continue
			}
			ok, err := c.consistent(next)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

func (c *consistencyChecker) step(tr transition.Transition, st transition.State) (transition.State, bool, error) {
	next, fired, err := tr.UseTransition(st)
	if err != nil || !fired {
		return transition.State{}, false, err
	}
	zone, err := next.Zone.ExtrapolateMaxBounds(c.bounds)
	if err != nil {
		return transition.State{}, false, err
	}
	next.Zone = zone
	return next, true, nil
}
