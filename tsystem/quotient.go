package tsystem

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
)

// NewInputSymbol is the synthetic input action every quotient system
// gains: on the guard ¬Inv(lT) ∧ Inv(lS), firing it escapes to Error;
// elsewhere it is simply not enabled.
const NewInputSymbol = "new_input"

// Quotient is the "\\" division: what must run alongside S for T to be
// considered satisfied. T is the dividend, S the divisor.
//
// Quotient adds one fresh clock index — the quotient clock — on top of
// T's and S's shared dimension, used only to pin the Error location's
// invariant and the escape-to-Error update to 0. T's and
// S's own transitions are lifted into this one-larger dimension via
// dbm.Embed before being combined, so every zone a Quotient state
// carries lives in the same space its Error/Universal sinks do.
type Quotient struct {
	T, S     System
	out      []string
	in       []string
	newInput string
}

// NewQuotient builds a Quotient after checking that S never outputs an
// action T consumes as input. The synthetic "give up" input is named
// NewInputSymbol; use NewQuotientWithSymbol when a recipe nests
// several quotients and needs distinct symbols to avoid an alphabet
// collision.
func NewQuotient(t, s System) (*Quotient, error) {
	return NewQuotientWithSymbol(t, s, NewInputSymbol)
}

// NewQuotientWithSymbol behaves like NewQuotient but names the
// synthetic "give up" input newInput instead of NewInputSymbol.
//
// The quotient's inputs are T's inputs plus S's outputs plus the fresh
// symbol; its outputs are T's outputs S does not produce, plus S's
// inputs T does not consume.
func NewQuotientWithSymbol(t, s System, newInput string) (*Quotient, error) {
	if overlapActions(s.OutputActions(), t.InputActions()) {
		return nil, ErrQuotientPrecondition
	}
	in := unionActions(t.InputActions(), unionActions(s.OutputActions(), []string{newInput}))
	out := unionActions(
		subtractActions(t.OutputActions(), s.OutputActions()),
		subtractActions(s.InputActions(), t.InputActions()),
	)
	return &Quotient{T: t, S: s, out: out, in: in, newInput: newInput}, nil
}

// Dim is one more than the shared dimension T and S were prepared
// over: index q.T.Dim() is the fresh quotient clock.
func (q *Quotient) Dim() int                { return q.T.Dim() + 1 }
func (q *Quotient) InputActions() []string  { return q.in }
func (q *Quotient) OutputActions() []string { return q.out }

// quotientClock is the fresh clock's global index.
func (q *Quotient) quotientClock() int { return q.T.Dim() }

func (q *Quotient) MaxBounds() []int {
	merged := mergeBounds(q.T.MaxBounds(), q.S.MaxBounds())
	bounds := make([]int, q.Dim())
	copy(bounds, merged)
	bounds[q.quotientClock()] = 0
	return bounds
}

func (q *Quotient) Initial() (transition.State, error) {
	ts, err := q.T.Initial()
	if err != nil {
		return transition.State{}, err
	}
	ss, err := q.S.Initial()
	if err != nil {
		return transition.State{}, err
	}
	dim := q.Dim()
	zone, err := dbm.Embed(ts.Zone, dim, 0).Intersection(dbm.Embed(ss.Zone, dim, 0))
	if err != nil {
		return transition.State{}, err
	}
	tree := ltree.ComposeQuotient(liftTree(ts.Loc, dim), liftTree(ss.Loc, dim), dbm.Universe(dim))
	return transition.State{Loc: tree, Zone: zone}, nil
}

func (q *Quotient) universal() *ltree.Tree { return ltree.Special(ltree.KindUniversal, dbm.Universe(q.Dim())) }

// errorSink's invariant fixes the quotient clock to 0.
func (q *Quotient) errorSink() *ltree.Tree {
	inv, _ := dbm.Universe(q.Dim()).ConstrainEq(q.quotientClock(), 0)
	return ltree.Special(ltree.KindError, inv)
}

// liftTree rebuilds t with every node's invariant embedded into the
// dim-dimensional quotient federation space, leaving the fresh
// quotient-clock row/column unconstrained.
func liftTree(t *ltree.Tree, dim int) *ltree.Tree {
	if t == nil {
		return nil
	}
	return &ltree.Tree{
		Kind:      t.Kind,
		LeafKey:   t.LeafKey,
		Left:      liftTree(t.Left, dim),
		Right:     liftTree(t.Right, dim),
		Invariant: dbm.Embed(t.Invariant, dim, 0),
		Type:      t.Type,
	}
}

// liftTransitions embeds every guard and lifts every target tree of ts
// into the dim-dimensional quotient space; IDs and updates (which never
// reference the fresh clock) pass through unchanged.
func liftTransitions(ts []transition.Transition, dim int) []transition.Transition {
	out := make([]transition.Transition, len(ts))
	for i, t := range ts {
		out[i] = transition.Transition{
			ID:      t.ID,
			Guard:   dbm.Embed(t.Guard, dim, 0),
			Target:  liftTree(t.Target, dim),
			Updates: t.Updates,
		}
	}
	return out
}

// unionGuards is the federation reachable by firing any one of ts,
// each guard embedded into dim first.
func unionGuards(ts []transition.Transition, dim int) (dbm.Federation, error) {
	fed := dbm.Empty(dim)
	for _, t := range ts {
		var err error
		fed, err = fed.Union(dbm.Embed(t.Guard, dim, 0))
		if err != nil {
			return dbm.Federation{}, err
		}
	}
	return fed, nil
}

func (q *Quotient) Next(loc *ltree.Tree, sync string, kind component.SyncType) ([]transition.Transition, error) {
	dim := q.Dim()

	if loc.Kind == ltree.KindUniversal {
		// the sink accepts everything and never leaves.
		return []transition.Transition{{ID: transition.Simple("universal-self"), Guard: dbm.Universe(dim), Target: loc}}, nil
	}
	if loc.Kind == ltree.KindError {
		// Error only ever accepts inputs, and only while the quotient
		// clock still reads 0.
		if kind != component.Input {
			return nil, nil
		}
		g, err := dbm.Universe(dim).ConstrainEq(q.quotientClock(), 0)
		if err != nil {
			return nil, err
		}
		return []transition.Transition{{ID: transition.Simple("error-self"), Guard: g, Target: loc}}, nil
	}
	if loc.Kind != ltree.KindQuotient {
		return nil, ErrLocationNotOwned
	}

	zeroClock := []expr.Update{{I: q.quotientClock(), Value: 0}}

	if sync == q.newInput {
		// rule 5, second clause: give up as soon as T's invariant has
		// expired while S's has not.
		if kind != component.Input {
			return nil, nil
		}
		notInvT, err := dbm.Universe(dim).Subtraction(loc.Left.Invariant)
		if err != nil {
			return nil, err
		}
		g, err := notInvT.Intersection(loc.Right.Invariant)
		if err != nil {
			return nil, err
		}
		if g.IsEmpty() {
			return nil, nil
		}
		return []transition.Transition{{ID: transition.Simple("new-input-to-error"), Guard: g, Target: q.errorSink(), Updates: zeroClock}}, nil
	}

	tKind, tHas := sideKind(q.T, sync)
	sKind, sHas := sideKind(q.S, sync)
	sHasOut := sHas && sKind == component.Output
	tHasOut := tHas && tKind == component.Output

	var sTrans, tTrans []transition.Transition
	var err error
	if sHas {
		if sTrans, err = q.S.Next(loc.Right, sync, sKind); err != nil {
			return nil, err
		}
	}
	if tHas {
		if tTrans, err = q.T.Next(loc.Left, sync, tKind); err != nil {
			return nil, err
		}
	}

	var out []transition.Transition

	// rule 4: escape to Universal once S can no longer be relied on to
	// keep pace — either its invariant has expired, or (when sync is one
	// of S's own outputs) none of S's matching edges is enabled either.
	universalGuard, err := dbm.Universe(dim).Subtraction(loc.Right.Invariant)
	if err != nil {
		return nil, err
	}
	if sHasOut {
		gS, err := unionGuards(sTrans, dim)
		if err != nil {
			return nil, err
		}
		notGS, err := dbm.Universe(dim).Subtraction(gS)
		if err != nil {
			return nil, err
		}
		universalGuard, err = universalGuard.Union(notGS)
		if err != nil {
			return nil, err
		}
	}
	if !universalGuard.IsEmpty() {
		out = append(out, transition.Transition{ID: transition.Simple("quotient-escape-universal"), Guard: universalGuard, Target: q.universal()})
	}

	// rule 5, first clause: when sync is an output of both sides, the
	// part of every S-output S could take that T cannot also produce
	// escapes to Error.
	if sHasOut && tHasOut {
		gT, err := unionGuards(tTrans, dim)
		if err != nil {
			return nil, err
		}
		notGT, err := dbm.Universe(dim).Subtraction(gT)
		if err != nil {
			return nil, err
		}
		for _, st := range sTrans {
			a, err := st.Allowed()
			if err != nil {
				return nil, err
			}
			allow, err := dbm.Embed(a, dim, 0).Intersection(loc.Right.Invariant)
			if err != nil {
				return nil, err
			}
			errGuard, err := allow.Intersection(notGT)
			if err != nil {
				return nil, err
			}
			if !errGuard.IsEmpty() {
				out = append(out, transition.Transition{ID: transition.Simple("quotient-escape-error"), Guard: errGuard, Target: q.errorSink(), Updates: zeroClock})
			}
		}
	}

	switch {
	case tHas && sHas:
		// rule 1: synchronized step, each guard restricted by both side
		// invariants.
		combos, err := transition.Combinations(liftTransitions(tTrans, dim), liftTransitions(sTrans, dim), transition.IDQuotient, ltree.KindQuotient)
		if err != nil {
			return nil, err
		}
		bothInv, err := loc.Left.Invariant.Intersection(loc.Right.Invariant)
		if err != nil {
			return nil, err
		}
		if combos, err = restrictGuards(combos, bothInv); err != nil {
			return nil, err
		}
		out = append(out, combos...)
	case sHas:
		// rule 2: S moves alone, T stands still.
		combos, err := combineWithIdentity(liftTransitions(sTrans, dim), loc.Left, dim, false, transition.IDQuotient, ltree.KindQuotient)
		if err != nil {
			return nil, err
		}
		out = append(out, combos...)
	case tHas:
		// rule 3: T moves alone; the guard is additionally restricted by
		// lS's invariant.
		combos, err := combineWithIdentity(liftTransitions(tTrans, dim), loc.Right, dim, true, transition.IDQuotient, ltree.KindQuotient)
		if err != nil {
			return nil, err
		}
		if combos, err = restrictGuards(combos, loc.Right.Invariant); err != nil {
			return nil, err
		}
		out = append(out, combos...)
	}

	return out, nil
}

// restrictGuards intersects every transition's guard with fed.
func restrictGuards(ts []transition.Transition, fed dbm.Federation) ([]transition.Transition, error) {
	for i := range ts {
		g, err := ts[i].Guard.Intersection(fed)
		if err != nil {
			return nil, err
		}
		ts[i].Guard = g
	}
	return ts, nil
}
