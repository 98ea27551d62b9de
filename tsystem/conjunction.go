package tsystem

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
)

// Conjunction is the "&&" composition: both operands fire
// synchronously on every action of the shared alphabet — the
// intersection of the operands' inputs and of their outputs. Actions
// outside the intersection are absent from the result entirely.
// Least-consistency of the result is checked after construction by
// the recipe layer, not here.
type Conjunction struct {
	A, B System
	in   []string
	out  []string
}

// NewConjunction builds a Conjunction after checking the precondition
// that neither operand's input set overlaps the other's output set.
// As in NewComposition, operands at different dimensions — one side a
// Quotient carrying its fresh clock — are aligned by lifting the
// smaller one up first.
func NewConjunction(a, b System) (*Conjunction, error) {
	if overlapActions(a.InputActions(), b.OutputActions()) || overlapActions(a.OutputActions(), b.InputActions()) {
		return nil, ErrAlphabetMismatch
	}
	dim := MaxDim(a.Dim(), b.Dim())
	return &Conjunction{
		A: Lift(a, dim), B: Lift(b, dim),
		in:  intersectActions(a.InputActions(), b.InputActions()),
		out: intersectActions(a.OutputActions(), b.OutputActions()),
	}, nil
}

func (c *Conjunction) Dim() int                { return c.A.Dim() }
func (c *Conjunction) InputActions() []string  { return c.in }
func (c *Conjunction) OutputActions() []string { return c.out }
func (c *Conjunction) MaxBounds() []int        { return mergeBounds(c.A.MaxBounds(), c.B.MaxBounds()) }

func (c *Conjunction) Initial() (transition.State, error) {
	as, err := c.A.Initial()
	if err != nil {
		return transition.State{}, err
	}
	bs, err := c.B.Initial()
	if err != nil {
		return transition.State{}, err
	}
	tree, err := ltree.Compose(as.Loc, bs.Loc, ltree.KindConjunction)
	if err != nil {
		return transition.State{}, err
	}
	zone, err := as.Zone.Intersection(bs.Zone)
	if err != nil {
		return transition.State{}, err
	}
	return transition.State{Loc: tree, Zone: zone}, nil
}

func (c *Conjunction) Next(loc *ltree.Tree, sync string, kind component.SyncType) ([]transition.Transition, error) {
	if loc.Kind != ltree.KindConjunction {
		return nil, ErrLocationNotOwned
	}
	if !hasAction(c.in, sync) && !hasAction(c.out, sync) {
		return nil, nil
	}
	at, err := c.A.Next(loc.Left, sync, kind)
	if err != nil {
		return nil, err
	}
	bt, err := c.B.Next(loc.Right, sync, kind)
	if err != nil {
		return nil, err
	}
	return transition.Combinations(at, bt, transition.IDConjunction, ltree.KindConjunction)
}
