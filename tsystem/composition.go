package tsystem

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
)

// Composition is the "||" parallel composition: actions both operands
// declare synchronize, actions only one declares interleave — the
// other side stands still via an identity transition.
type Composition struct {
	A, B System
	out  []string
	in   []string
}

// NewComposition builds a Composition after checking the precondition
// that the operands share no output action. A dimension mismatch
// between the operands — the usual case being one side a Quotient
// carrying its fresh clock — is resolved by lifting the smaller side
// up to the larger's dimension before combining them.
func NewComposition(a, b System) (*Composition, error) {
	for _, o := range a.OutputActions() {
		if hasAction(b.OutputActions(), o) {
			return nil, ErrOutputsNotDisjoint
		}
	}
	dim := MaxDim(a.Dim(), b.Dim())
	a, b = Lift(a, dim), Lift(b, dim)
	out := unionActions(a.OutputActions(), b.OutputActions())
	in := subtractActions(unionActions(a.InputActions(), b.InputActions()), out)
	return &Composition{A: a, B: b, out: out, in: in}, nil
}

func (c *Composition) Dim() int                { return c.A.Dim() }
func (c *Composition) InputActions() []string  { return c.in }
func (c *Composition) OutputActions() []string { return c.out }
func (c *Composition) MaxBounds() []int        { return mergeBounds(c.A.MaxBounds(), c.B.MaxBounds()) }

func (c *Composition) Initial() (transition.State, error) {
	as, err := c.A.Initial()
	if err != nil {
		return transition.State{}, err
	}
	bs, err := c.B.Initial()
	if err != nil {
		return transition.State{}, err
	}
	tree, err := ltree.Compose(as.Loc, bs.Loc, ltree.KindComposition)
	if err != nil {
		return transition.State{}, err
	}
	zone, err := as.Zone.Intersection(bs.Zone)
	if err != nil {
		return transition.State{}, err
	}
	return transition.State{Loc: tree, Zone: zone}, nil
}

// sideKind reports the native direction sys fires sync on, and whether
// sync belongs to sys's alphabet at all.
func sideKind(sys System, sync string) (component.SyncType, bool) {
	if hasAction(sys.InputActions(), sync) {
		return component.Input, true
	}
	if hasAction(sys.OutputActions(), sync) {
		return component.Output, true
	}
	return component.Input, false
}

func identities(dim int, current *ltree.Tree, n int) []transition.Transition {
	out := make([]transition.Transition, n)
	for i := range out {
		out[i] = transition.Identity(dim, current)
	}
	return out
}

func combineWithIdentity(ts []transition.Transition, other *ltree.Tree, dim int, leftSide bool, idKind transition.IDKind, kind ltree.Kind) ([]transition.Transition, error) {
	ids := identities(dim, other, len(ts))
	if leftSide {
		return transition.Combinations(ts, ids, idKind, kind)
	}
	return transition.Combinations(ids, ts, idKind, kind)
}

func (c *Composition) Next(loc *ltree.Tree, sync string, kind component.SyncType) ([]transition.Transition, error) {
	if loc.Kind != ltree.KindComposition {
		return nil, ErrLocationNotOwned
	}
	aKind, aHas := sideKind(c.A, sync)
	bKind, bHas := sideKind(c.B, sync)
	dim := c.Dim()

	switch {
	case aHas && bHas:
		at, err := c.A.Next(loc.Left, sync, aKind)
		if err != nil {
			return nil, err
		}
		bt, err := c.B.Next(loc.Right, sync, bKind)
		if err != nil {
			return nil, err
		}
		return transition.Combinations(at, bt, transition.IDComposition, ltree.KindComposition)
	case aHas:
		at, err := c.A.Next(loc.Left, sync, aKind)
		if err != nil {
			return nil, err
		}
		return combineWithIdentity(at, loc.Right, dim, true, transition.IDComposition, ltree.KindComposition)
	case bHas:
		bt, err := c.B.Next(loc.Right, sync, bKind)
		if err != nil {
			return nil, err
		}
		return combineWithIdentity(bt, loc.Left, dim, false, transition.IDComposition, ltree.KindComposition)
	default:
		return nil, nil
	}
}
