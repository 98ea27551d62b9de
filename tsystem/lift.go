package tsystem

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
)

// Lift re-expresses sys at a larger shared dimension dim, embedding
// every zone and transition it produces so it can be composed with,
// or compared against, a sibling system that already uses dim
// natively. A Quotient operand's fresh clock is the usual source of
// the mismatch this resolves: NewComposition and NewConjunction align
// their operands to a common dimension before combining them, and
// refinement aligns impl/spec the same way before comparing their
// zones. Lift is a no-op when sys already reports dim.
func Lift(sys System, dim int) System {
	if sys.Dim() == dim {
		return sys
	}
	return &liftedSystem{inner: sys, dim: dim}
}

// MaxDim returns the larger of a and b, the common dimension two
// operands of differing Dim() must be aligned to before they can be
// combined or compared.
func MaxDim(a, b int) int {
	if b > a {
		return b
	}
	return a
}

// liftedSystem presents inner at a dimension larger than the one it
// was prepared over, leaving the extra rows/columns unconstrained.
// Next's loc argument is passed straight through to inner: every
// System.Next implementation navigates a location tree by Kind,
// LeafKey, Left and Right alone and never reads Invariant for
// dispatch, so a tree whose invariants were embedded into the larger
// dimension still routes correctly.
type liftedSystem struct {
	inner System
	dim   int
}

func (l *liftedSystem) Dim() int                { return l.dim }
func (l *liftedSystem) InputActions() []string  { return l.inner.InputActions() }
func (l *liftedSystem) OutputActions() []string { return l.inner.OutputActions() }

func (l *liftedSystem) MaxBounds() []int {
	b := l.inner.MaxBounds()
	out := make([]int, l.dim)
	copy(out, b)
	return out
}

func (l *liftedSystem) Initial() (transition.State, error) {
	s, err := l.inner.Initial()
	if err != nil {
		return transition.State{}, err
	}
	return transition.State{Loc: liftTree(s.Loc, l.dim), Zone: dbm.Embed(s.Zone, l.dim, 0)}, nil
}

func (l *liftedSystem) Next(loc *ltree.Tree, sync string, kind component.SyncType) ([]transition.Transition, error) {
	ts, err := l.inner.Next(loc, sync, kind)
	if err != nil {
		return nil, err
	}
	return liftTransitions(ts, l.dim), nil
}
