package transition

import (
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
	"github.com/katalvlaran/tazone/ltree"
)

// IDKind discriminates the shape of a transition identifier.
type IDKind int

const (
	IDSimple IDKind = iota
	IDConjunction
	IDComposition
	IDQuotient
	IDNone // the synthetic identity transition used for interleaving/extra actions
)

// ID mirrors the composition tree shape so a transition's provenance
// can be traced back to the leaf edges that produced it. IDQuotient
// reuses the same Left/Right shape as IDConjunction/IDComposition: a
// quotient step always combines exactly one T-side and one S-side
// sub-transition (or an identity placeholder), never a list of either.
type ID struct {
	Kind  IDKind
	Edge  string // populated for IDSimple
	Left  *ID    // populated for IDConjunction/IDComposition/IDQuotient
	Right *ID
}

// Simple builds the identifier for a single leaf edge.
func Simple(edgeID string) *ID { return &ID{Kind: IDSimple, Edge: edgeID} }

// None is the identity-transition identifier.
func None() *ID { return &ID{Kind: IDNone} }

// Combine builds a composed identifier of the given kind.
func Combine(kind IDKind, l, r *ID) *ID {
	return &ID{Kind: kind, Left: l, Right: r}
}

// Transition is one symbolic step.
type Transition struct {
	ID      *ID
	Guard   dbm.Federation
	Target  *ltree.Tree
	Updates []expr.Update
}

// Identity returns the synthetic "stand still" transition used when
// one side of a composition does not participate in an action:
// universe guard, no updates, target equal to the current location.
func Identity(dim int, current *ltree.Tree) Transition {
	return Transition{ID: None(), Guard: dbm.Universe(dim), Target: current}
}

// Combinations forms the cartesian product of two transition sets
// under a composition operator: ids combine via kind, guards
// intersect, targets compose, and updates concatenate. Quotient
// targets keep the child invariants separate on the children rather
// than intersecting them into the node.
func Combinations(ls, rs []Transition, kind IDKind, treeKind ltree.Kind) ([]Transition, error) {
	out := make([]Transition, 0, len(ls)*len(rs))
	for _, l := range ls {
		for _, r := range rs {
			g, err := l.Guard.Intersection(r.Guard)
			if err != nil {
				return nil, err
			}
			var tgt *ltree.Tree
			if treeKind == ltree.KindQuotient {
				tgt = ltree.ComposeQuotient(l.Target, r.Target, dbm.Universe(g.Dim()))
			} else {
				tgt, err = ltree.Compose(l.Target, r.Target, treeKind)
				if err != nil {
					return nil, err
				}
			}
			ups := make([]expr.Update, 0, len(l.Updates)+len(r.Updates))
			ups = append(ups, l.Updates...)
			ups = append(ups, r.Updates...)
			out = append(out, Transition{
				ID:      Combine(kind, l.ID, r.ID),
				Guard:   g,
				Target:  tgt,
				Updates: ups,
			})
		}
	}
	return out, nil
}

// Allowed returns the federation of valuations from which firing t
// lands inside its target's invariant: the guard intersected with the
// preimage of the target invariant under the resets. A transition
// whose guard is satisfiable but whose reset immediately violates the
// target invariant contributes nothing.
func (t Transition) Allowed() (dbm.Federation, error) {
	pre := t.Target.Invariant
	var err error
	for _, u := range t.Updates {
		pre, err = pre.ConstrainEq(u.I, u.Value)
		if err != nil {
			return dbm.Federation{}, err
		}
	}
	for _, u := range t.Updates {
		pre = pre.Free(u.I)
	}
	return t.Guard.Intersection(pre)
}

// State pairs a location tree with a clock-valuation federation — the
// symbolic state every analysis explores.
type State struct {
	Loc  *ltree.Tree
	Zone dbm.Federation
}

// UseTransition applies, in the fixed order guard → updates → up →
// target invariant, returning the resulting state and whether it is
// non-empty.
func (t Transition) UseTransition(s State) (State, bool, error) {
	z, err := s.Zone.Intersection(t.Guard)
	if err != nil {
		return State{}, false, err
	}
	if z.IsEmpty() {
		return State{}, false, nil
	}
	for _, u := range t.Updates {
		z, err = z.Assign(u.I, u.Value)
		if err != nil {
			return State{}, false, err
		}
		if z.IsEmpty() {
			return State{}, false, nil
		}
	}
	z = z.Up()
	z, err = z.Intersection(t.Target.Invariant)
	if err != nil {
		return State{}, false, err
	}
	if z.IsEmpty() {
		return State{}, false, nil
	}
	return State{Loc: t.Target, Zone: z}, true, nil
}
