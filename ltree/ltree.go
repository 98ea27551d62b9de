package ltree

import (
	"fmt"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
)

// Kind discriminates the shape of a Tree node.
type Kind int

const (
	KindSimple Kind = iota
	KindComposition
	KindConjunction
	KindQuotient
	KindUniversal // special location introduced by quotient
	KindError     // special "inconsistent" location introduced by quotient
	KindAny       // reachability wildcard; never a valid start state
)

// Tree is one immutable location-tree node.
type Tree struct {
	Kind      Kind
	LeafKey   string // populated only for KindSimple: "<leafIndex>:<locationID>"
	Left      *Tree
	Right     *Tree
	Invariant dbm.Federation
	Type      component.LocationType
}

// Simple builds a leaf tree for a single component's location. leafIdx
// disambiguates which compiled leaf this location belongs to when
// several leaves share location ids.
func Simple(leafIdx int, locID string, invariant dbm.Federation, typ component.LocationType) *Tree {
	return &Tree{
		Kind:      KindSimple,
		LeafKey:   fmt.Sprintf("%d:%s", leafIdx, locID),
		Invariant: invariant,
		Type:      typ,
	}
}

// Special builds the Universal or Error singleton node introduced by
// quotient.
func Special(kind Kind, invariant dbm.Federation) *Tree {
	return &Tree{Kind: kind, Invariant: invariant, Type: component.Normal}
}

// AnyNode is the reachability-pattern wildcard; it must never appear
// as a real state's location tree.
func AnyNode() *Tree { return &Tree{Kind: KindAny} }

// joinType combines two child type tags: Inconsistent
// dominates, then Universal, then Initial iff both children are
// Initial, else Normal.
func joinType(a, b component.LocationType) component.LocationType {
	if a == component.Inconsistent || b == component.Inconsistent {
		return component.Inconsistent
	}
	if a == component.Universal || b == component.Universal {
		return component.Universal
	}
	if a == component.Initial && b == component.Initial {
		return component.Initial
	}
	return component.Normal
}

// Compose builds an internal node of the given kind with invariant
// L.Invariant ∩ R.Invariant.
func Compose(l, r *Tree, kind Kind) (*Tree, error) {
	inv, err := l.Invariant.Intersection(r.Invariant)
	if err != nil {
		return nil, err
	}
	return &Tree{
		Kind: kind, Left: l, Right: r,
		Invariant: inv,
		Type:      joinType(l.Type, r.Type),
	}, nil
}

// ComposeQuotient builds a quotient node. Child invariants are kept
// separate on the children (the quotient algorithm applies them
// selectively rather than via a shared intersected invariant), so the
// node invariant is simply universe at the federation's dimension.
func ComposeQuotient(l, r *Tree, universe dbm.Federation) *Tree {
	return &Tree{
		Kind: KindQuotient, Left: l, Right: r,
		Invariant: universe,
		Type:      joinType(l.Type, r.Type),
	}
}

// Key returns a canonical string identity for the tree, suitable for
// use as a map key in passed-lists. Two structurally equal trees
// always produce the same key.
func (t *Tree) Key() string {
	if t == nil {
		return "nil"
	}
	switch t.Kind {
	case KindSimple:
		return "S(" + t.LeafKey + ")"
	case KindUniversal:
		return "U"
	case KindError:
		return "E"
	case KindAny:
		return "*"
	default:
		return fmt.Sprintf("%d(%s,%s)", t.Kind, t.Left.Key(), t.Right.Key())
	}
}

// Equal reports structural equality.
func (t *Tree) Equal(o *Tree) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	return t.Key() == o.Key()
}

// Matches reports whether t satisfies the reachability pattern p,
// where KindAny in p matches anything at that position.
func (p *Tree) Matches(t *Tree) bool {
	if p.Kind == KindAny {
		return true
	}
	if p.Kind != t.Kind {
		return false
	}
	switch p.Kind {
	case KindSimple:
		return p.LeafKey == t.LeafKey
	case KindUniversal, KindError:
		return true
	default:
		return p.Left.Matches(t.Left) && p.Right.Matches(t.Right)
	}
}
