package tsystem

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
)

// Leaf wraps a single compiled component as a System, embedding its
// local federations into the shared global dimension at a fixed clock
// offset.
type Leaf struct {
	leafIdx   int
	cc        *component.CompiledComponent
	offset    int
	dim       int
	maxBounds []int // global-indexed
}

// NewLeaf builds a Leaf. localMaxBounds is indexed by the component's
// own local clock index (0 unused); it is shifted into the global
// bounds slice of length dim.
func NewLeaf(leafIdx int, cc *component.CompiledComponent, offset, dim int, localMaxBounds []int) *Leaf {
	bounds := make([]int, dim)
	for i, b := range localMaxBounds {
		if i == 0 {
			continue
		}
		bounds[dbm.GlobalIndex(i, offset)] = b
	}
	return &Leaf{leafIdx: leafIdx, cc: cc, offset: offset, dim: dim, maxBounds: bounds}
}

func (l *Leaf) Dim() int                  { return l.dim }
func (l *Leaf) InputActions() []string    { return l.cc.InputActions() }
func (l *Leaf) OutputActions() []string   { return l.cc.OutputActions() }
func (l *Leaf) MaxBounds() []int          { return l.maxBounds }
func (l *Leaf) LeafIndex() int            { return l.leafIdx }
func (l *Leaf) Offset() int               { return l.offset }
func (l *Leaf) Component() *component.CompiledComponent { return l.cc }

// LocationTree exposes locTree: the simple location tree (with its
// invariant already embedded at this leaf's global offset) for one of
// this leaf's own location ids. Used by package recipe to build
// state-expression goal and start-state patterns without duplicating
// the embedding logic.
func (l *Leaf) LocationTree(locID string) (*ltree.Tree, error) { return l.locTree(locID) }

func (l *Leaf) locTree(locID string) (*ltree.Tree, error) {
	cl, ok := l.cc.LocationByID(locID)
	if !ok {
		return nil, fmt.Errorf("tsystem: leaf %s: unknown location %s", l.cc.Name, locID)
	}
	inv, err := cl.Invariant.Apply(dbm.Universe(l.cc.Dim))
	if err != nil {
		return nil, err
	}
	return ltree.Simple(l.leafIdx, locID, dbm.Embed(inv, l.dim, l.offset), cl.Type), nil
}

// Initial returns the leaf's initial state: its initial location at
// time zero, already intersected with the location's invariant.
func (l *Leaf) Initial() (transition.State, error) {
	t, err := l.locTree(l.cc.InitialID)
	if err != nil {
		return transition.State{}, err
	}
	zone := dbm.Embed(dbm.Init(l.cc.Dim), l.dim, l.offset)
	zone, err = zone.Intersection(t.Invariant)
	if err != nil {
		return transition.State{}, err
	}
	return transition.State{Loc: t, Zone: zone}, nil
}

func (l *Leaf) ownsKey(key string) (locID string, ok bool) {
	idx, rest, found := strings.Cut(key, ":")
	if !found {
		return "", false
	}
	if idx != fmt.Sprintf("%d", l.leafIdx) {
		return "", false
	}
	return rest, true
}

// Next returns every compiled edge leaving loc whose sync matches,
// with guard, updates and target all expressed in the shared global
// dimension.
func (l *Leaf) Next(loc *ltree.Tree, sync string, kind component.SyncType) ([]transition.Transition, error) {
	if loc.Kind != ltree.KindSimple {
		return nil, ErrLocationNotOwned
	}
	locID, ok := l.ownsKey(loc.LeafKey)
	if !ok {
		return nil, ErrLocationNotOwned
	}
	var out []transition.Transition
	for _, e := range l.cc.Edges {
		if e.Source != locID || e.SyncType != kind {
			continue
		}
		if e.Sync != sync && !(kind == component.Input && e.Sync == component.WildcardSync) {
			continue
		}
		target, err := l.locTree(e.Target)
		if err != nil {
			return nil, err
		}
		guardFed, err := e.Guard.Apply(dbm.Universe(l.cc.Dim))
		if err != nil {
			return nil, err
		}
		ups := make([]expr.Update, len(e.Updates))
		for i, u := range e.Updates {
			ups[i] = expr.Update{I: dbm.GlobalIndex(u.I, l.offset), Value: u.Value}
		}
		out = append(out, transition.Transition{
			ID:      transition.Simple(e.ID),
			Guard:   dbm.Embed(guardFed, l.dim, l.offset),
			Target:  target,
			Updates: ups,
		})
	}
	return out, nil
}
