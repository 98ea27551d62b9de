package clockreduce

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/expr"
)

// Reduce runs unused-clock removal followed by equivalence merging on
// c in place, then rebuilds c.Decl with a dense clock index range
// (declaration compression falls out for free once the surviving
// representative names are known).
func Reduce(c *component.Component) {
	c.BuildClockUsages()
	removeUnused(c)
	mergeEquivalent(c)
	c.ClockUsages = nil
}

// removeUnused deletes every clock that is never referenced by a
// guard or invariant, dropping any update that assigns it.
func removeUnused(c *component.Component) {
	used := make(map[string]bool)
	for name, u := range c.ClockUsages {
		if len(u.EdgesUsedIn) > 0 || len(u.LocationInvariants) > 0 {
			used[name] = true
		}
	}
	var keep []string
	for _, name := range c.Decl.ClockNames() {
		if used[name] {
			keep = append(keep, name)
		}
	}
	rebuildDeclarations(c, keep)

	for ei := range c.Edges {
		var ups []component.RawUpdate
		for _, u := range c.Edges[ei].Updates {
			if used[u.Clock] {
				ups = append(ups, u)
			}
		}
		c.Edges[ei].Updates = ups
	}
}

// clockSignature is what a single edge does to a clock: either it
// resets it to a known constant, or it does not touch it at all.
type clockSignature struct {
	has bool
	val int
}

func signaturesFor(c *component.Component, e *component.Edge) map[string]clockSignature {
	sigs := make(map[string]clockSignature, len(e.Updates))
	for _, u := range e.Updates {
		lit, ok := constantFold(u.RHS, c.Decl)
		if !ok {
			continue // non-constant RHS is a compile error surfaced later; skip here
		}
		sigs[u.Clock] = clockSignature{has: true, val: lit}
	}
	return sigs
}

// constantFold evaluates a pure-integer arithmetic expression (no
// clocks) to a constant, resolving VarName against decl.
func constantFold(e expr.ArithExpr, decl *component.Declarations) (int, bool) {
	switch v := e.(type) {
	case expr.IntLit:
		return int(v), true
	case expr.VarName:
		if val, ok := decl.IntValue(string(v)); ok {
			return val, true
		}
		return 0, false
	case *expr.BinOp:
		l, lok := constantFold(v.Left, decl)
		r, rok := constantFold(v.Right, decl)
		if !lok || !rok {
			return 0, false
		}
		switch v.Op {
		case expr.OpAdd:
			return l + r, true
		case expr.OpSub:
			return l - r, true
		case expr.OpMul:
			return l * r, true
		case expr.OpDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case expr.OpMod:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		}
	}
	return 0, false
}

// mergeEquivalent partitions the surviving clocks by their behavior
// across every edge, refining the partition edge by edge, then
// collapses each non-singleton group onto its lowest-declared-index
// member.
func mergeEquivalent(c *component.Component) {
	names := c.Decl.ClockNames()
	if len(names) < 2 {
		return
	}
	groups := [][]string{append([]string(nil), names...)}

	for ei := range c.Edges {
		sigs := signaturesFor(c, &c.Edges[ei])
		var refined [][]string
		for _, g := range groups {
			buckets := map[clockSignature][]string{}
			var order []clockSignature
			for _, name := range g {
				s := sigs[name] // zero value: has=false
				if _, ok := buckets[s]; !ok {
					order = append(order, s)
				}
				buckets[s] = append(buckets[s], name)
			}
			for _, s := range order {
				refined = append(refined, buckets[s])
			}
		}
		groups = refined
	}

	rename := map[string]string{}
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		rep := lowestIndexed(g, names)
		for _, name := range g {
			if name != rep {
				rename[name] = rep
			}
		}
	}
	if len(rename) == 0 {
		return
	}
	applyRename(c, rename)

	var keep []string
	dropped := make(map[string]bool, len(rename))
	for k := range rename {
		dropped[k] = true
	}
	for _, name := range c.Decl.ClockNames() {
		if !dropped[name] {
			keep = append(keep, name)
		}
	}
	rebuildDeclarations(c, keep)
}

func lowestIndexed(group, declOrder []string) string {
	pos := make(map[string]int, len(declOrder))
	for i, n := range declOrder {
		pos[n] = i
	}
	best := group[0]
	for _, n := range group[1:] {
		if pos[n] < pos[best] {
			best = n
		}
	}
	return best
}

func applyRename(c *component.Component, rename map[string]string) {
	for li := range c.Locations {
		if c.Locations[li].Invariant != nil {
			c.Locations[li].Invariant = expr.RenameBool(c.Locations[li].Invariant, rename)
		}
	}
	for ei := range c.Edges {
		if c.Edges[ei].Guard != nil {
			c.Edges[ei].Guard = expr.RenameBool(c.Edges[ei].Guard, rename)
		}
		seen := map[string]bool{}
		var ups []component.RawUpdate
		for _, u := range c.Edges[ei].Updates {
			name := u.Clock
			if nn, ok := rename[name]; ok {
				name = nn
			}
			if seen[name] {
				continue // merged clocks collapse to one reset
			}
			seen[name] = true
			ups = append(ups, component.RawUpdate{Clock: name, RHS: u.RHS})
		}
		c.Edges[ei].Updates = ups
	}
}

func rebuildDeclarations(c *component.Component, keep []string) {
	c.Decl = component.NewDeclarations(keep, c.Decl.Ints())
}
