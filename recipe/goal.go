package recipe

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
	"github.com/katalvlaran/tazone/tsystem"
)

// NotLocationPred is the negation of a LocationPred, produced while
// pushing negations toward the leaves (De Morgan); it never appears in
// a StateExpr returned by ParseStateExpr, only in the tree elimNot
// builds internally.
type NotLocationPred struct {
	Component string
	Location  string
}

func (NotLocationPred) isStateExpr() {}

// Goal is one reachability target alternative: a location pattern and
// the zone its clock predicates restrict the search to. Run's
// reachability: dispatch succeeds as soon as any one alternative is
// matched.
type Goal struct {
	Pattern *ltree.Tree
	Zone    dbm.Federation
}

// literal is one atomic predicate surviving disjunctive-normal-form
// expansion: exactly one of the three fields is populated.
type literal struct {
	loc    *LocationPred
	notLoc *NotLocationPred
	clock  *ClockPred
}

// elimNot pushes every SNot down to the predicate leaves, rewriting
// LocationPred/ClockPred negations in place and flipping And/Or via De
// Morgan. CmpEq has no single inverse comparison operator, so its
// negation is expanded into an Or of the two comparisons that jointly
// mean "not equal".
func elimNot(e StateExpr, neg bool) StateExpr {
	switch v := e.(type) {
	case SBoolLit:
		if neg {
			return SBoolLit(!v)
		}
		return v
	case *SNot:
		return elimNot(v.E, !neg)
	case *SAnd:
		l, r := elimNot(v.L, neg), elimNot(v.R, neg)
		if neg {
			return &SOr{L: l, R: r}
		}
		return &SAnd{L: l, R: r}
	case *SOr:
		l, r := elimNot(v.L, neg), elimNot(v.R, neg)
		if neg {
			return &SAnd{L: l, R: r}
		}
		return &SOr{L: l, R: r}
	case LocationPred:
		if neg {
			return NotLocationPred{Component: v.Component, Location: v.Location}
		}
		return v
	case NotLocationPred:
		if neg {
			return LocationPred{Component: v.Component, Location: v.Location}
		}
		return v
	case ClockPred:
		if !neg {
			return v
		}
		switch v.Op {
		case expr.CmpLt:
			return ClockPred{Component: v.Component, Clock: v.Clock, Op: expr.CmpGe, RHS: v.RHS}
		case expr.CmpLe:
			return ClockPred{Component: v.Component, Clock: v.Clock, Op: expr.CmpGt, RHS: v.RHS}
		case expr.CmpGe:
			return ClockPred{Component: v.Component, Clock: v.Clock, Op: expr.CmpLt, RHS: v.RHS}
		case expr.CmpGt:
			return ClockPred{Component: v.Component, Clock: v.Clock, Op: expr.CmpLe, RHS: v.RHS}
		default: // CmpEq
			return &SOr{
				L: ClockPred{Component: v.Component, Clock: v.Clock, Op: expr.CmpLt, RHS: v.RHS},
				R: ClockPred{Component: v.Component, Clock: v.Clock, Op: expr.CmpGt, RHS: v.RHS},
			}
		}
	default:
		return e
	}
}

// dnf expands a negation-free StateExpr into disjunctive normal form:
// a list of clauses, each a conjunction of literals. SBoolLit(true)
// yields the single vacuous clause; SBoolLit(false) yields no clauses
// at all.
func dnf(e StateExpr) [][]literal {
	switch v := e.(type) {
	case SBoolLit:
		if v {
			return [][]literal{{}}
		}
		return nil
	case LocationPred:
		return [][]literal{{literal{loc: &v}}}
	case NotLocationPred:
		return [][]literal{{literal{notLoc: &v}}}
	case ClockPred:
		return [][]literal{{literal{clock: &v}}}
	case *SOr:
		return append(dnf(v.L), dnf(v.R)...)
	case *SAnd:
		left, right := dnf(v.L), dnf(v.R)
		out := make([][]literal, 0, len(left)*len(right))
		for _, lc := range left {
			for _, rc := range right {
				merged := make([]literal, 0, len(lc)+len(rc))
				merged = append(merged, lc...)
				merged = append(merged, rc...)
				out = append(out, merged)
			}
		}
		return out
	default:
		return nil
	}
}

// noopResolver satisfies expr.Resolver for arithmetic that only ever
// contains IntLit/ClockRef/BinOp nodes (state_expr's integer-arith
// grammar never references a VarName), so its methods are never
// actually invoked.
type noopResolver struct{}

func (noopResolver) ClockIndex(string) (int, bool) { return 0, false }
func (noopResolver) IntValue(string) (int, bool)   { return 0, false }

// clockGlobalIndex resolves a Component.clock reference to its global
// federation index via the leaf's declared clock index and offset.
func clockGlobalIndex(leaves map[string]*tsystem.Leaf, component, clock string) (int, error) {
	leaf, ok := leaves[component]
	if !ok {
		return 0, fmt.Errorf("recipe: unknown component reference %q", component)
	}
	idx, ok := leaf.Component().Decl.ClockIndex(clock)
	if !ok {
		return 0, fmt.Errorf("recipe: component %q has no clock %q", component, clock)
	}
	return dbm.GlobalIndex(idx, leaf.Offset()), nil
}

// clauseLocations partitions one DNF clause's literals by component,
// resolving the allowed set of location ids per component mentioned by
// a location literal: a positive LocationPred pins it to exactly one
// id (an error if two conflicting ids are pinned), a NotLocationPred
// narrows it to every declared id except the excluded ones. A
// component the clause never mentions is left absent from the result
// entirely — it stays genuinely unconstrained rather than being
// enumerated over its own location set.
func clauseLocations(leaves map[string]*tsystem.Leaf, lits []literal) (map[string][]string, []clockConstraint, error) {
	pinned := map[string]string{}
	excluded := map[string]map[string]bool{}
	touched := map[string]bool{}
	var clocks []clockConstraint

	for _, lit := range lits {
		switch {
		case lit.loc != nil:
			touched[lit.loc.Component] = true
			if have, ok := pinned[lit.loc.Component]; ok && have != lit.loc.Location {
				return nil, nil, fmt.Errorf("recipe: conflicting location constraints on %q: %q and %q", lit.loc.Component, have, lit.loc.Location)
			}
			pinned[lit.loc.Component] = lit.loc.Location
		case lit.notLoc != nil:
			touched[lit.notLoc.Component] = true
			m := excluded[lit.notLoc.Component]
			if m == nil {
				m = map[string]bool{}
				excluded[lit.notLoc.Component] = m
			}
			m[lit.notLoc.Location] = true
		case lit.clock != nil:
			idx, err := clockGlobalIndex(leaves, lit.clock.Component, lit.clock.Clock)
			if err != nil {
				return nil, nil, err
			}
			clocks = append(clocks, clockConstraint{globalIdx: idx, op: lit.clock.Op, rhs: lit.clock.RHS})
		}
	}

	result := map[string][]string{}
	for name := range touched {
		leaf, ok := leaves[name]
		if !ok {
			return nil, nil, fmt.Errorf("recipe: unknown component reference %q", name)
		}
		if loc, ok := pinned[name]; ok {
			if excluded[name][loc] {
				return nil, nil, fmt.Errorf("recipe: %q is both required and excluded at %q", name, loc)
			}
			result[name] = []string{loc}
			continue
		}
		var ids []string
		for _, l := range leaf.Component().Locations {
			if !excluded[name][l.ID] {
				ids = append(ids, l.ID)
			}
		}
		if len(ids) == 0 {
			return nil, nil, fmt.Errorf("recipe: %q: every location excluded, clause is unsatisfiable", name)
		}
		result[name] = ids
	}
	return result, clocks, nil
}

type clockConstraint struct {
	globalIdx int
	op        expr.CmpKind
	rhs       expr.ArithExpr
}

func (c clockConstraint) apply(fed dbm.Federation) (dbm.Federation, error) {
	g, err := expr.CompileBool(&expr.Cmp{Op: c.op, Left: expr.ClockRef{I: c.globalIdx}, Right: c.rhs}, noopResolver{})
	if err != nil {
		return dbm.Federation{}, err
	}
	return g.Apply(fed)
}

// expandClauseAssignments turns one clause's per-component
// allowed-location sets into every concrete assignment it denotes: one
// map per combination, holding only the components the clause actually
// constrains. A component absent from allowed never appears in any
// assignment, leaving it genuinely unconstrained downstream. A
// component with only negative constraints and several surviving
// locations expands into one alternative per surviving id, since a
// location pattern cannot itself express "any but these".
func expandClauseAssignments(allowed map[string][]string) []map[string]string {
	names := make([]string, 0, len(allowed))
	for name := range allowed {
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := []map[string]string{{}}
	for _, name := range names {
		ids := allowed[name]
		next := make([]map[string]string, 0, len(assignments)*len(ids))
		for _, a := range assignments {
			for _, id := range ids {
				na := make(map[string]string, len(a)+1)
				for k, v := range a {
					na[k] = v
				}
				na[name] = id
				next = append(next, na)
			}
		}
		assignments = next
	}
	return assignments
}

// patternTree builds a reachability-pattern tree for sysExpr, where
// assign gives the single concrete location id chosen for an atom; a
// missing entry means "unconstrained", rendered as ltree.AnyNode().
func patternTree(sysExpr SysExpr, leaves map[string]*tsystem.Leaf, assign map[string]string) (*ltree.Tree, error) {
	switch v := sysExpr.(type) {
	case Atom:
		locID, ok := assign[v.Key()]
		if !ok {
			return ltree.AnyNode(), nil
		}
		leaf, ok := leaves[v.Key()]
		if !ok {
			return nil, fmt.Errorf("recipe: unknown component reference %q", v.Key())
		}
		return &ltree.Tree{Kind: ltree.KindSimple, LeafKey: fmt.Sprintf("%d:%s", leaf.LeafIndex(), locID)}, nil
	case *Conj:
		l, err := patternTree(v.L, leaves, assign)
		if err != nil {
			return nil, err
		}
		r, err := patternTree(v.R, leaves, assign)
		if err != nil {
			return nil, err
		}
		return &ltree.Tree{Kind: ltree.KindConjunction, Left: l, Right: r}, nil
	case *Par:
		l, err := patternTree(v.L, leaves, assign)
		if err != nil {
			return nil, err
		}
		r, err := patternTree(v.R, leaves, assign)
		if err != nil {
			return nil, err
		}
		return &ltree.Tree{Kind: ltree.KindComposition, Left: l, Right: r}, nil
	case *Quot:
		l, err := patternTree(v.L, leaves, assign)
		if err != nil {
			return nil, err
		}
		r, err := patternTree(v.R, leaves, assign)
		if err != nil {
			return nil, err
		}
		return &ltree.Tree{Kind: ltree.KindQuotient, Left: l, Right: r}, nil
	default:
		return nil, fmt.Errorf("recipe: unsupported sys_expr node %T", sysExpr)
	}
}

// CompileGoals turns the target state_expr of a reachability query
// into its list of goal alternatives: one Goal per DNF clause per
// location-assignment expansion, any one of which reaching the
// explored state set constitutes success.
func CompileGoals(se StateExpr, sysExpr SysExpr, leaves map[string]*tsystem.Leaf, dim int) ([]Goal, error) {
	clauses := dnf(elimNot(se, false))

	var goals []Goal
	for _, lits := range clauses {
		allowed, clocks, err := clauseLocations(leaves, lits)
		if err != nil {
			return nil, err
		}
		for _, assign := range expandClauseAssignments(allowed) {
			pattern, err := patternTree(sysExpr, leaves, assign)
			if err != nil {
				return nil, err
			}
			zone := dbm.Universe(dim)
			for _, c := range clocks {
				zone, err = c.apply(zone)
				if err != nil {
					return nil, err
				}
			}
			goals = append(goals, Goal{Pattern: pattern, Zone: zone})
		}
	}
	return goals, nil
}

// CompileStartState turns the optional "@ state_expr" clause of a
// reachability query into a concrete start state: every component gets
// a pinned location (defaulting to its own initial location when the
// clause leaves it unconstrained — an Any/wildcard location is never
// valid as a start state), and the clause's clock constraints
// restrict the starting zone directly rather than assuming time zero.
// When the clause denotes more than one DNF/location alternative, the
// first is taken deterministically; which one is implementation
// defined when a query leaves the start state genuinely ambiguous.
func CompileStartState(se StateExpr, sysExpr SysExpr, leaves map[string]*tsystem.Leaf, dim int) (transition.State, error) {
	clauses := dnf(elimNot(se, false))
	if len(clauses) == 0 {
		return transition.State{}, fmt.Errorf("recipe: start-state expression is unsatisfiable")
	}

	for _, lits := range clauses {
		allowed, clocks, err := clauseLocations(leaves, lits)
		if err != nil {
			return transition.State{}, err
		}
		assignments := expandClauseAssignments(allowed)
		if len(assignments) == 0 {
			continue
		}
		assign := assignments[0]
		loc, err := startLocationTree(sysExpr, leaves, assign)
		if err != nil {
			return transition.State{}, err
		}
		zone := dbm.Universe(dim)
		zone, err = zone.Intersection(loc.Invariant)
		if err != nil {
			return transition.State{}, err
		}
		for _, c := range clocks {
			zone, err = c.apply(zone)
			if err != nil {
				return transition.State{}, err
			}
		}
		return transition.State{Loc: loc, Zone: zone}, nil
	}
	return transition.State{}, fmt.Errorf("recipe: start-state expression is unsatisfiable")
}

// startLocationTree mirrors patternTree but builds a tree with genuine
// invariants (via ltree.Compose/ComposeQuotient), since a start state's
// zone must be intersected with the real location invariants rather
// than left as a bare pattern.
func startLocationTree(sysExpr SysExpr, leaves map[string]*tsystem.Leaf, assign map[string]string) (*ltree.Tree, error) {
	switch v := sysExpr.(type) {
	case Atom:
		leaf, ok := leaves[v.Key()]
		if !ok {
			return nil, fmt.Errorf("recipe: unknown component reference %q", v.Key())
		}
		locID, ok := assign[v.Key()]
		if !ok {
			locID = leaf.Component().InitialID
		}
		return leaf.LocationTree(locID)
	case *Conj:
		l, err := startLocationTree(v.L, leaves, assign)
		if err != nil {
			return nil, err
		}
		r, err := startLocationTree(v.R, leaves, assign)
		if err != nil {
			return nil, err
		}
		return ltree.Compose(l, r, ltree.KindConjunction)
	case *Par:
		l, err := startLocationTree(v.L, leaves, assign)
		if err != nil {
			return nil, err
		}
		r, err := startLocationTree(v.R, leaves, assign)
		if err != nil {
			return nil, err
		}
		return ltree.Compose(l, r, ltree.KindComposition)
	case *Quot:
		l, err := startLocationTree(v.L, leaves, assign)
		if err != nil {
			return nil, err
		}
		r, err := startLocationTree(v.R, leaves, assign)
		if err != nil {
			return nil, err
		}
		return ltree.ComposeQuotient(l, r, dbm.Universe(l.Invariant.Dim())), nil
	default:
		return nil, fmt.Errorf("recipe: unsupported sys_expr node %T", sysExpr)
	}
}
