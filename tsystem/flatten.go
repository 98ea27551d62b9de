package tsystem

import (
	"fmt"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/expr"
	"github.com/katalvlaran/tazone/transition"
)

// Flatten performs the mechanical traversal behind "save as component":
// it walks the location trees reachable from sys's initial state, at
// most maxStates of them, and re-expresses the result as a single flat component.Component,
// with one flat location per distinct location tree visited and one
// flat edge per transition fired between them. It is not a
// reachability analysis — it visits the first zone reached for each
// location tree and stops growing a branch once that tree repeats.
func Flatten(sys System, maxStates int) (*component.Component, error) {
	dim := sys.Dim()
	clockNames := make([]string, dim-1)
	for i := 1; i < dim; i++ {
		clockNames[i-1] = fmt.Sprintf("x%d", i)
	}
	decl := component.NewDeclarations(clockNames, nil)

	init, err := sys.Initial()
	if err != nil {
		return nil, err
	}

	ids := map[string]string{}
	order := []string{}
	nextID := func(key string) string {
		id := fmt.Sprintf("L%d", len(order))
		ids[key] = id
		order = append(order, key)
		return id
	}

	var locs []component.Location
	var edges []component.Edge

	queue := []transition.State{init}
	nextID(init.Loc.Key())

	actions := append(append([]string{}, sys.InputActions()...), sys.OutputActions()...)
	edgeSeq := 0

	for len(queue) > 0 && len(order) <= maxStates {
		cur := queue[0]
		queue = queue[1:]
		srcID := ids[cur.Loc.Key()]

		for _, act := range actions {
			kind := component.Input
			if hasAction(sys.OutputActions(), act) {
				kind = component.Output
			}
			trans, err := sys.Next(cur.Loc, act, kind)
			if err != nil {
				return nil, err
			}
			for _, tr := range trans {
				next, ok, err := tr.UseTransition(cur)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				key := next.Loc.Key()
				dstID, seen := ids[key]
				if !seen {
					if len(order) >= maxStates {
						continue
					}
					dstID = nextID(key)
					queue = append(queue, next)
				}
				guardExpr := guardFromZone(tr.Guard)
				var ups []component.RawUpdate
				for _, u := range tr.Updates {
					ups = append(ups, component.RawUpdate{Clock: fmt.Sprintf("x%d", u.I), RHS: expr.IntLit(u.Value)})
				}
				edgeSeq++
				edges = append(edges, component.Edge{
					ID:       fmt.Sprintf("FE%d", edgeSeq),
					Source:   srcID,
					Target:   dstID,
					SyncType: kind,
					Sync:     act,
					Guard:    guardExpr,
					Updates:  ups,
				})
			}
		}
	}

	for i, key := range order {
		typ := component.Normal
		if i == 0 {
			typ = component.Initial
		}
		locs = append(locs, component.Location{ID: ids[key], Type: typ})
	}

	return &component.Component{Name: "flattened", Decl: decl, Locations: locs, Edges: edges}, nil
}

// guardFromZone converts a federation into the disjunctive boolean
// expression it represents, for embedding back into a saved component:
// a clause per disjunct, a comparison per irredundant constraint.
func guardFromZone(z dbm.Federation) expr.BoolExpr {
	clauses := z.MinimalConstraints()
	if len(clauses) == 0 {
		return expr.BoolLit(false)
	}
	var disjuncts expr.BoolExpr
	for _, clause := range clauses {
		var conj expr.BoolExpr = expr.BoolLit(true)
		for _, c := range clause {
			cmp := constraintToCmp(c)
			conj = &expr.And{Left: conj, Right: cmp}
		}
		if disjuncts == nil {
			disjuncts = conj
		} else {
			disjuncts = &expr.Or{Left: disjuncts, Right: conj}
		}
	}
	return disjuncts
}

// constraintToCmp reconstructs x_I - x_J ⪯ bound as a comparison over
// clock references; the implicit zero clock (index 0) folds to a
// literal constant on that side.
func constraintToCmp(c dbm.Constraint) expr.BoolExpr {
	left := clockTerm(c.I)
	right := clockTerm(c.J)
	op := expr.CmpLe
	if c.Bound.Strict {
		op = expr.CmpLt
	}
	shifted := &expr.BinOp{Op: expr.OpAdd, Left: right, Right: expr.IntLit(c.Bound.Value)}
	return &expr.Cmp{Op: op, Left: left, Right: shifted}
}

func clockTerm(idx int) expr.ArithExpr {
	if idx == 0 {
		return expr.IntLit(0)
	}
	return expr.ClockRef{I: idx}
}
