package expr

import (
	"fmt"

	"github.com/katalvlaran/tazone/dbm"
)

// Constraint is one compiled native difference-bound constraint:
// x_I - x_J ⪯ Bound.
type Constraint struct {
	I, J  int
	Bound dbm.Bound
}

// Guard is a compiled boolean expression in disjunctive-normal form
// over native difference-bound constraints: a disjunction of
// conjunctive clauses. An empty Clauses slice is the constraint
// "false"; a single empty clause is "true".
type Guard struct {
	Clauses [][]Constraint
}

// Apply restricts fed by the guard: the union, over clauses, of fed
// intersected with every constraint in that clause.
func (g Guard) Apply(fed dbm.Federation) (dbm.Federation, error) {
	if len(g.Clauses) == 0 {
		return dbm.Empty(fed.Dim()), nil
	}
	acc := dbm.Empty(fed.Dim())
	for _, clause := range g.Clauses {
		cur := fed
		for _, c := range clause {
			var err error
			cur, err = cur.Constrain(c.I, c.J, c.Bound)
			if err != nil {
				return dbm.Federation{}, err
			}
		}
		var err error
		acc, err = acc.Union(cur)
		if err != nil {
			return dbm.Federation{}, err
		}
	}
	return acc, nil
}

func trueGuard() Guard  { return Guard{Clauses: [][]Constraint{{}}} }
func falseGuard() Guard { return Guard{Clauses: nil} }

// compileComparison reduces a single comparison to either a boolean
// literal (when no clock participates) or one/two native difference
// constraints (two for equality).
func compileComparison(c *Cmp, r Resolver) (Guard, error) {
	ll, err := linearize(c.Left, r)
	if err != nil {
		return Guard{}, err
	}
	rl, err := linearize(c.Right, r)
	if err != nil {
		return Guard{}, err
	}
	diff := addLinear(ll, negateLinear(rl))

	if diff.isConst() {
		return Guard{Clauses: boolClauses(evalCmp(c.Op, 0, -diff.constant))}, nil
	}

	pos, neg, err := classifyPair(diff.terms)
	if err != nil {
		return Guard{}, err
	}
	k := -diff.constant

	switch c.Op {
	case CmpLt:
		return Guard{Clauses: [][]Constraint{{{I: pos, J: neg, Bound: dbm.Bound{Value: k, Strict: true}}}}}, nil
	case CmpLe:
		return Guard{Clauses: [][]Constraint{{{I: pos, J: neg, Bound: dbm.Bound{Value: k, Strict: false}}}}}, nil
	case CmpGt:
		return Guard{Clauses: [][]Constraint{{{I: neg, J: pos, Bound: dbm.Bound{Value: -k, Strict: true}}}}}, nil
	case CmpGe:
		return Guard{Clauses: [][]Constraint{{{I: neg, J: pos, Bound: dbm.Bound{Value: -k, Strict: false}}}}}, nil
	case CmpEq:
		return Guard{Clauses: [][]Constraint{{
			{I: pos, J: neg, Bound: dbm.Bound{Value: k, Strict: false}},
			{I: neg, J: pos, Bound: dbm.Bound{Value: -k, Strict: false}},
		}}}, nil
	default:
		return Guard{}, fmt.Errorf("expr: unknown comparison operator %v", c.Op)
	}
}

func boolClauses(b bool) [][]Constraint {
	if b {
		return [][]Constraint{{}}
	}
	return nil
}

func evalCmp(op CmpKind, l, rr int) bool {
	switch op {
	case CmpLt:
		return l < rr
	case CmpLe:
		return l <= rr
	case CmpEq:
		return l == rr
	case CmpGe:
		return l >= rr
	case CmpGt:
		return l > rr
	}
	return false
}

// classifyPair requires terms to be exactly representable as x_pos -
// x_neg (coefficient +1 at pos, -1 at neg; missing side defaults to
// clock index 0, the implicit zero clock).
func classifyPair(terms map[int]int) (pos, neg int, err error) {
	pos, neg = 0, 0
	havePos, haveNeg := false, false
	for idx, coeff := range terms {
		switch coeff {
		case 1:
			if havePos {
				return 0, 0, fmt.Errorf("%w: more than one positive clock", ErrNonNativeGuard)
			}
			pos, havePos = idx, true
		case -1:
			if haveNeg {
				return 0, 0, fmt.Errorf("%w: more than one negative clock", ErrNonNativeGuard)
			}
			neg, haveNeg = idx, true
		default:
			return 0, 0, fmt.Errorf("%w: coefficient %d on clock %d", ErrNonNativeGuard, coeff, idx)
		}
	}
	return pos, neg, nil
}

// CompileBool compiles a simplified boolean expression into a Guard.
func CompileBool(e BoolExpr, r Resolver) (Guard, error) {
	e = Simplify(e)
	switch v := e.(type) {
	case BoolLit:
		if bool(v) {
			return trueGuard(), nil
		}
		return falseGuard(), nil
	case *Cmp:
		return compileComparison(v, r)
	case *And:
		gl, err := CompileBool(v.Left, r)
		if err != nil {
			return Guard{}, err
		}
		gr, err := CompileBool(v.Right, r)
		if err != nil {
			return Guard{}, err
		}
		var out [][]Constraint
		for _, cl := range gl.Clauses {
			for _, cr := range gr.Clauses {
				merged := make([]Constraint, 0, len(cl)+len(cr))
				merged = append(merged, cl...)
				merged = append(merged, cr...)
				out = append(out, merged)
			}
		}
		return Guard{Clauses: out}, nil
	case *Or:
		gl, err := CompileBool(v.Left, r)
		if err != nil {
			return Guard{}, err
		}
		gr, err := CompileBool(v.Right, r)
		if err != nil {
			return Guard{}, err
		}
		return Guard{Clauses: append(append([][]Constraint{}, gl.Clauses...), gr.Clauses...)}, nil
	default:
		return Guard{}, fmt.Errorf("expr: unsupported boolean node %T", e)
	}
}

// CompileUpdate compiles a clock assignment `clock := expr`. The
// right-hand side must fold to a non-negative integer constant.
func CompileUpdate(clockIndex int, rhs ArithExpr, r Resolver) (Update, error) {
	lin, err := linearize(rhs, r)
	if err != nil {
		return Update{}, err
	}
	if !lin.isConst() {
		return Update{}, ErrNonConstantUpdate
	}
	if lin.constant < 0 {
		return Update{}, ErrNegativeUpdate
	}
	return Update{I: clockIndex, Value: lin.constant}, nil
}
