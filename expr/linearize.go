package expr

import "fmt"

// linear is an arithmetic expression reduced to
// Σ terms[i]·x_i + constant, where coefficients are restricted to
// whatever the caller tolerates — compileComparison below rejects
// anything that isn't a native DBM shape, but addition/scaling is
// tracked exactly so that shape can be detected.
type linear struct {
	terms    map[int]int
	constant int
}

func newLinear() linear { return linear{terms: map[int]int{}} }

func constLinear(c int) linear { return linear{terms: map[int]int{}, constant: c} }

func clockLinear(i int) linear { return linear{terms: map[int]int{i: 1}, constant: 0} }

func (l linear) isConst() bool { return len(l.terms) == 0 }

func addLinear(a, b linear) linear {
	out := linear{terms: make(map[int]int, len(a.terms)+len(b.terms)), constant: a.constant + b.constant}
	for k, v := range a.terms {
		out.terms[k] += v
	}
	for k, v := range b.terms {
		out.terms[k] += v
	}
	pruneZero(out.terms)
	return out
}

func negateLinear(a linear) linear {
	out := linear{terms: make(map[int]int, len(a.terms)), constant: -a.constant}
	for k, v := range a.terms {
		out.terms[k] = -v
	}
	return out
}

func scaleLinear(a linear, k int) linear {
	out := linear{terms: make(map[int]int, len(a.terms)), constant: a.constant * k}
	for idx, v := range a.terms {
		if s := v * k; s != 0 {
			out.terms[idx] = s
		}
	}
	return out
}

func pruneZero(m map[int]int) {
	for k, v := range m {
		if v == 0 {
			delete(m, k)
		}
	}
}

// linearize reduces an arithmetic expression to its linear form,
// resolving identifiers against r and rejecting non-constant
// multiplication/division/modulo involving a clock.
func linearize(e ArithExpr, r Resolver) (linear, error) {
	switch v := e.(type) {
	case IntLit:
		return constLinear(int(v)), nil
	case ClockRef:
		return clockLinear(v.I), nil
	case VarName:
		if idx, ok := r.ClockIndex(string(v)); ok {
			return clockLinear(idx), nil
		}
		if val, ok := r.IntValue(string(v)); ok {
			return constLinear(val), nil
		}
		return linear{}, fmt.Errorf("%w: %q", ErrUnknownIdentifier, string(v))
	case *BinOp:
		l, err := linearize(v.Left, r)
		if err != nil {
			return linear{}, err
		}
		rr, err := linearize(v.Right, r)
		if err != nil {
			return linear{}, err
		}
		switch v.Op {
		case OpAdd:
			return addLinear(l, rr), nil
		case OpSub:
			return addLinear(l, negateLinear(rr)), nil
		case OpMul:
			switch {
			case l.isConst():
				return scaleLinear(rr, l.constant), nil
			case rr.isConst():
				return scaleLinear(l, rr.constant), nil
			default:
				return linear{}, fmt.Errorf("%w: multiplying two non-constant expressions", ErrClockArithmetic)
			}
		case OpDiv:
			if !l.isConst() || !rr.isConst() {
				return linear{}, fmt.Errorf("%w: division involving a clock", ErrClockArithmetic)
			}
			if rr.constant == 0 {
				return linear{}, ErrDivByZero
			}
			return constLinear(l.constant / rr.constant), nil
		case OpMod:
			if !l.isConst() || !rr.isConst() {
				return linear{}, fmt.Errorf("%w: modulo involving a clock", ErrClockArithmetic)
			}
			if rr.constant == 0 {
				return linear{}, ErrDivByZero
			}
			return constLinear(l.constant % rr.constant), nil
		}
	}
	return linear{}, fmt.Errorf("expr: unsupported arithmetic node %T", e)
}
