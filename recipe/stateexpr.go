package recipe

import (
	"fmt"

	"github.com/katalvlaran/tazone/expr"
)

// StateExpr is the state_expr grammar: boolean combinations
// (&&, ||, !) of atomic predicates over a component's current
// location or a clock comparison against an integer-arithmetic
// expression, plus the literals true/false.
type StateExpr interface{ isStateExpr() }

// SBoolLit is a literal boolean.
type SBoolLit bool

func (SBoolLit) isStateExpr() {}

// SAnd is conjunction.
type SAnd struct{ L, R StateExpr }

func (*SAnd) isStateExpr() {}

// SOr is disjunction.
type SOr struct{ L, R StateExpr }

func (*SOr) isStateExpr() {}

// SNot is negation.
type SNot struct{ E StateExpr }

func (*SNot) isStateExpr() {}

// LocationPred is "Component.Location": true iff the named component
// currently occupies that location.
type LocationPred struct {
	Component string
	Location  string
}

func (LocationPred) isStateExpr() {}

// ClockPred is "Component.clock ⋈ integer-arith".
type ClockPred struct {
	Component string
	Clock     string
	Op        expr.CmpKind
	RHS       expr.ArithExpr
}

func (ClockPred) isStateExpr() {}

type stateParser struct {
	toks []token
	pos  int
}

func (p *stateParser) cur() token { return p.toks[p.pos] }
func (p *stateParser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// ParseStateExpr parses a standalone state_expr string.
func ParseStateExpr(s string) (StateExpr, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &stateParser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("recipe: unexpected token %q after state expression", p.cur())
	}
	return e, nil
}

func (p *stateParser) parseOr() (StateExpr, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokOr {
		p.advance()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = &SOr{L: l, R: r}
	}
	return l, nil
}

func (p *stateParser) parseAnd() (StateExpr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokAnd {
		p.advance()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = &SAnd{L: l, R: r}
	}
	return l, nil
}

func (p *stateParser) parseUnary() (StateExpr, error) {
	if p.cur().kind == tokNot {
		p.advance()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &SNot{E: e}, nil
	}
	return p.parseAtom()
}

func (p *stateParser) parseAtom() (StateExpr, error) {
	switch p.cur().kind {
	case tokLParen:
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokRParen {
			return nil, fmt.Errorf("recipe: expected ')', got %q", p.cur())
		}
		p.advance()
		return e, nil
	case tokTrue:
		p.advance()
		return SBoolLit(true), nil
	case tokFalse:
		p.advance()
		return SBoolLit(false), nil
	case tokIdent:
		component := p.advance().text
		if p.cur().kind != tokDot {
			return nil, fmt.Errorf("recipe: expected '.' after %q, got %q", component, p.cur())
		}
		p.advance()
		if p.cur().kind != tokIdent {
			return nil, fmt.Errorf("recipe: expected location or clock name, got %q", p.cur())
		}
		name := p.advance().text
		op, ok := p.tryCmpOp()
		if !ok {
			return LocationPred{Component: component, Location: name}, nil
		}
		rhs, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		return ClockPred{Component: component, Clock: name, Op: op, RHS: rhs}, nil
	default:
		return nil, fmt.Errorf("recipe: expected state predicate, got %q", p.cur())
	}
}

func (p *stateParser) tryCmpOp() (expr.CmpKind, bool) {
	switch p.cur().kind {
	case tokLt:
		p.advance()
		return expr.CmpLt, true
	case tokLe:
		p.advance()
		return expr.CmpLe, true
	case tokEq:
		p.advance()
		return expr.CmpEq, true
	case tokGe:
		p.advance()
		return expr.CmpGe, true
	case tokGt:
		p.advance()
		return expr.CmpGt, true
	default:
		return 0, false
	}
}

// parseArith parses the small arithmetic grammar integer-arith allows
// on the right-hand side of a clock comparison: +/- at lowest
// precedence, then * / %, over integer literals and parenthesized
// sub-expressions.
func (p *stateParser) parseArith() (expr.ArithExpr, error) {
	l, err := p.parseArithTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokPlus || p.cur().kind == tokMinus {
		op := expr.OpAdd
		if p.cur().kind == tokMinus {
			op = expr.OpSub
		}
		p.advance()
		r, err := p.parseArithTerm()
		if err != nil {
			return nil, err
		}
		l = &expr.BinOp{Op: op, Left: l, Right: r}
	}
	return l, nil
}

func (p *stateParser) parseArithTerm() (expr.ArithExpr, error) {
	l, err := p.parseArithFactor()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokStar || p.cur().kind == tokSlash || p.cur().kind == tokPercent {
		var op expr.BinOpKind
		switch p.cur().kind {
		case tokStar:
			op = expr.OpMul
		case tokSlash:
			op = expr.OpDiv
		default:
			op = expr.OpMod
		}
		p.advance()
		r, err := p.parseArithFactor()
		if err != nil {
			return nil, err
		}
		l = &expr.BinOp{Op: op, Left: l, Right: r}
	}
	return l, nil
}

func (p *stateParser) parseArithFactor() (expr.ArithExpr, error) {
	if p.cur().kind == tokMinus {
		p.advance()
		f, err := p.parseArithFactor()
		if err != nil {
			return nil, err
		}
		return &expr.BinOp{Op: expr.OpSub, Left: expr.IntLit(0), Right: f}, nil
	}
	if p.cur().kind == tokLParen {
		p.advance()
		e, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokRParen {
			return nil, fmt.Errorf("recipe: expected ')', got %q", p.cur())
		}
		p.advance()
		return e, nil
	}
	if p.cur().kind != tokInt {
		return nil, fmt.Errorf("recipe: expected integer literal, got %q", p.cur())
	}
	t := p.advance()
	var v int
	for _, c := range t.text {
		v = v*10 + int(c-'0')
	}
	return expr.IntLit(v), nil
}
