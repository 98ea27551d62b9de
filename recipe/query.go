package recipe

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/tazone/analysis"
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/tsystem"
)

// QueryKind discriminates the nine query forms.
type QueryKind int

const (
	QueryRefinement QueryKind = iota
	QueryConsistency
	QueryDeterminism
	QueryReachability
	QuerySpecification
	QueryImplementation
	QueryGetComponent
	QueryPrune
	QueryBisimMinim
)

// Query is a fully parsed query-surface statement.
type Query struct {
	Kind   QueryKind
	Left   SysExpr   // every kind
	Right  SysExpr   // QueryRefinement only: the "<=" right-hand side
	Start  StateExpr // QueryReachability only: the optional "@" clause, nil if absent
	Target StateExpr // QueryReachability only: the "->" target
	SaveAs string    // QueryGetComponent/QueryPrune/QueryBisimMinim only
}

type queryParser struct {
	toks []token
	pos  int
}

func (p *queryParser) cur() token { return p.toks[p.pos] }
func (p *queryParser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *queryParser) parseSys() (SysExpr, error) {
	sp := &sysParser{toks: p.toks, pos: p.pos}
	e, err := sp.parseQuotient()
	if err != nil {
		return nil, err
	}
	p.pos = sp.pos
	return e, nil
}

func (p *queryParser) parseState() (StateExpr, error) {
	stp := &stateParser{toks: p.toks, pos: p.pos}
	e, err := stp.parseOr()
	if err != nil {
		return nil, err
	}
	p.pos = stp.pos
	return e, nil
}

// ParseQuery parses one query-surface statement: the leading
// keyword selects which of the nine shapes follows, and the remainder
// is delegated to ParseSysExpr/ParseStateExpr's own recursive-descent
// parsers sharing this call's token stream.
func ParseQuery(s string) (*Query, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &queryParser{toks: toks}
	if p.cur().kind != tokIdent {
		return nil, fmt.Errorf("recipe: expected query keyword, got %q", p.cur())
	}
	keyword := strings.ToLower(p.advance().text)
	if p.cur().kind != tokColon {
		return nil, fmt.Errorf("recipe: expected ':' after %q, got %q", keyword, p.cur())
	}
	p.advance()

	q := &Query{}
	switch keyword {
	case "refinement":
		q.Kind = QueryRefinement
		if q.Left, err = p.parseSys(); err != nil {
			return nil, err
		}
		if p.cur().kind != tokLe {
			return nil, fmt.Errorf("recipe: expected '<=' in refinement query, got %q", p.cur())
		}
		p.advance()
		if q.Right, err = p.parseSys(); err != nil {
			return nil, err
		}
	case "consistency":
		q.Kind = QueryConsistency
		if q.Left, err = p.parseSys(); err != nil {
			return nil, err
		}
	case "determinism":
		q.Kind = QueryDeterminism
		if q.Left, err = p.parseSys(); err != nil {
			return nil, err
		}
	case "specification":
		q.Kind = QuerySpecification
		if q.Left, err = p.parseSys(); err != nil {
			return nil, err
		}
	case "implementation":
		q.Kind = QueryImplementation
		if q.Left, err = p.parseSys(); err != nil {
			return nil, err
		}
	case "reachability":
		q.Kind = QueryReachability
		if q.Left, err = p.parseSys(); err != nil {
			return nil, err
		}
		if p.cur().kind == tokAt {
			p.advance()
			if q.Start, err = p.parseState(); err != nil {
				return nil, err
			}
		}
		if p.cur().kind != tokArrow {
			return nil, fmt.Errorf("recipe: expected '->' in reachability query, got %q", p.cur())
		}
		p.advance()
		if q.Target, err = p.parseState(); err != nil {
			return nil, err
		}
	case "get-component", "prune", "bisim-minim":
		switch keyword {
		case "get-component":
			q.Kind = QueryGetComponent
		case "prune":
			q.Kind = QueryPrune
		default:
			q.Kind = QueryBisimMinim
		}
		if q.Left, err = p.parseSys(); err != nil {
			return nil, err
		}
		if p.cur().kind != tokIdent || strings.ToLower(p.cur().text) != "save-as" {
			return nil, fmt.Errorf("recipe: expected 'save-as', got %q", p.cur())
		}
		p.advance()
		if p.cur().kind != tokIdent {
			return nil, fmt.Errorf("recipe: expected a name after 'save-as', got %q", p.cur())
		}
		q.SaveAs = p.advance().text
	default:
		return nil, &analysis.Error{Kind: analysis.KindSyntaxFailure, Message: fmt.Sprintf("unknown query keyword %q", keyword)}
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("recipe: unexpected trailing token %q", p.cur())
	}
	return q, nil
}

// Result is the outcome of Run: at most one of Path/Saved is
// populated, matching which query shape produced it.
type Result struct {
	Query *Query
	Path  analysis.Path        // populated for a successful QueryReachability
	Saved *component.Component // populated for QueryGetComponent/QueryPrune/QueryBisimMinim
}

// Run dispatches a parsed query against the prepared leaves, wrapping
// every composition or analysis failure as the structured *analysis.Error
// taxonomy so callers never need to branch on the query kind to
// recognize a failure.
func Run(q *Query, leaves map[string]*tsystem.Leaf, maxStates int) (*Result, error) {
	switch q.Kind {
	case QueryRefinement:
		impl, err := Build(q.Left, leaves)
		if err != nil {
			return nil, err
		}
		spec, err := Build(q.Right, leaves)
		if err != nil {
			return nil, err
		}
		if err := analysis.CheckRefinement(impl, spec, maxStates); err != nil {
			return nil, err
		}
		return &Result{Query: q}, nil

	case QueryConsistency:
		sys, err := Build(q.Left, leaves)
		if err != nil {
			return nil, err
		}
		if err := analysis.CheckConsistency(sys, maxStates); err != nil {
			return nil, err
		}
		return &Result{Query: q}, nil

	case QueryDeterminism:
		sys, err := Build(q.Left, leaves)
		if err != nil {
			return nil, err
		}
		if err := analysis.CheckDeterminism(sys, maxStates); err != nil {
			return nil, err
		}
		return &Result{Query: q}, nil

	case QuerySpecification, QueryImplementation:
		// Both forms check only that the sys_expr builds at all: every
		// composition-operator precondition is enforced inside Build.
		// Neither draws a further behavioral distinction beyond
		// well-formedness.
		if _, err := Build(q.Left, leaves); err != nil {
			return nil, err
		}
		return &Result{Query: q}, nil

	case QueryReachability:
		sys, err := Build(q.Left, leaves)
		if err != nil {
			return nil, err
		}
		goals, err := CompileGoals(q.Target, q.Left, leaves, sys.Dim())
		if err != nil {
			return nil, err
		}
		init, err := sys.Initial()
		if err != nil {
			return nil, err
		}
		if q.Start != nil {
			start, err := CompileStartState(q.Start, q.Left, leaves, sys.Dim())
			if err != nil {
				return nil, err
			}
			init = start
		}
		var lastErr error
		for _, g := range goals {
			zone := g.Zone
			_, path, err := analysis.CheckReachabilityFrom(sys, init, g.Pattern, &zone, maxStates)
			if err == nil {
				return &Result{Query: q, Path: path}, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = &analysis.Error{Kind: analysis.KindReachability, Message: "target state expression is unsatisfiable"}
		}
		return nil, lastErr

	case QueryGetComponent, QueryPrune, QueryBisimMinim:
		// Pruning and bisimulation minimization add no behavior here:
		// all three save-as forms flatten the reachable fragment back
		// into a component.
		sys, err := Build(q.Left, leaves)
		if err != nil {
			return nil, err
		}
		saved, err := tsystem.Flatten(sys, maxStates)
		if err != nil {
			return nil, err
		}
		saved.Name = q.SaveAs
		return &Result{Query: q, Saved: saved}, nil

	default:
		return nil, fmt.Errorf("recipe: unsupported query kind %v", q.Kind)
	}
}
