package recipe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/katalvlaran/tazone/analysis"
	"github.com/katalvlaran/tazone/tsystem"
)

// quotientNamespace anchors the deterministic fresh-symbol derivation
// below; any fixed UUID works as a SHA1 namespace, it only needs to be
// stable across runs.
var quotientNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NewQuotientSymbol derives the synthetic "give up" input name a
// Quotient must gain, deterministic given the combined alphabets.
// It starts from
// tsystem.NewInputSymbol and, only if that already collides with one
// of the supplied alphabets (nested quotients sharing an alphabet
// branch), appends a short disambiguating suffix derived from a
// content-addressed UUID (v5/SHA1) of the sorted, concatenated
// alphabets — deterministic for the same inputs, unlike a random v4
// UUID, while still drawing on the same uuid package the rest of the
// service layer uses for identity generation.
func NewQuotientSymbol(alphabets ...[]string) string {
	base := tsystem.NewInputSymbol
	all := map[string]struct{}{}
	for _, a := range alphabets {
		for _, name := range a {
			all[name] = struct{}{}
		}
	}
	if _, collide := all[base]; !collide {
		return base
	}
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	data := []byte(strings.Join(names, ","))
	for attempt := 0; ; attempt++ {
		seed := append(data, byte(attempt))
		id := uuid.NewSHA1(quotientNamespace, seed)
		candidate := fmt.Sprintf("%s_%s", base, id.String()[:8])
		if _, collide := all[candidate]; !collide {
			return candidate
		}
	}
}

// Build compiles a parsed SysExpr into a tsystem.System, resolving
// atoms against leaves (keyed by Atom.Key()) and checking every binary
// operator's precondition as each node is built, so a malformed query
// fails at the first offending operator rather than deep inside
// exploration.
func Build(e SysExpr, leaves map[string]*tsystem.Leaf) (tsystem.System, error) {
	switch v := e.(type) {
	case Atom:
		leaf, ok := leaves[v.Key()]
		if !ok {
			return nil, &analysis.Error{Kind: analysis.KindSystemRecipe, Message: fmt.Sprintf("unknown component reference %q", v.Key())}
		}
		return leaf, nil
	case *Conj:
		l, err := Build(v.L, leaves)
		if err != nil {
			return nil, err
		}
		r, err := Build(v.R, leaves)
		if err != nil {
			return nil, err
		}
		sys, err := tsystem.NewConjunction(l, r)
		if err != nil {
			return nil, &analysis.Error{Kind: analysis.KindActionMismatch, Message: err.Error()}
		}
		// A conjunction whose operands can only reach states with no
		// saving output and no unbounded delay is rejected outright.
		if err := analysis.CheckConsistency(sys, analysis.DefaultMaxStates); err != nil {
			return nil, &analysis.Error{Kind: analysis.KindSystemRecipe, Message: fmt.Sprintf("conjunction is not locally consistent: %v", err)}
		}
		return sys, nil
	case *Par:
		l, err := Build(v.L, leaves)
		if err != nil {
			return nil, err
		}
		r, err := Build(v.R, leaves)
		if err != nil {
			return nil, err
		}
		sys, err := tsystem.NewComposition(l, r)
		if err != nil {
			return nil, &analysis.Error{Kind: analysis.KindActionMismatch, Message: err.Error()}
		}
		return sys, nil
	case *Quot:
		l, err := Build(v.L, leaves)
		if err != nil {
			return nil, err
		}
		r, err := Build(v.R, leaves)
		if err != nil {
			return nil, err
		}
		if err := checkQuotientOperandProperties(l, r); err != nil {
			return nil, err
		}
		sym := NewQuotientSymbol(l.InputActions(), l.OutputActions(), r.InputActions(), r.OutputActions())
		sys, err := tsystem.NewQuotientWithSymbol(l, r, sym)
		if err != nil {
			return nil, &analysis.Error{Kind: analysis.KindActionMismatch, Message: err.Error()}
		}
		return sys, nil
	default:
		return nil, fmt.Errorf("recipe: unsupported sys_expr node %T", e)
	}
}

// checkQuotientOperandProperties enforces the part of the quotient
// precondition that tsystem.NewQuotientWithSymbol does not itself
// check: both operands must individually be deterministic and locally
// consistent before they may be divided.
func checkQuotientOperandProperties(t, s tsystem.System) error {
	if err := analysis.CheckDeterminism(t, analysis.DefaultMaxStates); err != nil {
		return &analysis.Error{Kind: analysis.KindSystemRecipe, Message: fmt.Sprintf("quotient dividend is not deterministic: %v", err)}
	}
	if err := analysis.CheckConsistency(t, analysis.DefaultMaxStates); err != nil {
		return &analysis.Error{Kind: analysis.KindSystemRecipe, Message: fmt.Sprintf("quotient dividend is not locally consistent: %v", err)}
	}
	if err := analysis.CheckDeterminism(s, analysis.DefaultMaxStates); err != nil {
		return &analysis.Error{Kind: analysis.KindSystemRecipe, Message: fmt.Sprintf("quotient divisor is not deterministic: %v", err)}
	}
	if err := analysis.CheckConsistency(s, analysis.DefaultMaxStates); err != nil {
		return &analysis.Error{Kind: analysis.KindSystemRecipe, Message: fmt.Sprintf("quotient divisor is not locally consistent: %v", err)}
	}
	return nil
}

// Leaves turns a prepared leaf slice into the name-keyed map Build
// expects, pairing each leaf with the atom key under which its source
// component should be addressed (in the same order tsystem.Prepare
// received the components).
func Leaves(keys []string, leaves []*tsystem.Leaf) (map[string]*tsystem.Leaf, error) {
	if len(keys) != len(leaves) {
		return nil, fmt.Errorf("recipe: %d atom keys for %d prepared leaves", len(keys), len(leaves))
	}
	out := make(map[string]*tsystem.Leaf, len(leaves))
	for i, k := range keys {
		out[k] = leaves[i]
	}
	return out, nil
}
