package analysis

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/transition"
	"github.com/katalvlaran/tazone/tsystem"
)

// CheckRefinement runs the simulation game that decides whether impl
// refines spec. The enforced alphabet precondition is
// impl.inputs ⊆ spec.inputs, spec.outputs ⊆
// impl.outputs, plus the two disjointness requirements — not alphabet
// equality: a spec is allowed a wider input set and a narrower output
// set than the impl refining it, with the extra actions on each side
// matched against a synthetic identity transition (the side that does
// not declare the action simply stands still).
//
// This implementation resolves refinement's Open Question on exactly
// how delay-preservation is tested: rather than computing the
// predecessor-delay relation precisely, it checks containment of the
// current zone pair both before and after the time-elapse closure,
// which is sound for the common case of invariant-bounded locations
// but can be conservative (reject a valid refinement) when a location
// allows unbounded delay only on a strict sub-region of its invariant.
// See the grounding ledger for the accepted tradeoff.
func CheckRefinement(impl, spec tsystem.System, maxPairs int) error {
	if maxPairs <= 0 {
		maxPairs = DefaultMaxStates
	}

	// impl and spec need not share a dimension — a quotient operand on
	// either side carries one fresh clock the other lacks. Lifting the
	// smaller side up first keeps every zone comparison below well
	// defined.
	dim := tsystem.MaxDim(impl.Dim(), spec.Dim())
	impl, spec = tsystem.Lift(impl, dim), tsystem.Lift(spec, dim)

	implIn, specIn := impl.InputActions(), spec.InputActions()
	implOut, specOut := impl.OutputActions(), spec.OutputActions()

	if hasOverlap(implIn, specOut) {
		return &Error{Kind: KindActionMismatch, Message: "impl's inputs and spec's outputs are not disjoint"}
	}
	if hasOverlap(specIn, implOut) {
		return &Error{Kind: KindActionMismatch, Message: "spec's inputs and impl's outputs are not disjoint"}
	}
	if !isSubset(implIn, specIn) {
		return &Error{Kind: KindActionMismatch, Message: "impl declares an input spec does not accept"}
	}
	if !isSubset(specOut, implOut) {
		return &Error{Kind: KindActionMismatch, Message: "spec declares an output impl never emits"}
	}

	implInit, err := impl.Initial()
	if err != nil {
		return err
	}
	specInit, err := spec.Initial()
	if err != nil {
		return err
	}
	if implInit.Zone.IsEmpty() || specInit.Zone.IsEmpty() {
		return &Error{Kind: KindRefinement, RefSubKind: RefinementEmptyInitialState, Message: "initial zone is empty"}
	}

	// The alphabet precondition above guarantees these differences only
	// ever run one way: impl may emit an output spec never declared, and
	// spec may demand an input impl never declared.
	extraOutputs := differenceSet(implOut, specOut)
	extraInputs := differenceSet(specIn, implIn)

	// Extrapolation bounds are the elementwise union of both sides'
	// local max bounds; the pair state space is finite under them.
	bounds := boundsUnion(impl.MaxBounds(), spec.MaxBounds())

	initPair := implSpecPair{impl: implInit, spec: specInit}
	passed := map[string]dbm.Federation{pairKey(initPair): initPair.impl.Zone}
	queue := []implSpecPair{initPair}

	for len(queue) > 0 && len(passed) <= maxPairs {
		cur := queue[0]
		queue = queue[1:]

		ok, err := cur.impl.Zone.SubsetEq(cur.spec.Zone)
		if err != nil {
			return err
		}
		if !ok {
			return &Error{Kind: KindRefinement, RefSubKind: RefinementCutsDelaySolutions, LeftLocKey: cur.impl.Loc.Key(), RightLocKey: cur.spec.Loc.Key(), Message: "impl's zone is not contained in spec's zone"}
		}
		implDelayed := cur.impl.Zone.Up()
		specDelayed := cur.spec.Zone.Up()
		ok, err = implDelayed.SubsetEq(specDelayed)
		if err != nil {
			return err
		}
		if !ok {
			return &Error{Kind: KindRefinement, RefSubKind: RefinementCutsDelaySolutions, LeftLocKey: cur.impl.Loc.Key(), RightLocKey: cur.spec.Loc.Key(), Message: "impl delays beyond what spec permits"}
		}

		for _, act := range implOut {
			implTrans, err := impl.Next(cur.impl.Loc, act, component.Output)
			if err != nil {
				return err
			}
			var specTrans []transition.Transition
			if extraOutputs[act] {
				specTrans = []transition.Transition{transition.Identity(spec.Dim(), cur.spec.Loc)}
			} else if specTrans, err = spec.Next(cur.spec.Loc, act, component.Output); err != nil {
				return err
			}
			next, matchErr := matchAction(cur, implTrans, specTrans, true, act, RefinementCannotMatchOutput)
			if matchErr != nil {
				return matchErr
			}
			for _, np := range next {
				np, err = extrapolatePair(np, bounds)
				if err != nil {
					return err
				}
				if err := considerPair(passed, &queue, np); err != nil {
					return err
				}
			}
		}

		for _, act := range specIn {
			specTrans, err := spec.Next(cur.spec.Loc, act, component.Input)
			if err != nil {
				return err
			}
			var implTrans []transition.Transition
			if extraInputs[act] {
				implTrans = []transition.Transition{transition.Identity(impl.Dim(), cur.impl.Loc)}
			} else if implTrans, err = impl.Next(cur.impl.Loc, act, component.Input); err != nil {
				return err
			}
			next, matchErr := matchAction(cur, implTrans, specTrans, false, act, RefinementCannotMatchInput)
			if matchErr != nil {
				return matchErr
			}
			for _, np := range next {
				np, err = extrapolatePair(np, bounds)
				if err != nil {
					return err
				}
				if err := considerPair(passed, &queue, np); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// implSpecPair is one node of the simulation game: an impl location
// tree and a spec location tree, each carrying its own zone. The two
// trees are independent and need not be structurally related — a
// composed impl tree routinely stands opposite a single spec leaf.
type implSpecPair struct {
	impl, spec transition.State
}

func pairKey(p implSpecPair) string {
	return p.impl.Loc.Key() + "|" + p.spec.Loc.Key()
}

// considerPair folds np's impl zone into passed's per-pair federation
// (the union of every zone this (impl-loc, spec-loc) pair has been
// explored with so far) and enqueues np only if that zone is not
// already covered by the union recorded for its pair — a wider zone
// reached later along a different path still gets explored.
func considerPair(passed map[string]dbm.Federation, queue *[]implSpecPair, np implSpecPair) error {
	k := pairKey(np)
	prev, seen := passed[k]
	if seen {
		covered, err := np.impl.Zone.SubsetEq(prev)
		if err != nil {
			return err
		}
		if covered {
			return nil
		}
		merged, err := prev.Union(np.impl.Zone)
		if err != nil {
			return err
		}
		passed[k] = merged
	} else {
		passed[k] = np.impl.Zone
	}
	*queue = append(*queue, np)
	return nil
}

// matchAction checks driverTrans against matcherTrans for one action:
// the federation driverTrans can reach from cur must
// be covered by the federation matcherTrans can reach, or the driving
// side does something the other side has no way to follow. When that
// holds, every (implTr, specTr) combination that fires from cur is
// carried into a new pair — the combination's own delay-preservation
// obligation is re-checked the next time that pair is popped off the
// queue, not here. driverIsImpl selects which side is doing the action
// (true for an output step, impl always drives; false for an input
// step, spec always drives).
func matchAction(cur implSpecPair, implTrans, specTrans []transition.Transition, driverIsImpl bool, action string, failKind RefinementSubKind) ([]implSpecPair, error) {
	driverTrans, matcherTrans := implTrans, specTrans
	driverZone, matcherZone := cur.impl.Zone, cur.spec.Zone
	if !driverIsImpl {
		driverTrans, matcherTrans = specTrans, implTrans
		driverZone, matcherZone = cur.spec.Zone, cur.impl.Zone
	}

	fedDriver, err := allowedZone(driverTrans, driverZone)
	if err != nil {
		return nil, err
	}
	if fedDriver.IsEmpty() {
		return nil, nil
	}
	fedMatcher, err := allowedZone(matcherTrans, matcherZone)
	if err != nil {
		return nil, err
	}
	if fedMatcher.IsEmpty() {
		return nil, &Error{Kind: KindRefinement, RefSubKind: failKind, Action: action, LeftLocKey: cur.impl.Loc.Key(), RightLocKey: cur.spec.Loc.Key(), Message: "the other side has no transition to follow with"}
	}
	uncovered, err := fedDriver.Subtraction(fedMatcher)
	if err != nil {
		return nil, err
	}
	if !uncovered.IsEmpty() {
		return nil, &Error{Kind: KindRefinement, RefSubKind: failKind, Action: action, LeftLocKey: cur.impl.Loc.Key(), RightLocKey: cur.spec.Loc.Key(), Message: "the other side cannot follow everywhere the driving side can fire"}
	}

	var out []implSpecPair
	for _, it := range implTrans {
		implNext, ok, err := it.UseTransition(cur.impl)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, st := range specTrans {
			specNext, ok, err := st.UseTransition(cur.spec)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			out = append(out, implSpecPair{impl: implNext, spec: specNext})
		}
	}
	return out, nil
}

// boundsUnion is the elementwise max of two bound vectors of equal
// length.
func boundsUnion(a, b []int) []int {
	out := make([]int, len(a))
	for i := range a {
		out[i] = a[i]
		if i < len(b) && b[i] > out[i] {
			out[i] = b[i]
		}
	}
	return out
}

// extrapolatePair widens both sides of a freshly built pair against
// bounds so the explored pair space stays finite.
func extrapolatePair(p implSpecPair, bounds []int) (implSpecPair, error) {
	iz, err := p.impl.Zone.ExtrapolateMaxBounds(bounds)
	if err != nil {
		return p, err
	}
	sz, err := p.spec.Zone.ExtrapolateMaxBounds(bounds)
	if err != nil {
		return p, err
	}
	p.impl.Zone, p.spec.Zone = iz, sz
	return p, nil
}

// allowedZone is the union, over trans, of each transition's Allowed
// federation intersected with zone — the federation from which some
// transition in trans can fire and land inside its target invariant.
func allowedZone(trans []transition.Transition, zone dbm.Federation) (dbm.Federation, error) {
	fed := dbm.Empty(zone.Dim())
	for _, t := range trans {
		a, err := t.Allowed()
		if err != nil {
			return dbm.Federation{}, err
		}
		g, err := zone.Intersection(a)
		if err != nil {
			return dbm.Federation{}, err
		}
		fed, err = fed.Union(g)
		if err != nil {
			return dbm.Federation{}, err
		}
	}
	return fed, nil
}

func hasOverlap(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, n := range a {
		seen[n] = true
	}
	for _, n := range b {
		if seen[n] {
			return true
		}
	}
	return false
}

func isSubset(a, b []string) bool {
	seen := make(map[string]bool, len(b))
	for _, n := range b {
		seen[n] = true
	}
	for _, n := range a {
		if !seen[n] {
			return false
		}
	}
	return true
}

// differenceSet returns, as a membership set, a \ b.
func differenceSet(a, b []string) map[string]bool {
	inB := make(map[string]bool, len(b))
	for _, n := range b {
		inB[n] = true
	}
	out := make(map[string]bool)
	for _, n := range a {
		if !inB[n] {
			out[n] = true
		}
	}
	return out
}
