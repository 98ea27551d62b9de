package analysis

import (
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/transition"
	"github.com/katalvlaran/tazone/tsystem"
)

// CheckDeterminism reports whether every reachable state of sys
// offers, for each action, pairwise disjoint allowed-entry zones —
// no valuation can fire two different edges on the same action and
// land inside both targets' invariants.
func CheckDeterminism(sys tsystem.System, maxStates int) error {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	return explore(sys, maxStates, func(st transition.State) (bool, error) {
		byAction, err := edgesAt(sys, st.Loc)
		if err != nil {
			return false, err
		}
		for action, trans := range byAction {
			allowed := make([]dbm.Federation, len(trans))
			for i, tr := range trans {
				a, err := tr.Allowed()
				if err != nil {
					return false, err
				}
				if allowed[i], err = a.Intersection(st.Zone); err != nil {
					return false, err
				}
			}
			for i := 0; i < len(allowed); i++ {
				for j := i + 1; j < len(allowed); j++ {
					overlap, err := allowed[i].HasIntersection(allowed[j])
					if err != nil {
						return false, err
					}
					if overlap {
						return false, &Error{
							Kind:       KindDeterminism,
							Action:     action,
							LeftLocKey: st.Loc.Key(),
							Message:    "two edges on the same action have overlapping allowed zones",
						}
					}
				}
			}
		}
		return true, nil
	})
}
