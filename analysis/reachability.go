package analysis

import (
	"github.com/katalvlaran/tazone/dbm"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
	"github.com/katalvlaran/tazone/tsystem"
)

// Path is the sequence of action names fired to reach a goal state,
// in order from the initial state.
type Path []string

// CheckReachability searches sys breadth-first for a state whose
// location tree matches goal (KindAny nodes in goal match anything)
// and, when goalZone is non-nil, whose zone intersects it. Extrapolation
// uses the union of sys's own max bounds and goalZone's bounds so a
// goal's tighter constants are not lost to premature widening, a
// known cause of false unreachability. It returns the first matching
// state found and the path of actions that reached it, or a
// ReachabilityFailure if none is reachable within maxStates.
func CheckReachability(sys tsystem.System, goal *ltree.Tree, goalZone *dbm.Federation, maxStates int) (*transition.State, Path, error) {
	init, err := sys.Initial()
	if err != nil {
		return nil, nil, err
	}
	return CheckReachabilityFrom(sys, init, goal, goalZone, maxStates)
}

// CheckReachabilityFrom is CheckReachability generalized to start the
// search from an arbitrary state rather than sys.Initial() — used when
// a reachability query's optional "@ state_expr" clause pins the
// starting location and zone explicitly.
func CheckReachabilityFrom(sys tsystem.System, init transition.State, goal *ltree.Tree, goalZone *dbm.Federation, maxStates int) (*transition.State, Path, error) {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	bounds := sys.MaxBounds()
	if goalZone != nil {
		bounds = mergeBoundsLocal(bounds, goalZone.Bounds())
	}

	matchesGoal := func(s transition.State) (bool, error) {
		if !goal.Matches(s.Loc) {
			return false, nil
		}
		if goalZone == nil {
			return true, nil
		}
		return s.Zone.HasIntersection(*goalZone)
	}

	if ok, err := matchesGoal(init); err != nil {
		return nil, nil, err
	} else if ok {
		return &init, Path{}, nil
	}

	type frontierEntry struct {
		state transition.State
		path  Path
	}

	// visited holds, per location, the list of zones already explored
	// there.
	// A bare visited-once flag would permanently block revisiting a
	// location reached later with a wider zone, a known cause of false
	// unreachability.
	visited := map[string][]dbm.Federation{init.Loc.Key(): {init.Zone}}
	numStates := 1
	queue := []frontierEntry{{state: init, path: Path{}}}
	actions := append(append([]string{}, sys.InputActions()...), sys.OutputActions()...)

	for len(queue) > 0 && numStates <= maxStates {
		cur := queue[0]
		queue = queue[1:]

		for _, act := range actions {
			trans, err := sys.Next(cur.state.Loc, act, kindOf(sys, act))
			if err != nil {
				return nil, nil, err
			}
			for _, tr := range trans {
				next, ok, err := tr.UseTransition(cur.state)
				if err != nil {
					return nil, nil, err
				}
				if !ok {
					continue
				}
				zone, err := next.Zone.ExtrapolateMaxBounds(bounds)
				if err != nil {
					return nil, nil, err
				}
				next.Zone = zone
				path := append(append(Path{}, cur.path...), act)
				if ok, err := matchesGoal(next); err != nil {
					return nil, nil, err
				} else if ok {
					return &next, path, nil
				}
				key := next.Loc.Key()
				covered := false
				for _, z := range visited[key] {
					c, err := next.Zone.SubsetEq(z)
					if err != nil {
						return nil, nil, err
					}
					if c {
						covered = true
						break
					}
				}
				if covered {
					continue
				}
				visited[key] = append(visited[key], next.Zone)
				numStates++
				queue = append(queue, frontierEntry{state: next, path: path})
			}
		}
	}
	return nil, nil, &Error{Kind: KindReachability, Message: "no reachable state matches the goal pattern"}
}

func mergeBoundsLocal(a, b []int) []int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av > bv {
			out[i] = av
		} else {
			out[i] = bv
		}
	}
	return out
}
