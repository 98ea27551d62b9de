package analysis

import (
	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
	"github.com/katalvlaran/tazone/tsystem"
)

// DefaultMaxStates bounds every BFS in this package against a runaway
// exploration when a system's reachable set is unexpectedly large or
// infinite (extrapolation normally keeps it finite first).
const DefaultMaxStates = 100000

// explore performs a breadth-first walk of sys from its initial state,
// firing every declared action at each frontier state and extrapolating
// zones against sys's max bounds, deduplicating purely on location
// identity. visit is called once per first-reached state for a given
// location tree; it may return false to stop exploring past that state.
func explore(sys tsystem.System, maxStates int, visit func(transition.State) (bool, error)) error {
	init, err := sys.Initial()
	if err != nil {
		return err
	}
	bounds := sys.MaxBounds()

	visited := map[string]bool{}
	queue := []transition.State{init}
	visited[init.Loc.Key()] = true

	actions := append(append([]string{}, sys.InputActions()...), sys.OutputActions()...)

	for len(queue) > 0 && len(visited) <= maxStates {
		cur := queue[0]
		queue = queue[1:]

		cont, err := visit(cur)
		if err != nil {
			return err
		}
		if !cont {
			continue
		}

		for _, act := range actions {
			kind := kindOf(sys, act)
			trans, err := sys.Next(cur.Loc, act, kind)
			if err != nil {
				return err
			}
			for _, tr := range trans {
				next, ok, err := tr.UseTransition(cur)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				zone, err := next.Zone.ExtrapolateMaxBounds(bounds)
				if err != nil {
					return err
				}
				next.Zone = zone
				key := next.Loc.Key()
				if visited[key] {
					continue
				}
				visited[key] = true
				queue = append(queue, next)
			}
		}
	}
	return nil
}

func kindOf(sys tsystem.System, action string) component.SyncType {
	for _, a := range sys.InputActions() {
		if a == action {
			return component.Input
		}
	}
	return component.Output
}

// edgesAt returns every outgoing transition of state across every
// declared action, tagged with the action name.
func edgesAt(sys tsystem.System, loc *ltree.Tree) (map[string][]transition.Transition, error) {
	out := make(map[string][]transition.Transition)
	for _, act := range append(append([]string{}, sys.InputActions()...), sys.OutputActions()...) {
		trans, err := sys.Next(loc, act, kindOf(sys, act))
		if err != nil {
			return nil, err
		}
		if len(trans) > 0 {
			out[act] = trans
		}
	}
	return out, nil
}
