package component

import "fmt"

// AssignStableIDs renumbers every compiled edge as E0, E1, … in
// current order. This runs last, after input-enabling
// has added its self-loop edges, so ids are stable across the whole
// final edge set rather than just the loader-supplied ones.
func AssignStableIDs(cc *CompiledComponent) {
	for i := range cc.Edges {
		cc.Edges[i].ID = fmt.Sprintf("E%d", i)
	}
}
