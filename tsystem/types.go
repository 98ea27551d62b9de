package tsystem

import (
	"errors"

	"github.com/katalvlaran/tazone/component"
	"github.com/katalvlaran/tazone/ltree"
	"github.com/katalvlaran/tazone/transition"
)

// Sentinel errors surfaced while building or querying a system.
var (
	// ErrLocationNotOwned is returned when Next is asked to fire a
	// location tree this system did not produce.
	ErrLocationNotOwned = errors.New("tsystem: location tree does not belong to this system")

	// ErrOutputsNotDisjoint is the parallel-composition precondition
	// failure: both operands declare the same output action.
	ErrOutputsNotDisjoint = errors.New("tsystem: operands share an output action")

	// ErrAlphabetMismatch is the conjunction precondition failure: one
	// operand's input set overlaps the other's output set.
	ErrAlphabetMismatch = errors.New("tsystem: one operand's inputs overlap the other's outputs")

	// ErrQuotientPrecondition is returned when the divisor outputs an
	// action the dividend consumes as input.
	ErrQuotientPrecondition = errors.New("tsystem: divisor outputs an action the dividend consumes as input")
)

// System is the common interface every leaf and every composed
// transition system satisfies.
type System interface {
	// Dim returns the shared global federation dimension.
	Dim() int
	// InputActions returns the distinct input action names.
	InputActions() []string
	// OutputActions returns the distinct output action names.
	OutputActions() []string
	// Initial returns the system's initial symbolic state.
	Initial() (transition.State, error)
	// Next returns every transition available from loc on the given
	// sync name and direction. loc must be a tree this system produced
	// (via Initial or a prior Next call); an unrecognized tree returns
	// ErrLocationNotOwned.
	Next(loc *ltree.Tree, sync string, kind component.SyncType) ([]transition.Transition, error)
	// MaxBounds returns, indexed by global clock index (0 unused), the
	// largest constant each clock is ever compared against — the input
	// to extrapolation-based exploration.
	MaxBounds() []int
}

func hasAction(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func unionActions(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, n := range a {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	for _, n := range b {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

func subtractActions(a, b []string) []string {
	var out []string
	for _, n := range a {
		if !hasAction(b, n) {
			out = append(out, n)
		}
	}
	return out
}

func intersectActions(a, b []string) []string {
	var out []string
	for _, n := range a {
		if hasAction(b, n) {
			out = append(out, n)
		}
	}
	return out
}

func overlapActions(a, b []string) bool {
	for _, n := range a {
		if hasAction(b, n) {
			return true
		}
	}
	return false
}

func mergeBounds(a, b []int) []int {
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
