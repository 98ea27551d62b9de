// Package transition implements the symbolic transition — a guard
// federation, a target location tree, and a list of compiled clock
// resets — together with the combinator used by every composition
// operator to build product transitions, and the fixed
// guard→update→delay→invariant application order every analysis
// relies on; reordering it breaks refinement.
package transition
