// Package clockreduce implements the two clock-reduction passes run
// on a component before compilation: removing clocks
// that never appear in a guard or invariant, and merging clocks that
// every edge treats identically (same constant reset, or no reset at
// all, on every edge).
//
// Whether reduction runs is decided once, by the disableReduction flag
// of tsystem.Prepare; it is not switched off per query kind, so a
// reachability goal naming a clock that reduction removed or merged
// away does not resolve.
package clockreduce
