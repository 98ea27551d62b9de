// Package component implements the compiled representation of a single
// timed automaton: its declarations (clock and integer-variable
// bookkeeping), locations, edges, clock-usage tracking, and the
// input-enabling transform that makes every location accept every
// declared input action.
//
// A Component starts as a plain data value (the loader's job, out of
// scope here, produces one). Compile resolves its guards, invariants
// and updates against its Declarations into expr.Guard / expr.Update
// values, yielding a CompiledComponent ready for the transition-system
// leaf in package tsystem.
package component
