// Package dbm implements difference-bound matrices and federations —
// the symbolic representation of clock valuations used by every higher
// layer of the model checker.
//
// A single DBM is a canonical (Floyd–Warshall closed) conjunction of
// constraints x_i - x_j ⪯ c over dimension D = 1 + n_clocks, where
// x_0 is the implicit zero clock. A Federation is a finite union of
// DBMs; it is the type every transition-system operation actually
// passes around (guards, invariants, reachable zones).
//
// Federations are treated as immutable values: every operation below
// returns a new Federation rather than mutating its receiver.
//
// # Determinism
//
// Canonicalization is deterministic given the same input constraints
// (Floyd–Warshall visits clocks 0..D-1 in index order), so two
// federations built from the same sequence of operations always
// compare equal.
package dbm
