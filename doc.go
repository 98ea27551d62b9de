// Package tazone is a symbolic model checker for networks of timed
// automata: zones represented as difference-bound-matrix federations,
// components compiled from declarations and compared/composed/divided
// under conjunction, parallel composition and quotient, and explored
// for refinement, local consistency, determinism and reachability.
//
// The core is organized as a set of small, single-concern packages,
// each with its own doc.go, sentinel errors and _test.go file, with no
// package reaching outside its own dependencies unless composition
// requires it:
//
//	dbm/         — difference-bound matrices and federations (zones)
//	expr/        — arithmetic/boolean expression compilation to guards
//	component/   — declarations, locations, edges, compiled components
//	ltree/       — location trees shared across composed systems
//	transition/  — symbolic transitions and state stepping
//	tsystem/     — the System interface: leaves, conjunction,
//	               composition, quotient, and the save-as flattener
//	clockreduce/ — static removal of redundant clocks before compilation
//	analysis/    — refinement, consistency, determinism, reachability
//
// Around that core sit the service-facing packages a real deployment
// needs but the checking algorithms themselves do not:
//
//	recipe/      — the sys_expr/state_expr query grammar, the Build
//	               step that turns a parsed query into a tsystem.System
//	               with every operator precondition checked up front,
//	               and the Settings/Run entry points tying everything
//	               together for a caller
//	cache/       — a reference-counted, LRU-bounded component cache
//	worker/      — a bounded-concurrency pool for running independent
//	               queries, with panic recovery per job
//	internal/obslog/ — the shared structured logger those two use
//
// Start at recipe.ParseQuery and recipe.Run for the query surface, or
// at tsystem.Prepare if you are assembling a System by hand.
package tazone
