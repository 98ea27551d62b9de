// Package cache implements the component cache: a reference-counted,
// LRU-bounded store of compiled components keyed by the owning user
// and a content hash, so repeated refinement/reachability queries
// against the same declared component skip re-parsing and re-running
// clock reduction.
//
// Concurrent checkouts of a key that is not yet cached are
// deduplicated with a singleflight group so N simultaneous requests
// for the same uncached component trigger exactly one build.
package cache
