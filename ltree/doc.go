// Package ltree implements the location tree: an immutable structure
// mirroring the composition algebra's tree shape, where every node
// carries the intersected invariant federation of its subtree and a
// type tag used to resolve consistency across conjunction/composition.
//
// Two location trees compare equal iff structurally identical; the
// same composition always yields the same tree shape, so analyses can
// share subtrees across millions of explored states instead of
// deep-copying.
package ltree
